// Package bitbucket reads repositories and pull requests from a Bitbucket
// Cloud workspace.
package bitbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/spiffcs/bbmigrate/internal/constants"
	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// ErrUnauthorized is returned when Bitbucket rejects the credentials.
var ErrUnauthorized = errors.New("bitbucket: authentication failed")

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitbucket API returned status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps authentication failures onto ErrUnauthorized.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL     string // defaults to the Bitbucket Cloud API
	Workspace   string
	Username    string
	AppPassword string
	PageSize    int
	LabelSource string // pull request property namespace holding labels
}

// Client is a Bitbucket Cloud REST client scoped to one workspace.
type Client struct {
	baseURL     string
	workspace   string
	username    string
	// appPassword must never reach logs or encoded output.
	appPassword string
	pageSize    int
	labelSource string
	httpClient  HTTPClient
}

// NewClient creates a new Bitbucket client. A nil httpClient uses a client
// with the default request timeout.
func NewClient(cfg ClientConfig, httpClient HTTPClient) (*Client, error) {
	if cfg.Workspace == "" {
		return nil, fmt.Errorf("bitbucket workspace not provided")
	}
	if cfg.Username == "" || cfg.AppPassword == "" {
		return nil, fmt.Errorf("bitbucket username and app password are required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.HTTPTimeout}
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.BitbucketAPIURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	labelSource := cfg.LabelSource
	if labelSource == "" {
		labelSource = constants.DefaultLabelSource
	}

	return &Client{
		baseURL:     baseURL,
		workspace:   cfg.Workspace,
		username:    cfg.Username,
		appPassword: cfg.AppPassword,
		pageSize:    pageSize,
		labelSource: labelSource,
		httpClient:  httpClient,
	}, nil
}

// Workspace returns the workspace the client reads from.
func (c *Client) Workspace() string {
	return c.workspace
}

// Username returns the Bitbucket user the client authenticates as.
func (c *Client) Username() string {
	return c.username
}

// AppPassword returns the app password, for handing to the destination
// importer only.
func (c *Client) AppPassword() string {
	return c.appPassword
}

// Ping verifies the credentials by fetching the authenticated user.
func (c *Client) Ping(ctx context.Context) error {
	var user bitbucketUser
	if err := c.doRequest(ctx, c.baseURL+"/user", &user); err != nil {
		return fmt.Errorf("failed to verify bitbucket credentials: %w", err)
	}
	log.Debug("bitbucket credentials verified", "user", user.Username)
	return nil
}

// Repositories returns every repository in the workspace, fetching pages on
// demand in ascending page order. Each call starts again from the first page.
func (c *Client) Repositories(ctx context.Context) iter.Seq2[model.RepositoryDescriptor, error] {
	first := c.pageURL(fmt.Sprintf("/repositories/%s", url.PathEscape(c.workspace)))
	pager := newPager[bitbucketRepository](c, first)

	return func(yield func(model.RepositoryDescriptor, error) bool) {
		for repo, err := range pager.All(ctx) {
			if err != nil {
				yield(model.RepositoryDescriptor{}, fmt.Errorf("failed to list repositories in %s: %w", c.workspace, err))
				return
			}
			if !yield(convertRepository(repo), nil) {
				return
			}
		}
	}
}

// ListRepositories collects Repositories into a slice.
func (c *Client) ListRepositories(ctx context.Context) ([]model.RepositoryDescriptor, error) {
	var repos []model.RepositoryDescriptor
	for repo, err := range c.Repositories(ctx) {
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// PullRequests returns every pull request of a repository in listing order.
// An empty slice means the repository has none.
func (c *Client) PullRequests(ctx context.Context, repoSlug string) ([]model.PullRequestRecord, error) {
	first := c.pageURL(fmt.Sprintf("/repositories/%s/%s/pullrequests",
		url.PathEscape(c.workspace), url.PathEscape(repoSlug)))
	pager := newPager[bitbucketPullRequest](c, first)

	prs := []model.PullRequestRecord{}
	for pr, err := range pager.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s: %w", repoSlug, err)
		}
		prs = append(prs, c.convertPullRequest(pr))
	}
	return prs, nil
}

// CloneURL returns the HTTPS clone URL of a repository with the username
// embedded. The password is passed to the importer separately.
func (c *Client) CloneURL(repoSlug string) string {
	return fmt.Sprintf("https://%s@%s/%s/%s.git",
		url.PathEscape(c.username), constants.BitbucketCloneHost,
		url.PathEscape(c.workspace), url.PathEscape(repoSlug))
}

func (c *Client) pageURL(path string) string {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("pagelen", fmt.Sprintf("%d", c.pageSize))
	return c.baseURL + path + "?" + q.Encode()
}

// doRequest performs an authenticated GET and decodes the JSON body.
func (c *Client) doRequest(ctx context.Context, rawURL string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.appPassword)
	req.Header.Set("Accept", "application/json")

	log.Trace("bitbucket request", "url", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var apiErr bitbucketError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return strings.TrimSpace(string(body))
}

func convertRepository(r bitbucketRepository) model.RepositoryDescriptor {
	desc := model.RepositoryDescriptor{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
	if r.MainBranch != nil {
		desc.DefaultBranch = r.MainBranch.Name
	}
	if r.Project != nil {
		desc.ProjectName = r.Project.Name
	}
	return desc
}

func (c *Client) convertPullRequest(pr bitbucketPullRequest) model.PullRequestRecord {
	return model.PullRequestRecord{
		ID:                pr.ID,
		Title:             pr.Title,
		Description:       pr.Description,
		SourceBranch:      pr.Source.Branch.Name,
		DestinationBranch: pr.Destination.Branch.Name,
		Labels:            c.labels(pr),
	}
}

// labels reads properties.<labelSource>.labels.values. Pull requests
// without that namespace, or with one of a different shape, have no labels.
func (c *Client) labels(pr bitbucketPullRequest) []string {
	raw, ok := pr.Properties[c.labelSource]
	if !ok {
		return nil
	}
	var prop labelProperty
	if err := json.Unmarshal(raw, &prop); err != nil {
		log.Debug("ignoring malformed label property", "pr", pr.ID, "namespace", c.labelSource, "error", err)
		return nil
	}
	return prop.Labels.Values
}
