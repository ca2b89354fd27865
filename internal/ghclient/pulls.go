package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// CreatePullRequest opens a pull request and returns its number.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, pr model.NewPullRequest) (int, error) {
	log.Debug("creating pull request", "repo", repo, "head", pr.Head, "base", pr.Base)
	created, _, err := c.client.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.String(pr.Title),
		Body:  gh.String(pr.Body),
		Head:  gh.String(pr.Head),
		Base:  gh.String(pr.Base),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create pull request %q in %s/%s: %w", pr.Title, owner, repo, err)
	}
	return created.GetNumber(), nil
}

// AddLabels attaches labels to an issue or pull request.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	log.Debug("adding labels", "repo", repo, "number", number, "labels", labels)
	if _, _, err := c.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels); err != nil {
		return fmt.Errorf("failed to add labels to #%d in %s/%s: %w", number, owner, repo, err)
	}
	return nil
}
