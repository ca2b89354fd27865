package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		BaseURL:     server.URL,
		Workspace:   "acme",
		Username:    "jdoe",
		AppPassword: "secret",
		PageSize:    2,
	}, server.Client())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client, server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(ClientConfig{Username: "u", AppPassword: "p"}, nil); err == nil {
		t.Error("expected error without workspace")
	}
	if _, err := NewClient(ClientConfig{Workspace: "w"}, nil); err == nil {
		t.Error("expected error without credentials")
	}
}

func TestRepositoriesFollowsAllPages(t *testing.T) {
	var serverURL string
	var requests []string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jdoe" || pass != "secret" {
			t.Errorf("expected basic auth jdoe/secret, got %q/%q", user, pass)
		}
		requests = append(requests, r.URL.RawQuery)

		switch r.URL.Query().Get("page") {
		case "1":
			if r.URL.Query().Get("pagelen") != "2" {
				t.Errorf("expected pagelen=2, got %q", r.URL.Query().Get("pagelen"))
			}
			fmt.Fprintf(w, `{"page":1,"size":3,"values":[
				{"name":"My_Repo","slug":"my_repo","mainbranch":{"name":"main"},"project":{"name":"core"},"description":"first"},
				{"name":"Widget","slug":"widget","mainbranch":{"name":"develop"}}
			],"next":"%s/repositories/acme?page=2&pagelen=2"}`, serverURL)
		case "2":
			fmt.Fprint(w, `{"page":2,"size":3,"values":[{"name":"Last","slug":"last"}]}`)
		default:
			t.Errorf("unexpected page request %q", r.URL.RawQuery)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	serverURL = server.URL

	repos, err := client.ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("ListRepositories() error: %v", err)
	}
	if len(repos) != 3 {
		t.Fatalf("expected 3 repositories, got %d", len(repos))
	}
	if repos[0].Name != "My_Repo" || repos[0].Slug != "my_repo" || repos[0].DefaultBranch != "main" ||
		repos[0].ProjectName != "core" || repos[0].Description != "first" {
		t.Errorf("unexpected first repository: %+v", repos[0])
	}
	if repos[1].ProjectName != "" {
		t.Errorf("expected no project on second repository, got %q", repos[1].ProjectName)
	}
	if repos[2].Name != "Last" || repos[2].DefaultBranch != "" {
		t.Errorf("unexpected last repository: %+v", repos[2])
	}
	if len(requests) != 2 {
		t.Errorf("expected 2 page requests, got %d", len(requests))
	}

	// a second walk starts again from page one
	requests = nil
	again, err := client.ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("second ListRepositories() error: %v", err)
	}
	if len(again) != 3 || len(requests) != 2 {
		t.Errorf("expected restartable listing, got %d repos over %d requests", len(again), len(requests))
	}
}

func TestRepositoriesStopsEarly(t *testing.T) {
	calls := 0
	var serverURL string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"values":[{"name":"a"},{"name":"b"}],"next":"%s/repositories/acme?page=2"}`, serverURL)
	})
	serverURL = server.URL

	for repo, err := range client.Repositories(context.Background()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.Name == "a" {
			break
		}
	}
	if calls != 1 {
		t.Errorf("expected only the first page to be fetched, got %d requests", calls)
	}
}

func TestRepositoriesDetectsPaginationLoop(t *testing.T) {
	var serverURL string
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"values":[{"name":"a"}],"next":"%s/repositories/acme?page=1&pagelen=2"}`, serverURL)
	})
	serverURL = server.URL

	_, err := client.ListRepositories(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pagination loop") {
		t.Fatalf("expected pagination loop error, got %v", err)
	}
}

func TestRepositoriesUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"type":"error","error":{"message":"Invalid credentials"}}`)
	})

	_, err := client.ListRepositories(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Errorf("expected APIError with message, got %v", err)
	}
}

func TestPullRequests(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repositories/acme/my_repo/pullrequests" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"values":[
			{"id":1,"title":"Add feature","description":"does things",
			 "source":{"branch":{"name":"feature/x"}},"destination":{"branch":{"name":"main"}},
			 "properties":{"openjdk":{"labels":{"values":["bug","ui"]}}}},
			{"id":2,"title":"No labels","source":{"branch":{"name":"fix"}},"destination":{"branch":{"name":"main"}},
			 "properties":{"openjdk":"unexpected shape"}}
		]}`)
	})

	prs, err := client.PullRequests(context.Background(), "my_repo")
	if err != nil {
		t.Fatalf("PullRequests() error: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("expected 2 pull requests, got %d", len(prs))
	}
	first := prs[0]
	if first.Title != "Add feature" || first.Description != "does things" ||
		first.SourceBranch != "feature/x" || first.DestinationBranch != "main" {
		t.Errorf("unexpected pull request: %+v", first)
	}
	if len(first.Labels) != 2 || first.Labels[0] != "bug" || first.Labels[1] != "ui" {
		t.Errorf("unexpected labels: %v", first.Labels)
	}
	if len(prs[1].Labels) != 0 {
		t.Errorf("expected malformed labels to be ignored, got %v", prs[1].Labels)
	}
}

func TestPullRequestsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"values":[]}`)
	})

	prs, err := client.PullRequests(context.Background(), "widget")
	if err != nil {
		t.Fatalf("PullRequests() error: %v", err)
	}
	if prs == nil || len(prs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", prs)
	}
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"username":"jdoe"}`)
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestCloneURL(t *testing.T) {
	tests := []struct {
		workspace string
		slug      string
		want      string
	}{
		{workspace: "acme", slug: "my_repo", want: "https://jdoe@bitbucket.org/acme/my_repo.git"},
		{workspace: "acme", slug: "my repo", want: "https://jdoe@bitbucket.org/acme/my%20repo.git"},
		{workspace: "acme", slug: "a/b", want: "https://jdoe@bitbucket.org/acme/a%2Fb.git"},
		{workspace: "acme corp", slug: "widget", want: "https://jdoe@bitbucket.org/acme%20corp/widget.git"},
	}

	for _, tt := range tests {
		t.Run(tt.workspace+"/"+tt.slug, func(t *testing.T) {
			client, err := NewClient(ClientConfig{Workspace: tt.workspace, Username: "jdoe", AppPassword: "secret"}, nil)
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}
			if got := client.CloneURL(tt.slug); got != tt.want {
				t.Errorf("CloneURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
