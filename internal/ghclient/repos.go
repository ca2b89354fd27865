package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// CreateRepository creates a repository under req.Organization, or under
// the authenticated user when Organization is empty. It returns the name
// GitHub assigned.
func (c *Client) CreateRepository(ctx context.Context, req model.CreateRepositoryRequest) (string, error) {
	repo := &gh.Repository{
		Name:    gh.String(req.Name),
		Private: gh.Bool(req.Private),
	}
	if req.DefaultBranch != "" {
		repo.DefaultBranch = gh.String(req.DefaultBranch)
	}
	if req.Description != "" {
		repo.Description = gh.String(req.Description)
	}

	log.Debug("creating repository", "org", req.Organization, "name", req.Name)
	created, _, err := c.client.Repositories.Create(ctx, req.Organization, repo)
	if err != nil {
		return "", fmt.Errorf("failed to create repository %s: %w", req.Name, err)
	}
	return created.GetName(), nil
}

// GrantTeamPermission gives an organization team a permission on a repository.
func (c *Client) GrantTeamPermission(ctx context.Context, org, teamSlug, repo, permission string) error {
	log.Debug("granting team permission", "org", org, "team", teamSlug, "repo", repo, "permission", permission)
	_, err := c.client.Teams.AddTeamRepoBySlug(ctx, org, teamSlug, org, repo, &gh.TeamAddTeamRepoOptions{
		Permission: permission,
	})
	if err != nil {
		return fmt.Errorf("failed to grant %s on %s to team %s: %w", permission, repo, teamSlug, err)
	}
	return nil
}

// SetActionsEnabled enables or disables GitHub Actions for a repository.
func (c *Client) SetActionsEnabled(ctx context.Context, owner, repo string, enabled bool) error {
	log.Debug("setting actions permissions", "owner", owner, "repo", repo, "enabled", enabled)
	_, _, err := c.client.Repositories.EditActionsPermissions(ctx, owner, repo, gh.ActionsPermissionsRepository{
		Enabled: gh.Bool(enabled),
	})
	if err != nil {
		return fmt.Errorf("failed to set actions enabled=%t on %s/%s: %w", enabled, owner, repo, err)
	}
	return nil
}

// ReplaceTopics sets the repository topics to exactly the given names.
func (c *Client) ReplaceTopics(ctx context.Context, owner, repo string, topics []string) error {
	log.Debug("replacing topics", "owner", owner, "repo", repo, "topics", topics)
	if _, _, err := c.client.Repositories.ReplaceAllTopics(ctx, owner, repo, topics); err != nil {
		return fmt.Errorf("failed to set topics on %s/%s: %w", owner, repo, err)
	}
	return nil
}

// SetDefaultBranch updates the repository's default branch.
func (c *Client) SetDefaultBranch(ctx context.Context, owner, repo, branch string) error {
	log.Debug("setting default branch", "owner", owner, "repo", repo, "branch", branch)
	_, _, err := c.client.Repositories.Edit(ctx, owner, repo, &gh.Repository{
		Name:          gh.String(repo),
		DefaultBranch: gh.String(branch),
	})
	if err != nil {
		return fmt.Errorf("failed to set default branch of %s/%s to %s: %w", owner, repo, branch, err)
	}
	return nil
}
