package ghclient

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// StartImport submits a source import job for an empty repository.
func (c *Client) StartImport(ctx context.Context, owner, repo string, req model.ImportRequest) (model.ImportJob, error) {
	in := &gh.Import{
		VCS:         gh.String(req.VCS),
		VCSURL:      gh.String(req.VCSURL),
		VCSUsername: gh.String(req.VCSUsername),
		VCSPassword: gh.String(req.VCSPassword),
	}
	if req.TFVCProject != "" {
		in.TFVCProject = gh.String(req.TFVCProject)
	}

	log.Debug("starting import", "owner", owner, "repo", repo, "vcs", req.VCS)
	imp, _, err := c.client.Migrations.StartImport(ctx, owner, repo, in)
	if err != nil {
		return model.ImportJob{}, fmt.Errorf("failed to start import into %s/%s: %w", owner, repo, err)
	}
	return model.ImportJob{
		Status:    model.ImportStatus(imp.GetStatus()),
		StartedAt: time.Now(),
	}, nil
}

// ImportStatus fetches the current status of the repository's import job.
func (c *Client) ImportStatus(ctx context.Context, owner, repo string) (model.ImportStatus, error) {
	imp, _, err := c.client.Migrations.ImportProgress(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("failed to get import status of %s/%s: %w", owner, repo, err)
	}
	log.Trace("import progress", "repo", repo, "status", imp.GetStatus(), "text", imp.GetStatusText())
	return model.ImportStatus(imp.GetStatus()), nil
}
