package migrate

import (
	"context"
	"fmt"

	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// PullRequestLister is the part of the source platform the porter reads.
type PullRequestLister interface {
	PullRequests(ctx context.Context, repoSlug string) ([]model.PullRequestRecord, error)
}

// Porter recreates source pull requests on the destination repository.
type Porter struct {
	source PullRequestLister
	dest   PullRequestCreator
}

// NewPorter creates a porter.
func NewPorter(source PullRequestLister, dest PullRequestCreator) *Porter {
	return &Porter{source: source, dest: dest}
}

// Port opens one destination pull request per source pull request, in
// source order, and applies its labels. A failure on one pull request is
// recorded in its result and the loop moves on. Actions are re-enabled on
// the repository afterwards, also when there was nothing to port.
//
// Failing to list the source pull requests or to re-enable actions is
// returned as an error.
func (p *Porter) Port(ctx context.Context, owner, repo, sourceSlug string) ([]model.PullRequestResult, error) {
	prs, err := p.source.PullRequests(ctx, sourceSlug)
	if err != nil {
		return nil, fmt.Errorf("list pull requests of %s: %w: %w", sourceSlug, ErrSourceUnavailable, err)
	}

	results := make([]model.PullRequestResult, 0, len(prs))
	if len(prs) == 0 {
		log.Info("no pull requests to port", "repo", repo)
	}

	for _, pr := range prs {
		results = append(results, p.portOne(ctx, owner, repo, pr))
	}

	if err := p.dest.SetActionsEnabled(ctx, owner, repo, true); err != nil {
		return results, fmt.Errorf("enable actions: %w", err)
	}
	return results, nil
}

func (p *Porter) portOne(ctx context.Context, owner, repo string, pr model.PullRequestRecord) model.PullRequestResult {
	result := model.PullRequestResult{Source: pr}

	number, err := p.dest.CreatePullRequest(ctx, owner, repo, model.NewPullRequest{
		Title: pr.Title,
		Body:  pr.Description,
		Head:  pr.SourceBranch,
		Base:  pr.DestinationBranch,
	})
	if err != nil {
		result.Err = fmt.Errorf("%w: #%d %q: %w", ErrPort, pr.ID, pr.Title, err)
		log.Warn("failed to create pull request", "repo", repo, "source_id", pr.ID, "error", err)
		return result
	}
	result.Number = number
	log.Info("pull request created", "repo", repo, "source_id", pr.ID, "number", number)

	if len(pr.Labels) == 0 {
		return result
	}
	if err := p.dest.AddLabels(ctx, owner, repo, number, pr.Labels); err != nil {
		result.Err = fmt.Errorf("%w: labels on #%d: %w", ErrPort, number, err)
		log.Warn("failed to label pull request", "repo", repo, "number", number, "error", err)
	}
	return result
}

// countResults splits results into ported and failed pull requests.
func countResults(results []model.PullRequestResult) (ported, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		ported++
	}
	return ported, failed
}
