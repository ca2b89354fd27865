package migrate

import (
	"context"
	"iter"

	"github.com/spiffcs/bbmigrate/internal/model"
)

// SourcePlatform lists repositories and pull requests to migrate.
type SourcePlatform interface {
	// Repositories yields every repository of the workspace in listing
	// order. A non-nil error ends the sequence.
	Repositories(ctx context.Context) iter.Seq2[model.RepositoryDescriptor, error]
	// PullRequests returns all pull requests of a repository, or an empty
	// slice when it has none.
	PullRequests(ctx context.Context, repoSlug string) ([]model.PullRequestRecord, error)
	// CloneURL returns the URL the destination importer clones from.
	CloneURL(repoSlug string) string
}

// RepositoryCreator provisions destination repositories.
type RepositoryCreator interface {
	CreateRepository(ctx context.Context, req model.CreateRepositoryRequest) (string, error)
	GrantTeamPermission(ctx context.Context, org, teamSlug, repo, permission string) error
	SetActionsEnabled(ctx context.Context, owner, repo string, enabled bool) error
	ReplaceTopics(ctx context.Context, owner, repo string, topics []string) error
}

// ImportService runs server-side history imports.
type ImportService interface {
	StartImport(ctx context.Context, owner, repo string, req model.ImportRequest) (model.ImportJob, error)
	ImportStatus(ctx context.Context, owner, repo string) (model.ImportStatus, error)
}

// PullRequestCreator opens and labels pull requests.
type PullRequestCreator interface {
	CreatePullRequest(ctx context.Context, owner, repo string, pr model.NewPullRequest) (int, error)
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error
	SetActionsEnabled(ctx context.Context, owner, repo string, enabled bool) error
}

// BranchSetter updates a repository's default branch.
type BranchSetter interface {
	SetDefaultBranch(ctx context.Context, owner, repo, branch string) error
}

// DestinationPlatform is everything the driver needs from the destination.
type DestinationPlatform interface {
	RepositoryCreator
	ImportService
	PullRequestCreator
	BranchSetter
}

// Credentials are forwarded to the destination importer so it can clone
// from the source.
type Credentials struct {
	Username string
	Password string
}
