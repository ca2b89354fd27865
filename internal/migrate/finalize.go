package migrate

import (
	"context"
	"fmt"

	"github.com/spiffcs/bbmigrate/internal/log"
)

// Finalizer applies the repository settings that need imported history.
type Finalizer struct {
	dest BranchSetter
}

// NewFinalizer creates a finalizer.
func NewFinalizer(dest BranchSetter) *Finalizer {
	return &Finalizer{dest: dest}
}

// Finalize sets the default branch of owner/repo. An empty branch leaves
// the repository untouched.
func (f *Finalizer) Finalize(ctx context.Context, owner, repo, branch string) error {
	if branch == "" {
		log.Debug("no default branch to set", "repo", repo)
		return nil
	}
	if err := f.dest.SetDefaultBranch(ctx, owner, repo, branch); err != nil {
		return fmt.Errorf("set default branch: %w", err)
	}
	log.Info("default branch set", "repo", repo, "branch", branch)
	return nil
}
