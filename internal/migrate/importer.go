package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/spiffcs/bbmigrate/internal/constants"
	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
	"github.com/spiffcs/bbmigrate/internal/poll"
)

// Importer submits a history import and waits for it to finish.
type Importer struct {
	dest   ImportService
	policy poll.Policy
}

// NewImporter creates an importer that waits according to policy.
func NewImporter(dest ImportService, policy poll.Policy) *Importer {
	return &Importer{dest: dest, policy: policy}
}

// Import starts importing cloneURL into owner/repo and polls until the job
// reaches a terminal status or the policy budget is spent. It returns true
// only when the job completed. An import that errored, ended in another
// terminal status or timed out returns false with a nil error. Failing to
// submit the job or to fetch its status is returned as an error.
func (i *Importer) Import(ctx context.Context, owner, repo, cloneURL string, creds Credentials, branchHint string) (bool, error) {
	job, err := i.dest.StartImport(ctx, owner, repo, model.ImportRequest{
		VCS:         constants.ImportVCS,
		VCSURL:      cloneURL,
		VCSUsername: creds.Username,
		VCSPassword: creds.Password,
		TFVCProject: branchHint,
	})
	if err != nil {
		return false, fmt.Errorf("start import: %w", err)
	}
	log.Info("import started", "repo", repo, "status", job.Status)

	last := job.Status
	res, err := i.policy.Wait(ctx, func(ctx context.Context) (bool, error) {
		status, err := i.dest.ImportStatus(ctx, owner, repo)
		if err != nil {
			return false, err
		}
		if status != last {
			log.ProgressClear()
			log.Info("import status changed", "repo", repo, "status", status)
			last = status
		}
		log.Progress("Importing %s: %s", repo, status)
		return status.Terminal(), nil
	})
	log.ProgressClear()
	if err != nil {
		return false, fmt.Errorf("import status: %w", err)
	}

	switch {
	case res.TimedOut:
		log.Warn("import did not finish in time", "repo", repo, "status", last,
			"attempts", res.Attempts, "elapsed", res.Elapsed.Round(time.Second),
			"err", ErrImportIncomplete)
		return false, nil
	case last != model.ImportStatusComplete:
		log.Warn("import ended without completing", "repo", repo, "status", last,
			"err", ErrImportIncomplete)
		return false, nil
	}

	log.Info("import complete", "repo", repo, "attempts", res.Attempts, "elapsed", res.Elapsed.Round(time.Second))
	return true, nil
}
