// Package migrate moves repositories from the source platform to the
// destination one, a repository at a time.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
	"github.com/spiffcs/bbmigrate/internal/naming"
	"github.com/spiffcs/bbmigrate/internal/poll"
)

// Config configures a migration run.
type Config struct {
	// Organization owns the created repositories. Empty means they are
	// created for the authenticated user named by Owner.
	Organization string
	// Team is granted admin on organization repositories. Optional.
	Team string
	// Owner is the account repositories are addressed under when
	// Organization is empty.
	Owner string

	Credentials Credentials
	Policy      poll.Policy

	// Include and Exclude are path.Match patterns on source repository
	// names. An empty Include selects everything.
	Include []string
	Exclude []string

	// DryRun lists and names repositories without touching the destination.
	DryRun bool
}

// Driver runs the per-repository state machine over every listed
// repository.
type Driver struct {
	source      SourcePlatform
	owner       string
	config      Config
	provisioner *Provisioner
	importer    *Importer
	porter      *Porter
	finalizer   *Finalizer
	now         func() time.Time
}

// NewDriver creates a driver. It fails when no owner can be determined or a
// filter pattern is malformed.
func NewDriver(source SourcePlatform, dest DestinationPlatform, cfg Config) (*Driver, error) {
	owner := cfg.Owner
	if cfg.Organization != "" {
		owner = cfg.Organization
	}
	if owner == "" && !cfg.DryRun {
		return nil, errors.New("destination owner is required when no organization is set")
	}
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid repository pattern %q: %w", pattern, err)
		}
	}

	return &Driver{
		source:      source,
		owner:       owner,
		config:      cfg,
		provisioner: NewProvisioner(dest, cfg.Organization, cfg.Team),
		importer:    NewImporter(dest, cfg.Policy),
		porter:      NewPorter(source, dest),
		finalizer:   NewFinalizer(dest),
		now:         time.Now,
	}, nil
}

// Run migrates every selected repository in listing order. A repository
// whose creation or import fails is skipped. Any other failure stops the
// run: the returned summary then holds the outcomes so far, including the
// failed one, and the error is returned alongside it.
func (d *Driver) Run(ctx context.Context) (model.Summary, error) {
	summary := model.Summary{DryRun: d.config.DryRun}

	fail := func(err error) (model.Summary, error) {
		summary.Fatal = err.Error()
		log.Error("migration stopped", "error", err)
		return summary, err
	}

	for repo, err := range d.source.Repositories(ctx) {
		if err != nil {
			return fail(fmt.Errorf("list repositories: %w: %w", ErrSourceUnavailable, err))
		}
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if !d.selected(repo.Name) {
			log.Debug("repository filtered out", "repo", repo.Name)
			continue
		}

		outcome, err := d.Migrate(ctx, repo)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if err != nil {
			return fail(err)
		}
	}

	succeeded, skipped, failed := summary.Counts()
	log.Stage("migration finished", "succeeded", succeeded, "skipped", skipped, "failed", failed)
	return summary, nil
}

// Migrate takes one repository through provision, import, pull request
// porting and finalization. Skips are reported through the outcome with a
// nil error. A non-nil error is fatal to the run.
func (d *Driver) Migrate(ctx context.Context, repo model.RepositoryDescriptor) (model.MigrationOutcome, error) {
	start := d.now()
	target := naming.Target(repo)
	out := model.MigrationOutcome{Target: target, Stage: model.StageListed}

	finish := func(err error) (model.MigrationOutcome, error) {
		out.Duration = d.now().Sub(start)
		if err != nil {
			out.Stage = model.StageFailed
			out.Reason = err.Error()
		}
		return out, err
	}

	log.Separator()
	log.Stage("migrating repository", "source", repo.Name, "destination", target.DestinationName)

	if d.config.DryRun {
		log.Info("dry run, skipping destination calls", "repo", target.DestinationName)
		return finish(nil)
	}

	name, err := d.provisioner.Provision(ctx, d.owner, target, repo.Description)
	if err != nil {
		var pe *ProvisionError
		if errors.As(err, &pe) && ctx.Err() == nil {
			out.Stage = model.StageSkippedAtProvision
			out.Reason = pe.Err.Error()
			log.Warn("skipping repository, creation failed", "repo", target.DestinationName, "error", pe.Err)
			return finish(nil)
		}
		out.Created = name != ""
		return finish(fmt.Errorf("provision %s: %w", target.DestinationName, err))
	}
	out.Created = true
	out.Target.DestinationName = name
	out.Stage = model.StageProvisioned

	cloneURL := d.source.CloneURL(repo.RepoSlug())
	imported, err := d.importer.Import(ctx, d.owner, name, cloneURL, d.config.Credentials, repo.DefaultBranch)
	if err != nil {
		return finish(fmt.Errorf("import %s: %w", name, err))
	}
	if !imported {
		out.Stage = model.StageSkippedAtImport
		out.Reason = ErrImportIncomplete.Error()
		return finish(nil)
	}
	out.Imported = true
	out.Stage = model.StageImported

	results, err := d.porter.Port(ctx, d.owner, name, repo.RepoSlug())
	out.PullRequestsPorted, out.PullRequestsFailed = countResults(results)
	if err != nil {
		return finish(fmt.Errorf("port pull requests of %s: %w", name, err))
	}
	out.Stage = model.StagePullRequestsPorted

	if err := d.finalizer.Finalize(ctx, d.owner, name, repo.DefaultBranch); err != nil {
		return finish(fmt.Errorf("finalize %s: %w", name, err))
	}
	out.Stage = model.StageFinalized
	log.Stage("repository migrated", "repo", name,
		"pull_requests", out.PullRequestsPorted, "pull_request_failures", out.PullRequestsFailed)

	return finish(nil)
}

// selected reports whether a source repository passes the include and
// exclude filters. Patterns were validated in NewDriver.
func (d *Driver) selected(name string) bool {
	for _, pattern := range d.config.Exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return false
		}
	}
	if len(d.config.Include) == 0 {
		return true
	}
	for _, pattern := range d.config.Include {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
