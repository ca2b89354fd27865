package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/bbmigrate/config"
	"github.com/spiffcs/bbmigrate/internal/bitbucket"
	"github.com/spiffcs/bbmigrate/internal/duration"
	"github.com/spiffcs/bbmigrate/internal/ghclient"
	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/migrate"
	"github.com/spiffcs/bbmigrate/internal/output"
	"github.com/spiffcs/bbmigrate/internal/poll"
)

var (
	_ migrate.SourcePlatform      = (*bitbucket.Client)(nil)
	_ migrate.DestinationPlatform = (*ghclient.Client)(nil)
)

// credentialChecker verifies source credentials before the run starts.
type credentialChecker interface {
	Ping(ctx context.Context) error
}

// userResolver returns the login behind the destination token.
type userResolver interface {
	AuthenticatedUser(ctx context.Context) (string, error)
}

func runMigrate(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	settings, err := resolveSettings(cfg, opts)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(firstNonEmpty(opts.Format, cfg.DefaultFormat))
	if err != nil {
		return err
	}

	source, err := bitbucket.NewClient(bitbucket.ClientConfig{
		BaseURL:     settings.SourceBaseURL,
		Workspace:   settings.Workspace,
		Username:    settings.SourceUsername,
		AppPassword: settings.SourcePassword,
		PageSize:    settings.PageSize,
		LabelSource: settings.LabelSource,
	}, nil)
	if err != nil {
		return err
	}

	var ghOpts []ghclient.Option
	if settings.DestinationURL != "" {
		ghOpts = append(ghOpts, ghclient.WithBaseURL(settings.DestinationURL))
	}
	dest, err := ghclient.NewClient(ctx, settings.DestinationToken, ghOpts...)
	if err != nil {
		return err
	}

	owner, err := preflight(ctx, source, dest, settings)
	if err != nil {
		return err
	}

	driver, err := migrate.NewDriver(source, dest, migrate.Config{
		Organization: settings.Organization,
		Team:         settings.Team,
		Owner:        owner,
		Credentials: migrate.Credentials{
			Username: source.Username(),
			Password: source.AppPassword(),
		},
		Policy: poll.Policy{
			Interval: settings.PollInterval,
			Timeout:  settings.ImportTimeout,
		},
		Include: settings.Include,
		Exclude: settings.Exclude,
		DryRun:  opts.DryRun,
	})
	if err != nil {
		return err
	}

	log.Stage("starting migration", "workspace", settings.Workspace, "owner", owner, "dry_run", opts.DryRun)
	summary, runErr := driver.Run(ctx)

	if remaining, limit, resetAt, limited := dest.RateLimitState().Status(); limited {
		log.Warn("GitHub rate limit exhausted", "limit", limit, "resets_at", resetAt)
	} else if remaining >= 0 {
		log.Debug("GitHub rate limit", "remaining", remaining, "limit", limit)
	}

	if err := output.NewFormatter(format).Format(summary, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("migration stopped: %w", runErr)
	}
	return nil
}

// resolveSettings applies command-line overrides on top of the loaded
// config and validates the result.
func resolveSettings(cfg *config.Config, opts *Options) (config.Settings, error) {
	settings, err := cfg.Resolve()
	if err != nil {
		return config.Settings{}, err
	}

	settings.Include = append(settings.Include, opts.Include...)
	settings.Exclude = append(settings.Exclude, opts.Exclude...)

	if opts.PollInterval != "" {
		if settings.PollInterval, err = duration.Parse(opts.PollInterval); err != nil {
			return config.Settings{}, fmt.Errorf("invalid --poll-interval: %w", err)
		}
	}
	if opts.Timeout != "" {
		if settings.ImportTimeout, err = duration.Parse(opts.Timeout); err != nil {
			return config.Settings{}, fmt.Errorf("invalid --import-timeout: %w", err)
		}
	}

	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

var errUserMismatch = errors.New("destination user does not own the token")

// preflight checks both platforms' credentials concurrently and returns the
// owner repositories are created under. A configured destination.username
// must name the token owner.
func preflight(ctx context.Context, source credentialChecker, dest userResolver, settings config.Settings) (string, error) {
	var login string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := source.Ping(gctx); err != nil {
			return fmt.Errorf("%w: %w", migrate.ErrSourceUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		user, err := dest.AuthenticatedUser(gctx)
		if err != nil {
			return err
		}
		login = user
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("preflight failed: %w", err)
	}

	log.Info("credentials verified", "github_user", login, "workspace", settings.Workspace)
	if settings.Organization != "" {
		return settings.Organization, nil
	}
	// User-scoped repositories are always created under the token owner.
	if settings.DestinationUser != "" && !strings.EqualFold(settings.DestinationUser, login) {
		return "", fmt.Errorf("%w: destination.username %q, token owner %q",
			errUserMismatch, settings.DestinationUser, login)
	}
	return login, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
