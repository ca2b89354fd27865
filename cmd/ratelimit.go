package cmd

import (
	"fmt"
	"io"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/spiffcs/bbmigrate/config"
	"github.com/spiffcs/bbmigrate/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	return &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long: `Display current GitHub API rate limit status, including the
source import quota used by history imports.`,
		RunE: runRateLimit,
	}
}

func runRateLimit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token := cfg.GetGitHubToken()
	if token == "" {
		return fmt.Errorf("GitHub token not configured. Set the %s environment variable", config.EnvGitHubToken)
	}

	var opts []ghclient.Option
	if cfg.Destination != nil && cfg.Destination.BaseURL != "" {
		opts = append(opts, ghclient.WithBaseURL(cfg.Destination.BaseURL))
	}
	client, err := ghclient.NewClient(cmd.Context(), token, opts...)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	printRateLimits(cmd.OutOrStdout(), limits, time.Now())
	return nil
}

func printRateLimits(w io.Writer, limits *gh.RateLimits, now time.Time) {
	fmt.Fprintln(w, "GitHub API Rate Limits:")
	fmt.Fprintln(w)

	rows := []struct {
		label string
		rate  *gh.Rate
	}{
		{"Core API:     ", limits.Core},
		{"Source import:", limits.SourceImport},
		{"Search API:   ", limits.Search},
	}
	for _, row := range rows {
		if row.rate == nil {
			continue
		}
		resetIn := max(row.rate.Reset.Time.Sub(now).Round(time.Second), 0)
		fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n",
			row.label, row.rate.Remaining, row.rate.Limit, resetIn)
	}
}
