package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "bbmigrate",
		Short: "Migrate Bitbucket Cloud repositories to GitHub",
		Long: `Migrates every repository of a Bitbucket Cloud workspace to GitHub.

For each repository bbmigrate creates a private GitHub repository, imports
its history, recreates its pull requests with their labels and sets the
default branch. Repositories that cannot be created or imported are
skipped; any other failure stops the run.

Credentials come from the environment:
  BITBUCKET_APP_PASSWORD  Bitbucket app password
  GITHUB_TOKEN            GitHub personal access token`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addMigrateFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}

// addMigrateFlags adds the migration flags to a command.
func addMigrateFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Summary format (table, json, markdown)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "List repositories and their GitHub names without migrating")
	cmd.Flags().StringSliceVar(&opts.Include, "include", nil, "Only migrate repositories matching these glob patterns")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Skip repositories matching these glob patterns")
	cmd.Flags().StringVar(&opts.PollInterval, "poll-interval", "", "Override the import status poll interval (e.g., 10s)")
	cmd.Flags().StringVar(&opts.Timeout, "import-timeout", "", "Override the per-repository import timeout (e.g., 30m, 1h)")
}
