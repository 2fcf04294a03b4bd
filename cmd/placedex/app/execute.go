package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the placedex CLI with the given arguments. This is the
// main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all
// subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "placedex",
		Short:   "Place catalog reconciliation CLI",
		Version: a.version,
		Long: `Placedex reconciles place records from scraped Google Places data
and Wikidata dumps into a single canonical catalog. Records sharing a
stable external key are deduplicated, classified against an ordered
rule table, and merged field by field against previously persisted
records.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Flags override config file and environment values.
			logger := NewLogger(a.config)
			a.logger = &logger
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.placedex.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.config.StorePath, "store", a.config.StorePath, "path to the sqlite catalog store")
	rootCmd.PersistentFlags().StringVar(&a.config.RuleTableFile, "rule-table", a.config.RuleTableFile, "YAML file overriding the built-in category rule table")

	rootCmd.AddCommand(a.createImportCommand())
	rootCmd.AddCommand(a.createStatsCommand())
	rootCmd.AddCommand(a.createVersionCommand())

	return rootCmd
}

// ExitOnError prints an error and exits with status 1. Meant for
// top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
