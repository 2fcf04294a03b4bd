package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/placedex/placedex"
	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/importer"
	"github.com/placedex/placedex/pkg/logging"
	"github.com/placedex/placedex/pkg/places"
)

// createImportCommand creates the import command.
func (a *App) createImportCommand() *cobra.Command {
	var (
		source   string
		dataType string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a source file into the catalog",
		Long: `Import reads one source file, reconciles its records, and upserts
them into the catalog store.

Scraped Google Places results use --source=google. Wikidata dumps use
--source=wikidata with --type=architecture or --type=cemetery.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			defer client.Close()

			file, err := os.Open(args[0])
			if err != nil {
				return errors.WrapIO("open", args[0], err)
			}
			defer file.Close()

			ctx := logging.WithSource(cmd.Context(), source)
			logging.Ctx(ctx).Info().Str("file", args[0]).Msg("starting import")

			result, err := runImport(ctx, client, file, args[0], source, dataType)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			if report := result.ErrorReport(); report != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "wikidata", "source kind: google or wikidata")
	cmd.Flags().StringVar(&dataType, "type", "architecture", "wikidata data type: architecture or cemetery")
	return cmd
}

func runImport(ctx context.Context, client placedex.Placedex, file io.Reader, name, source, dataType string) (*importer.Result, error) {
	switch source {
	case "google":
		return client.ImportScraped(ctx, file, name)
	case "wikidata":
		dt, err := parseDataType(dataType)
		if err != nil {
			return nil, err
		}
		return client.ImportWikidata(ctx, file, name, dt)
	default:
		return nil, errors.NewValidationError("source", source, "must be google or wikidata")
	}
}

func parseDataType(value string) (places.DataType, error) {
	switch places.DataType(value) {
	case places.DataTypeArchitecture, places.DataTypeCemetery:
		return places.DataType(value), nil
	default:
		return "", errors.NewValidationError("type", value, "must be architecture or cemetery")
	}
}

// createStatsCommand creates the stats command.
func (a *App) createStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			defer client.Close()

			count, err := client.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "places: %d\n", count)
			return nil
		},
	}
}

// createVersionCommand creates the version command.
func (a *App) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "placedex %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}
