package importer

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/firegistry/internal/cmd/application"
	"github.com/agentstation/firegistry/internal/cmd/output"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/logging"
	"github.com/agentstation/firegistry/pkg/sync"
)

// UsageMessage is printed when the CSV argument is missing.
const UsageMessage = "Usage: firegistry path/to/export.csv"

// NewCommand creates the import command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:   "firegistry [flags] <csv-path>",
		Short: "Merge FI core metadata from a CSV export into the FI registries",
		Long: `firegistry merges financial-institution core metadata from a CSV export
into the JSON FI registry files.

Each CSV row is keyed by its lookup_key column (trimmed, lowercased) and may
carry the columns Core Vendor, Core Product, Debit Processor and Credit
Processor. Each registry entry is matched on its fi_lookup_key, or on its
fi_name when it has no lookup key. Matched entries take every CSV value that
differs from what they hold; a registry is rewritten only when at least one
entry changed, and a missing registry is skipped.

CSV keys that matched no entry in any registry are listed at the end.`,
		Example: `  firegistry export.csv                               # Update the default registries
  firegistry --dry-run -v export.csv                  # Preview field changes
  firegistry --registry data/fi_registry.json export.csv
  firegistry --delimiter ';' --backup export.csv      # Semicolon CSV, keep .bak copies
  firegistry --format json export.csv                 # Machine-readable report`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ExecuteImport(cmd.Context(), app, flags, args, cmd.OutOrStdout())
		},
	}

	flags = addImportFlags(cmd)

	return cmd
}

// ExecuteImport runs an import of the CSV named by args and writes the
// report to w.
func ExecuteImport(ctx context.Context, app application.Application, flags *Flags, args []string, w io.Writer) error {
	if len(args) != 1 {
		return errors.NewUsageError("%s", UsageMessage)
	}
	csvPath := args[0]

	settings := app.Settings()
	format, err := output.ParseFormat(settings.Format)
	if err != nil {
		return errors.NewValidationError("format", settings.Format, err.Error())
	}

	logger := app.Logger()
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	ctx = logging.WithLogger(ctx, logger)

	opts, err := BuildSyncOptions(settings, flags, logger)
	if err != nil {
		return err
	}

	result, err := sync.Run(ctx, csvPath, opts...)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.NewUsageError("CSV file not found: %s", csvPath)
		}
		return err
	}

	return printResult(w, format, result, settings.Verbose)
}
