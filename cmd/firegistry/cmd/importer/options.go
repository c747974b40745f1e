// Package importer provides the CSV import command implementation.
package importer

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/firegistry/internal/appcontext"
	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/sync"
)

// Flags holds the import command flags.
type Flags struct {
	Registries []string
	Delimiter  string
	DryRun     bool
	Backup     bool
}

// addImportFlags adds import-specific flags to the command.
func addImportFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringArrayVar(&flags.Registries, "registry", nil,
		"registry file to update, repeatable (default: fi_registry.json, public/assets/data/fi_registry.json)")
	cmd.Flags().StringVar(&flags.Delimiter, "delimiter", "",
		`CSV column delimiter, a single character or "tab" (default ",")`)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"report the changes without writing any registry")
	cmd.Flags().BoolVar(&flags.Backup, "backup", false,
		"keep a copy of each registry as <path>"+constants.BackupSuffix+" before rewriting it")

	return flags
}

// BuildSyncOptions merges the command flags over the application
// settings. Flags win; an unset flag keeps the configured value.
func BuildSyncOptions(settings appcontext.Settings, flags *Flags, logger *zerolog.Logger) ([]sync.Option, error) {
	paths := settings.Registries
	if len(flags.Registries) > 0 {
		paths = flags.Registries
	}

	delimiter := settings.Delimiter
	if flags.Delimiter != "" {
		delimiter = flags.Delimiter
	}
	comma, err := ParseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}

	opts := []sync.Option{
		sync.WithRegistryPaths(paths...),
		sync.WithComma(comma),
		sync.WithDryRun(flags.DryRun || settings.DryRun),
		sync.WithLogger(logger),
	}
	if flags.Backup || settings.Backup {
		opts = append(opts, sync.WithBackup(constants.BackupSuffix))
	}

	return opts, nil
}

// ParseDelimiter converts a delimiter setting to a rune. The empty string
// selects the default; "tab" and `\t` select a tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return constants.DefaultDelimiter, nil
	case "tab", `\t`:
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, errors.NewValidationError("delimiter", s, "delimiter must be a single character other than a quote or newline")
	}
	return r, nil
}
