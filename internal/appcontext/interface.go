// Package appcontext defines what command packages may ask of the running
// application. cmd/firegistry/app implements it; tests use
// internal/cmd/application.Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/pkg/constants"
)

// Settings are the resolved import settings after config files,
// environment and global flags have been merged.
type Settings struct {
	// Format is the report format: text, table, json or yaml.
	Format string
	// Verbose adds per-field changes to the report.
	Verbose bool
	// Registries are updated in this order.
	Registries []string
	// Delimiter is the CSV column separator as configured, e.g. "," or "tab".
	Delimiter string
	Backup    bool
	DryRun    bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Format:     constants.FormatText,
		Registries: constants.DefaultRegistryPaths(),
		Delimiter:  string(constants.DefaultDelimiter),
	}
}

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// Interface is the application as seen by a command.
type Interface interface {
	// Logger returns the logger commands should pass down to packages.
	Logger() *zerolog.Logger

	// Settings returns a copy of the current settings.
	Settings() Settings

	// Build returns version information.
	Build() BuildInfo
}
