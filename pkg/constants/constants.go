// Package constants provides shared constants used throughout the firegistry codebase.
// This includes file permissions, default registry locations, report formats and
// other configuration values that should be consistent across the application.
package constants

// File permission constants
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Registry defaults
const (
	// RootRegistryPath is the registry maintained at the repository root
	RootRegistryPath = "fi_registry.json"

	// PublicRegistryPath is the copy served with the dashboard assets
	PublicRegistryPath = "public/assets/data/fi_registry.json"

	// BackupSuffix is appended to a registry path when backups are enabled
	BackupSuffix = ".bak"

	// JSONIndent is the indentation used when rewriting registry files
	JSONIndent = "  "
)

// DefaultRegistryPaths returns the registry files updated when no paths are
// configured, in processing order. A new slice is returned on every call.
func DefaultRegistryPaths() []string {
	return []string{RootRegistryPath, PublicRegistryPath}
}

// CSV defaults
const (
	// DefaultDelimiter separates columns in the CSV export
	DefaultDelimiter = ','

	// LookupKeyColumn is the CSV column holding the join key
	LookupKeyColumn = "lookup_key"
)

// Registry entry fields used for joining
const (
	// EntryLookupKeyField is the preferred join field on a registry entry
	EntryLookupKeyField = "fi_lookup_key"

	// EntryNameField is the fallback join field on a registry entry
	EntryNameField = "fi_name"
)

// Output format constants
const (
	// FormatText is the plain line-oriented report
	FormatText = "text"

	// FormatTable renders the report as a table
	FormatTable = "table"

	// FormatJSON renders the report as JSON
	FormatJSON = "json"

	// FormatYAML renders the report as YAML
	FormatYAML = "yaml"
)

// Environment
const (
	// EnvPrefix prefixes every configuration environment variable
	EnvPrefix = "FIREGISTRY"

	// ConfigName is the config file base name searched in $HOME and "."
	ConfigName = ".firegistry"
)
