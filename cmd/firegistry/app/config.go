package app

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/firegistry/internal/appcontext"
	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/errors"
)

// Config is the merged result of defaults, the config file, .env files,
// the environment and the global flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Import configuration
	Registries []string
	Delimiter  string
	Backup     bool
	DryRun     bool

	// Logging configuration
	LogLevel    string // from --log-level
	EnvLogLevel string // from LOG_LEVEL
	LogFormat   string
	LogOutput   string
}

// globalFlags holds the persistent root flags before they are merged into Config.
type globalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string
	LogLevel   string
}

// LoadConfig reads every source except flags. Later entries lose:
// 1. Command-line flags (merged later by UpdateFromFlags)
// 2. FIREGISTRY_* environment variables
// 3. .env files
// 4. Config file (configFile, or .firegistry.yaml in $HOME or .)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// .env values must be in the environment before viper reads it.
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("registries", constants.DefaultRegistryPaths())
	v.SetDefault("delimiter", string(constants.DefaultDelimiter))
	v.SetDefault("format", constants.FormatText)
	v.SetDefault("backup", false)
	v.SetDefault("dry_run", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot read "+constants.ConfigName+".yaml", err)
			}
		}
	}

	config := &Config{
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		Registries: registryPaths(v),
		Delimiter:  v.GetString("delimiter"),
		Backup:     v.GetBool("backup"),
		DryRun:     v.GetBool("dry_run"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if len(config.Registries) == 0 {
		return nil, errors.NewConfigError("registries", "at least one registry path is required", nil)
	}

	return config, nil
}

// UpdateFromFlags applies the global flags. It runs after cobra has parsed
// them so a given flag beats the file and the environment.
func (c *Config) UpdateFromFlags(flags globalFlags) {
	c.Verbose = flags.Verbose
	c.Quiet = flags.Quiet
	c.NoColor = flags.NoColor
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// Settings returns the import settings commands read through appcontext.
func (c *Config) Settings() appcontext.Settings {
	return appcontext.Settings{
		Format:     c.Format,
		Verbose:    c.Verbose,
		Registries: append([]string(nil), c.Registries...),
		Delimiter:  c.Delimiter,
		Backup:     c.Backup,
		DryRun:     c.DryRun,
	}
}

// registryPaths reads the registries key. A plain string, as set through
// FIREGISTRY_REGISTRIES, is split on commas only so paths may hold spaces.
func registryPaths(v *viper.Viper) []string {
	if raw, ok := v.Get("registries").(string); ok {
		return splitList([]string{raw})
	}
	return splitList(v.GetStringSlice("registries"))
}

// splitList flattens comma-separated items, as given in FIREGISTRY_REGISTRIES.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// loadEnvFiles exports .env.local and .env from the working directory.
func loadEnvFiles() {
	// godotenv.Load never overwrites a variable that is already set, so
	// .env.local is loaded first to take precedence over .env.
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns $key, or defaultValue when it is empty.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
