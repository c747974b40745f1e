package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/pkg/logging"
)

var knownLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// NewLogger builds the application logger. The level is chosen by, in
// order: --log-level, -q (which beats -v), -v, LOG_LEVEL, then info.
func NewLogger(config *Config) zerolog.Logger {
	level, warning := determineLogLevel(config)

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = config.LogFormat
	cfg.Output = config.LogOutput
	cfg.NoColor = cfg.NoColor || config.NoColor
	cfg.AddCaller = level == "debug" || level == "trace"

	logger := logging.NewLoggerFromConfig(cfg)
	if warning != "" {
		logger.Warn().Msg(warning)
	}
	return logger
}

// determineLogLevel returns the level to use and, when the flags were
// contradictory or invalid, a warning to log once the logger exists.
func determineLogLevel(config *Config) (string, string) {
	switch {
	case config.LogLevel != "":
		if !knownLevels[config.LogLevel] {
			return "info", fmt.Sprintf("invalid log level %q, using info", config.LogLevel)
		}
		return config.LogLevel, ""
	case config.Verbose && config.Quiet:
		return "warn", "both --verbose and --quiet given, using --quiet"
	case config.Quiet:
		return "warn", ""
	case config.Verbose:
		return "debug", ""
	case knownLevels[config.EnvLogLevel]:
		return config.EnvLogLevel, ""
	default:
		return "info", ""
	}
}
