// Package logging wraps zerolog for the firegistry tools.
//
// Logs go to stderr so that stdout carries only the import report. On a
// terminal the output is human-readable; otherwise it is one JSON object
// per line. Packages take a *zerolog.Logger through their options and fall
// back to the logger stored in a context, then to Default.
//
//	ctx := logging.WithLogger(context.Background(), logger)
//	ctx = logging.WithRegistry(ctx, "fi_registry.json")
//	logging.FromContext(ctx).Debug().Msg("Registry written")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(envConfig())

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global
// log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}
