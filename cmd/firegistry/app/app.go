// Package app wires configuration, logging and the import command into the
// firegistry CLI.
package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/internal/appcontext"
	"github.com/agentstation/firegistry/pkg/errors"
)

// App holds everything a run of the CLI needs.
type App struct {
	build  appcontext.BuildInfo
	config *Config
	flags  globalFlags
	logger *zerolog.Logger
	// customLogger keeps a WithLogger logger across flag parsing.
	customLogger bool

	// stdout receives the report; stderr receives diagnostics.
	stdout io.Writer
	stderr io.Writer
}

var _ appcontext.Interface = (*App)(nil)

// New loads configuration from .env files, the environment and the default
// config file locations, then applies opts.
func New(build appcontext.BuildInfo, opts ...Option) (*App, error) {
	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}

	logger := NewLogger(config)
	app := &App{
		build:  build,
		config: config,
		logger: &logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Build returns the version information given to New.
func (a *App) Build() appcontext.BuildInfo { return a.build }

// Config returns the merged configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Settings returns the import settings derived from Config.
func (a *App) Settings() appcontext.Settings { return a.config.Settings() }

// Option customizes an App.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config must not be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger must not be nil")
		}
		a.logger = logger
		a.customLogger = true
		return nil
	}
}

// WithOutput redirects the report and diagnostics. Nil writers are ignored.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
		return nil
	}
}
