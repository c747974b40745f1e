// Package sync runs a complete import: it loads the CSV export once and
// merges it into every configured registry in order.
package sync

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/csvsource"
	"github.com/agentstation/firegistry/pkg/errors"
	"github.com/agentstation/firegistry/pkg/registry"
)

// Options controls an import run.
type Options struct {
	RegistryPaths []string        // Registries to update, in order
	DryRun        bool            // Compute changes without writing
	BackupSuffix  string          // Keep a copy of each rewritten registry (empty disables)
	Comma         rune            // CSV delimiter (zero means default)
	Logger        *zerolog.Logger // Logger for run events (nil means the context logger)
}

// Apply applies the given options to the run options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default run options.
func Defaults() *Options {
	return &Options{
		RegistryPaths: constants.DefaultRegistryPaths(),
		DryRun:        false,
		BackupSuffix:  "",
		Comma:         constants.DefaultDelimiter,
		Logger:        nil,
	}
}

// Option is a function that configures run Options.
type Option func(*Options)

// Validate checks if the run options are valid.
func (s *Options) Validate() error {
	if len(s.RegistryPaths) == 0 {
		return &errors.ValidationError{
			Field:   "RegistryPaths",
			Value:   s.RegistryPaths,
			Message: "at least one registry path is required",
		}
	}

	seen := make(map[string]bool, len(s.RegistryPaths))
	for _, path := range s.RegistryPaths {
		if path == "" {
			return &errors.ValidationError{
				Field:   "RegistryPaths",
				Value:   s.RegistryPaths,
				Message: "registry path must not be empty",
			}
		}
		clean := filepath.Clean(path)
		if seen[clean] {
			return &errors.ValidationError{
				Field:   "RegistryPaths",
				Value:   path,
				Message: fmt.Sprintf("registry path '%s' is listed more than once", path),
			}
		}
		seen[clean] = true
	}

	return nil
}

// CSVOptions converts run options to loader options.
func (s *Options) CSVOptions() []csvsource.Option {
	opts := []csvsource.Option{csvsource.WithComma(s.Comma)}
	if s.Logger != nil {
		opts = append(opts, csvsource.WithLogger(s.Logger))
	}
	return opts
}

// RegistryOptions converts run options to registry update options.
func (s *Options) RegistryOptions() []registry.Option {
	opts := []registry.Option{
		registry.WithDryRun(s.DryRun),
		registry.WithBackup(s.BackupSuffix),
	}
	if s.Logger != nil {
		opts = append(opts, registry.WithLogger(s.Logger))
	}
	return opts
}

// WithRegistryPaths sets the registries to update.
func WithRegistryPaths(paths ...string) Option {
	return func(opts *Options) {
		opts.RegistryPaths = paths
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithBackup keeps a copy of each rewritten registry at path+suffix.
func WithBackup(suffix string) Option {
	return func(opts *Options) {
		opts.BackupSuffix = suffix
	}
}

// WithComma sets the CSV delimiter.
func WithComma(comma rune) Option {
	return func(opts *Options) {
		opts.Comma = comma
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
