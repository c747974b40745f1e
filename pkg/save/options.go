package save

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/pkg/logging"
)

// Options control how File writes.
type Options struct {
	backupSuffix string
	logger       *zerolog.Logger
}

// BackupSuffix returns the suffix appended to the path of a backup copy,
// or "" when backups are disabled.
func (s *Options) BackupSuffix() string {
	return s.backupSuffix
}

// Defaults returns options with no backup.
func Defaults() *Options {
	return &Options{
		backupSuffix: "",
		logger:       logging.Default(),
	}
}

// Apply returns a copy of s with opts applied.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option configures File.
type Option func(*Options)

// WithBackup copies the current file to path+suffix before it is replaced.
// An empty suffix disables backups.
func WithBackup(suffix string) Option {
	return func(s *Options) {
		s.backupSuffix = suffix
	}
}

// WithLogger sets the logger for save events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Options) {
		if logger != nil {
			s.logger = logger
		}
	}
}
