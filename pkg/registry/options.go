package registry

import "github.com/rs/zerolog"

// Options configures a registry update.
type Options struct {
	dryRun       bool
	backupSuffix string
	logger       *zerolog.Logger
}

// DryRun reports whether changes are computed without writing.
func (o *Options) DryRun() bool {
	return o.dryRun
}

// BackupSuffix returns the backup suffix, or "" when backups are disabled.
func (o *Options) BackupSuffix() string {
	return o.backupSuffix
}

// Defaults returns the default update options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options to the update options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option is a function that configures update options.
type Option func(*Options)

// WithDryRun computes the result without writing the registry.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.dryRun = dryRun
	}
}

// WithBackup keeps a copy of the previous registry at path+suffix before it
// is rewritten. An empty suffix disables backups.
func WithBackup(suffix string) Option {
	return func(o *Options) {
		o.backupSuffix = suffix
	}
}

// WithLogger sets the logger. Without it the logger is taken from the
// context passed to Update.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}
