package csvsource

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/pkg/constants"
	"github.com/agentstation/firegistry/pkg/logging"
)

// Options configures how a CSV export is read.
type Options struct {
	comma  rune
	logger *zerolog.Logger
}

// Comma returns the column delimiter.
func (o *Options) Comma() rune {
	return o.comma
}

// Logger returns the logger that receives skipped-row events.
func (o *Options) Logger() *zerolog.Logger {
	return o.logger
}

// Defaults returns the default read options.
func Defaults() *Options {
	return &Options{
		comma:  constants.DefaultDelimiter,
		logger: logging.Default(),
	}
}

// Apply applies the given options to the read options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option is a function that configures read options.
type Option func(*Options)

// WithComma sets the column delimiter. A zero rune keeps the default.
func WithComma(r rune) Option {
	return func(o *Options) {
		if r != 0 {
			o.comma = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
