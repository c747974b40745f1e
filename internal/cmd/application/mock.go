// Package application provides the application interface seen by command
// packages, and a configurable mock of it for tests.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/firegistry/internal/appcontext"
)

// Application is the dependency surface commands are built against.
type Application = appcontext.Interface

// Mock implements Application for tests. A nil function field yields a
// default: a no-op logger, appcontext.DefaultSettings with Tweak applied,
// and a "dev" build.
//
//	mock := &application.Mock{
//	    Tweak: func(s *appcontext.Settings) {
//	        s.Registries = []string{filepath.Join(dir, "fi_registry.json")}
//	        s.DryRun = true
//	    },
//	}
//	cmd := importer.NewCommand(mock)
type Mock struct {
	LoggerFunc   func() *zerolog.Logger
	SettingsFunc func() appcontext.Settings
	BuildFunc    func() appcontext.BuildInfo

	// Tweak adjusts the default settings when SettingsFunc is nil.
	Tweak func(*appcontext.Settings)
}

var _ Application = (*Mock)(nil)

// Logger returns LoggerFunc() or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// Settings returns SettingsFunc() or the tweaked defaults.
func (m *Mock) Settings() appcontext.Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	s := appcontext.DefaultSettings()
	if m.Tweak != nil {
		m.Tweak(&s)
	}
	return s
}

// Build returns BuildFunc() or a dev build.
func (m *Mock) Build() appcontext.BuildInfo {
	if m.BuildFunc != nil {
		return m.BuildFunc()
	}
	return appcontext.BuildInfo{Version: "dev", Commit: "unknown", Date: "unknown", BuiltBy: "test"}
}
