// Package app provides the application context and dependency
// management for the placedex CLI: configuration, logging, and the
// catalog client behind a single lifecycle.
package app

import (
	"github.com/rs/zerolog"

	"github.com/placedex/placedex"
	"github.com/placedex/placedex/pkg/errors"
)

// App represents the placedex application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client opens a catalog client from the current configuration. The
// caller owns the returned client and must close it.
func (a *App) Client() (placedex.Placedex, error) {
	opts := []placedex.Option{
		placedex.WithStorePath(a.config.StorePath),
	}
	if a.config.ChunkSize > 0 {
		opts = append(opts, placedex.WithChunkSize(a.config.ChunkSize))
	}
	if a.config.RuleTableFile != "" {
		opts = append(opts, placedex.WithRuleTableFile(a.config.RuleTableFile))
	}
	if a.config.Provenance {
		opts = append(opts, placedex.WithProvenance(true))
	}
	return placedex.New(opts...)
}
