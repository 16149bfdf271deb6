package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/dictionary/internal/config"
	"github.com/heartmarshall/dictionary/pkg/dictionary"
	"github.com/heartmarshall/dictionary/pkg/dictionary/pgdict"
)

// App bundles the configured dictionaries with the resources they need.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Provider *dictionary.Provider

	pool *pgxpool.Pool
}

// Open loads configuration from configPath (or the default locations when
// empty), initializes the logger, connects to PostgreSQL when a database
// dictionary is configured and builds the dictionary provider.
// Callers must Close the returned App.
func Open(ctx context.Context, configPath string) (*App, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)

	logger.Debug("starting",
		slog.String("version", BuildVersion()),
		slog.Int("dictionaries", len(cfg.Dictionaries)),
	)

	a := &App{Config: cfg, Logger: logger}

	var db pgdict.Querier
	if cfg.HasDatabaseDictionaries() {
		a.pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = a.pool
	}

	a.Provider, err = BuildProvider(cfg, db, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
