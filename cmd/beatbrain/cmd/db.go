package cmd

import (
	"fmt"
	"log/slog"

	"github.com/beatbrain/beatbrain/internal/config"
	"github.com/beatbrain/beatbrain/internal/database"
)

// openDatabase loads the effective config and opens the application
// database. The caller owns the returned close func.
func openDatabase() (*config.Config, *database.DB, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.New(cfg.Database, slog.Default(), nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing database: %w", err)
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			slog.Default().Warn("closing database", slog.String("error", err.Error()))
		}
	}
	return cfg, db, closeFn, nil
}
