package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/config"
)

// Open returns the in-memory store when cfg.URL is empty, otherwise a
// Postgres store with migrations applied if cfg.Migrate is set.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (Store, error) {
	if cfg.URL == "" {
		log.Info("using in-memory store")
		return NewMemory(), nil
	}
	pg, err := NewPostgres(cfg.URL, PostgresOptions{
		MaxOpenConns:    cfg.MaxConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := pg.MigrateDir(ctx, cfg.MigrationsDir); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}
	return pg, nil
}
