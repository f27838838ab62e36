package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/config"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-ddd-scheduler/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ddd-scheduler/internal/infrastructure/postgres"
)

// OpenStore connects the backend named by STORE_DRIVER. For postgres the
// pending migrations are applied when migrate is set.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger, migrate bool) (repo.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), nil
	case "postgres", "":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if migrate {
			if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migration failed: %w", err)
			}
		}
		return pginfra.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
