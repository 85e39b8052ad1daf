package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/npcbot/internal/config"
	"github.com/osse101/npcbot/internal/database"
	"github.com/osse101/npcbot/internal/database/postgres"
	"github.com/osse101/npcbot/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Characters repository.Character
	Inventory  repository.Inventory
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Characters: postgres.NewCharacterRepository(dbPool),
		Inventory:  postgres.NewInventoryRepository(dbPool),
	}
}

// OpenDatabase connects to PostgreSQL and, when configured, applies pending
// migrations before anything else touches the schema.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
	}

	if cfg.MigrateOnStart {
		slog.Info(LogMsgMigratingOnStart)
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
	}
	return pool, nil
}
