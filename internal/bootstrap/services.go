package bootstrap

import (
	"github.com/osse101/npcbot/internal/backup"
	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/config"
	"github.com/osse101/npcbot/internal/inventory"
	"github.com/osse101/npcbot/internal/ledger"
	"github.com/osse101/npcbot/internal/purchase"
)

// Services are the domain services shared by the HTTP API and the bot
type Services struct {
	Characters character.Service
	Inventory  inventory.Service
	Purchases  purchase.Engine
	Backups    *backup.Service
}

// InitializeServices builds the services on top of repos. Receipts of
// completed purchases go to sink.
func InitializeServices(repos *Repositories, cfg *config.Config, sink ledger.Sink) *Services {
	characters := character.NewService(repos.Characters, character.Config{
		Cache: character.CacheConfig{
			Size: cfg.CharacterCacheSize,
			TTL:  cfg.CharacterCacheTTL,
		},
		DeleteAllTimeout: cfg.DeleteAllTimeout,
	})
	items := inventory.NewService(repos.Inventory, characters)

	return &Services{
		Characters: characters,
		Inventory:  items,
		Purchases: purchase.NewEngine(items, repos.Inventory, sink, purchase.D20, purchase.Config{
			NegotiationTimeout: cfg.NegotiationTimeout,
		}),
		Backups: backup.NewService(characters),
	}
}

// LedgerRetryConfig turns the configured retry count into a retry policy
func LedgerRetryConfig(cfg *config.Config) ledger.RetryConfig {
	rc := ledger.DefaultRetryConfig()
	rc.MaxRetries = uint64(cfg.LedgerMaxRetries)
	return rc
}
