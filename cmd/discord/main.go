package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/osse101/npcbot/internal/bootstrap"
	"github.com/osse101/npcbot/internal/config"
	"github.com/osse101/npcbot/internal/discord"
	"github.com/osse101/npcbot/internal/ledger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFor(config.BinaryDiscord)
	if err != nil {
		return err
	}
	bootstrap.SetupLogger(cfg, config.BinaryDiscord)

	ctx := context.Background()
	pool, err := bootstrap.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	// The bot's session is needed by the ledger, so services are filled in after
	svcs := &discord.Services{Prompts: discord.NewPendingPrompts()}
	bot, err := discord.New(discord.Config{Token: cfg.DiscordToken, AppID: cfg.DiscordAppID}, svcs)
	if err != nil {
		return err
	}

	sink := ledger.MultiSink{
		ledger.LogSink{},
		ledger.NewRetryingSink(discord.NewChannelLedger(bot.Session), bootstrap.LedgerRetryConfig(cfg)),
	}
	core := bootstrap.InitializeServices(bootstrap.InitializeRepositories(pool), cfg, sink)
	svcs.Characters = core.Characters
	svcs.Inventory = core.Inventory
	svcs.Purchases = core.Purchases
	svcs.Backups = core.Backups

	health := discord.NewHTTPServer(cfg.Port, bot)
	health.Start()

	if cfg.DiscordForceCommandUpdate {
		slog.Info("Force command update enabled via environment variable")
	}
	if err := bot.RegisterCommands(bot.Registry, cfg.DiscordForceCommandUpdate); err != nil {
		// Commands registered by an earlier run still work
		slog.Error("Failed to register commands", "error", err)
	}

	runErr := bot.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Stoppers:  []bootstrap.Stopper{health},
		Purchases: core.Purchases,
	})
	return runErr
}
