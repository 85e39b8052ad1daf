package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/npcbot/internal/bootstrap"
	"github.com/osse101/npcbot/internal/config"
	"github.com/osse101/npcbot/internal/handler"
	"github.com/osse101/npcbot/internal/ledger"
	"github.com/osse101/npcbot/internal/server"
)

//go:generate go run github.com/swaggo/swag/cmd/swag init -g main.go -d ./,../../internal/handler --parseInternal --parseDependency -o ../../docs

// @title NPC Shop Bot API
// @version 1.0
// @description Manages NPC characters, their inventories and purchases for Discord guilds.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFor(config.BinaryApp)
	if err != nil {
		return err
	}
	bootstrap.SetupLogger(cfg, config.BinaryApp)
	handler.InitValidator()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Without a Discord session receipts only go to the structured log
	sink := ledger.NewRetryingSink(ledger.LogSink{}, bootstrap.LedgerRetryConfig(cfg))
	svcs := bootstrap.InitializeServices(bootstrap.InitializeRepositories(pool), cfg, sink)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Version:        cfg.Version,
		RateLimit: server.RateLimit{
			Requests:           cfg.RateLimitRequests,
			Window:             cfg.RateLimitWindow,
			AuthFailureAlertAt: cfg.AuthFailureAlertAt,
		},
	}, pool, server.Services{
		Characters: svcs.Characters,
		Inventory:  svcs.Inventory,
		Purchases:  svcs.Purchases,
		Backups:    svcs.Backups,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:    srv,
		Purchases: svcs.Purchases,
	})
	return nil
}
