package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/npcbot/internal/purchase"
	"github.com/osse101/npcbot/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server    *server.Server
	Stoppers  []Stopper
	Purchases purchase.Engine
}

// Stopper is anything with a context-bounded stop, such as the bot's health server
type Stopper interface {
	Stop(ctx context.Context) error
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP servers (stop accepting new requests)
// 2. Purchase engine (wait for in-flight ledger posts)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}
	for _, s := range components.Stoppers {
		if err := s.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Purchases != nil {
		slog.Info(LogMsgWaitingForLedger)
		shutdownService(ctx, ServiceNamePurchase, components.Purchases)
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
