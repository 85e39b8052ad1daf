package bootstrap

import "time"

// ShutdownTimeout bounds the graceful shutdown of every component
const ShutdownTimeout = 30 * time.Second

// Log messages for startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting NPC bot"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgMigratingOnStart    = "Applying database migrations on start"
)

// Log messages for shutdown
const (
	LogMsgShuttingDownServer    = "Shutting down server..."
	LogMsgServerForcedShutdown  = "Server forced to shutdown"
	LogMsgShuttingDownBot       = "Shutting down Discord bot..."
	LogMsgWaitingForLedger      = "Waiting for ledger posts to finish..."
	LogMsgServiceShutdownFailed = " service shutdown failed"
	LogMsgServerStopped         = "Server stopped"
)

// Error messages
const (
	ErrMsgFailedConnectDatabase = "failed to connect to database"
	ErrMsgFailedMigrate         = "failed to apply migrations"
)

// ServiceNamePurchase labels the purchase engine in shutdown logs
const ServiceNamePurchase = "purchase"
