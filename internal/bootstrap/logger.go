package bootstrap

import (
	"log/slog"

	"github.com/osse101/npcbot/internal/config"
	"github.com/osse101/npcbot/internal/logger"
)

// SetupLogger initializes the process-wide structured logger from cfg and
// logs the startup banner. Source locations are only added in development.
func SetupLogger(cfg *config.Config, binary config.Binary) {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName+"-"+string(binary),
		cfg.Version,
		cfg.Environment,
		addSource,
	))

	slog.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel, "format", cfg.LogFormat)
	slog.Info(LogMsgStartingService,
		"binary", binary,
		"environment", cfg.Environment,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port)
}
