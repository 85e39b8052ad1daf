package config

import "time"

// Environment variable names
const (
	EnvSchemaVersion = "ENV_SCHEMA_VERSION"
	EnvPort          = "PORT"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
	EnvEnvironment   = "ENVIRONMENT"
	EnvServiceName   = "SERVICE_NAME"
	EnvVersion       = "VERSION"

	EnvDBUser            = "DB_USER"
	EnvDBPassword        = "DB_PASSWORD"
	EnvDBHost            = "DB_HOST"
	EnvDBPort            = "DB_PORT"
	EnvDBName            = "DB_NAME"
	EnvDBMaxConns        = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime = "DB_MAX_CONN_LIFETIME"
	EnvMigrateOnStart    = "MIGRATE_ON_START"

	EnvAPIKey             = "API_KEY"
	EnvTrustedProxies     = "TRUSTED_PROXIES"
	EnvRateLimitRequests  = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow    = "RATE_LIMIT_WINDOW"
	EnvAuthFailureAlertAt = "AUTH_FAILURE_ALERT_AT"

	EnvDiscordToken              = "DISCORD_TOKEN"
	EnvDiscordAppID              = "DISCORD_APP_ID"
	EnvDiscordForceCommandUpdate = "DISCORD_FORCE_COMMAND_UPDATE"

	EnvNegotiationTimeout = "NEGOTIATION_TIMEOUT"
	EnvDeleteAllTimeout   = "DELETE_ALL_TIMEOUT"
	EnvCharacterCacheSize = "CHARACTER_CACHE_SIZE"
	EnvCharacterCacheTTL  = "CHARACTER_CACHE_TTL"
	EnvLedgerMaxRetries   = "LEDGER_MAX_RETRIES"
)

// Defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "npcbot"
	DefaultVersion     = "dev"
	DefaultDBName      = "npcbot"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultNegotiationTimeout = 120 * time.Second
	DefaultDeleteAllTimeout   = 60 * time.Second
	DefaultCharacterCacheSize = 1024
	DefaultCharacterCacheTTL  = 5 * time.Minute
	DefaultLedgerMaxRetries   = 3

	DefaultRateLimitRequests  = 1000
	DefaultRateLimitWindow    = 5 * time.Minute
	DefaultAuthFailureAlertAt = 5
)

// Example values shipped in .env.example that must never reach production
const (
	exampleDBPassword   = "change_this_secure_password"
	exampleAPIKey       = "generate_with_openssl_rand_hex_32"
	exampleDiscordToken = "your_discord_bot_token"
)
