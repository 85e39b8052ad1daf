package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Binary identifies which executable is loading the configuration.
// Each binary needs a different set of secrets.
type Binary string

const (
	BinaryApp     Binary = "app"
	BinaryDiscord Binary = "discord"
	BinaryMigrate Binary = "migrate"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string `validate:"required"`
	LogFormat   string `validate:"oneof=text json"`
	Environment string `validate:"required"`
	ServiceName string `validate:"required"`
	Version     string

	DBUser            string `validate:"required"`
	DBPassword        string
	DBHost            string `validate:"required"`
	DBPort            string `validate:"required"`
	DBName            string `validate:"required"`
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	MigrateOnStart    bool

	APIKey         string   // API key for authentication
	TrustedProxies []string // Proxies whose X-Forwarded-For is believed

	RateLimitRequests  int           `validate:"gt=0"` // Per tenant and client in one window
	RateLimitWindow    time.Duration `validate:"gt=0"`
	AuthFailureAlertAt int           `validate:"gt=0"`

	DiscordToken              string
	DiscordAppID              string
	DiscordForceCommandUpdate bool

	NegotiationTimeout time.Duration `validate:"gt=0"`
	DeleteAllTimeout   time.Duration `validate:"gt=0"`
	CharacterCacheSize int           `validate:"gt=0"`
	CharacterCacheTTL  time.Duration `validate:"gt=0"`
	LedgerMaxRetries   int           `validate:"gte=0"`
}

var configValidator = validator.New()

// Load loads the HTTP API configuration from environment variables
func Load() (*Config, error) {
	return LoadFor(BinaryApp)
}

// LoadFor loads the configuration and checks the secrets the given binary needs
func LoadFor(binary Binary) (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:   strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		Environment: getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName: getEnv(EnvServiceName, DefaultServiceName),
		Version:     getEnv(EnvVersion, DefaultVersion),

		DBUser:            getEnv(EnvDBUser, "postgres"),
		DBPassword:        getEnv(EnvDBPassword, "postgres"),
		DBHost:            getEnv(EnvDBHost, "localhost"),
		DBPort:            getEnv(EnvDBPort, "5432"),
		DBName:            getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),
		MigrateOnStart:    getEnvAsBool(EnvMigrateOnStart, true),

		APIKey:         getEnv(EnvAPIKey, ""),
		TrustedProxies: getEnvAsList(EnvTrustedProxies),

		RateLimitRequests:  getEnvAsInt(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:    getEnvAsDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		AuthFailureAlertAt: getEnvAsInt(EnvAuthFailureAlertAt, DefaultAuthFailureAlertAt),

		DiscordToken:              getEnv(EnvDiscordToken, ""),
		DiscordAppID:              getEnv(EnvDiscordAppID, ""),
		DiscordForceCommandUpdate: getEnvAsBool(EnvDiscordForceCommandUpdate, false),

		NegotiationTimeout: getEnvAsDuration(EnvNegotiationTimeout, DefaultNegotiationTimeout),
		DeleteAllTimeout:   getEnvAsDuration(EnvDeleteAllTimeout, DefaultDeleteAllTimeout),
		CharacterCacheSize: getEnvAsInt(EnvCharacterCacheSize, DefaultCharacterCacheSize),
		CharacterCacheTTL:  getEnvAsDuration(EnvCharacterCacheTTL, DefaultCharacterCacheTTL),
		LedgerMaxRetries:   getEnvAsInt(EnvLedgerMaxRetries, DefaultLedgerMaxRetries),
	}

	portStr := getEnv(EnvPort, DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := configValidator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch binary {
	case BinaryApp:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("API_KEY environment variable must be set for security")
		}
	case BinaryDiscord:
		if cfg.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN environment variable must be set")
		}
		if cfg.DiscordAppID == "" {
			return nil, fmt.Errorf("DISCORD_APP_ID environment variable must be set")
		}
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt falls back to the default when the variable is unset or not an integer
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts anything time.ParseDuration does; a bare number is rejected
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
