package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2
	DefaultMaxConnections = 10

	DefaultMaxConnIdleTime = 5 * time.Minute
	DefaultMaxConnLifetime = 30 * time.Minute
)

// MigrationsDir is the directory inside the embedded filesystem holding goose migrations
const MigrationsDir = "migrations"

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString  = "failed to parse connection string"
	ErrMsgFailedToCreatePool       = "failed to create connection pool"
	ErrMsgFailedToPingDatabase     = "failed to ping database"
	ErrMsgFailedToOpenMigrations   = "failed to open migrations"
	ErrMsgFailedToCreateMigrator   = "failed to create migration provider"
	ErrMsgFailedToApplyMigrations  = "failed to apply migrations"
	ErrMsgFailedToRevertMigration  = "failed to revert migration"
	ErrMsgFailedToReadMigrationSet = "failed to read migration status"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Migration applied"
	LogMsgMigrationReverted               = "Migration reverted"
	LogMsgSchemaUpToDate                  = "Database schema is up to date"
)
