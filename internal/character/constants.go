package character

import "time"

// ============================================================================
// Cache Configuration
// ============================================================================

// CacheSchemaVersion is bumped when the cached character shape changes
const CacheSchemaVersion = "1.0"

// DefaultCacheSize is the default maximum number of cached characters
const DefaultCacheSize = 1024

// DefaultCacheTTL is the default time-to-live for cached characters
const DefaultCacheTTL = 5 * time.Minute

// ============================================================================
// Delete-all confirmation
// ============================================================================

const (
	deleteAllLockPrefix   = "delete_all:"
	confirmDeleteAllText  = "This deletes every character and every item in this server. Continue?"
	confirmDeleteAllLabel = "Delete everything"
	cancelDeleteAllLabel  = "Cancel"
)

// ============================================================================
// Log messages
// ============================================================================

const (
	LogMsgCharacterCreated    = "Character created"
	LogMsgCharacterEdited     = "Character edited"
	LogMsgAccessGranted       = "Character access granted"
	LogMsgCharacterDeleted    = "Character deleted"
	LogMsgDeleteAllCancelled  = "Delete all cancelled"
	LogMsgDeleteAllCompleted  = "Delete all completed"
	LogMsgCharactersImported  = "Characters imported"
	LogMsgImportSkippedExists = "Skipping imported character, name already exists"
	LogMsgCacheStale          = "Cached character was stale, reloading"
)
