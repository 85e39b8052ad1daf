package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
)

// Operation names attached to wrapped errors
const (
	OpGetCharacter        = "get character"
	OpGetCharacterVersion = "get character version"
	OpListCharacters      = "list characters"
	OpInsertCharacter     = "insert character"
	OpUpdateCharacter     = "update character"
	OpDeleteCharacter     = "delete character"
	OpDeleteInventory     = "delete inventory"
	OpDeleteTenant        = "delete tenant"
	OpCharacterExists     = "check character exists"
	OpGetItem             = "get inventory item"
	OpListItems           = "list inventory items"
	OpInsertItem          = "insert inventory item"
	OpUpdateItem          = "update inventory item"
	OpDeleteItem          = "delete inventory item"
	OpItemExists          = "check inventory item exists"
	OpDecrementStock      = "decrement stock"
	OpCheckRemovedStock   = "check stock after failed decrement"
	OpBeginTransaction    = "begin transaction"
)
