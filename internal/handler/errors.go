package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingActor          = "Missing X-Actor-ID header"
	ErrMsgMissingPathParam      = "Missing %s in path"
	ErrMsgEmptyPatch            = "Nothing to change"
	ErrMsgInvalidBackup         = "The file content is not a valid character backup"
	ErrMsgNoCharacters          = "No characters to export"
)

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgResourceNotFoundErr = "Resource not found."

	// Characters
	ErrMsgCharacterNotFoundError = "Character does not exist"
	ErrMsgDuplicateNameError     = "A character with that name already exists"
	ErrMsgNotOwnerError          = "You are not the owner of this character"
	ErrMsgNotAllowedError        = "You do not have permission to use this character"
	ErrMsgConfirmationPendingErr = "A delete-all confirmation is already pending"

	// Inventory and purchases
	ErrMsgItemNotFoundError    = "Item does not exist in the character's inventory"
	ErrMsgDuplicateItemError   = "Item already exists in the character's inventory"
	ErrMsgInsufficientStockErr = "The character does not have enough stock of that item"
	ErrMsgStockChangedError    = "Purchase failed: the stock changed while you were deciding"
	ErrMsgItemRemovedError     = "Purchase failed: the item was removed while you were deciding"
	ErrMsgPurchaseFailedError  = "Purchase failed. Please try again."
)

// Success messages for API responses
const (
	MsgCharacterDeleted     = "Character has been deleted"
	MsgItemRemoved          = "Item removed from the character's inventory"
	MsgAllCharactersDeleted = "All characters have been deleted from this guild"
	MsgDeleteAllCancelled   = "Deletion of all characters has been cancelled"
	MsgCharactersImported   = "Characters loaded successfully"
)
