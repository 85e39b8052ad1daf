package handler

// Route parameter names shared with internal/server
const (
	ParamTenant    = "tenant"
	ParamCharacter = "name"
	ParamItem      = "item"
)

// Headers
const (
	HeaderActorID     = "X-Actor-ID"
	HeaderActorName   = "X-Actor-Name"
	HeaderContentType = "Content-Type"
	HeaderDisposition = "Content-Disposition"
	ContentTypeJSON   = "application/json"
)

// Barter choices accepted by the buy endpoint
const (
	BarterAttempt = "attempt"
	BarterDecline = "decline"
)

// Log messages
const (
	LogMsgEncodeResponseFailed = "Failed to encode JSON response"
	LogMsgWriteResponseFailed  = "Failed to write response buffer"
	LogMsgMissingActor         = "Request without actor header"
	LogMsgReadinessFailed      = "Readiness check failed"
	LogMsgCharacterCreated     = "Character created"
	LogMsgCharacterUpdated     = "Character updated"
	LogMsgCharacterDeleted     = "Character deleted"
	LogMsgAccessGranted        = "Character access granted"
	LogMsgDeleteAllFinished    = "Delete all finished"
	LogMsgItemAdded            = "Item added"
	LogMsgItemUpdated          = "Item updated"
	LogMsgItemRemoved          = "Item removed"
	LogMsgStockAdjusted        = "Stock adjusted"
	LogMsgPurchaseCompleted    = "Purchase completed"
	LogMsgCharactersExported   = "Characters exported"
	LogMsgCharactersImported   = "Characters imported"
)
