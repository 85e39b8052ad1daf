package domain

import "time"

// Character field limits, matching the column sizes in the schema
const (
	MaxCharacterNameLength = 50
	MaxImageURLLength      = 255
	MaxBackgroundLength    = 1000
	MaxUserIDLength        = 50
	MaxTenantIDLength      = 50
)

// Inventory field limits
const (
	MaxItemNameLength   = 100
	MaxItemInfoLength   = 255
	MaxDiscountPercent  = 100
	MaxPurchaseQuantity = 10000
)

// Item defaults applied by AddItem when the caller leaves them unset
const (
	DefaultItemPrice             = 1
	DefaultItemDiscountPercent   = 0
	DefaultItemDiscountThreshold = 0
)

// Barter dice. A natural roll always succeeds regardless of the threshold.
const (
	MinRoll     = 1
	MaxRoll     = 20
	NaturalRoll = 20
)

// Interaction timeouts
const (
	DefaultNegotiationTimeout = 120 * time.Second
	DefaultDeleteAllTimeout   = 60 * time.Second
)
