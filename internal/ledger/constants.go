package ledger

import "time"

// Retry defaults
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 200 * time.Millisecond
)

// Log messages
const (
	LogMsgReceipt   = "Purchase recorded"
	LogMsgPostRetry = "Ledger post failed, retrying"
)
