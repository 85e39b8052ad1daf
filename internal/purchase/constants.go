package purchase

import "time"

// DefaultLedgerTimeout bounds one background ledger post, retries included
const DefaultLedgerTimeout = 30 * time.Second

// Barter prompt
const (
	barterPromptFormat = "%s offers a %d%% discount on %s if you win a barter roll (need %d or better on a d20). Try to barter?"
	barterAcceptLabel  = "Barter"
	barterDeclineLabel = "Pay full price"
)

// Log messages
const (
	LogMsgPurchaseCompleted  = "Purchase completed"
	LogMsgPurchaseFailed     = "Purchase failed at commit"
	LogMsgBarterRolled       = "Barter roll"
	LogMsgLedgerPostFailed   = "Failed to post purchase to ledger"
	LogMsgEngineShuttingDown = "Purchase engine shutting down, waiting for ledger posts..."
)
