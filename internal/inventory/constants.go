package inventory

// Log messages
const (
	LogMsgItemAdded     = "Item added"
	LogMsgItemEdited    = "Item edited"
	LogMsgStockAdjusted = "Stock adjusted"
	LogMsgItemRemoved   = "Item removed"
)
