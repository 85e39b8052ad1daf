package domain

import (
	"fmt"
	"time"
)

// Choice is the answer to an interactive prompt.
type Choice int

const (
	// ChoiceTimedOut is the zero value so an unanswered prompt never counts as consent.
	ChoiceTimedOut Choice = iota
	ChoiceAccepted
	ChoiceDeclined
)

func (c Choice) String() string {
	switch c {
	case ChoiceAccepted:
		return "accepted"
	case ChoiceDeclined:
		return "declined"
	default:
		return "timed_out"
	}
}

// Receipt records a completed sale. It is handed to the ledger and never stored.
type Receipt struct {
	TenantID      string    `json:"tenant_id"`
	BuyerID       string    `json:"buyer_id"`
	BuyerName     string    `json:"buyer_name"`
	CharacterName string    `json:"character_name"`
	ItemName      string    `json:"item_name"`
	Quantity      int       `json:"quantity"`
	UnitPrice     int       `json:"unit_price"`
	TotalPrice    int       `json:"total_price"`
	GotDiscount   bool      `json:"got_discount"`
	Roll          *int      `json:"roll,omitempty"`
	PurchasedAt   time.Time `json:"purchased_at"`
}

// String renders the line posted to the transactions channel.
func (r Receipt) String() string {
	buyer := r.BuyerName
	if buyer == "" {
		buyer = r.BuyerID
	}
	msg := fmt.Sprintf("Player `%s` bought %d of item `%s` for %d gold from %s",
		buyer, r.Quantity, r.ItemName, r.TotalPrice, r.CharacterName)
	if r.GotDiscount {
		msg += " with a discount"
	}
	return msg
}

// PurchaseResult is returned to the buyer after a committed purchase.
type PurchaseResult struct {
	UnitPrice      int     `json:"unit_price"`
	TotalPrice     int     `json:"total_price"`
	GotDiscount    bool    `json:"got_discount"`
	Negotiated     bool    `json:"negotiated"`
	Roll           *int    `json:"roll,omitempty"`
	RemainingStock int     `json:"remaining_stock"`
	Receipt        Receipt `json:"receipt"`
}
