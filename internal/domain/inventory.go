package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// InventoryItem is a stocked item on a character's shelf.
type InventoryItem struct {
	ID                int64  `json:"id"`
	CharacterID       int64  `json:"character_id"`
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	Info              string `json:"info,omitempty"`
	Price             int    `json:"price"`
	DiscountPercent   int    `json:"discount_percent"`
	DiscountThreshold int    `json:"discount_threshold"`
}

// HasDiscount reports whether buying the item opens a barter.
func (i *InventoryItem) HasDiscount() bool {
	return i.DiscountPercent > 0
}

// DiscountedPrice is the unit price after a successful barter.
// The discount is rounded up, so the buyer never pays a fraction more.
func (i *InventoryItem) DiscountedPrice() int {
	return i.Price - ceilDiv(i.Price*i.DiscountPercent, 100)
}

// BarterSucceeds reports whether roll beats the threshold.
func (i *InventoryItem) BarterSucceeds(roll int) bool {
	return roll == NaturalRoll || roll >= i.DiscountThreshold
}

// Validate checks the field limits of the item.
func (i *InventoryItem) Validate() error {
	if err := ValidateItemName(i.Name); err != nil {
		return err
	}
	switch {
	case i.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	case i.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	case i.DiscountPercent < 0 || i.DiscountPercent > MaxDiscountPercent:
		return fmt.Errorf("%w: discount must be between 0 and %d", ErrInvalidInput, MaxDiscountPercent)
	case i.DiscountThreshold < 0 || i.DiscountThreshold > MaxRoll:
		return fmt.Errorf("%w: discount threshold must be between 0 and %d", ErrInvalidInput, MaxRoll)
	case utf8.RuneCountInString(i.Info) > MaxItemInfoLength:
		return fmt.Errorf("%w: info longer than %d characters", ErrInvalidInput, MaxItemInfoLength)
	}
	return nil
}

// ValidateItemName enforces the non-empty and length rules on item names.
func ValidateItemName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxItemNameLength {
		return fmt.Errorf("%w: item name longer than %d characters", ErrInvalidInput, MaxItemNameLength)
	}
	return nil
}

// View renders the item for a viewer. Pricing is only included when detailed.
func (i *InventoryItem) View(detailed bool) ItemView {
	v := ItemView{
		Name:     i.Name,
		Quantity: i.Quantity,
		Info:     i.Info,
	}
	if detailed {
		price, discount, threshold := i.Price, i.DiscountPercent, i.DiscountThreshold
		v.Price = &price
		v.DiscountPercent = &discount
		v.DiscountThreshold = &threshold
	}
	return v
}

// ItemView is the listing row shown to a viewer.
type ItemView struct {
	Name              string `json:"name"`
	Quantity          int    `json:"quantity"`
	Info              string `json:"info,omitempty"`
	Price             *int   `json:"price,omitempty"`
	DiscountPercent   *int   `json:"discount_percent,omitempty"`
	DiscountThreshold *int   `json:"discount_threshold,omitempty"`
}

// String renders the legacy one-line listing format.
func (v ItemView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d", v.Name, v.Quantity)
	if v.Info != "" {
		fmt.Fprintf(&b, "; %s", v.Info)
	}
	if v.Price != nil {
		fmt.Fprintf(&b, "; %d gold", *v.Price)
		if v.DiscountPercent != nil && *v.DiscountPercent > 0 {
			fmt.Fprintf(&b, "; %d%% discount at roll %d", *v.DiscountPercent, derefInt(v.DiscountThreshold))
		}
	}
	return b.String()
}

// ItemPatch lists the editable attributes of an item.
// A nil field is left unchanged; a pointer to zero sets zero.
type ItemPatch struct {
	NewName           *string `json:"new_name,omitempty"`
	Quantity          *int    `json:"quantity,omitempty"`
	Info              *string `json:"info,omitempty"`
	Price             *int    `json:"price,omitempty"`
	DiscountPercent   *int    `json:"discount_percent,omitempty"`
	DiscountThreshold *int    `json:"discount_threshold,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.NewName == nil && p.Quantity == nil && p.Info == nil &&
		p.Price == nil && p.DiscountPercent == nil && p.DiscountThreshold == nil
}

// Renames reports whether the patch moves item to a different name.
func (p ItemPatch) Renames(item *InventoryItem) bool {
	return p.NewName != nil && *p.NewName != item.Name
}

// Apply writes the present fields onto item.
func (p ItemPatch) Apply(item *InventoryItem) {
	if p.NewName != nil {
		item.Name = *p.NewName
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Info != nil {
		item.Info = *p.Info
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.DiscountPercent != nil {
		item.DiscountPercent = *p.DiscountPercent
	}
	if p.DiscountThreshold != nil {
		item.DiscountThreshold = *p.DiscountThreshold
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
