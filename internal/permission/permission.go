// Package permission holds the access checks shared by every character and
// inventory operation. The functions are pure and never touch storage.
package permission

import (
	"fmt"

	"github.com/osse101/npcbot/internal/domain"
)

// RequireOwner fails with domain.ErrNotOwner unless actor created c.
func RequireOwner(c *domain.Character, actor string) error {
	if c == nil || !c.IsOwner(actor) {
		return fmt.Errorf("%w: %s", domain.ErrNotOwner, characterName(c))
	}
	return nil
}

// RequireAllowed fails with domain.ErrNotAllowed unless actor is in the allowed set.
func RequireAllowed(c *domain.Character, actor string) error {
	if c == nil || !c.IsAllowed(actor) {
		return fmt.Errorf("%w: %s", domain.ErrNotAllowed, characterName(c))
	}
	return nil
}

// CanSeePricing reports whether viewer gets the detailed inventory listing.
func CanSeePricing(c *domain.Character, viewer string) bool {
	return c != nil && c.IsAllowed(viewer)
}

func characterName(c *domain.Character) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}
