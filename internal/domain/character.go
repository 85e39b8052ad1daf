package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Character is a named persona inside a tenant. The creator owns it for life;
// AllowedUsers always contains the owner. Version goes up by one on every
// update of the row.
type Character struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	ImageURL     string    `json:"image_url"`
	Background   string    `json:"background"`
	AllowedUsers []string  `json:"allowed_users"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCharacter builds a character owned by creator.
func NewCharacter(tenantID, name, imageURL, background, creator string) *Character {
	return &Character{
		TenantID:     tenantID,
		Name:         name,
		OwnerID:      creator,
		ImageURL:     imageURL,
		Background:   background,
		AllowedUsers: []string{creator},
	}
}

// IsOwner reports whether userID created the character.
func (c *Character) IsOwner(userID string) bool {
	return userID != "" && c.OwnerID == userID
}

// IsAllowed reports whether userID may act as the character.
func (c *Character) IsAllowed(userID string) bool {
	if c.IsOwner(userID) {
		return true
	}
	return userID != "" && slices.Contains(c.AllowedUsers, userID)
}

// Grant adds userID to the allowed set. It returns false when nothing changed.
func (c *Character) Grant(userID string) bool {
	if c.IsAllowed(userID) {
		return false
	}
	c.AllowedUsers = append(c.AllowedUsers, userID)
	return true
}

// Normalize puts the owner first in AllowedUsers and drops duplicates.
// Rows restored from older backups do not always list the owner.
func (c *Character) Normalize() {
	seen := map[string]bool{c.OwnerID: true}
	users := make([]string, 0, len(c.AllowedUsers)+1)
	users = append(users, c.OwnerID)
	for _, u := range c.AllowedUsers {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		users = append(users, u)
	}
	c.AllowedUsers = users
}

// Validate checks the field limits of the character.
func (c *Character) Validate() error {
	if err := ValidateCharacterName(c.Name); err != nil {
		return err
	}
	if strings.TrimSpace(c.TenantID) == "" || utf8.RuneCountInString(c.TenantID) > MaxTenantIDLength {
		return fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.OwnerID) == "" || utf8.RuneCountInString(c.OwnerID) > MaxUserIDLength {
		return fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(c.ImageURL) > MaxImageURLLength {
		return fmt.Errorf("%w: image url longer than %d characters", ErrInvalidInput, MaxImageURLLength)
	}
	if utf8.RuneCountInString(c.Background) > MaxBackgroundLength {
		return fmt.Errorf("%w: background longer than %d characters", ErrInvalidInput, MaxBackgroundLength)
	}
	return nil
}

// ValidateCharacterName enforces the non-empty and length rules on names.
func ValidateCharacterName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: character name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxCharacterNameLength {
		return fmt.Errorf("%w: character name longer than %d characters", ErrInvalidInput, MaxCharacterNameLength)
	}
	return nil
}

// CharacterPatch lists the editable attributes of a character.
// A nil field is left unchanged; a pointer to "" clears the field.
type CharacterPatch struct {
	NewName    *string `json:"new_name,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	Background *string `json:"background,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CharacterPatch) IsEmpty() bool {
	return p.NewName == nil && p.ImageURL == nil && p.Background == nil
}

// Renames reports whether the patch moves c to a different name.
func (p CharacterPatch) Renames(c *Character) bool {
	return p.NewName != nil && *p.NewName != c.Name
}

// Apply writes the present fields onto c.
func (p CharacterPatch) Apply(c *Character) {
	if p.NewName != nil {
		c.Name = *p.NewName
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.Background != nil {
		c.Background = *p.Background
	}
}
