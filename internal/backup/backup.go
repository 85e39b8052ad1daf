// Package backup converts a tenant's characters to and from the JSON backup
// document kept in the backup channel. Inventories are not part of a backup.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/validation"
)

// ErrNoCharacters is returned when a tenant has nothing to export
var ErrNoCharacters = fmt.Errorf("no characters to export: %w", domain.ErrNotFound)

// Entry is one character in a backup document
type Entry struct {
	OwnerID      string   `json:"owner_id"`
	ImageURL     string   `json:"image_url"`
	Background   string   `json:"background"`
	AllowedUsers []string `json:"allowed_users"`
}

// Document maps character names to their entries
type Document map[string]Entry

// Encode renders characters as an indented backup document
func Encode(characters []domain.Character) ([]byte, error) {
	doc := make(Document, len(characters))
	for _, c := range characters {
		allowed := c.AllowedUsers
		if allowed == nil {
			allowed = []string{}
		}
		doc[c.Name] = Entry{
			OwnerID:      c.OwnerID,
			ImageURL:     c.ImageURL,
			Background:   c.Background,
			AllowedUsers: allowed,
		}
	}
	return json.MarshalIndent(doc, "", "    ")
}

// Decode parses a backup document. Characters come back sorted by name and
// without a tenant.
func Decode(data []byte) ([]domain.Character, error) {
	if err := validation.ValidateBackup(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: backup is not valid JSON: %v", domain.ErrInvalidInput, err)
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	characters := make([]domain.Character, 0, len(doc))
	for _, name := range names {
		e := doc[name]
		characters = append(characters, domain.Character{
			Name:         name,
			OwnerID:      e.OwnerID,
			ImageURL:     e.ImageURL,
			Background:   e.Background,
			AllowedUsers: e.AllowedUsers,
		})
	}
	return characters, nil
}

// CharacterStore is the part of the character service a backup needs
type CharacterStore interface {
	ListAll(ctx context.Context, tenantID string) ([]domain.Character, error)
	Import(ctx context.Context, tenantID string, characters []domain.Character) (int, error)
}

// Service exports and imports backup documents
type Service struct {
	characters CharacterStore
}

// NewService creates a new backup service
func NewService(characters CharacterStore) *Service {
	return &Service{characters: characters}
}

// Export returns the tenant's characters as a backup document
func (s *Service) Export(ctx context.Context, tenantID string) ([]byte, error) {
	characters, err := s.characters.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(characters) == 0 {
		return nil, ErrNoCharacters
	}

	data, err := Encode(characters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	logger.FromContext(ctx).Info(LogMsgExported, "tenant_id", tenantID, "characters", len(characters))
	return data, nil
}

// Import loads a backup document into the tenant and returns how many
// characters were added. Names that already exist are skipped.
func (s *Service) Import(ctx context.Context, tenantID string, data []byte) (int, error) {
	characters, err := Decode(data)
	if err != nil {
		return 0, err
	}
	return s.characters.Import(ctx, tenantID, characters)
}
