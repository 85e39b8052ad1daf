package repository

import (
	"context"

	"github.com/osse101/npcbot/internal/domain"
)

// Character defines the interface for character persistence.
// Lookups return domain.ErrCharacterNotFound when the row is missing and
// inserts return domain.ErrDuplicateName on a (tenant, name) collision.
type Character interface {
	GetCharacter(ctx context.Context, tenantID, name string) (*domain.Character, error)
	// GetCharacterVersion reads only the id and version of the row. Callers
	// holding a copy use it to tell whether the copy is still current.
	GetCharacterVersion(ctx context.Context, tenantID, name string) (id, version int64, err error)
	ListCharacters(ctx context.Context, tenantID string) ([]domain.Character, error)
	CreateCharacter(ctx context.Context, character *domain.Character) error
	BeginTx(ctx context.Context) (CharacterTx, error)
}

// CharacterTx defines the interface for character transactions
type CharacterTx interface {
	Tx
	GetCharacterForUpdate(ctx context.Context, tenantID, name string) (*domain.Character, error)
	CharacterExists(ctx context.Context, tenantID, name string) (bool, error)
	InsertCharacter(ctx context.Context, character *domain.Character) error
	UpdateCharacter(ctx context.Context, character *domain.Character) error
	DeleteCharacter(ctx context.Context, characterID int64) error
	DeleteInventory(ctx context.Context, characterID int64) (int64, error)
	DeleteTenant(ctx context.Context, tenantID string) (int64, error)
}
