package repository

import (
	"context"

	"github.com/osse101/npcbot/internal/domain"
)

// Inventory defines the interface for inventory persistence.
// Lookups return domain.ErrItemNotFound when the row is missing and
// inserts return domain.ErrDuplicateItem on a (character, name) collision.
type Inventory interface {
	GetItem(ctx context.Context, characterID int64, name string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, characterID int64) ([]domain.InventoryItem, error)
	CreateItem(ctx context.Context, item *domain.InventoryItem) error
	DeleteItem(ctx context.Context, characterID int64, name string) error

	// DecrementStock removes quantity units in a single conditional write and
	// returns what is left. It fails with domain.ErrInsufficientStock when
	// the stock is too low and domain.ErrItemNotFound when the row is gone.
	DecrementStock(ctx context.Context, itemID int64, quantity int) (int, error)

	BeginTx(ctx context.Context) (InventoryTx, error)
}

// InventoryTx defines the interface for inventory transactions
type InventoryTx interface {
	Tx
	GetItemForUpdate(ctx context.Context, characterID int64, name string) (*domain.InventoryItem, error)
	ItemExists(ctx context.Context, characterID int64, name string) (bool, error)
	UpdateItem(ctx context.Context, item *domain.InventoryItem) error
}
