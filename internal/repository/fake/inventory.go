package fake

import (
	"context"
	"fmt"
	"sort"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/repository"
)

// InventoryRepository implements repository.Inventory in memory
type InventoryRepository struct {
	s *Store
}

// InventoryTx implements repository.InventoryTx in memory
type InventoryTx struct {
	*tx
}

var (
	_ repository.Inventory   = (*InventoryRepository)(nil)
	_ repository.InventoryTx = (*InventoryTx)(nil)
)

func (r *InventoryRepository) GetItem(ctx context.Context, characterID int64, name string) (*domain.InventoryItem, error) {
	if err := r.s.failure("GetItem"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item := r.s.findItem(characterID, name)
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *InventoryRepository) ListItems(ctx context.Context, characterID int64) ([]domain.InventoryItem, error) {
	if err := r.s.failure("ListItems"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.InventoryItem
	for _, item := range r.s.items {
		if item.CharacterID == characterID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InventoryRepository) CreateItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := r.s.failure("CreateItem"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.characters[item.CharacterID]; !ok {
		return domain.ErrCharacterNotFound
	}
	if r.s.findItem(item.CharacterID, item.Name) != nil {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateItem, item.Name)
	}
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *InventoryRepository) DeleteItem(ctx context.Context, characterID int64, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item := r.s.findItem(characterID, name)
	if item == nil {
		return domain.ErrItemNotFound
	}
	delete(r.s.items, item.ID)
	return nil
}

func (r *InventoryRepository) DecrementStock(ctx context.Context, itemID int64, quantity int) (int, error) {
	if err := r.s.failure("DecrementStock"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[itemID]
	if !ok {
		return 0, domain.ErrItemNotFound
	}
	if item.Quantity < quantity {
		return item.Quantity, fmt.Errorf("%w: %d left, %d requested", domain.ErrInsufficientStock, item.Quantity, quantity)
	}
	item.Quantity -= quantity
	return item.Quantity, nil
}

func (r *InventoryRepository) BeginTx(ctx context.Context) (repository.InventoryTx, error) {
	if err := r.s.failure("BeginTx"); err != nil {
		return nil, err
	}
	return &InventoryTx{tx: r.s.begin()}, nil
}

// SetQuantity overwrites the stock of an item outside any transaction.
// Tests use it to simulate a concurrent purchase or restock.
func (r *InventoryRepository) SetQuantity(itemID int64, quantity int) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item, ok := r.s.items[itemID]; ok {
		item.Quantity = quantity
	}
}

func (t *InventoryTx) GetItemForUpdate(ctx context.Context, characterID int64, name string) (*domain.InventoryItem, error) {
	item := t.s.findItem(characterID, name)
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (t *InventoryTx) ItemExists(ctx context.Context, characterID int64, name string) (bool, error) {
	return t.s.findItem(characterID, name) != nil, nil
}

func (t *InventoryTx) UpdateItem(ctx context.Context, item *domain.InventoryItem) error {
	if err := t.s.failure("UpdateItem"); err != nil {
		return err
	}
	if _, ok := t.s.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	if other := t.s.findItem(item.CharacterID, item.Name); other != nil && other.ID != item.ID {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateItem, item.Name)
	}
	if item.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	cp := *item
	t.s.items[item.ID] = &cp
	return nil
}
