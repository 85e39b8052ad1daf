// Package inventory manages the items each character has for sale.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/permission"
	"github.com/osse101/npcbot/internal/repository"
)

// CharacterLookup resolves the character that owns an inventory
type CharacterLookup interface {
	Get(ctx context.Context, tenantID, name string) (*domain.Character, error)
}

// Service defines the interface for inventory operations
type Service interface {
	AddItem(ctx context.Context, tenantID, characterName string, item NewItem, actor string) (*domain.InventoryItem, error)
	EditItem(ctx context.Context, tenantID, characterName, itemName string, patch domain.ItemPatch, actor string) (*domain.InventoryItem, error)

	// AddStock applies delta (negative removes stock). It fails with
	// domain.ErrInsufficientStock, writing nothing, if the result would be negative.
	AddStock(ctx context.Context, tenantID, characterName, itemName string, delta int, actor string) (*domain.InventoryItem, error)

	RemoveItem(ctx context.Context, tenantID, characterName, itemName, actor string) error
	ListItems(ctx context.Context, tenantID, characterName, viewer string) (*View, error)
	GetItem(ctx context.Context, tenantID, characterName, itemName string) (*domain.Character, *domain.InventoryItem, error)
}

// NewItem describes an item to stock. A nil Price means domain.DefaultItemPrice.
type NewItem struct {
	Name              string
	Quantity          int
	Info              string
	Price             *int
	DiscountPercent   int
	DiscountThreshold int
}

// View is a character's inventory as seen by one viewer
type View struct {
	Character string            `json:"character"`
	Detailed  bool              `json:"detailed"`
	Items     []domain.ItemView `json:"items"`
}

// String renders one item per line, or a notice when empty
func (v *View) String() string {
	if len(v.Items) == 0 {
		return fmt.Sprintf("%s has nothing for sale", v.Character)
	}
	lines := make([]string, len(v.Items))
	for i, item := range v.Items {
		lines[i] = item.String()
	}
	return strings.Join(lines, "\n")
}

type service struct {
	repo       repository.Inventory
	characters CharacterLookup
}

// NewService creates a new inventory service
func NewService(repo repository.Inventory, characters CharacterLookup) Service {
	return &service{repo: repo, characters: characters}
}

// allowedCharacter loads the character and checks actor may manage it
func (s *service) allowedCharacter(ctx context.Context, tenantID, characterName, actor string) (*domain.Character, error) {
	c, err := s.characters.Get(ctx, tenantID, characterName)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAllowed(c, actor); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) AddItem(ctx context.Context, tenantID, characterName string, in NewItem, actor string) (*domain.InventoryItem, error) {
	c, err := s.allowedCharacter(ctx, tenantID, characterName, actor)
	if err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		CharacterID:       c.ID,
		Name:              in.Name,
		Quantity:          in.Quantity,
		Info:              in.Info,
		Price:             domain.DefaultItemPrice,
		DiscountPercent:   in.DiscountPercent,
		DiscountThreshold: in.DiscountThreshold,
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgItemAdded, "tenant_id", tenantID, "character", characterName, "item", item.Name, "quantity", item.Quantity, "actor", actor)
	return item, nil
}

func (s *service) EditItem(ctx context.Context, tenantID, characterName, itemName string, patch domain.ItemPatch, actor string) (*domain.InventoryItem, error) {
	c, err := s.allowedCharacter(ctx, tenantID, characterName, actor)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := tx.GetItemForUpdate(ctx, c.ID, itemName)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return item, nil
	}

	if patch.Renames(item) {
		if err := domain.ValidateItemName(*patch.NewName); err != nil {
			return nil, err
		}
		taken, err := tx.ItemExists(ctx, c.ID, *patch.NewName)
		if err != nil {
			return nil, fmt.Errorf("failed to check item name: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateItem, *patch.NewName)
		}
	}

	patch.Apply(item)
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := tx.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgItemEdited, "tenant_id", tenantID, "character", characterName, "item", itemName, "new_name", item.Name, "actor", actor)
	return item, nil
}

func (s *service) AddStock(ctx context.Context, tenantID, characterName, itemName string, delta int, actor string) (*domain.InventoryItem, error) {
	c, err := s.allowedCharacter(ctx, tenantID, characterName, actor)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := tx.GetItemForUpdate(ctx, c.ID, itemName)
	if err != nil {
		return nil, err
	}
	if item.Quantity+delta < 0 {
		return nil, fmt.Errorf("%w: %d in stock, cannot remove %d", domain.ErrInsufficientStock, item.Quantity, -delta)
	}
	if delta == 0 {
		return item, nil
	}

	item.Quantity += delta
	if err := tx.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgStockAdjusted, "tenant_id", tenantID, "character", characterName, "item", itemName, "delta", delta, "quantity", item.Quantity)
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, tenantID, characterName, itemName, actor string) error {
	c, err := s.allowedCharacter(ctx, tenantID, characterName, actor)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, c.ID, itemName); err != nil {
		return err
	}

	logger.FromContext(ctx).Info(LogMsgItemRemoved, "tenant_id", tenantID, "character", characterName, "item", itemName, "actor", actor)
	return nil
}

func (s *service) ListItems(ctx context.Context, tenantID, characterName, viewer string) (*View, error) {
	c, err := s.characters.Get(ctx, tenantID, characterName)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	detailed := permission.CanSeePricing(c, viewer)
	view := &View{Character: c.Name, Detailed: detailed, Items: make([]domain.ItemView, len(items))}
	for i := range items {
		view.Items[i] = items[i].View(detailed)
	}
	return view, nil
}

func (s *service) GetItem(ctx context.Context, tenantID, characterName, itemName string) (*domain.Character, *domain.InventoryItem, error) {
	c, err := s.characters.Get(ctx, tenantID, characterName)
	if err != nil {
		return nil, nil, err
	}
	item, err := s.repo.GetItem(ctx, c.ID, itemName)
	if err != nil {
		return nil, nil, err
	}
	return c, item, nil
}
