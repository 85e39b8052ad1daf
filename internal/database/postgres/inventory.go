package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/repository"
)

const itemColumns = `id, character_id, name, quantity, COALESCE(info, ''), price, discount_percent, discount_threshold`

// InventoryRepository implements repository.Inventory for PostgreSQL
type InventoryRepository struct {
	db poolIface
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db poolIface) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// InventoryTx implements repository.InventoryTx
type InventoryTx struct {
	tx pgx.Tx
}

var (
	_ repository.Inventory   = (*InventoryRepository)(nil)
	_ repository.InventoryTx = (*InventoryTx)(nil)
)

// BeginTx starts a new transaction
func (r *InventoryRepository) BeginTx(ctx context.Context) (repository.InventoryTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, oops.In("postgres").With("operation", OpBeginTransaction).Wrapf(err, ErrMsgFailedToBeginTransaction)
	}
	return &InventoryTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *InventoryTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *InventoryTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetItem finds an item on the character's shelf by name
func (r *InventoryRepository) GetItem(ctx context.Context, characterID int64, name string) (*domain.InventoryItem, error) {
	return getItem(ctx, r.db, characterID, name, false)
}

// ListItems returns the character's items in insertion order
func (r *InventoryRepository) ListItems(ctx context.Context, characterID int64) ([]domain.InventoryItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE character_id = $1 ORDER BY id`, characterID)
	if err != nil {
		return nil, oops.In("postgres").With("operation", OpListItems).With("character_id", characterID).Wrap(err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, oops.In("postgres").With("operation", OpListItems).With("character_id", characterID).Wrap(err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("postgres").With("operation", OpListItems).With("character_id", characterID).Wrap(err)
	}
	return items, nil
}

// CreateItem inserts a new item and fills in its id
func (r *InventoryRepository) CreateItem(ctx context.Context, item *domain.InventoryItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO inventory_items (character_id, name, quantity, info, price, discount_percent, discount_threshold)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		RETURNING id`,
		item.CharacterID, item.Name, item.Quantity, item.Info, item.Price, item.DiscountPercent, item.DiscountThreshold,
	).Scan(&item.ID)
	if err != nil {
		return classifyItemWriteError(err, OpInsertItem, item)
	}
	return nil
}

// DeleteItem removes an item from the character's shelf
func (r *InventoryRepository) DeleteItem(ctx context.Context, characterID int64, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE character_id = $1 AND name = $2`, characterID, name)
	if err != nil {
		return oops.In("postgres").With("operation", OpDeleteItem).With("character_id", characterID, "name", name).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// DecrementStock takes quantity units off the shelf only if that many remain.
// Two buyers racing for the last unit cannot both succeed.
func (r *InventoryRepository) DecrementStock(ctx context.Context, itemID int64, quantity int) (int, error) {
	var remaining int
	err := r.db.QueryRow(ctx, `
		UPDATE inventory_items
		SET quantity = quantity - $1
		WHERE id = $2 AND quantity >= $1
		RETURNING quantity`,
		quantity, itemID,
	).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !isNoRows(err) {
		return 0, oops.In("postgres").With("operation", OpDecrementStock).With("item_id", itemID, "quantity", quantity).Wrap(err)
	}

	// Nothing matched: either the row is gone or the stock ran short.
	var current int
	err = r.db.QueryRow(ctx, `SELECT quantity FROM inventory_items WHERE id = $1`, itemID).Scan(&current)
	switch {
	case err == nil:
		return current, fmt.Errorf("%w: %d left, %d requested", domain.ErrInsufficientStock, current, quantity)
	case isNoRows(err):
		return 0, domain.ErrItemNotFound
	default:
		return 0, oops.In("postgres").With("operation", OpCheckRemovedStock).With("item_id", itemID).Wrap(err)
	}
}

// GetItemForUpdate locks the item row for the rest of the transaction
func (t *InventoryTx) GetItemForUpdate(ctx context.Context, characterID int64, name string) (*domain.InventoryItem, error) {
	return getItem(ctx, t.tx, characterID, name, true)
}

// ItemExists reports whether the character already stocks name
func (t *InventoryTx) ItemExists(ctx context.Context, characterID int64, name string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE character_id = $1 AND name = $2)`, characterID, name).Scan(&exists)
	if err != nil {
		return false, oops.In("postgres").With("operation", OpItemExists).With("character_id", characterID, "name", name).Wrap(err)
	}
	return exists, nil
}

// UpdateItem writes every mutable column of item
func (t *InventoryTx) UpdateItem(ctx context.Context, item *domain.InventoryItem) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE inventory_items
		SET name = $2, quantity = $3, info = NULLIF($4, ''), price = $5, discount_percent = $6, discount_threshold = $7
		WHERE id = $1`,
		item.ID, item.Name, item.Quantity, item.Info, item.Price, item.DiscountPercent, item.DiscountThreshold,
	)
	if err != nil {
		return classifyItemWriteError(err, OpUpdateItem, item)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func getItem(ctx context.Context, q querier, characterID int64, name string, forUpdate bool) (*domain.InventoryItem, error) {
	sql := `SELECT ` + itemColumns + ` FROM inventory_items WHERE character_id = $1 AND name = $2`
	if forUpdate {
		sql += ` FOR UPDATE`
	}

	item, err := scanItem(q.QueryRow(ctx, sql, characterID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrItemNotFound
		}
		return nil, oops.In("postgres").With("operation", OpGetItem).With("character_id", characterID, "name", name).Wrap(err)
	}
	return item, nil
}

func classifyItemWriteError(err error, op string, item *domain.InventoryItem) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicateItem, item.Name)
	case isForeignKeyViolation(err):
		return domain.ErrCharacterNotFound
	case isCheckViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErrorCode(err))
	default:
		return oops.In("postgres").With("operation", op).With("character_id", item.CharacterID, "name", item.Name).Wrap(err)
	}
}

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	if err := row.Scan(&item.ID, &item.CharacterID, &item.Name, &item.Quantity, &item.Info,
		&item.Price, &item.DiscountPercent, &item.DiscountThreshold); err != nil {
		return nil, err
	}
	return &item, nil
}
