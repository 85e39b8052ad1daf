package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/repository"
)

const characterColumns = `id, tenant_id, name, owner_id, image_url, background, allowed_users, version, created_at, updated_at`

// CharacterRepository implements repository.Character for PostgreSQL
type CharacterRepository struct {
	db poolIface
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db poolIface) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// CharacterTx implements repository.CharacterTx
type CharacterTx struct {
	tx pgx.Tx
}

var (
	_ repository.Character   = (*CharacterRepository)(nil)
	_ repository.CharacterTx = (*CharacterTx)(nil)
)

// BeginTx starts a new transaction
func (r *CharacterRepository) BeginTx(ctx context.Context) (repository.CharacterTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, oops.In("postgres").With("operation", OpBeginTransaction).Wrapf(err, ErrMsgFailedToBeginTransaction)
	}
	return &CharacterTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *CharacterTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *CharacterTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetCharacter finds a character by tenant and name
func (r *CharacterRepository) GetCharacter(ctx context.Context, tenantID, name string) (*domain.Character, error) {
	return getCharacter(ctx, r.db, tenantID, name, false)
}

// GetCharacterVersion reads the id and version of a character
func (r *CharacterRepository) GetCharacterVersion(ctx context.Context, tenantID, name string) (int64, int64, error) {
	var id, version int64
	err := r.db.QueryRow(ctx, `SELECT id, version FROM characters WHERE tenant_id = $1 AND name = $2`, tenantID, name).Scan(&id, &version)
	if err != nil {
		if isNoRows(err) {
			return 0, 0, domain.ErrCharacterNotFound
		}
		return 0, 0, oops.In("postgres").With("operation", OpGetCharacterVersion).With("tenant_id", tenantID, "name", name).Wrap(err)
	}
	return id, version, nil
}

// ListCharacters returns every character of the tenant ordered by id
func (r *CharacterRepository) ListCharacters(ctx context.Context, tenantID string) ([]domain.Character, error) {
	rows, err := r.db.Query(ctx, `SELECT `+characterColumns+` FROM characters WHERE tenant_id = $1 ORDER BY id`, tenantID)
	if err != nil {
		return nil, oops.In("postgres").With("operation", OpListCharacters).With("tenant_id", tenantID).Wrap(err)
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, oops.In("postgres").With("operation", OpListCharacters).With("tenant_id", tenantID).Wrap(err)
		}
		characters = append(characters, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("postgres").With("operation", OpListCharacters).With("tenant_id", tenantID).Wrap(err)
	}
	return characters, nil
}

// CreateCharacter inserts a new character and fills in its id and timestamps
func (r *CharacterRepository) CreateCharacter(ctx context.Context, c *domain.Character) error {
	return insertCharacter(ctx, r.db, c)
}

// GetCharacterForUpdate locks the character row for the rest of the transaction
func (t *CharacterTx) GetCharacterForUpdate(ctx context.Context, tenantID, name string) (*domain.Character, error) {
	return getCharacter(ctx, t.tx, tenantID, name, true)
}

// CharacterExists reports whether the tenant already uses name
func (t *CharacterTx) CharacterExists(ctx context.Context, tenantID, name string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM characters WHERE tenant_id = $1 AND name = $2)`, tenantID, name).Scan(&exists)
	if err != nil {
		return false, oops.In("postgres").With("operation", OpCharacterExists).With("tenant_id", tenantID, "name", name).Wrap(err)
	}
	return exists, nil
}

// InsertCharacter inserts a character inside the transaction
func (t *CharacterTx) InsertCharacter(ctx context.Context, c *domain.Character) error {
	return insertCharacter(ctx, t.tx, c)
}

// UpdateCharacter writes every mutable column of c and bumps its version
func (t *CharacterTx) UpdateCharacter(ctx context.Context, c *domain.Character) error {
	err := t.tx.QueryRow(ctx, `
		UPDATE characters
		SET name = $2, image_url = $3, background = $4, allowed_users = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING version, updated_at`,
		c.ID, c.Name, c.ImageURL, c.Background, c.AllowedUsers,
	).Scan(&c.Version, &c.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case isNoRows(err):
		return domain.ErrCharacterNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicateName, c.Name)
	default:
		return oops.In("postgres").With("operation", OpUpdateCharacter).With("character_id", c.ID).Wrap(err)
	}
}

// DeleteCharacter removes the character row. Inventory must already be gone.
func (t *CharacterTx) DeleteCharacter(ctx context.Context, characterID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM characters WHERE id = $1`, characterID)
	if err != nil {
		return oops.In("postgres").With("operation", OpDeleteCharacter).With("character_id", characterID).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

// DeleteInventory removes every item of the character
func (t *CharacterTx) DeleteInventory(ctx context.Context, characterID int64) (int64, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM inventory_items WHERE character_id = $1`, characterID)
	if err != nil {
		return 0, oops.In("postgres").With("operation", OpDeleteInventory).With("character_id", characterID).Wrap(err)
	}
	return tag.RowsAffected(), nil
}

// DeleteTenant removes every character of the tenant and their inventories.
// It returns the number of characters deleted.
func (t *CharacterTx) DeleteTenant(ctx context.Context, tenantID string) (int64, error) {
	if _, err := t.tx.Exec(ctx, `
		DELETE FROM inventory_items
		WHERE character_id IN (SELECT id FROM characters WHERE tenant_id = $1)`, tenantID); err != nil {
		return 0, oops.In("postgres").With("operation", OpDeleteTenant).With("tenant_id", tenantID).Wrap(err)
	}

	tag, err := t.tx.Exec(ctx, `DELETE FROM characters WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, oops.In("postgres").With("operation", OpDeleteTenant).With("tenant_id", tenantID).Wrap(err)
	}
	return tag.RowsAffected(), nil
}

func getCharacter(ctx context.Context, q querier, tenantID, name string, forUpdate bool) (*domain.Character, error) {
	sql := `SELECT ` + characterColumns + ` FROM characters WHERE tenant_id = $1 AND name = $2`
	if forUpdate {
		sql += ` FOR UPDATE`
	}

	c, err := scanCharacter(q.QueryRow(ctx, sql, tenantID, name))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, oops.In("postgres").With("operation", OpGetCharacter).With("tenant_id", tenantID, "name", name).Wrap(err)
	}
	return c, nil
}

func insertCharacter(ctx context.Context, q querier, c *domain.Character) error {
	err := q.QueryRow(ctx, `
		INSERT INTO characters (tenant_id, name, owner_id, image_url, background, allowed_users)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, version, created_at, updated_at`,
		c.TenantID, c.Name, c.OwnerID, c.ImageURL, c.Background, c.AllowedUsers,
	).Scan(&c.ID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateName, c.Name)
		}
		return oops.In("postgres").With("operation", OpInsertCharacter).With("tenant_id", c.TenantID, "name", c.Name).Wrap(err)
	}
	return nil
}

func scanCharacter(row pgx.Row) (*domain.Character, error) {
	var c domain.Character
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.OwnerID, &c.ImageURL, &c.Background, &c.AllowedUsers, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Normalize()
	return &c, nil
}
