package fake

import (
	"context"
	"sort"
	"time"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/repository"
)

// CharacterRepository implements repository.Character in memory
type CharacterRepository struct {
	s *Store
}

// CharacterTx implements repository.CharacterTx in memory
type CharacterTx struct {
	*tx
}

var (
	_ repository.Character   = (*CharacterRepository)(nil)
	_ repository.CharacterTx = (*CharacterTx)(nil)
)

func (r *CharacterRepository) GetCharacter(ctx context.Context, tenantID, name string) (*domain.Character, error) {
	if err := r.s.failure("GetCharacter"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.s.findCharacter(tenantID, name)
	if c == nil {
		return nil, domain.ErrCharacterNotFound
	}
	return cloneCharacter(c), nil
}

func (r *CharacterRepository) GetCharacterVersion(ctx context.Context, tenantID, name string) (int64, int64, error) {
	if err := r.s.failure("GetCharacterVersion"); err != nil {
		return 0, 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.s.findCharacter(tenantID, name)
	if c == nil {
		return 0, 0, domain.ErrCharacterNotFound
	}
	return c.ID, c.Version, nil
}

func (r *CharacterRepository) ListCharacters(ctx context.Context, tenantID string) ([]domain.Character, error) {
	if err := r.s.failure("ListCharacters"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Character
	for _, c := range r.s.characters {
		if c.TenantID == tenantID {
			out = append(out, *cloneCharacter(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CharacterRepository) CreateCharacter(ctx context.Context, c *domain.Character) error {
	if err := r.s.failure("CreateCharacter"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertCharacter(c)
}

func (r *CharacterRepository) BeginTx(ctx context.Context) (repository.CharacterTx, error) {
	if err := r.s.failure("BeginTx"); err != nil {
		return nil, err
	}
	return &CharacterTx{tx: r.s.begin()}, nil
}

func (t *CharacterTx) GetCharacterForUpdate(ctx context.Context, tenantID, name string) (*domain.Character, error) {
	c := t.s.findCharacter(tenantID, name)
	if c == nil {
		return nil, domain.ErrCharacterNotFound
	}
	return cloneCharacter(c), nil
}

func (t *CharacterTx) CharacterExists(ctx context.Context, tenantID, name string) (bool, error) {
	return t.s.findCharacter(tenantID, name) != nil, nil
}

func (t *CharacterTx) InsertCharacter(ctx context.Context, c *domain.Character) error {
	if err := t.s.failure("InsertCharacter"); err != nil {
		return err
	}
	return t.s.insertCharacter(c)
}

func (t *CharacterTx) UpdateCharacter(ctx context.Context, c *domain.Character) error {
	if err := t.s.failure("UpdateCharacter"); err != nil {
		return err
	}
	existing, ok := t.s.characters[c.ID]
	if !ok {
		return domain.ErrCharacterNotFound
	}
	if other := t.s.findCharacter(existing.TenantID, c.Name); other != nil && other.ID != c.ID {
		return domain.ErrDuplicateName
	}
	c.Version = existing.Version + 1
	c.UpdatedAt = time.Now()
	t.s.characters[c.ID] = cloneCharacter(c)
	return nil
}

func (t *CharacterTx) DeleteCharacter(ctx context.Context, characterID int64) error {
	if _, ok := t.s.characters[characterID]; !ok {
		return domain.ErrCharacterNotFound
	}
	for _, item := range t.s.items {
		if item.CharacterID == characterID {
			return ErrForeignKey
		}
	}
	delete(t.s.characters, characterID)
	return nil
}

func (t *CharacterTx) DeleteInventory(ctx context.Context, characterID int64) (int64, error) {
	var n int64
	for id, item := range t.s.items {
		if item.CharacterID == characterID {
			delete(t.s.items, id)
			n++
		}
	}
	return n, nil
}

func (t *CharacterTx) DeleteTenant(ctx context.Context, tenantID string) (int64, error) {
	if err := t.s.failure("DeleteTenant"); err != nil {
		return 0, err
	}
	var n int64
	for id, c := range t.s.characters {
		if c.TenantID != tenantID {
			continue
		}
		if _, err := t.DeleteInventory(ctx, id); err != nil {
			return 0, err
		}
		delete(t.s.characters, id)
		n++
	}
	return n, nil
}
