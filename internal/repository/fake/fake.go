// Package fake is a stateful in-memory implementation of the repository
// interfaces. It mirrors the Postgres constraints (unique names, restricted
// character deletes, conditional stock decrement) so service tests can run
// integration-style without a database.
package fake

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/osse101/npcbot/internal/domain"
)

// ErrForeignKey mirrors the restricted delete of a character that still has items.
var ErrForeignKey = errors.New("inventory_items references characters")

// Store holds the shared state behind the character and inventory fakes.
// A transaction holds the store lock until Commit or Rollback.
type Store struct {
	mu         sync.Mutex
	characters map[int64]*domain.Character
	items      map[int64]*domain.InventoryItem
	nextCharID int64
	nextItemID int64

	errMu    sync.Mutex
	failures map[string]error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		characters: make(map[int64]*domain.Character),
		items:      make(map[int64]*domain.InventoryItem),
		failures:   make(map[string]error),
	}
}

// Characters returns the repository.Character view of the store
func (s *Store) Characters() *CharacterRepository {
	return &CharacterRepository{s: s}
}

// Inventory returns the repository.Inventory view of the store
func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{s: s}
}

// FailOn makes every later call of the named method return err.
// Pass a nil error to clear it.
func (s *Store) FailOn(method string, err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

func (s *Store) failure(method string) error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.failures[method]
}

type snapshot struct {
	characters map[int64]*domain.Character
	items      map[int64]*domain.InventoryItem
	nextCharID int64
	nextItemID int64
}

// snapshot must be called with mu held.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		characters: make(map[int64]*domain.Character, len(s.characters)),
		items:      make(map[int64]*domain.InventoryItem, len(s.items)),
		nextCharID: s.nextCharID,
		nextItemID: s.nextItemID,
	}
	for id, c := range s.characters {
		snap.characters[id] = cloneCharacter(c)
	}
	for id, item := range s.items {
		cp := *item
		snap.items[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.characters = snap.characters
	s.items = snap.items
	s.nextCharID = snap.nextCharID
	s.nextItemID = snap.nextItemID
}

// tx is the shared transaction state. The store lock is held while open.
type tx struct {
	s      *Store
	snap   snapshot
	closed bool
}

func (s *Store) begin() *tx {
	s.mu.Lock()
	return &tx{s: s, snap: s.snapshot()}
}

func (t *tx) Commit(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if err := t.s.failure("Commit"); err != nil {
		return err
	}
	t.closed = true
	t.s.mu.Unlock()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.closed {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.closed = true
	t.s.restore(t.snap)
	t.s.mu.Unlock()
	return nil
}

// findCharacter must be called with mu held.
func (s *Store) findCharacter(tenantID, name string) *domain.Character {
	for _, c := range s.characters {
		if c.TenantID == tenantID && c.Name == name {
			return c
		}
	}
	return nil
}

// findItem must be called with mu held.
func (s *Store) findItem(characterID int64, name string) *domain.InventoryItem {
	for _, item := range s.items {
		if item.CharacterID == characterID && item.Name == name {
			return item
		}
	}
	return nil
}

func (s *Store) insertCharacter(c *domain.Character) error {
	if s.findCharacter(c.TenantID, c.Name) != nil {
		return domain.ErrDuplicateName
	}
	s.nextCharID++
	now := time.Now()
	c.ID = s.nextCharID
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	s.characters[c.ID] = cloneCharacter(c)
	return nil
}

func cloneCharacter(c *domain.Character) *domain.Character {
	cp := *c
	cp.AllowedUsers = slices.Clone(c.AllowedUsers)
	return &cp
}
