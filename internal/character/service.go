// Package character manages the NPC characters of a tenant and who may use them.
package character

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/osse101/npcbot/internal/concurrency"
	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/permission"
	"github.com/osse101/npcbot/internal/prompt"
	"github.com/osse101/npcbot/internal/repository"
)

// Service defines the interface for character operations
type Service interface {
	Create(ctx context.Context, tenantID, name, imageURL, background, creator string) (*domain.Character, error)
	Edit(ctx context.Context, tenantID, name string, patch domain.CharacterPatch, actor string) (*domain.Character, error)
	GrantAccess(ctx context.Context, tenantID, name, actor, grantee string) (*domain.Character, error)
	Delete(ctx context.Context, tenantID, name, actor string) error

	// DeleteAll asks actor to confirm and then removes every character and
	// item of the tenant. Anything but an explicit accept cancels.
	DeleteAll(ctx context.Context, tenantID, actor string, p prompt.Prompter) (DeleteAllResult, error)

	Get(ctx context.Context, tenantID, name string) (*domain.Character, error)
	ListAll(ctx context.Context, tenantID string) ([]domain.Character, error)

	// Import inserts characters from a backup, skipping names already taken.
	Import(ctx context.Context, tenantID string, characters []domain.Character) (int, error)

	GetCacheStats() CacheStats
}

// DeleteAllOutcome is the final state of a delete-all confirmation
type DeleteAllOutcome string

const (
	DeleteAllConfirmed DeleteAllOutcome = "confirmed"
	DeleteAllCancelled DeleteAllOutcome = "cancelled"
)

// DeleteAllResult reports what DeleteAll did
type DeleteAllResult struct {
	Outcome DeleteAllOutcome `json:"outcome"`
	Deleted int64            `json:"deleted"`
}

// Config tunes the service
type Config struct {
	Cache            CacheConfig
	DeleteAllTimeout time.Duration
}

// DefaultConfig returns the default service configuration
func DefaultConfig() Config {
	return Config{
		Cache:            DefaultCacheConfig(),
		DeleteAllTimeout: domain.DefaultDeleteAllTimeout,
	}
}

type service struct {
	repo             repository.Character
	cache            *characterCache
	locks            *concurrency.LockManager
	deleteAllTimeout time.Duration
}

// NewService creates a new character service
func NewService(repo repository.Character, cfg Config) Service {
	if cfg.DeleteAllTimeout <= 0 {
		cfg.DeleteAllTimeout = domain.DefaultDeleteAllTimeout
	}
	return &service{
		repo:             repo,
		cache:            newCharacterCache(cfg.Cache),
		locks:            concurrency.NewLockManager(),
		deleteAllTimeout: cfg.DeleteAllTimeout,
	}
}

func (s *service) Create(ctx context.Context, tenantID, name, imageURL, background, creator string) (*domain.Character, error) {
	log := logger.FromContext(ctx)

	c := domain.NewCharacter(tenantID, name, imageURL, background, creator)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	exists, err := tx.CharacterExists(ctx, tenantID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check character name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateName, name)
	}

	if err := tx.InsertCharacter(ctx, c); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Set(c)
	log.Info(LogMsgCharacterCreated, "tenant_id", tenantID, "character", name, "owner_id", creator)
	return c, nil
}

func (s *service) Edit(ctx context.Context, tenantID, name string, patch domain.CharacterPatch, actor string) (*domain.Character, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	c, err := tx.GetCharacterForUpdate(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireAllowed(c, actor); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return c, nil
	}

	if patch.Renames(c) {
		if err := domain.ValidateCharacterName(*patch.NewName); err != nil {
			return nil, err
		}
		taken, err := tx.CharacterExists(ctx, tenantID, *patch.NewName)
		if err != nil {
			return nil, fmt.Errorf("failed to check character name: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateName, *patch.NewName)
		}
	}

	patch.Apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := tx.UpdateCharacter(ctx, c); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Invalidate(tenantID, name)
	s.cache.Invalidate(tenantID, c.Name)
	log.Info(LogMsgCharacterEdited, "tenant_id", tenantID, "character", name, "new_name", c.Name, "actor", actor)
	return c, nil
}

func (s *service) GrantAccess(ctx context.Context, tenantID, name, actor, grantee string) (*domain.Character, error) {
	log := logger.FromContext(ctx)

	if grantee == "" || utf8.RuneCountInString(grantee) > domain.MaxUserIDLength {
		return nil, fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	c, err := tx.GetCharacterForUpdate(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if err := permission.RequireOwner(c, actor); err != nil {
		return nil, err
	}
	if !c.Grant(grantee) {
		return c, nil
	}

	if err := tx.UpdateCharacter(ctx, c); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Invalidate(tenantID, name)
	log.Info(LogMsgAccessGranted, "tenant_id", tenantID, "character", name, "grantee", grantee)
	return c, nil
}

func (s *service) Delete(ctx context.Context, tenantID, name, actor string) error {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	c, err := tx.GetCharacterForUpdate(ctx, tenantID, name)
	if err != nil {
		return err
	}
	if err := permission.RequireOwner(c, actor); err != nil {
		return err
	}

	items, err := tx.DeleteInventory(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory: %w", err)
	}
	if err := tx.DeleteCharacter(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Invalidate(tenantID, name)
	log.Info(LogMsgCharacterDeleted, "tenant_id", tenantID, "character", name, "items_removed", items)
	return nil
}

func (s *service) DeleteAll(ctx context.Context, tenantID, actor string, p prompt.Prompter) (DeleteAllResult, error) {
	log := logger.FromContext(ctx)

	release, ok := s.locks.TryAcquire(deleteAllLockPrefix + tenantID)
	if !ok {
		return DeleteAllResult{}, domain.ErrConfirmationPending
	}
	defer release()

	choice := prompt.Ask(ctx, p, prompt.Question{
		Actor:        actor,
		Text:         confirmDeleteAllText,
		AcceptLabel:  confirmDeleteAllLabel,
		DeclineLabel: cancelDeleteAllLabel,
		Timeout:      s.deleteAllTimeout,
	})
	if choice != domain.ChoiceAccepted {
		log.Info(LogMsgDeleteAllCancelled, "tenant_id", tenantID, "actor", actor, "choice", choice.String())
		return DeleteAllResult{Outcome: DeleteAllCancelled}, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return DeleteAllResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	deleted, err := tx.DeleteTenant(ctx, tenantID)
	if err != nil {
		return DeleteAllResult{}, fmt.Errorf("failed to delete characters: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return DeleteAllResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.InvalidateTenant(tenantID)
	log.Info(LogMsgDeleteAllCompleted, "tenant_id", tenantID, "actor", actor, "deleted", deleted)
	return DeleteAllResult{Outcome: DeleteAllConfirmed, Deleted: deleted}, nil
}

// Get serves a cached copy only while storage still holds the same row at
// the same version. Other processes write to the same tables, so
// invalidation alone cannot keep the cache current.
func (s *service) Get(ctx context.Context, tenantID, name string) (*domain.Character, error) {
	if c, ok := s.cache.Get(tenantID, name); ok {
		id, version, err := s.repo.GetCharacterVersion(ctx, tenantID, name)
		if errors.Is(err, domain.ErrCharacterNotFound) {
			s.cache.Evict(tenantID, name)
			return nil, err
		}
		if err != nil {
			return nil, err
		}
		if id == c.ID && version == c.Version {
			return c, nil
		}
		s.cache.Evict(tenantID, name)
		logger.FromContext(ctx).Debug(LogMsgCacheStale, "tenant_id", tenantID, "character", name,
			"cached_version", c.Version, "stored_version", version)
	}

	c, err := s.repo.GetCharacter(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(c)
	return c, nil
}

func (s *service) ListAll(ctx context.Context, tenantID string) ([]domain.Character, error) {
	characters, err := s.repo.ListCharacters(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

func (s *service) Import(ctx context.Context, tenantID string, characters []domain.Character) (int, error) {
	log := logger.FromContext(ctx)

	for i := range characters {
		characters[i].TenantID = tenantID
		characters[i].Normalize()
		if err := characters[i].Validate(); err != nil {
			return 0, fmt.Errorf("character %q: %w", characters[i].Name, err)
		}
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	imported := 0
	for i := range characters {
		c := &characters[i]
		exists, err := tx.CharacterExists(ctx, tenantID, c.Name)
		if err != nil {
			return 0, fmt.Errorf("failed to check character name: %w", err)
		}
		if exists {
			log.Warn(LogMsgImportSkippedExists, "tenant_id", tenantID, "character", c.Name)
			continue
		}
		if err := tx.InsertCharacter(ctx, c); err != nil {
			return 0, err
		}
		imported++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.InvalidateTenant(tenantID)
	log.Info(LogMsgCharactersImported, "tenant_id", tenantID, "imported", imported, "received", len(characters))
	return imported, nil
}

func (s *service) GetCacheStats() CacheStats {
	return s.cache.GetStats()
}
