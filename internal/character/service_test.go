package character

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/permission"
	"github.com/osse101/npcbot/internal/prompt"
	"github.com/osse101/npcbot/internal/repository/fake"
)

const tenant = "guild-1"

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (Service, *fake.Store) {
	t.Helper()
	store := fake.NewStore()
	cfg := DefaultConfig()
	cfg.DeleteAllTimeout = 50 * time.Millisecond
	return NewService(store.Characters(), cfg), store
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, tenant, "Bob", "http://img", "A merchant", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.OwnerID)
	assert.Equal(t, []string{"user-1"}, c.AllowedUsers)
	assert.NotZero(t, c.ID)

	_, err = svc.Create(ctx, tenant, "Bob", "", "", "user-2")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = svc.Create(ctx, "guild-2", "Bob", "", "", "user-2")
	assert.NoError(t, err, "names are scoped to the tenant")

	_, err = svc.Create(ctx, tenant, "", "", "", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed user edits", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, tenant, "Bob", "http://img", "old", "owner")
		require.NoError(t, err)
		_, err = svc.GrantAccess(ctx, tenant, "Bob", "owner", "helper")
		require.NoError(t, err)

		c, err := svc.Edit(ctx, tenant, "Bob", domain.CharacterPatch{Background: strPtr("")}, "helper")
		require.NoError(t, err)
		assert.Equal(t, "", c.Background)
		assert.Equal(t, "http://img", c.ImageURL)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
		require.NoError(t, err)

		_, err = svc.Edit(ctx, tenant, "Bob", domain.CharacterPatch{Background: strPtr("x")}, "stranger")
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
	})

	t.Run("missing character", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Edit(ctx, tenant, "Nobody", domain.CharacterPatch{}, "owner")
		assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rename", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
		require.NoError(t, err)
		_, err = svc.Create(ctx, tenant, "Alice", "", "", "owner")
		require.NoError(t, err)

		_, err = svc.Edit(ctx, tenant, "Bob", domain.CharacterPatch{NewName: strPtr("Alice")}, "owner")
		assert.ErrorIs(t, err, domain.ErrDuplicateName)

		// Warm the cache under the old name, then rename.
		_, err = svc.Get(ctx, tenant, "Bob")
		require.NoError(t, err)
		c, err := svc.Edit(ctx, tenant, "Bob", domain.CharacterPatch{NewName: strPtr("Robert")}, "owner")
		require.NoError(t, err)
		assert.Equal(t, "Robert", c.Name)

		_, err = svc.Get(ctx, tenant, "Bob")
		assert.ErrorIs(t, err, domain.ErrCharacterNotFound, "old name must not be served from cache")
		_, err = svc.Get(ctx, tenant, "Robert")
		assert.NoError(t, err)
	})
}

func TestGrantAccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
	require.NoError(t, err)

	c, err := svc.GrantAccess(ctx, tenant, "Bob", "owner", "friend")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "friend"}, c.AllowedUsers)

	c, err = svc.GrantAccess(ctx, tenant, "Bob", "owner", "friend")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "friend"}, c.AllowedUsers, "grant is idempotent")

	_, err = svc.GrantAccess(ctx, tenant, "Bob", "friend", "other")
	assert.ErrorIs(t, err, domain.ErrNotOwner, "allowed users cannot grant")

	_, err = svc.GrantAccess(ctx, tenant, "Bob", "owner", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
	require.NoError(t, err)
	_, err = svc.GrantAccess(ctx, tenant, "Bob", "owner", "friend")
	require.NoError(t, err)
	require.NoError(t, store.Inventory().CreateItem(ctx, &domain.InventoryItem{CharacterID: c.ID, Name: "sword", Quantity: 1, Price: 1}))

	assert.ErrorIs(t, svc.Delete(ctx, tenant, "Bob", "friend"), domain.ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, tenant, "Bob", "owner"))
	_, err = svc.Get(ctx, tenant, "Bob")
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)

	items, err := store.Inventory().ListItems(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "inventory goes with the character")
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc Service) {
		for _, name := range []string{"A", "B", "C"} {
			_, err := svc.Create(ctx, tenant, name, "", "", "owner")
			require.NoError(t, err)
		}
		_, err := svc.Create(ctx, "guild-2", "Other", "", "", "owner")
		require.NoError(t, err)
	}

	t.Run("confirmed", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)

		res, err := svc.DeleteAll(ctx, tenant, "admin", prompt.Fixed(domain.ChoiceAccepted))
		require.NoError(t, err)
		assert.Equal(t, DeleteAllConfirmed, res.Outcome)
		assert.Equal(t, int64(3), res.Deleted)

		left, err := svc.ListAll(ctx, tenant)
		require.NoError(t, err)
		assert.Empty(t, left)
		others, err := svc.ListAll(ctx, "guild-2")
		require.NoError(t, err)
		assert.Len(t, others, 1)
	})

	t.Run("declined", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)

		res, err := svc.DeleteAll(ctx, tenant, "admin", prompt.Fixed(domain.ChoiceDeclined))
		require.NoError(t, err)
		assert.Equal(t, DeleteAllCancelled, res.Outcome)

		left, err := svc.ListAll(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, left, 3)
	})

	t.Run("timeout cancels", func(t *testing.T) {
		svc, _ := newTestService(t)
		seed(t, svc)
		silent := prompt.Func(func(ctx context.Context, q prompt.Question) (domain.Choice, error) {
			<-ctx.Done()
			return domain.ChoiceTimedOut, ctx.Err()
		})

		res, err := svc.DeleteAll(ctx, tenant, "admin", silent)
		require.NoError(t, err)
		assert.Equal(t, DeleteAllCancelled, res.Outcome)

		left, err := svc.ListAll(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, left, 3, "nothing is deleted when nobody answers")
	})

	t.Run("second prompt while pending", func(t *testing.T) {
		svc := NewService(fake.NewStore().Characters(), Config{DeleteAllTimeout: 5 * time.Second})
		seed(t, svc)

		asked := make(chan struct{})
		answer := make(chan domain.Choice, 1)
		waiting := prompt.Func(func(ctx context.Context, q prompt.Question) (domain.Choice, error) {
			close(asked)
			select {
			case c := <-answer:
				return c, nil
			case <-ctx.Done():
				return domain.ChoiceTimedOut, ctx.Err()
			}
		})

		var wg sync.WaitGroup
		wg.Add(1)
		var first DeleteAllResult
		go func() {
			defer wg.Done()
			first, _ = svc.DeleteAll(ctx, tenant, "admin", waiting)
		}()
		<-asked

		_, err := svc.DeleteAll(ctx, tenant, "admin", prompt.Fixed(domain.ChoiceAccepted))
		assert.ErrorIs(t, err, domain.ErrConfirmationPending)

		_, err = svc.DeleteAll(ctx, "guild-2", "admin", prompt.Fixed(domain.ChoiceDeclined))
		assert.NoError(t, err, "other tenants are not blocked")

		answer <- domain.ChoiceDeclined
		wg.Wait()
		assert.Equal(t, DeleteAllCancelled, first.Outcome)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, store := newTestService(t)
		seed(t, svc)
		store.FailOn("DeleteTenant", errors.New("disk full"))

		_, err := svc.DeleteAll(ctx, tenant, "admin", prompt.Fixed(domain.ChoiceAccepted))
		require.Error(t, err)

		store.FailOn("DeleteTenant", nil)
		left, err := svc.ListAll(ctx, tenant)
		require.NoError(t, err)
		assert.Len(t, left, 3)
	})
}

func TestGet_UsesCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
	require.NoError(t, err)

	store.FailOn("GetCharacter", errors.New("database down"))
	c, err := svc.Get(ctx, tenant, "Bob")
	require.NoError(t, err, "created characters are served from cache")
	assert.Equal(t, "Bob", c.Name)

	c.AllowedUsers = append(c.AllowedUsers, "intruder")
	again, err := svc.Get(ctx, tenant, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner"}, again.AllowedUsers, "callers get copies")

	stats := svc.GetCacheStats()
	assert.Equal(t, int64(2), stats.Hits)
}

// The API server and the bot are separate processes with their own caches
// over the same tables. Writes through one must be visible through the other.
func TestGet_SeesChangesFromAnotherProcess(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	cfg := DefaultConfig()
	cfg.DeleteAllTimeout = 50 * time.Millisecond
	api := NewService(store.Characters(), cfg)
	bot := NewService(store.Characters(), cfg)

	_, err := api.Create(ctx, tenant, "Bob", "", "", "owner")
	require.NoError(t, err)

	t.Run("grant", func(t *testing.T) {
		warm, err := bot.Get(ctx, tenant, "Bob")
		require.NoError(t, err)
		require.ErrorIs(t, permission.RequireAllowed(warm, "friend"), domain.ErrNotAllowed)

		_, err = api.GrantAccess(ctx, tenant, "Bob", "owner", "friend")
		require.NoError(t, err)

		c, err := bot.Get(ctx, tenant, "Bob")
		require.NoError(t, err)
		assert.Equal(t, []string{"owner", "friend"}, c.AllowedUsers)
		assert.NoError(t, permission.RequireAllowed(c, "friend"))
	})

	t.Run("edit", func(t *testing.T) {
		_, err := api.Edit(ctx, tenant, "Bob", domain.CharacterPatch{Background: strPtr("retired")}, "owner")
		require.NoError(t, err)

		c, err := bot.Get(ctx, tenant, "Bob")
		require.NoError(t, err)
		assert.Equal(t, "retired", c.Background)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := bot.Get(ctx, tenant, "Bob")
		require.NoError(t, err)

		require.NoError(t, api.Delete(ctx, tenant, "Bob", "owner"))

		_, err = bot.Get(ctx, tenant, "Bob")
		assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
	})

	t.Run("recreate under the same name", func(t *testing.T) {
		_, err := api.Create(ctx, tenant, "Carl", "", "", "owner")
		require.NoError(t, err)
		_, err = bot.Get(ctx, tenant, "Carl")
		require.NoError(t, err)

		require.NoError(t, api.Delete(ctx, tenant, "Carl", "owner"))
		_, err = api.Create(ctx, tenant, "Carl", "", "", "newcomer")
		require.NoError(t, err)

		c, err := bot.Get(ctx, tenant, "Carl")
		require.NoError(t, err)
		assert.Equal(t, "newcomer", c.OwnerID)
		assert.ErrorIs(t, permission.RequireAllowed(c, "owner"), domain.ErrNotAllowed)
	})

	t.Run("rename", func(t *testing.T) {
		_, err := api.Create(ctx, tenant, "Dora", "", "", "owner")
		require.NoError(t, err)
		_, err = bot.Get(ctx, tenant, "Dora")
		require.NoError(t, err)

		_, err = api.Edit(ctx, tenant, "Dora", domain.CharacterPatch{NewName: strPtr("Dorothy")}, "owner")
		require.NoError(t, err)

		_, err = bot.Get(ctx, tenant, "Dora")
		assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
		c, err := bot.Get(ctx, tenant, "Dorothy")
		require.NoError(t, err)
		assert.Equal(t, "Dorothy", c.Name)
	})

	assert.Positive(t, bot.GetCacheStats().Stale)
	assert.Zero(t, api.GetCacheStats().Stale)
}

func TestGet_StorageErrorOnFreshnessCheck(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
	require.NoError(t, err)

	store.FailOn("GetCharacterVersion", errors.New("database down"))
	_, err = svc.Get(ctx, tenant, "Bob")
	require.Error(t, err, "a copy that cannot be checked is not served")

	store.FailOn("GetCharacterVersion", nil)
	c, err := svc.Get(ctx, tenant, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", c.Name)
}

func TestImport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, tenant, "Bob", "", "", "owner")
	require.NoError(t, err)

	n, err := svc.Import(ctx, tenant, []domain.Character{
		{Name: "Bob", OwnerID: "someone"},
		{Name: "Alice", OwnerID: "u1", AllowedUsers: []string{"u2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	alice, err := svc.Get(ctx, tenant, "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, alice.AllowedUsers, "owner is always allowed")

	bob, err := svc.Get(ctx, tenant, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "owner", bob.OwnerID, "existing characters are left alone")

	_, err = svc.Import(ctx, tenant, []domain.Character{{Name: "", OwnerID: "u1"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
