package character

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/npcbot/internal/domain"
)

func TestCharacterCache(t *testing.T) {
	cache := newCharacterCache(CacheConfig{Size: 10, TTL: time.Minute})
	bob := domain.NewCharacter("g1", "Bob", "", "", "u1")
	alice := domain.NewCharacter("g1", "Alice", "", "", "u1")
	other := domain.NewCharacter("g2", "Bob", "", "", "u1")

	cache.Set(bob)
	cache.Set(alice)
	cache.Set(other)

	got, found := cache.Get("g1", "Bob")
	assert.True(t, found)
	assert.Equal(t, bob, got)
	assert.NotSame(t, bob, got)

	cache.Invalidate("g1", "Bob")
	_, found = cache.Get("g1", "Bob")
	assert.False(t, found)

	cache.InvalidateTenant("g1")
	_, found = cache.Get("g1", "Alice")
	assert.False(t, found)
	_, found = cache.Get("g2", "Bob")
	assert.True(t, found, "other tenants survive")

	stats := cache.GetStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCharacterCache_Expiry(t *testing.T) {
	cache := newCharacterCache(CacheConfig{Size: 10, TTL: 20 * time.Millisecond})
	cache.Set(domain.NewCharacter("g1", "Bob", "", "", "u1"))

	assert.Eventually(t, func() bool {
		_, found := cache.Get("g1", "Bob")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestCharacterCache_SetKeepsNewerCopy(t *testing.T) {
	cache := newCharacterCache(CacheConfig{Size: 10, TTL: time.Minute})
	fresh := domain.NewCharacter("g1", "Bob", "", "", "u1")
	fresh.ID, fresh.Version = 7, 3
	fresh.AllowedUsers = append(fresh.AllowedUsers, "u2")
	old := domain.NewCharacter("g1", "Bob", "", "", "u1")
	old.ID, old.Version = 7, 2

	cache.Set(fresh)
	cache.Set(old)

	got, found := cache.Get("g1", "Bob")
	assert.True(t, found)
	assert.Equal(t, int64(3), got.Version, "a late writer cannot roll the entry back")
	assert.Equal(t, []string{"u1", "u2"}, got.AllowedUsers)

	recreated := domain.NewCharacter("g1", "Bob", "", "", "u9")
	recreated.ID, recreated.Version = 8, 1
	cache.Set(recreated)
	got, _ = cache.Get("g1", "Bob")
	assert.Equal(t, int64(8), got.ID, "a different row always replaces the entry")
}
