package character

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/npcbot/internal/domain"
)

// CacheConfig sizes the read-through character cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports cache effectiveness. Stale counts cached copies that
// storage had moved past when they were read.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Stale  int64 `json:"stale"`
	Size   int   `json:"size"`
}

type cachedCharacterEntry struct {
	Version   string
	Character *domain.Character
}

// characterCache is an expiring LRU keyed by tenant and name.
// Callers always receive a copy so cached entries cannot be mutated.
// Entries are only hints: the service checks each hit against the stored
// version before using it.
type characterCache struct {
	mu     sync.Mutex
	lru    *expirable.LRU[string, *cachedCharacterEntry]
	hits   atomic.Int64
	misses atomic.Int64
	stale  atomic.Int64
}

func newCharacterCache(cfg CacheConfig) *characterCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	return &characterCache{
		lru: expirable.NewLRU[string, *cachedCharacterEntry](cfg.Size, nil, cfg.TTL),
	}
}

func cacheKey(tenantID, name string) string {
	return tenantID + ":" + name
}

func (c *characterCache) Get(tenantID, name string) (*domain.Character, bool) {
	key := cacheKey(tenantID, name)
	entry, found := c.lru.Get(key)
	if !found {
		c.misses.Add(1)
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return clone(entry.Character), true
}

// Set stores ch unless a newer copy of the same row is already cached.
// A reader that loaded the row before a concurrent update cannot overwrite
// the fresher entry.
func (c *characterCache) Set(ch *domain.Character) {
	key := cacheKey(ch.TenantID, ch.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.lru.Peek(key); ok && cur.Version == CacheSchemaVersion &&
		cur.Character.ID == ch.ID && cur.Character.Version > ch.Version {
		return
	}
	c.lru.Add(key, &cachedCharacterEntry{
		Version:   CacheSchemaVersion,
		Character: clone(ch),
	})
}

// Evict drops a copy found to be stale
func (c *characterCache) Evict(tenantID, name string) {
	c.stale.Add(1)
	c.Invalidate(tenantID, name)
}

func (c *characterCache) Invalidate(tenantID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(cacheKey(tenantID, name))
}

// InvalidateTenant drops every entry of the tenant
func (c *characterCache) InvalidateTenant(tenantID string) {
	prefix := tenantID + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

func (c *characterCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Stale:  c.stale.Load(),
		Size:   c.lru.Len(),
	}
}

func clone(ch *domain.Character) *domain.Character {
	cp := *ch
	cp.AllowedUsers = slices.Clone(ch.AllowedUsers)
	return &cp
}
