package location

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"vendorhub/db"
	"vendorhub/models"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheTTL is how long a resolution stays valid.
const DefaultCacheTTL = 24 * time.Hour

// GeoCache memoizes location lookups by an operation-specific key. Entries
// expire lazily: a read more than ttl after the write behaves as a miss and
// drops the entry. The memory tier is bounded by entry count; an optional
// SQLite tier survives restarts.
type GeoCache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, models.CacheEntry]
	ttl     time.Duration
	now     func() time.Time

	repo      db.GeocodeCacheRepository
	dbManager *db.DBManager
}

func NewGeoCache(maxEntries int, ttl time.Duration) (*GeoCache, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	entries, err := lru.New[string, models.CacheEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &GeoCache{entries: entries, ttl: ttl, now: time.Now}, nil
}

// WithStore enables write-through to the persistent cache table.
func (c *GeoCache) WithStore(repo db.GeocodeCacheRepository, dbManager *db.DBManager) *GeoCache {
	c.repo = repo
	c.dbManager = dbManager
	return c
}

// Get returns the value stored under key if it is at most ttl old.
func (c *GeoCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.Value, true
}

// Set overwrites key in memory, stamping the current time, and writes the
// value through to the persistent tier when one is configured.
func (c *GeoCache) Set(ctx context.Context, key string, value any) {
	c.mu.Lock()
	c.entries.Add(key, models.CacheEntry{Key: key, Value: value, Timestamp: c.now()})
	c.mu.Unlock()

	if c.repo == nil || c.dbManager == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode geocode cache entry %s: %v", key, err)
		return
	}
	row := &models.GeocodeCacheRow{Key: key, Value: payload}
	if err := c.dbManager.UpsertGeocodeCache(ctx, c.repo, row, c.ttl); err != nil {
		log.Printf("Failed to persist geocode cache entry %s: %v", key, err)
	}
}

func (c *GeoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Lookup reads key from memory, then from the persistent tier. Values
// restored from storage are decoded as T and promoted back to memory with
// their original timestamp.
func Lookup[T any](ctx context.Context, c *GeoCache, key string) (T, bool) {
	var zero T
	if value, ok := c.Get(key); ok {
		if typed, ok := value.(T); ok {
			return typed, true
		}
		return zero, false
	}
	if c.repo == nil {
		return zero, false
	}

	row, err := c.repo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("Failed to read geocode cache entry %s: %v", key, err)
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal(row.Value, &value); err != nil {
		log.Printf("Failed to decode geocode cache entry %s: %v", key, err)
		return zero, false
	}
	if c.now().Sub(row.UpdatedAt) > c.ttl {
		return zero, false
	}

	c.mu.Lock()
	c.entries.Add(key, models.CacheEntry{Key: key, Value: value, Timestamp: row.UpdatedAt})
	c.mu.Unlock()
	return value, true
}
