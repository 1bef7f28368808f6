package cache

import (
	"sync"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
)

// DefaultExpiration is how long a parsed bulletin is served before CNB is asked again
const DefaultExpiration = time.Hour

// CacheEntry represents a cached exchange list with the time it was stored
type CacheEntry struct {
	List      *entity.ExchangeList
	Timestamp time.Time
}

// ExchangeListCache provides a thread-safe in-memory cache of parsed bulletins, one per day
type ExchangeListCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	mutex      sync.RWMutex
	now        func() time.Time
}

// NewExchangeListCache creates a cache; a non-positive expiration uses DefaultExpiration
func NewExchangeListCache(expiration time.Duration) *ExchangeListCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &ExchangeListCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
		now:        time.Now,
	}
}

// generateCacheKey creates a cache key from the day a bulletin was requested for
func generateCacheKey(day time.Time) string {
	return "bulletin:" + day.Format("2006-01-02")
}

// Get retrieves the list cached for day if present and not expired
func (c *ExchangeListCache) Get(day time.Time) *entity.ExchangeList {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[generateCacheKey(day)]
	if !exists || c.now().Sub(entry.Timestamp) > c.expiration {
		return nil
	}

	return entry.List
}

// Put stores list under day and drops any entries that have expired
func (c *ExchangeListCache) Put(list *entity.ExchangeList, day time.Time) {
	if list == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.removeExpired(now)
	c.cache[generateCacheKey(day)] = CacheEntry{
		List:      list,
		Timestamp: now,
	}
}

// Clear clears all entries from the cache
func (c *ExchangeListCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

func (c *ExchangeListCache) size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// removeExpired deletes expired entries and returns how many were removed. Callers hold the
// write lock.
func (c *ExchangeListCache) removeExpired(now time.Time) int {
	count := 0
	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}
	return count
}
