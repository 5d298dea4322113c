package query

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache is a bounded cache mapping search expressions to their parsed
// form. Entries are keyed by the xxhash of the expression so that long
// expressions do not pay full string hashing on every lookup; the stored
// expression is compared on hit to rule out hash collisions.
//
// Parsed expressions are immutable, so a cached result may be shared
// across goroutines. Callers MUST NOT modify the returned tree.
//
// Eviction strategy: when the cache reaches its capacity limit the entire
// map is replaced. This is simpler than a true LRU and sufficient for the
// target use-case (a small number of distinct search templates repeated
// many times).
//
// Thread safety: all methods are safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	items map[uint64]*cacheEntry
	max   int
}

type cacheEntry struct {
	expression string
	parsed     *ParsedExpression
}

// DefaultCacheSize is the capacity used when no explicit size is
// configured.
const DefaultCacheSize = 256

// NewCache creates a cache holding up to max parsed expressions.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{
		items: make(map[uint64]*cacheEntry, max),
		max:   max,
	}
}

func (c *Cache) get(key uint64, expression string) (*ParsedExpression, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || entry.expression != expression {
		return nil, false
	}
	return entry.parsed, true
}

func (c *Cache) put(key uint64, entry *cacheEntry) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking
		// individual entry ages.
		c.items = make(map[uint64]*cacheEntry, c.max)
	}
	c.items[key] = entry
	c.mu.Unlock()
}

// Parse returns the cached parse result for expression, parsing on a cache
// miss. The second return value reports whether the result came from the
// cache. Parse failures are not cached.
func (c *Cache) Parse(expression string) (*ParsedExpression, bool, error) {
	key := xxhash.Sum64String(expression)
	if parsed, ok := c.get(key, expression); ok {
		return parsed, true, nil
	}

	parsed, err := Parse(expression)
	if err != nil {
		return nil, false, err
	}
	c.put(key, &cacheEntry{expression: expression, parsed: parsed})
	return parsed, false, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
