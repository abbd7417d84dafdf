package resolver

import (
	"sync"
	"time"

	"go-forklift-catalog/internal/model"
)

// productCache is a read-through TTL cache keyed by the incoming identifier
// (either form). It is an optimization only; dropping it entirely would not
// change resolution results.
type productCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	product   *model.Product
	expiresAt time.Time
}

func newProductCache(ttl time.Duration) *productCache {
	return &productCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *productCache) get(key string) (*model.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.product, true
}

func (c *productCache) put(key string, p *model.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{product: p, expiresAt: time.Now().Add(c.ttl)}
}

// invalidate drops every entry resolving to the given product, whichever
// identifier it was cached under.
func (c *productCache) invalidate(productID, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if key == productID || key == slug {
			delete(c.entries, key)
			continue
		}
		if entry.product != nil && entry.product.ID.String() == productID {
			delete(c.entries, key)
		}
	}
}

func (c *productCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
