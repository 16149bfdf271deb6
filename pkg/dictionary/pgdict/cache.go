package pgdict

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/jellydator/ttlcache/v3"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

// cacheEntry is a cached lookup. found == false records a key that has no
// row, so repeated misses do not hit the database.
type cacheEntry struct {
	value dictionary.Value
	found bool
}

// lookupCache is the per-dictionary key cache. Keys are coerced keys.
type lookupCache struct {
	items  *ttlcache.Cache[any, cacheEntry]
	hits   *metrics.Counter
	misses *metrics.Counter
}

func newLookupCache(name string, ttl time.Duration) *lookupCache {
	itemTTL := ttlcache.NoTTL
	if ttl > 0 {
		itemTTL = ttl
	}
	return &lookupCache{
		items: ttlcache.New[any, cacheEntry](
			ttlcache.WithTTL[any, cacheEntry](itemTTL),
			ttlcache.WithDisableTouchOnHit[any, cacheEntry](),
		),
		hits:   metrics.GetOrCreateCounter(fmt.Sprintf(`dictionary_cache_hits_total{dictionary=%q}`, name)),
		misses: metrics.GetOrCreateCounter(fmt.Sprintf(`dictionary_cache_misses_total{dictionary=%q}`, name)),
	}
}

func (c *lookupCache) get(key any) (cacheEntry, bool) {
	item := c.items.Get(key)
	if item == nil {
		c.misses.Inc()
		return cacheEntry{}, false
	}
	c.hits.Inc()
	return item.Value(), true
}

func (c *lookupCache) setFound(key any, v dictionary.Value) {
	c.items.Set(key, cacheEntry{value: v, found: true}, ttlcache.DefaultTTL)
}

func (c *lookupCache) setMissing(key any) {
	c.items.Set(key, cacheEntry{}, ttlcache.DefaultTTL)
}

func (c *lookupCache) forget(key any) {
	c.items.Delete(key)
}

func (c *lookupCache) forgetAll() {
	c.items.DeleteAll()
}

func (c *lookupCache) len() int {
	return c.items.Len()
}
