package neows

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
)

// CachedSource wraps an AsteroidSource with an in-memory LRU cache.
// Catalogue entries change rarely, so successful lookups are kept until evicted.
type CachedSource struct {
	inner   domain.AsteroidSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a source.
func NewCachedSource(inner domain.AsteroidSource, maxEntries int, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedSource) Lookup(ctx context.Context, neoID string) (domain.NearEarthObject, error) {
	if neo, ok := c.cache.get(neoID); ok {
		c.metrics.NeoWsCache.WithLabelValues("hit").Inc()
		return neo, nil
	}
	c.metrics.NeoWsCache.WithLabelValues("miss").Inc()

	neo, err := c.inner.Lookup(ctx, neoID)
	if err != nil {
		// Failures, including not-found, are retried on the next call.
		return neo, err
	}
	c.cache.put(neoID, neo)
	return neo, nil
}

// lruCache bounds the catalogue entries held in memory, evicting the object
// looked up least recently. Front of order is most recent.
type lruCache struct {
	capacity int

	mu    sync.Mutex
	order *list.List
	byID  map[string]*list.Element
}

type cachedNEO struct {
	id  string
	neo domain.NearEarthObject
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: max(capacity, 1),
		order:    list.New(),
		byID:     make(map[string]*list.Element, capacity),
	}
}

func (c *lruCache) get(id string) (domain.NearEarthObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byID[id]
	if !ok {
		return domain.NearEarthObject{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cachedNEO).neo, true
}

func (c *lruCache) put(id string, neo domain.NearEarthObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byID[id]; ok {
		el.Value.(*cachedNEO).neo = neo
		c.order.MoveToFront(el)
		return
	}
	c.byID[id] = c.order.PushFront(&cachedNEO{id: id, neo: neo})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byID, oldest.Value.(*cachedNEO).id)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
