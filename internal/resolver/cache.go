package resolver

import (
	"hash/fnv"
	"sync"

	"github.com/abrenneke/stelpatch-sub002/internal/cwt"
	"github.com/abrenneke/stelpatch-sub002/internal/schema"
)

// cacheShardCount trades memory for reduced lock contention across
// concurrent reference resolutions; a resolver serving many parallel
// navigations shouldn't serialize on one mutex.
const cacheShardCount = 16

type cacheKey struct {
	kind cwt.ReferenceKind
	key  string
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[cacheKey]*schema.CwtType
}

// Cache memoizes reference resolution by (ReferenceKind, key), following
// internal/intern.Interner's check-then-lock-then-check-again pattern: a
// generation bump (schema reload) gets a fresh Cache entirely rather than
// invalidating entries one at a time.
type Cache struct {
	shards [cacheShardCount]*cacheShard
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i] = &cacheShard{entries: make(map[cacheKey]*schema.CwtType)}
	}
	return c
}

func (c *Cache) shardFor(k cacheKey) *cacheShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(k.key))
	idx := (h.Sum32() + uint32(k.kind)) % cacheShardCount
	return c.shards[idx]
}

// GetOrResolve returns the cached type for (kind, key) if present,
// otherwise calls resolve once under the shard's write lock and caches
// the result before returning it. A failed resolve is never cached, so a
// transient or schema-ordering-dependent miss can succeed on retry.
func (c *Cache) GetOrResolve(kind cwt.ReferenceKind, key string, resolve func() (*schema.CwtType, error)) (*schema.CwtType, error) {
	k := cacheKey{kind: kind, key: key}
	sh := c.shardFor(k)

	sh.mu.RLock()
	if t, ok := sh.entries[k]; ok {
		sh.mu.RUnlock()
		return t, nil
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if t, ok := sh.entries[k]; ok {
		return t, nil
	}
	t, err := resolve()
	if err != nil {
		return nil, err
	}
	sh.entries[k] = t
	return t, nil
}
