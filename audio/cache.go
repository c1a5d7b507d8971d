package audio

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// BufferCache memoizes decoded audio buffers by file path.
// Decode happens once per path; every trigger after that is a map hit.
// Entries are never evicted automatically; Invalidate drops the entry for a
// path when a button is reassigned so the stale decode does not pin memory.
type BufferCache struct {
	mu    sync.RWMutex
	store map[string]*beep.Buffer

	// decode is swappable so tests can count or fake decodes.
	decode func(path string) (*beep.Buffer, error)

	decodes atomic.Uint64
}

// NewBufferCache creates a cache decoding with the given engine config.
func NewBufferCache(cfg *Config) *BufferCache {
	return &BufferCache{
		store: make(map[string]*beep.Buffer),
		decode: func(path string) (*beep.Buffer, error) {
			return decodeFile(path, cfg)
		},
	}
}

// GetOrDecode returns the cached buffer for path, decoding on first use.
func (c *BufferCache) GetOrDecode(path string) (*beep.Buffer, error) {
	c.mu.RLock()
	if buf, ok := c.store[path]; ok {
		c.mu.RUnlock()
		return buf, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if buf, ok := c.store[path]; ok {
		return buf, nil
	}

	buf, err := c.decode(path)
	if err != nil {
		return nil, err
	}
	c.decodes.Add(1)
	c.store[path] = buf
	return buf, nil
}

// Preload warms the cache for path. Failures are swallowed: a failed preload
// leaves the path undecoded and the next real trigger retries it.
func (c *BufferCache) Preload(path string) {
	if path == "" {
		return
	}
	if _, err := c.GetOrDecode(path); err != nil {
		log.Printf("audio: preload %s: %v", path, err)
	}
}

// Invalidate drops the cache entry for path, if any.
func (c *BufferCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, path)
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Decodes returns how many decodes have run since creation.
func (c *BufferCache) Decodes() uint64 {
	return c.decodes.Load()
}
