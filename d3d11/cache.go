package d3d11

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/dxinterop"
	"github.com/gogpu/dxinterop/mem"
)

// State is implemented by BlendDescription, RasterizerDescription and
// DepthStencilDescription.
type State[D any] interface {
	Hash() uint64
	Equal(other D) bool
	Validate() error
	Marshal() (*mem.Buffer[D], error)
}

type cacheEntry[D any] struct {
	desc D
	buf  *mem.Buffer[D]
}

// StateCache deduplicates marshaled state descriptions, the way the runtime
// returns one state object for identical descriptions.
//
// Entries are indexed by Hash and compared with Equal, so hash collisions
// never alias two different descriptions. The cache owns every buffer it
// returns; callers must not Free them. Release frees them all.
//
// StateCache is safe for concurrent use.
type StateCache[D State[D]] struct {
	mu      sync.RWMutex
	entries map[uint64][]cacheEntry[D]
	size    int

	hits   uint64
	misses uint64
}

// NewStateCache returns an empty cache.
func NewStateCache[D State[D]]() *StateCache[D] {
	return &StateCache[D]{entries: make(map[uint64][]cacheEntry[D])}
}

func (c *StateCache[D]) lookup(h uint64, desc D) *mem.Buffer[D] {
	for _, e := range c.entries[h] {
		if e.desc.Equal(desc) {
			return e.buf
		}
	}
	return nil
}

// GetOrCreate returns the native copy of desc, marshaling it on first use.
func (c *StateCache[D]) GetOrCreate(desc D) (*mem.Buffer[D], error) {
	h := desc.Hash()

	c.mu.RLock()
	if buf := c.lookup(h, desc); buf != nil {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return buf, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if buf := c.lookup(h, desc); buf != nil {
		atomic.AddUint64(&c.hits, 1)
		return buf, nil
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	buf, err := desc.Marshal()
	if err != nil {
		return nil, err
	}
	if len(c.entries[h]) > 0 {
		dxinterop.Logger().Debug("d3d11: state hash collision", "hash", h)
	}
	c.entries[h] = append(c.entries[h], cacheEntry[D]{desc: desc, buf: buf})
	c.size++
	atomic.AddUint64(&c.misses, 1)
	return buf, nil
}

// Stats returns the number of cache hits and misses.
func (c *StateCache[D]) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (c *StateCache[D]) HitRate() float64 {
	hits, misses := c.Stats()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Size returns the number of distinct cached descriptions.
func (c *StateCache[D]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Release frees every cached buffer and resets the cache and its statistics.
// Buffers returned earlier must not be used afterwards.
func (c *StateCache[D]) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, bucket := range c.entries {
		for _, e := range bucket {
			e.buf.Free()
		}
	}
	c.entries = make(map[uint64][]cacheEntry[D])
	c.size = 0
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}
