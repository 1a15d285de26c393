package sim

import (
	"slices"

	"go.uber.org/zap"

	"qtermsim/ops"
)

// CacheEvent classifies how a run used the amplitude cache.
type CacheEvent string

const (
	// CacheHit means the cached vector already covered every operation.
	CacheHit CacheEvent = "hit"
	// CachePartial means only operations after the cached index were applied.
	CachePartial CacheEvent = "partial"
	// CacheMiss means the vector was recomputed from |0…0⟩.
	CacheMiss CacheEvent = "miss"
	// CacheInvalidated is reported when a mutation dropped a cache entry.
	CacheInvalidated CacheEvent = "invalidated"
)

// Cache memoises the amplitudes produced by a prefix of a circuit for one
// backend. When vec is present it equals the result of applying
// prefix[0..idx] to |0…0⟩ on nQubits qubits.
//
// A Cache belongs to a single circuit and is not safe for concurrent use.
type Cache struct {
	vec     []complex128
	idx     int
	prefix  []ops.Operation
	nQubits int
}

// NewCache returns an empty cache (index -1).
func NewCache() *Cache {
	return &Cache{idx: -1}
}

// Index is the last operation index covered by the cache, -1 when empty.
func (c *Cache) Index() int { return c.idx }

// Empty reports whether no vector is cached.
func (c *Cache) Empty() bool { return c.vec == nil }

// Vector returns a copy of the cached amplitudes, nil when empty.
func (c *Cache) Vector() []complex128 {
	if c.vec == nil {
		return nil
	}
	return Clone(c.vec)
}

// Reset drops the cached vector.
func (c *Cache) Reset() {
	c.vec = nil
	c.idx = -1
	c.prefix = nil
	c.nQubits = 0
}

// Invalidate drops the entry when it covers operation index from or later,
// i.e. when history the cache depends on has changed. It reports whether the
// entry was dropped.
func (c *Cache) Invalidate(from int) bool {
	if c.idx < 0 || c.idx < from {
		return false
	}
	zap.L().Debug("amplitude cache invalidated", zap.Int("index", c.idx), zap.Int("from", from))
	c.Reset()
	return true
}

// Clone deep-copies the entry; the copy shares no storage with c.
func (c *Cache) Clone() *Cache {
	out := &Cache{idx: c.idx, nQubits: c.nQubits}
	if c.vec != nil {
		out.vec = Clone(c.vec)
	}
	if c.prefix != nil {
		out.prefix = slices.Clone(c.prefix)
	}
	return out
}

// Advance returns the state after list, a sequence of unitary operations, on
// n qubits. A valid entry is reused when list extends the cached prefix
// unchanged; otherwise the state is recomputed from |0…0⟩. On success the
// entry covers all of list. The returned slice is owned by the caller.
func (c *Cache) Advance(list []ops.Operation, n int) ([]complex128, CacheEvent, error) {
	var (
		vec   []complex128
		start int
		event CacheEvent
	)
	switch {
	case c.reusable(list, n):
		vec = Pad(Clone(c.vec), n)
		start = c.idx + 1
		event = CachePartial
		if start == len(list) {
			event = CacheHit
		}
	default:
		vec = NewState(n)
		event = CacheMiss
	}

	zap.L().Debug("amplitude cache",
		zap.String("event", string(event)),
		zap.Int("cached_index", c.idx),
		zap.Int("operations", len(list)),
		zap.Int("qubits", n),
	)

	if _, err := Evolve(vec, list[start:]); err != nil {
		return nil, event, err
	}

	if len(list) == 0 {
		c.Reset()
		return vec, event, nil
	}
	c.vec = vec
	c.idx = len(list) - 1
	c.prefix = slices.Clone(list)
	c.nQubits = n
	return Clone(vec), event, nil
}

// reusable checks the prefix invariant: list must start with exactly the
// operations the cached vector was computed from, on no more qubits than n.
func (c *Cache) reusable(list []ops.Operation, n int) bool {
	if c.vec == nil || c.idx < 0 || c.idx >= len(list) || c.nQubits > n {
		return false
	}
	return slices.Equal(c.prefix, list[:c.idx+1])
}
