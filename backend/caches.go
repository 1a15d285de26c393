package backend

import (
	"github.com/google/uuid"

	"qtermsim/metrics"
	"qtermsim/sim"
)

// Caches holds one amplitude cache per backend instance for a single
// circuit, keyed by backend ID.
type Caches map[uuid.UUID]*sim.Cache

// For returns the slot for b, creating an empty one on first use.
func (c Caches) For(b Backend) *sim.Cache {
	cache, ok := c[b.ID()]
	if !ok {
		cache = sim.NewCache()
		c[b.ID()] = cache
	}
	return cache
}

// Invalidate drops every entry covering operation index from or later.
func (c Caches) Invalidate(from int) {
	for _, cache := range c {
		if cache.Invalidate(from) {
			metrics.CacheEvent(string(sim.CacheInvalidated))
		}
	}
}

// Clone deep-copies every slot.
func (c Caches) Clone() Caches {
	out := make(Caches, len(c))
	for id, cache := range c {
		out[id] = cache.Clone()
	}
	return out
}
