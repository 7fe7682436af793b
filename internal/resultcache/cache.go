// Package resultcache implements spec.md §4.3: a per-node
// (avail_w, avail_h, style_version) -> (out_w, out_h) lookup with
// exact float equality (constraints are passed through unchanged from
// a parent's measure, so bit-identical floats are expected, not an
// approximation bug) plus hit/miss/invalidation counters exposed for
// tuning but not part of correctness.
package resultcache

import (
	"github.com/flexkit/layout/internal/logger"
	"github.com/flexkit/layout/internal/store"
)

// Stats are cache hit/miss/invalidation counters. Not part of
// correctness, per spec.md §4.3.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Invalidations uint64
}

// Cache wraps a *store.Store's per-node CacheEntry array with the
// stats spec.md asks for. It holds no node data of its own.
type Cache struct {
	stats Stats
}

func New() *Cache {
	return &Cache{}
}

// Lookup returns the cached size for h under (availW, availH) iff
// valid, the style version matches the node's current version, and
// both constraints match exactly.
func (c *Cache) Lookup(s *store.Store, h store.Handle, availW, availH float32) (store.Size, bool) {
	entry := s.Cache(h)
	if !entry.Valid ||
		entry.StyleVersionAtCache != s.StyleVersion(h) ||
		entry.AvailW != availW ||
		entry.AvailH != availH {
		c.stats.Misses++
		return store.Size{}, false
	}
	c.stats.Hits++
	logger.Trace(logger.TagCache, "hit handle=%d", h)
	return store.Size{W: entry.OutW, H: entry.OutH}, true
}

// Store overwrites h's cache entry with a new result produced under
// (availW, availH) at the node's current style version.
func (c *Cache) Store(s *store.Store, h store.Handle, availW, availH float32, size store.Size) {
	s.SetCache(h, store.CacheEntry{
		AvailW:              availW,
		AvailH:              availH,
		StyleVersionAtCache: s.StyleVersion(h),
		OutW:                size.W,
		OutH:                size.H,
		Valid:               true,
	})
}

// Invalidate clears h's valid bit.
func (c *Cache) Invalidate(s *store.Store, h store.Handle) {
	if s.Cache(h).Valid {
		c.stats.Invalidations++
	}
	s.InvalidateCache(h)
}

// Stats returns a copy of the current counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// HitRate returns Hits / (Hits + Misses), or 0 if there have been no
// lookups yet.
func (c *Cache) HitRate() float64 {
	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}
