// Package reflectcache memoises point-through-line reflections across
// a frame. It is shared, within one frame, between the trajectory core
// and the visibility engine: whichever component reflects a given
// (point, surface) pair first populates the cache entry, and it is
// read-only from then on (spec 5).
package reflectcache

import (
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

type key struct {
	p         geom.Vector
	surfaceID string
}

// Cache memoises geom.ReflectPointThroughLine results keyed by
// (point, surface id). It guarantees Reflect(Reflect(p, s), s) == p
// bit-exact whenever both calls hit the cache, by recording the
// inverse mapping alongside the forward one instead of relying on
// ReflectPointThroughLine's own involution to hold under rounding.
type Cache struct {
	entries map[key]geom.Vector
}

// New creates an empty cache. A new Cache must be installed whenever
// an input that could invalidate it changes (spec 5) - callers do not
// mutate or clear an existing Cache in place.
func New() *Cache {
	return &Cache{entries: make(map[key]geom.Vector)}
}

// Reflect returns the reflection of p through s's line, populating (and
// consulting) the bidirectional cache.
func (c *Cache) Reflect(p geom.Vector, s surface.Surface) geom.Vector {
	k := key{p: p, surfaceID: s.ID}
	if v, ok := c.entries[k]; ok {
		return v
	}
	v := geom.ReflectPointThroughLine(p, s.Segment.Start, s.Segment.End)
	c.entries[k] = v
	c.entries[key{p: v, surfaceID: s.ID}] = p
	return v
}

// Len reports the number of memoised entries (forward and inverse
// combined); exposed for tests and diagnostics only.
func (c *Cache) Len() int {
	return len(c.entries)
}
