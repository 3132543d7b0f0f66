// Package image builds the forward (avatar) and backward (cursor)
// reflected-image sequences the bidirectional method-of-images
// algorithm needs: reflecting a point iteratively through an ordered
// list of surfaces, recording provenance at every step.
package image

import (
	"fmt"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/reflectcache"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

// ReflectedImage is the coordinates obtained after reflecting through
// Depth surfaces in a given order, with a back-pointer for
// reversibility checks.
type ReflectedImage struct {
	Position        geom.Vector
	SourcePosition  geom.Vector
	SourceSurfaceID string
	Depth           int
}

// Sequence is the ordered set of reflected copies of a point used to
// linearise a chain of specular reflections. Images[i].Depth is always
// i+1; ImageAtDepth(seq, 0) returns Original.
type Sequence struct {
	Original geom.Vector
	Images   []ReflectedImage
	// Surfaces is the order surfaces were actually reflected through to
	// build Images: for a forward sequence this is the plan order; for
	// a backward sequence it is the plan's reverse.
	Surfaces []surface.Surface
}

// BuildForward iteratively reflects origin through surfaces[0..n-1] in
// order, recording provenance at every step.
func BuildForward(cache *reflectcache.Cache, origin geom.Vector, surfaces []surface.Surface) Sequence {
	return build(cache, origin, surfaces)
}

// BuildBackward iteratively reflects origin (typically the cursor)
// through surfaces in reverse order, i.e. surfaces[n-1], surfaces[n-2],
// ..., surfaces[0]. Images[i].Depth is still i+1, so ImageAtDepth
// addresses both sequences uniformly: the backward sequence's depth-k
// image is the cursor reflected through the last k planned surfaces.
func BuildBackward(cache *reflectcache.Cache, origin geom.Vector, surfaces []surface.Surface) Sequence {
	reversed := make([]surface.Surface, len(surfaces))
	for i, s := range surfaces {
		reversed[len(surfaces)-1-i] = s
	}
	return build(cache, origin, reversed)
}

func build(cache *reflectcache.Cache, origin geom.Vector, orderedSurfaces []surface.Surface) Sequence {
	images := make([]ReflectedImage, len(orderedSurfaces))
	current := origin
	for i, s := range orderedSurfaces {
		reflected := cache.Reflect(current, s)
		images[i] = ReflectedImage{
			Position:        reflected,
			SourcePosition:  current,
			SourceSurfaceID: s.ID,
			Depth:           i + 1,
		}
		current = reflected
	}
	return Sequence{Original: origin, Images: images, Surfaces: orderedSurfaces}
}

// ImageAtDepth returns the original point for depth 0, or
// Images[depth-1].Position otherwise. depth must be in [0, len(Images)]
// - any other value indicates a broken invariant in the caller (a plan
// index computed past the sequence's own length) and is a programming
// error, not user data, so it panics rather than returning a sentinel.
func ImageAtDepth(seq Sequence, depth int) geom.Vector {
	if depth == 0 {
		return seq.Original
	}
	if depth < 0 || depth > len(seq.Images) {
		panic(fmt.Sprintf("image: depth %d out of range for sequence of length %d", depth, len(seq.Images)))
	}
	return seq.Images[depth-1].Position
}
