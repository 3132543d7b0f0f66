// Package source implements the provenance model that identifies
// every vertex the reflection core produces. Floating point
// coordinates are never the source of truth for vertex identity: two
// SourcePoints are equal iff their provenance (variant plus the ids
// and indices that produced them) matches, even if rounding makes
// their coordinates differ by a few ULPs. Coordinates are derived on
// demand through ComputeXY.
package source

import "github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"

// Which identifies one of the two ends of a surface.
type Which int

const (
	Start Which = iota
	End
)

func (w Which) String() string {
	if w == Start {
		return "start"
	}
	return "end"
}

// Point is a tagged vertex. It is implemented by Origin, Endpoint,
// HitPoint, and JunctionPoint; there are no other implementations.
type Point interface {
	// ComputeXY returns the coordinates of this point. Coordinates are
	// derived data, never identity.
	ComputeXY() geom.Vector

	// sealed restricts Point to the variants declared in this package.
	sealed()
}

// Origin is a primary position: the avatar, the cursor, or a
// reflected image of either.
type Origin struct {
	Pos geom.Vector
}

func NewOrigin(pos geom.Vector) Origin { return Origin{Pos: pos} }

func (o Origin) ComputeXY() geom.Vector { return o.Pos }
func (Origin) sealed()                  {}

// Endpoint is one terminus of a surface. Identity is the pair
// (SurfaceID, Which); Pos is carried only so ComputeXY needs no
// external lookup.
type Endpoint struct {
	SurfaceID string
	Which     Which
	Pos       geom.Vector
}

func NewEndpoint(surfaceID string, which Which, pos geom.Vector) Endpoint {
	return Endpoint{SurfaceID: surfaceID, Which: which, Pos: pos}
}

func (e Endpoint) ComputeXY() geom.Vector { return e.Pos }
func (Endpoint) sealed()                  {}

// HitPoint is the intersection of Ray with the surface SurfaceID, at
// ray-parameter T and segment-parameter S.
type HitPoint struct {
	Ray       geom.Ray
	SurfaceID string
	T         float64
	S         float64
}

func NewHitPoint(ray geom.Ray, surfaceID string, t, s float64) HitPoint {
	return HitPoint{Ray: ray, SurfaceID: surfaceID, T: t, S: s}
}

// ComputeXY returns ray.Origin + T*ray.Direction, per spec 4.S.
func (h HitPoint) ComputeXY() geom.Vector {
	return h.Ray.At(h.T)
}
func (HitPoint) sealed() {}

// JunctionPoint is a shared endpoint between consecutive members of a
// chain (including screen-boundary corners, which are junctions of
// the synthetic screen chain).
type JunctionPoint struct {
	ChainID string
	Index   int
	Pos     geom.Vector
}

func NewJunctionPoint(chainID string, index int, pos geom.Vector) JunctionPoint {
	return JunctionPoint{ChainID: chainID, Index: index, Pos: pos}
}

func (j JunctionPoint) ComputeXY() geom.Vector { return j.Pos }
func (JunctionPoint) sealed()                  {}

// Equal reports whether a and b carry identical provenance. It never
// compares coordinates.
func Equal(a, b Point) bool {
	switch av := a.(type) {
	case Origin:
		bv, ok := b.(Origin)
		return ok && av.Pos == bv.Pos
	case Endpoint:
		bv, ok := b.(Endpoint)
		return ok && av.SurfaceID == bv.SurfaceID && av.Which == bv.Which
	case HitPoint:
		bv, ok := b.(HitPoint)
		return ok && av.SurfaceID == bv.SurfaceID && av.T == bv.T && av.S == bv.S &&
			av.Ray.Origin == bv.Ray.Origin && av.Ray.Direction == bv.Ray.Direction
	case JunctionPoint:
		bv, ok := b.(JunctionPoint)
		return ok && av.ChainID == bv.ChainID && av.Index == bv.Index
	default:
		return false
	}
}

// IsOrigin reports whether p is an Origin variant.
func IsOrigin(p Point) bool {
	_, ok := p.(Origin)
	return ok
}
