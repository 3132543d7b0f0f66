// Package surface implements the scene's oriented line-segment model:
// individual reflective/wall Surfaces and the SurfaceChains that group
// adjoining surfaces (including the screen-boundary rectangle) for the
// visibility engine.
package surface

import (
	"fmt"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/source"
)

// Kind distinguishes surfaces a ray can bounce off from surfaces that
// simply stop it.
type Kind int

const (
	Reflective Kind = iota
	Wall
)

func (k Kind) String() string {
	if k == Reflective {
		return "reflective"
	}
	return "wall"
}

// Surface is an immutable oriented line segment. Normal designates the
// reflective half-plane: the half-plane Normal points away from is the
// side a ray may reflect from.
type Surface struct {
	ID      string
	Segment geom.Segment
	Kind    Kind
	Normal  geom.Vector
}

// New builds a Surface and derives its normal from the segment's
// orientation: the right-hand perpendicular of End-Start, normalized.
// Authoring a segment's two endpoints in a particular order is how a
// surface's reflective side is chosen.
func New(id string, segment geom.Segment, kind Kind) Surface {
	return Surface{
		ID:      id,
		Segment: segment,
		Kind:    kind,
		Normal:  orientationNormal(segment),
	}
}

func orientationNormal(segment geom.Segment) geom.Vector {
	d := segment.Vector()
	return geom.NewVector(d.Y, -d.X).Normalize()
}

// CanReflectFrom reports whether a ray travelling in dir can reflect
// off this surface, i.e. whether dir arrives from the reflective side.
//
// A point p sits on the reflective side when Dot(p-Start, Normal) < 0
// (OnReflectiveSide). A ray travelling toward the line from such a
// point moves toward increasing projection onto Normal, so its travel
// direction carries the opposite sign: the check here is the mirror
// image of OnReflectiveSide's, not the same inequality.
func (s Surface) CanReflectFrom(dir geom.Vector) bool {
	return geom.Dot(dir, s.Normal) > 0
}

// OnReflectiveSide reports whether p lies on the half-plane a ray may
// legally reflect from, i.e. the half-plane opposite Normal.
func (s Surface) OnReflectiveSide(p geom.Vector) bool {
	return geom.Dot(p.Subtract(s.Segment.Start), s.Normal) < 0
}

// SideOf returns the signed side of p relative to this surface's line:
// positive to the left of Start->End, which is the side opposite
// Normal (the reflective side).
func (s Surface) SideOf(p geom.Vector) float64 {
	return geom.PointSideOfLine(p, s.Segment.Start, s.Segment.End)
}

// Endpoints returns the two termini of the surface as provenance
// points.
func (s Surface) Endpoints() (start, end source.Endpoint) {
	return source.NewEndpoint(s.ID, source.Start, s.Segment.Start),
		source.NewEndpoint(s.ID, source.End, s.Segment.End)
}

// Chain is an ordered sequence of surfaces whose consecutive endpoints
// coincide exactly. A Closed chain (the screen-boundary rectangle is
// the only one in practice) also joins its last surface back to its
// first and has no free terminal endpoints.
type Chain struct {
	ID       string
	Surfaces []Surface
	Closed   bool

	junctions []geom.Vector // junctions[i] joins Surfaces[i] and Surfaces[i+1 mod n]
	startEnd  source.Which  // which end of Surfaces[0] is the chain's free start terminal
	endEnd    source.Which  // which end of Surfaces[len-1] is the chain's free end terminal
}

// NewChain validates that consecutive surfaces share an exact endpoint
// and builds the chain's junction table. It returns an error (rather
// than panicking) because chain topology is author/loader data, not a
// core-internal invariant.
func NewChain(id string, surfaces []Surface) (Chain, error) {
	return newChain(id, surfaces, false)
}

// NewClosedChain is NewChain for a closed loop of surfaces, such as
// the synthetic screen-boundary rectangle.
func NewClosedChain(id string, surfaces []Surface) (Chain, error) {
	return newChain(id, surfaces, true)
}

func newChain(id string, surfaces []Surface, closed bool) (Chain, error) {
	if len(surfaces) == 0 {
		return Chain{}, fmt.Errorf("surface: chain %q has no surfaces", id)
	}

	c := Chain{ID: id, Surfaces: surfaces, Closed: closed}
	if len(surfaces) == 1 && !closed {
		c.startEnd = source.Start
		c.endEnd = source.End
		return c, nil
	}

	n := len(surfaces)
	joinCount := n - 1
	if closed {
		joinCount = n
	}
	c.junctions = make([]geom.Vector, joinCount)
	for i := 0; i < joinCount; i++ {
		point, ok := sharedEndpoint(surfaces[i], surfaces[(i+1)%n])
		if !ok {
			return Chain{}, fmt.Errorf("surface: chain %q surfaces %d and %d do not share an exact endpoint", id, i, (i+1)%n)
		}
		c.junctions[i] = point
	}

	if closed {
		return c, nil
	}

	// The chain's free start terminal is whichever end of Surfaces[0]
	// is not the first junction.
	if surfaces[0].Segment.Start == c.junctions[0] {
		c.startEnd = source.End
	} else {
		c.startEnd = source.Start
	}
	last := n - 1
	if surfaces[last].Segment.End == c.junctions[last-1] {
		c.endEnd = source.Start
	} else {
		c.endEnd = source.End
	}
	return c, nil
}

func sharedEndpoint(a, b Surface) (geom.Vector, bool) {
	switch {
	case a.Segment.End == b.Segment.Start:
		return a.Segment.End, true
	case a.Segment.End == b.Segment.End:
		return a.Segment.End, true
	case a.Segment.Start == b.Segment.Start:
		return a.Segment.Start, true
	case a.Segment.Start == b.Segment.End:
		return a.Segment.Start, true
	default:
		return geom.Vector{}, false
	}
}

// TerminalEndpoints returns the chain's two free endpoints (the ones
// not shared with a neighboring surface). For a single-surface chain
// these are simply the surface's own two endpoints. Closed chains have
// no terminal endpoints; callers must check Closed first.
func (c Chain) TerminalEndpoints() (start, end source.Endpoint) {
	first := c.Surfaces[0]
	last := c.Surfaces[len(c.Surfaces)-1]
	if c.startEnd == source.Start {
		start = source.NewEndpoint(first.ID, source.Start, first.Segment.Start)
	} else {
		start = source.NewEndpoint(first.ID, source.End, first.Segment.End)
	}
	if c.endEnd == source.Start {
		end = source.NewEndpoint(last.ID, source.Start, last.Segment.Start)
	} else {
		end = source.NewEndpoint(last.ID, source.End, last.Segment.End)
	}
	return start, end
}

// JunctionPoints returns the internal joints between consecutive
// chain members, in chain order.
func (c Chain) JunctionPoints() []source.JunctionPoint {
	points := make([]source.JunctionPoint, len(c.junctions))
	for i, pos := range c.junctions {
		points[i] = source.NewJunctionPoint(c.ID, i, pos)
	}
	return points
}

// ByID returns the surface with the given id, or false if none match.
func (c Chain) ByID(id string) (Surface, bool) {
	for _, s := range c.Surfaces {
		if s.ID == id {
			return s, true
		}
	}
	return Surface{}, false
}
