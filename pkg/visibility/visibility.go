// Package visibility computes the epsilon-free visibility polygon: the
// angularly ordered set of source points bounding what is visible from
// an origin (the avatar, or one of its reflected images) through zero
// or more windows, plus the cascading reflected stages used to render
// what each planned bounce surface can itself see.
package visibility

import (
	"math"
	"sort"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/reflectcache"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/source"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

// Stage is one visibility computation: the source points of its
// polygon boundary in CCW order, the realised polygon vertices, the
// origin it was cast from, and whether it produced anything at all.
type Stage struct {
	SourcePoints []source.Point
	Polygon      []geom.Vector
	Origin       geom.Vector
	IsValid      bool
}

type target struct {
	point        source.Point
	continuation bool // true for chain terminal endpoints
}

// hit is one candidate visibility-polygon vertex before sorting and
// deduplication.
type hit struct {
	pos geom.Vector
	src source.Point
}

// Compute builds a single visibility stage from origin, looking
// through windows (an empty slice means a full, unrestricted cone)
// across chains and the closed screen-bounds chain.
func Compute(origin geom.Vector, windows []geom.Segment, chains []surface.Chain, screen surface.Chain) Stage {
	all := flatten(chains, screen)

	targets := collectTargets(chains, screen)
	windowed := len(windows) > 0

	var hits []hit

	for _, tgt := range targets {
		p := tgt.point.ComputeXY()
		if p.Equals(origin) {
			continue
		}
		if windowed && !inAnyWindowCone(origin, p, windows) {
			continue
		}

		visiblePoint, visibleSrc, blocked := castToTarget(origin, tgt.point, p, all)
		hits = append(hits, hit{pos: visiblePoint, src: visibleSrc})

		if !blocked && tgt.continuation {
			castContinuation(origin, p, all, &hits)
		}
	}

	if windowed {
		for _, w := range windows {
			hits = append(hits,
				hit{pos: w.Start, src: source.NewOrigin(w.Start)},
				hit{pos: w.End, src: source.NewOrigin(w.End)},
			)
		}
	}

	if len(hits) == 0 {
		return Stage{Origin: origin, IsValid: false}
	}

	ref := geom.NewVector(1, 0)
	if windowed {
		ref = windows[0].End.Subtract(origin)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return angularLess(origin, ref, hits[i].pos, hits[j].pos)
	})

	var points []geom.Vector
	var sources []source.Point
	seen := make(map[geom.Vector]bool)
	for _, h := range hits {
		if seen[h.pos] {
			continue
		}
		seen[h.pos] = true
		points = append(points, h.pos)
		sources = append(sources, h.src)
	}

	return Stage{SourcePoints: sources, Polygon: points, Origin: origin, IsValid: len(points) > 0}
}

// flatten collects every surface from every chain plus the screen
// chain into one slice for raycasting.
func flatten(chains []surface.Chain, screen surface.Chain) []surface.Surface {
	var out []surface.Surface
	for _, c := range chains {
		out = append(out, c.Surfaces...)
	}
	out = append(out, screen.Surfaces...)
	return out
}

// collectTargets gathers every ray target: free terminal endpoints
// (which emit continuation rays) and internal junctions (which do
// not), including the screen chain's corners.
func collectTargets(chains []surface.Chain, screen surface.Chain) []target {
	var out []target
	for _, c := range chains {
		if !c.Closed {
			start, end := c.TerminalEndpoints()
			out = append(out, target{point: start, continuation: true})
			out = append(out, target{point: end, continuation: true})
		}
		for _, j := range c.JunctionPoints() {
			out = append(out, target{point: j})
		}
	}
	for _, j := range screen.JunctionPoints() {
		out = append(out, target{point: j})
	}
	return out
}

// inAnyWindowCone reports whether p lies within the angular cone
// defined by origin and the endpoints of at least one window, using
// only cross-product half-plane tests, and on the far side of that
// window from origin.
func inAnyWindowCone(origin, p geom.Vector, windows []geom.Segment) bool {
	for _, w := range windows {
		toStart := w.Start.Subtract(origin)
		toEnd := w.End.Subtract(origin)
		toP := p.Subtract(origin)

		c1 := geom.Cross(toStart, toP)
		c2 := geom.Cross(toP, toEnd)
		if (c1 >= 0) != (c2 >= 0) {
			continue
		}
		// p must be on the far side of the window's own line from origin.
		side := geom.PointSideOfLine(origin, w.Start, w.End)
		pSide := geom.PointSideOfLine(p, w.Start, w.End)
		if side == 0 || (side > 0) == (pSide > 0) {
			continue
		}
		return true
	}
	return false
}

// castToTarget casts a ray from origin toward p and returns the
// nearest obstruction on it (or p itself if unobstructed), along with
// whether it was blocked before reaching p.
func castToTarget(origin geom.Vector, original source.Point, p geom.Vector, all []surface.Surface) (geom.Vector, source.Point, bool) {
	ray := geom.NewRayTo(origin, p)
	targetT := geom.Distance(origin, p)

	bestT := math.Inf(1)
	var bestSurf surface.Surface
	var bestS float64
	found := false
	for _, s := range all {
		t, sp, _, ok := geom.RaySegmentIntersect(ray, s.Segment)
		if !ok || t <= 0 {
			continue
		}
		if t < bestT-1e-9 && t < targetT-1e-9 {
			bestT, bestSurf, bestS, found = t, s, sp, true
		}
	}
	if !found {
		return p, original, false
	}
	return ray.At(bestT), source.NewHitPoint(ray, bestSurf.ID, bestT, bestS), true
}

// castContinuation extends the origin->p ray past p to the next
// obstacle, appending the result to hits, and recurses through
// further chain endpoints it lands on up to a small bound.
func castContinuation(origin, p geom.Vector, all []surface.Surface, hits *[]hit) {
	dir := p.Subtract(origin).Normalize()
	if dir.IsZero() {
		return
	}
	pos := p
	const maxBounces = 6
	for i := 0; i < maxBounces; i++ {
		ray := geom.NewRay(pos, dir)
		bestT := math.Inf(1)
		var bestSurf surface.Surface
		var bestS float64
		found := false
		for _, s := range all {
			t, sp, _, ok := geom.RaySegmentIntersect(ray, s.Segment)
			if !ok || t < 1e-9 {
				continue
			}
			if t < bestT {
				bestT, bestSurf, bestS, found = t, s, sp, true
			}
		}
		if !found {
			return
		}
		hitPos := ray.At(bestT)
		*hits = append(*hits, hit{pos: hitPos, src: source.NewHitPoint(ray, bestSurf.ID, bestT, bestS)})
		if bestS <= 1e-9 || bestS >= 1-1e-9 {
			// landed on (or past) an endpoint of the hit surface: keep
			// extending from here, bounded by maxBounces.
			pos = hitPos
			continue
		}
		return
	}
}

// angularLess is the epsilon-free CCW comparator: points on the
// reference ray sort last, then by which side of the reference ray
// they fall on, then by signed cross product, with distance as the
// final tiebreaker for exactly collinear points.
func angularLess(origin, ref, a, b geom.Vector) bool {
	da := a.Subtract(origin)
	db := b.Subtract(origin)

	onRefA := geom.Cross(ref, da) == 0 && geom.Dot(ref, da) > 0
	onRefB := geom.Cross(ref, db) == 0 && geom.Dot(ref, db) > 0
	if onRefA != onRefB {
		return !onRefA
	}
	if onRefA && onRefB {
		return geom.Distance(origin, a) < geom.Distance(origin, b)
	}

	sideA := geom.Cross(ref, da)
	sideB := geom.Cross(ref, db)
	ccwA := sideA > 0
	ccwB := sideB > 0
	if ccwA != ccwB {
		return ccwA
	}

	c := geom.Cross(da, db)
	if c != 0 {
		return c > 0
	}
	return geom.Distance(origin, a) < geom.Distance(origin, b)
}

// Cascade computes stage 0 (full or windowed visibility from avatar)
// followed by one stage per planned surface, reflecting the origin
// through each in turn and restricting the next stage's windows to
// the visible sub-segments of that surface from the previous stage.
// Cascading stops as soon as a surface is unreachable from the
// current origin (its non-reflective side) or contributes no visible
// window.
func Cascade(avatar geom.Vector, windows []geom.Segment, chains []surface.Chain, screen surface.Chain, planned []surface.Surface, cache *reflectcache.Cache) []Stage {
	origin := avatar
	stage := Compute(origin, windows, chains, screen)
	stages := []Stage{stage}

	for _, s := range planned {
		if !stage.IsValid || !s.OnReflectiveSide(origin) {
			break
		}
		nextWindows := visibleSubsegments(stage.SourcePoints, s.ID)
		if len(nextWindows) == 0 {
			break
		}
		origin = cache.Reflect(origin, s)
		stage = Compute(origin, nextWindows, chains, screen)
		stages = append(stages, stage)
		if !stage.IsValid {
			break
		}
	}
	return stages
}

// visibleSubsegments runs a run-length pass over CCW-ordered source
// points, grouping consecutive HitPoints against surfaceID into
// windows: one segment per maximal run, from its first point to its
// last.
func visibleSubsegments(points []source.Point, surfaceID string) []geom.Segment {
	var out []geom.Segment
	var runStart, runEnd geom.Vector
	inRun := false

	flush := func() {
		if inRun {
			out = append(out, geom.NewSegment(runStart, runEnd))
			inRun = false
		}
	}

	for _, p := range points {
		hp, ok := p.(source.HitPoint)
		if ok && hp.SurfaceID == surfaceID {
			pos := hp.ComputeXY()
			if !inRun {
				runStart = pos
				inRun = true
			}
			runEnd = pos
			continue
		}
		flush()
	}
	flush()
	return out
}
