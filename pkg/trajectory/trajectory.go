// Package trajectory builds the planned (obstruction-free) path, the
// single combined planned/actual trace, and the divergence
// classification derived from it: the planned-path builder, the
// actual-path tracer, and the divergence classifier, which together
// turn an active surface list and a scene into the UnifiedPath the
// renderer consumes.
package trajectory

import (
	"math"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/image"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/reflectcache"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/source"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

// TraceParams bounds and calibrates the actual-path tracer. None of
// these are hard-coded constants: CursorRadius in particular is a
// renderer-pixel-scale calibration the caller owns.
type TraceParams struct {
	MaxReflections int
	MaxDistance    float64
	CursorRadius   float64
}

// DefaultTraceParams returns reasonable defaults for a screen-sized
// scene; callers are expected to override CursorRadius to match their
// rendering scale.
func DefaultTraceParams() TraceParams {
	return TraceParams{MaxReflections: 10, MaxDistance: 2000, CursorRadius: 1.0}
}

// Alignment tags how a traced segment relates to the plan.
type Alignment string

const (
	Aligned   Alignment = "aligned"
	Unplanned Alignment = "unplanned"
	Diverged  Alignment = "diverged"
)

// TerminationKind is why a path (or its final segment) stopped.
type TerminationKind string

const (
	TerminationNone           TerminationKind = "none"
	TerminationWallHit        TerminationKind = "wall_hit"
	TerminationMaxDistance    TerminationKind = "max_distance"
	TerminationMaxReflections TerminationKind = "max_reflections"
	TerminationCursorReached  TerminationKind = "cursor_reached"
)

// Termination names how a segment ended. WallSurfaceID is populated
// only when Kind is TerminationWallHit.
type Termination struct {
	Kind          TerminationKind
	WallSurfaceID string
}

// PathSegment is one leg of the combined planned/actual trace.
type PathSegment struct {
	Start, End    geom.Vector
	EndSurfaceID  string
	HasEndSurface bool
	HitOnSegment  bool
	PlanAlignment Alignment
	Termination   Termination
}

// PhysicsSegment is one leg of the purely physical, plan-blind
// reflection trace used to render the path after a physics divergence.
type PhysicsSegment struct {
	Start, End    geom.Vector
	EndSurfaceID  string
	HasEndSurface bool
	HitOnSegment  bool
	Termination   Termination
}

// PlannedPath is the idealised, obstruction-free path the method of
// images predicts for the active surfaces, terminating at the cursor.
type PlannedPath struct {
	Points        []geom.Vector
	Length        float64
	ReachedCursor bool
}

// UnifiedPath is the full per-frame trace result: the combined
// planned/actual segments, the derived divergence fields, and the
// plan-blind physics continuation used to render past a divergence.
type UnifiedPath struct {
	Segments               []PathSegment
	CursorSegmentIndex     int
	CursorT                float64
	CursorReachable        bool
	FirstDivergedIndex     int
	IsFullyAligned         bool
	PlannedSurfaceCount    int
	TotalLength            float64
	ActualPhysicsSegments  []PhysicsSegment
	PhysicsDivergenceIndex int
	WaypointSources        []source.Point
}

// BuildPlannedPath computes the idealised path through active (in
// plan order) from avatar to cursor, ignoring every obstruction: each
// hop intersects the line through the forward image at depth i and
// the backward image at depth n-i with the line of active[i], keeping
// the hit even when it falls off the finite segment. A hop whose
// intersection is degenerate, or does not make forward progress
// relative to the previous hop's direction, is skipped and contributes
// no point.
func BuildPlannedPath(cache *reflectcache.Cache, avatar, cursor geom.Vector, active []surface.Surface) PlannedPath {
	n := len(active)
	if n == 0 {
		return PlannedPath{Points: []geom.Vector{avatar, cursor}, Length: geom.Distance(avatar, cursor), ReachedCursor: true}
	}

	forward := image.BuildForward(cache, avatar, active)
	backward := image.BuildBackward(cache, cursor, active)

	points := []geom.Vector{avatar}
	current := avatar
	dir := geom.Vector{}
	for i := 0; i < n; i++ {
		avatarImage := image.ImageAtDepth(forward, i)
		cursorImage := image.ImageAtDepth(backward, n-i)
		ray := geom.NewRayTo(avatarImage, cursorImage)

		_, _, point, ok := geom.LineLineIntersection(ray.Origin, ray.Direction, active[i].Segment.Start, active[i].Segment.End)
		if !ok {
			continue
		}
		hop := point.Subtract(current)
		if i > 0 && geom.Dot(hop, dir) <= 0 {
			continue
		}
		points = append(points, point)
		dir = hop.Normalize()
		current = point
	}
	points = append(points, cursor)

	length := 0.0
	for i := 1; i < len(points); i++ {
		length += geom.Distance(points[i-1], points[i])
	}
	return PlannedPath{Points: points, Length: length, ReachedCursor: true}
}

// TracePath runs the combined planned/actual tracer (§4.A) and derives
// the divergence classification (§4.D) in one pass. active is the
// bypass-evaluator's active surface list, in plan order; all is every
// surface in the scene (reflective and wall), since the actual path
// can strike surfaces the plan never mentions.
func TracePath(cache *reflectcache.Cache, avatar, cursor geom.Vector, active, all []surface.Surface, params TraceParams) UnifiedPath {
	n := len(active)

	initialDir := initialDirection(cache, avatar, cursor, active)
	if initialDir.IsZero() {
		return UnifiedPath{
			Segments: []PathSegment{{
				Start: avatar, End: avatar,
				PlanAlignment: Aligned,
				Termination:   Termination{Kind: TerminationCursorReached},
			}},
			CursorSegmentIndex:     0,
			CursorT:                0,
			CursorReachable:        true,
			FirstDivergedIndex:     -1,
			IsFullyAligned:         true,
			PlannedSurfaceCount:    n,
			WaypointSources:        []source.Point{source.NewOrigin(avatar)},
			PhysicsDivergenceIndex: -1,
		}
	}

	pos := avatar
	dir := initialDir
	lastID := ""
	nextExpected := 0
	hasDiverged := false
	cursorSegmentIndex := -1
	cursorT := 0.0
	physicsDivergenceIndex := -1
	totalLength := 0.0

	var segments []PathSegment
	waypoints := []source.Point{source.NewOrigin(avatar)}

	appendWaypoint := func(hasSurface bool, id string, ray geom.Ray, t, s float64, fallback geom.Vector) {
		if hasSurface {
			waypoints = append(waypoints, source.NewHitPoint(ray, id, t, s))
		} else {
			waypoints = append(waypoints, source.NewOrigin(fallback))
		}
	}

	for {
		ray := geom.NewRay(pos, dir)
		physHit, physT, physS, physOK := nearestOnSegmentHit(ray, all, lastID)

		planOK := false
		var planT, planS float64
		var planPoint geom.Vector
		if nextExpected < n {
			expected := active[nextExpected]
			t, s, point, ok := geom.LineLineIntersection(pos, dir, expected.Segment.Start, expected.Segment.End)
			if ok && t > 1e-9 {
				planOK, planT, planS, planPoint = true, t, s, point
			}
		}

		usePlan := planOK && (!physOK || planT < physT)

		var (
			segEnd        geom.Vector
			hitOnSegment  bool
			endSurfaceID  string
			hasEndSurface bool
			alignment     Alignment
			newDir        geom.Vector
			newLastID     string
			stepDistance  float64
			term          Termination
			keepGoing     = true
		)

		switch {
		case usePlan:
			expected := active[nextExpected]
			segEnd = planPoint
			hitOnSegment = planS >= 0 && planS <= 1
			endSurfaceID = expected.ID
			hasEndSurface = true
			if hasDiverged {
				alignment = Diverged
			} else {
				alignment = Aligned
				if !hitOnSegment {
					hasDiverged = true
					if physicsDivergenceIndex == -1 {
						physicsDivergenceIndex = len(segments)
					}
				}
			}
			nextExpected++
			newDir = geom.ReflectDirection(dir, expected.Normal)
			newLastID = expected.ID
			stepDistance = planT
			term = Termination{Kind: TerminationNone}

		case physOK:
			hit := physHit
			segEnd = ray.At(physT)
			hitOnSegment = true
			endSurfaceID = hit.ID
			hasEndSurface = true
			switch {
			case hasDiverged:
				alignment = Diverged
			case nextExpected < n && hit.ID == active[nextExpected].ID:
				alignment = Aligned
				nextExpected++
			case nextExpected < n:
				alignment = Diverged
				hasDiverged = true
			case n > 0:
				alignment = Diverged
				hasDiverged = true
			default:
				alignment = Unplanned
			}
			stepDistance = physT
			if hit.Kind == surface.Wall {
				term = Termination{Kind: TerminationWallHit, WallSurfaceID: hit.ID}
				keepGoing = false
			} else {
				newDir = geom.ReflectDirection(dir, hit.Normal)
				newLastID = hit.ID
				term = Termination{Kind: TerminationNone}
			}

		default:
			remaining := params.MaxDistance - totalLength
			if remaining < 0 {
				remaining = 0
			}
			segEnd = ray.At(remaining)
			hitOnSegment = false
			if hasDiverged {
				alignment = Diverged
			} else if n == 0 {
				alignment = Aligned
			} else {
				alignment = Unplanned
			}
			term = Termination{Kind: TerminationMaxDistance}
			keepGoing = false
			stepDistance = remaining
		}

		segStart := pos
		capturedCursor := false
		var tProj float64
		if cursorSegmentIndex == -1 && nextExpected >= n {
			toCursor := cursor.Subtract(pos)
			tProj = geom.Dot(toCursor, dir)
			if tProj > 1e-9 && tProj < stepDistance-1e-9 {
				perp := toCursor.Subtract(dir.Scale(tProj))
				if perp.Length() < params.CursorRadius {
					capturedCursor = true
				}
			}
		}

		if capturedCursor {
			// Reaching the cursor stops the trace here: the render
			// deriver (rule 3, forward projection) is responsible for
			// any dashed continuation past this point, computed
			// separately so the unified path never carries rendering
			// concerns.
			cursorPoint := ray.At(tProj)
			segments = append(segments, PathSegment{
				Start: segStart, End: cursorPoint,
				HitOnSegment:  true,
				PlanAlignment: alignment,
				Termination:   Termination{Kind: TerminationCursorReached},
			})
			totalLength += tProj
			cursorSegmentIndex = len(segments) - 1
			cursorT = 1.0
			waypoints = append(waypoints, source.NewOrigin(cursorPoint))
			break
		}

		segments = append(segments, PathSegment{
			Start: segStart, End: segEnd,
			EndSurfaceID: endSurfaceID, HasEndSurface: hasEndSurface,
			HitOnSegment:  hitOnSegment,
			PlanAlignment: alignment,
			Termination:   term,
		})
		totalLength += stepDistance
		switch {
		case usePlan:
			appendWaypoint(true, endSurfaceID, ray, planT, planS, segEnd)
		case physOK:
			appendWaypoint(true, endSurfaceID, ray, physT, physS, segEnd)
		default:
			appendWaypoint(false, "", ray, 0, 0, segEnd)
		}

		if !keepGoing {
			break
		}
		if totalLength >= params.MaxDistance {
			segments[len(segments)-1].Termination = Termination{Kind: TerminationMaxDistance}
			break
		}
		if len(segments) > params.MaxReflections {
			segments[len(segments)-1].Termination = Termination{Kind: TerminationMaxReflections}
			break
		}

		pos = segEnd
		dir = newDir
		lastID = newLastID
	}

	if len(segments) > 0 {
		segments[0].PlanAlignment = Aligned
	}

	firstDivergedIndex := -1
	for i, seg := range segments {
		if seg.PlanAlignment == Diverged {
			firstDivergedIndex = i
			break
		}
	}
	isFullyAligned := firstDivergedIndex == -1 && nextExpected >= n
	cursorReachable := cursorSegmentIndex != -1 && (firstDivergedIndex == -1 || cursorSegmentIndex < firstDivergedIndex)

	physicsSegments := buildPhysicsOnlyTrace(avatar, initialDir, all, params)

	return UnifiedPath{
		Segments:               segments,
		CursorSegmentIndex:     cursorSegmentIndex,
		CursorT:                cursorT,
		CursorReachable:        cursorReachable,
		FirstDivergedIndex:     firstDivergedIndex,
		IsFullyAligned:         isFullyAligned,
		PlannedSurfaceCount:    n,
		TotalLength:            totalLength,
		ActualPhysicsSegments:  physicsSegments,
		PhysicsDivergenceIndex: physicsDivergenceIndex,
		WaypointSources:        waypoints,
	}
}

// initialDirection picks the actual tracer's starting direction: aim
// at the cursor with no plan, otherwise aim from the avatar toward the
// full-depth backward cursor image, falling back to the first
// surface's midpoint and finally straight at the cursor if that is
// degenerate.
func initialDirection(cache *reflectcache.Cache, avatar, cursor geom.Vector, active []surface.Surface) geom.Vector {
	n := len(active)
	if n == 0 {
		return cursor.Subtract(avatar).Normalize()
	}
	backward := image.BuildBackward(cache, cursor, active)
	dir := image.ImageAtDepth(backward, n).Subtract(avatar)
	if dir.IsZero() {
		dir = active[0].Segment.At(0.5).Subtract(avatar)
	}
	if dir.IsZero() {
		dir = cursor.Subtract(avatar)
	}
	return dir.Normalize()
}

func nearestOnSegmentHit(ray geom.Ray, surfaces []surface.Surface, excludeID string) (hit surface.Surface, t, s float64, ok bool) {
	bestT := math.Inf(1)
	found := false
	for _, sf := range surfaces {
		if sf.ID == excludeID {
			continue
		}
		ct, cs, _, cok := geom.RaySegmentIntersect(ray, sf.Segment)
		if !cok || ct <= 0 {
			continue
		}
		if ct < bestT {
			bestT, hit, s, found = ct, sf, cs, true
		}
	}
	return hit, bestT, s, found
}

// buildPhysicsOnlyTrace walks a purely physical, plan-blind reflection
// trace from the same initial direction the combined tracer used. It
// exists so the renderer can draw the true continuation of the ray
// once a physics divergence makes the plan-aware segments meaningless.
func buildPhysicsOnlyTrace(avatar, dir geom.Vector, all []surface.Surface, params TraceParams) []PhysicsSegment {
	if dir.IsZero() {
		return nil
	}
	dir = dir.Normalize()
	pos := avatar
	lastID := ""
	total := 0.0
	var out []PhysicsSegment

	for step := 0; ; step++ {
		ray := geom.NewRay(pos, dir)
		hit, t, _, ok := nearestOnSegmentHit(ray, all, lastID)
		if !ok || total+t > params.MaxDistance {
			remaining := params.MaxDistance - total
			if remaining < 0 {
				remaining = 0
			}
			out = append(out, PhysicsSegment{
				Start: pos, End: ray.At(remaining),
				Termination: Termination{Kind: TerminationMaxDistance},
			})
			return out
		}

		end := ray.At(t)
		if hit.Kind == surface.Wall {
			out = append(out, PhysicsSegment{
				Start: pos, End: end, EndSurfaceID: hit.ID, HasEndSurface: true, HitOnSegment: true,
				Termination: Termination{Kind: TerminationWallHit, WallSurfaceID: hit.ID},
			})
			return out
		}

		term := Termination{Kind: TerminationNone}
		if step >= params.MaxReflections {
			term = Termination{Kind: TerminationMaxReflections}
		}
		out = append(out, PhysicsSegment{
			Start: pos, End: end, EndSurfaceID: hit.ID, HasEndSurface: true, HitOnSegment: true,
			Termination: term,
		})
		if step >= params.MaxReflections {
			return out
		}
		total += t
		pos = end
		dir = geom.ReflectDirection(dir, hit.Normal)
		lastID = hit.ID
	}
}
