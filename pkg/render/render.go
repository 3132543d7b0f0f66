// Package render turns a UnifiedPath (plus the scene it was traced
// against) into the ordered, coloured/styled segment list a view
// layer draws, deterministically and without any side effects: the
// render deriver.
package render

import (
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/bypass"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/reflectcache"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/trajectory"
)

// Style is the line style a segment is drawn with.
type Style string

const (
	Solid  Style = "solid"
	Dashed Style = "dashed"
)

// Colour is the draw colour a segment carries.
type Colour string

const (
	Green  Colour = "green"
	Red    Colour = "red"
	Yellow Colour = "yellow"
)

// Segment is one piece of the rendered path.
type Segment struct {
	Start, End geom.Vector
	Style      Style
	Colour     Colour
}

// Derive applies the four render rules, in order, to a unified path:
// the solid-green/dashed-yellow baseline actual path, a solid/dashed
// red planned continuation from the first divergence, a dashed
// forward projection past an undiverged cursor, and the direct-line
// case for an empty plan whose actual path still reflects before the
// cursor.
//
// cache and scene are needed only to recompute rule 2's planned
// continuation (a fresh bypass+planned-path pass from the divergence
// point through the surfaces the original plan had not yet consumed);
// rule 1, 3 and 4 work from unified and all alone.
func Derive(cache *reflectcache.Cache, unified trajectory.UnifiedPath, scene bypass.Scene, all []surface.Surface) []Segment {
	var out []Segment

	out = append(out, baselinePath(unified)...)

	divergeAt, divergePoint, remainingSurfaces := divergence(unified)
	cursorBeforeDivergence := unified.CursorSegmentIndex == -1 || divergeAt == -1 || unified.CursorSegmentIndex < divergeAt
	if divergeAt != -1 && !cursorBeforeDivergence {
		// The cursor was already reached before any divergence; rule 2
		// does not apply to this frame.
	} else if divergeAt != -1 {
		out = append(out, plannedContinuation(cache, divergePoint, remainingSurfaces, cursorOf(unified), scene)...)
	}

	if divergeAt == -1 && unified.CursorSegmentIndex != -1 && unified.CursorSegmentIndex == len(unified.Segments)-1 {
		out = append(out, forwardProjection(unified, all)...)
	}

	if unified.PlannedSurfaceCount == 0 {
		out = append(out, unplannedReflectionCase(unified)...)
	}

	return out
}

// baselinePath implements rule 1: solid green up to the cursor, dashed
// yellow after it.
func baselinePath(unified trajectory.UnifiedPath) []Segment {
	var out []Segment
	for i, seg := range unified.Segments {
		colour := Green
		style := Solid
		if unified.CursorSegmentIndex != -1 && i > unified.CursorSegmentIndex {
			colour, style = Yellow, Dashed
		}
		out = append(out, Segment{Start: seg.Start, End: seg.End, Style: style, Colour: colour})
	}
	return out
}

// divergence locates the earliest point the actual path stopped
// matching the plan (whichever of FirstDivergedIndex or
// PhysicsDivergenceIndex comes first) and how many of the originally
// active surfaces the path had already consumed by then, so rule 2 can
// replan from exactly that point using only the surfaces left.
func divergence(unified trajectory.UnifiedPath) (index int, point geom.Vector, remaining []surface.Surface) {
	divergeAt := -1
	if unified.FirstDivergedIndex >= 0 {
		divergeAt = unified.FirstDivergedIndex
	}
	if unified.PhysicsDivergenceIndex >= 0 && (divergeAt == -1 || unified.PhysicsDivergenceIndex < divergeAt) {
		divergeAt = unified.PhysicsDivergenceIndex
	}
	if divergeAt == -1 {
		return -1, geom.Vector{}, nil
	}

	consumed := 0
	for i := 0; i < divergeAt && i < len(unified.Segments); i++ {
		if unified.Segments[i].PlanAlignment == trajectory.Aligned && unified.Segments[i].HasEndSurface {
			consumed++
		}
	}
	return divergeAt, unified.Segments[divergeAt].Start, activeSurfacesFrom(unified, consumed)
}

// activeSurfacesFrom recovers the tail of the originally active
// surface list, reading surface identities straight off the aligned
// segments that already consumed them; the planned-surface-count
// field alone cannot tell us which surfaces those were.
func activeSurfacesFrom(unified trajectory.UnifiedPath, consumed int) []surface.Surface {
	var all []surface.Surface
	for _, seg := range unified.Segments {
		if seg.PlanAlignment == trajectory.Aligned && seg.HasEndSurface {
			all = append(all, surface.Surface{ID: seg.EndSurfaceID})
		}
	}
	if consumed >= len(all) {
		return nil
	}
	return all[consumed:]
}

func cursorOf(unified trajectory.UnifiedPath) geom.Vector {
	if unified.CursorSegmentIndex != -1 {
		return unified.Segments[unified.CursorSegmentIndex].End
	}
	if len(unified.Segments) > 0 {
		return unified.Segments[len(unified.Segments)-1].End
	}
	return geom.Vector{}
}

// plannedContinuation implements rule 2: replan from the divergence
// point through the remaining surfaces (still subject to bypass),
// emitting solid red until the segment holding the cursor and dashed
// red beyond. Because BuildPlannedPath never models obstruction, the
// replanned path always nominally reaches the cursor in this
// implementation, so every leg here is solid.
func plannedContinuation(cache *reflectcache.Cache, from geom.Vector, remaining []surface.Surface, cursor geom.Vector, scene bypass.Scene) []Segment {
	if len(remaining) == 0 {
		return []Segment{{Start: from, End: cursor, Style: Solid, Colour: Red}}
	}
	ids := make([]string, len(remaining))
	for i, s := range remaining {
		ids[i] = s.ID
	}
	result := bypass.Evaluate(cache, from, cursor, ids, scene)
	planned := trajectory.BuildPlannedPath(cache, from, cursor, result.ActiveSurfaces)

	var out []Segment
	for i := 1; i < len(planned.Points); i++ {
		out = append(out, Segment{Start: planned.Points[i-1], End: planned.Points[i], Style: Solid, Colour: Red})
	}
	return out
}

// forwardProjection implements rule 3: a dashed continuation past the
// cursor when the path stopped exactly there and never diverged,
// reflecting physically off on-segment hits and stopping at walls.
// Yellow when the traced path was fully aligned, red otherwise.
func forwardProjection(unified trajectory.UnifiedPath, all []surface.Surface) []Segment {
	last := unified.Segments[len(unified.Segments)-1]
	dir := last.End.Subtract(last.Start)
	if dir.IsZero() {
		return nil
	}
	dir = dir.Normalize()

	colour := Red
	if unified.IsFullyAligned {
		colour = Yellow
	}

	const maxBounces = 16
	pos := last.End
	lastID := ""
	var out []Segment
	for step := 0; step <= maxBounces; step++ {
		ray := geom.NewRay(pos, dir)
		hit, t, ok := nearestOnSegmentHit(ray, all, lastID)
		if !ok {
			break
		}
		end := ray.At(t)
		out = append(out, Segment{Start: pos, End: end, Style: Dashed, Colour: colour})
		if hit.Kind == surface.Wall {
			break
		}
		pos = end
		dir = geom.ReflectDirection(dir, hit.Normal)
		lastID = hit.ID
	}
	return out
}

// unplannedReflectionCase implements rule 4: when there was no plan at
// all but the actual path still bounced before reaching the cursor,
// draw a direct solid red line from the first reflection to the
// cursor (the "plan" is retroactively direct) and the remaining
// physics segments dashed yellow. No dashed red projection past the
// cursor is emitted.
func unplannedReflectionCase(unified trajectory.UnifiedPath) []Segment {
	if len(unified.Segments) < 2 {
		return nil
	}
	firstReflection := unified.Segments[0].End
	cursor := cursorOf(unified)

	var out []Segment
	out = append(out, Segment{Start: firstReflection, End: cursor, Style: Solid, Colour: Red})

	for i := 1; i < len(unified.ActualPhysicsSegments); i++ {
		ps := unified.ActualPhysicsSegments[i]
		out = append(out, Segment{Start: ps.Start, End: ps.End, Style: Dashed, Colour: Yellow})
	}
	return out
}

func nearestOnSegmentHit(ray geom.Ray, surfaces []surface.Surface, excludeID string) (hit surface.Surface, t float64, ok bool) {
	best := 0.0
	found := false
	for _, sf := range surfaces {
		if sf.ID == excludeID {
			continue
		}
		ct, _, _, cok := geom.RaySegmentIntersect(ray, sf.Segment)
		if !cok {
			continue
		}
		if !found || ct < best {
			best, hit, found = ct, sf, true
		}
	}
	return hit, best, found
}
