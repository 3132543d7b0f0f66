// Package bypass implements the six-rule plan-bypass evaluator: given
// an avatar, a cursor, an ordered plan of surface ids (which may repeat
// a surface for multi-bounce plans), and a scene, it decides which
// planned surfaces are geometrically usable this frame and which must
// be dropped, without ever reordering or mutating the plan itself.
package bypass

import (
	"math"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/image"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/reflectcache"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

// Reason names why a planned surface was removed from the active set.
type Reason string

const (
	WrongSideLast    Reason = "wrong_side_last"
	WrongSideFirst   Reason = "wrong_side_first"
	ChainBreak       Reason = "chain_break"
	NoReflectThrough Reason = "no_reflect_through"
	OutOfOrder       Reason = "out_of_order"
	Unreachable      Reason = "unreachable"
)

// Bypassed records one surface the evaluator removed from the plan,
// along with its position in the original plan (plans may repeat a
// surface id, so the id alone would not identify which occurrence was
// dropped).
type Bypassed struct {
	Surface       surface.Surface
	OriginalIndex int
	Reason        Reason
}

// Result is the output of Evaluate: the surfaces still usable this
// frame, in plan order, and everything that was dropped and why.
type Result struct {
	ActiveSurfaces []surface.Surface
	Bypassed       []Bypassed
}

// Scene is the lookup the evaluator needs from the scene graph: a
// single planned surface by id, and every surface in play (reflective
// and wall alike) for the rule-5 physical order check.
type Scene interface {
	SurfaceByID(id string) (surface.Surface, bool)
	AllSurfaces() []surface.Surface
}

type planEntry struct {
	index   int
	surface surface.Surface
}

// Evaluate applies the six bypass rules in order, re-evaluating the
// remaining surfaces after every removal, and always returns a result
// - there is no error case, since an empty active set is itself a
// valid (if uninteresting) outcome.
func Evaluate(cache *reflectcache.Cache, avatar, cursor geom.Vector, plan []string, scene Scene) Result {
	result := Result{}

	remaining := make([]planEntry, 0, len(plan))
	for i, id := range plan {
		s, ok := scene.SurfaceByID(id)
		if !ok {
			result.Bypassed = append(result.Bypassed, Bypassed{OriginalIndex: i, Reason: Unreachable})
			continue
		}
		remaining = append(remaining, planEntry{index: i, surface: s})
	}

	for {
		changed := applyPositionalAndChainRules(&remaining, &result.Bypassed, avatar, cursor, cache)
		changed = applyOutOfOrder(&remaining, &result.Bypassed, avatar, cursor, cache, scene) || changed
		if !changed {
			break
		}
	}

	result.ActiveSurfaces = make([]surface.Surface, len(remaining))
	for i, e := range remaining {
		result.ActiveSurfaces[i] = e.surface
	}
	return result
}

// applyPositionalAndChainRules runs rules 1-4 to a fixpoint: each
// removal can change which surface is "first" or "last", or shift the
// image chain entirely, so the whole set is re-checked after every
// single removal.
func applyPositionalAndChainRules(remaining *[]planEntry, bypassed *[]Bypassed, avatar, cursor geom.Vector, cache *reflectcache.Cache) bool {
	anyChange := false
	for {
		if len(*remaining) == 0 {
			return anyChange
		}

		last := (*remaining)[len(*remaining)-1]
		if !last.surface.OnReflectiveSide(cursor) {
			remove(remaining, bypassed, len(*remaining)-1, WrongSideLast)
			anyChange = true
			continue
		}

		first := (*remaining)[0]
		if !first.surface.OnReflectiveSide(avatar) {
			remove(remaining, bypassed, 0, WrongSideFirst)
			anyChange = true
			continue
		}

		if idx, reason, fail := chainFailure(avatar, cursor, *remaining, cache); fail {
			remove(remaining, bypassed, idx, reason)
			anyChange = true
			continue
		}

		return anyChange
	}
}

// chainFailure walks the bidirectional image chain hop by hop and
// reports the first surface whose planned intersection is degenerate
// (Unreachable), behind the current ray origin (ChainBreak), or on the
// wrong side to physically reflect the incident direction
// (NoReflectThrough).
func chainFailure(avatar, cursor geom.Vector, remaining []planEntry, cache *reflectcache.Cache) (int, Reason, bool) {
	n := len(remaining)
	surfaces := make([]surface.Surface, n)
	for i, e := range remaining {
		surfaces[i] = e.surface
	}
	forward := image.BuildForward(cache, avatar, surfaces)
	backward := image.BuildBackward(cache, cursor, surfaces)

	for i := 0; i < n; i++ {
		avatarImage := image.ImageAtDepth(forward, i)
		cursorImage := image.ImageAtDepth(backward, n-i)
		ray := geom.NewRayTo(avatarImage, cursorImage)

		t, _, _, ok := geom.LineLineIntersection(ray.Origin, ray.Direction, surfaces[i].Segment.Start, surfaces[i].Segment.End)
		if !ok {
			return i, Unreachable, true
		}
		if t < 0 {
			return i, ChainBreak, true
		}
		if !surfaces[i].CanReflectFrom(ray.Direction) {
			return i, NoReflectThrough, true
		}
	}
	return 0, "", false
}

// applyOutOfOrder implements rule 5: it casts the real, obstacle-aware
// forward ray from the avatar (reflecting physically off whatever it
// actually strikes, planned or not) and compares the order planned
// surfaces are struck in against their order in the plan. An earlier-
// planned surface struck after a later one is bypassed; the plan order
// itself is left untouched.
func applyOutOfOrder(remaining *[]planEntry, bypassed *[]Bypassed, avatar, cursor geom.Vector, cache *reflectcache.Cache, scene Scene) bool {
	if len(*remaining) < 2 {
		return false
	}

	strikeOrder := physicalStrikeOrder(avatar, cursor, *remaining, cache, scene)
	strikeIndex := make(map[string]int, len(strikeOrder))
	for i, id := range strikeOrder {
		strikeIndex[id] = i
	}

	worstIndex := -1
	for i, e := range *remaining {
		si, ok := strikeIndex[e.surface.ID]
		if !ok {
			continue
		}
		for j := i + 1; j < len(*remaining); j++ {
			sj, ok := strikeIndex[(*remaining)[j].surface.ID]
			if ok && sj < si {
				worstIndex = i
				break
			}
		}
		if worstIndex != -1 {
			break
		}
	}
	if worstIndex == -1 {
		return false
	}
	remove(remaining, bypassed, worstIndex, OutOfOrder)
	return true
}

// physicalStrikeOrder traces a real, reflecting ray through the whole
// scene (not just the plan) starting from the same initial direction
// §4.A's tracer would use, and returns the currently-active planned
// surface ids in the order the ray actually reaches them. It stops at
// the first wall hit, once every active surface has been located, or
// after a generous step bound to guard against degenerate scenes.
func physicalStrikeOrder(avatar, cursor geom.Vector, active []planEntry, cache *reflectcache.Cache, scene Scene) []string {
	n := len(active)
	surfaces := make([]surface.Surface, n)
	activeIDs := make(map[string]bool, n)
	for i, e := range active {
		surfaces[i] = e.surface
		activeIDs[e.surface.ID] = true
	}

	backward := image.BuildBackward(cache, cursor, surfaces)
	dir := image.ImageAtDepth(backward, n).Subtract(avatar)
	if dir.IsZero() {
		dir = cursor.Subtract(avatar)
	}
	if dir.IsZero() {
		return nil
	}
	dir = dir.Normalize()

	all := scene.AllSurfaces()
	pos := avatar
	lastID := ""
	var order []string
	seen := make(map[string]bool, n)

	maxSteps := n*3 + 8
	for step := 0; step < maxSteps && len(order) < n; step++ {
		ray := geom.NewRay(pos, dir)
		hit, t, ok := nearestHit(ray, all, lastID)
		if !ok {
			break
		}
		if activeIDs[hit.ID] && !seen[hit.ID] {
			seen[hit.ID] = true
			order = append(order, hit.ID)
		}
		if hit.Kind == surface.Wall {
			break
		}
		pos = ray.At(t)
		dir = geom.ReflectDirection(dir, hit.Normal)
		lastID = hit.ID
	}
	return order
}

func nearestHit(ray geom.Ray, surfaces []surface.Surface, excludeID string) (surface.Surface, float64, bool) {
	bestT := math.Inf(1)
	var best surface.Surface
	found := false
	for _, s := range surfaces {
		if s.ID == excludeID {
			continue
		}
		t, _, _, ok := geom.RaySegmentIntersect(ray, s.Segment)
		if !ok {
			continue
		}
		if t < bestT {
			bestT = t
			best = s
			found = true
		}
	}
	return best, bestT, found
}

func remove(remaining *[]planEntry, bypassed *[]Bypassed, idx int, reason Reason) {
	e := (*remaining)[idx]
	*bypassed = append(*bypassed, Bypassed{Surface: e.surface, OriginalIndex: e.index, Reason: reason})
	*remaining = append((*remaining)[:idx], (*remaining)[idx+1:]...)
}
