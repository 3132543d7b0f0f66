// Package scene holds the Scene aggregate the engine operates on -
// every chain of surfaces, the screen-bounds rectangle, and the set
// of reflective windows a visibility stage can look through - plus a
// YAML loader that turns an authored scene document into it.
package scene

import (
	"fmt"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

// Scene is the immutable, per-session geometry the engine reads every
// frame: the authored chains, the synthetic screen-bounds chain that
// closes the playfield, and the set of windows a reflected visibility
// stage may look back through.
type Scene struct {
	Chains  []surface.Chain
	Screen  surface.Chain
	Windows []geom.Segment
}

// SurfaceByID satisfies bypass.Scene: it looks a single surface up by
// id across every chain, including the screen bounds.
func (s Scene) SurfaceByID(id string) (surface.Surface, bool) {
	for _, c := range s.Chains {
		if sf, ok := c.ByID(id); ok {
			return sf, true
		}
	}
	return s.Screen.ByID(id)
}

// AllSurfaces satisfies bypass.Scene: every surface in the scene,
// reflective and wall alike, flattened for the physical raycasts the
// bypass evaluator and the actual-path tracer both need.
func (s Scene) AllSurfaces() []surface.Surface {
	var out []surface.Surface
	for _, c := range s.Chains {
		out = append(out, c.Surfaces...)
	}
	out = append(out, s.Screen.Surfaces...)
	return out
}

// validate reports whether every surface id in the scene is unique -
// SurfaceByID's first-match semantics would otherwise silently hide a
// collision.
func (s Scene) validate() error {
	seen := make(map[string]bool)
	for _, sf := range s.AllSurfaces() {
		if seen[sf.ID] {
			return fmt.Errorf("scene: duplicate surface id %q", sf.ID)
		}
		seen[sf.ID] = true
	}
	return nil
}
