package surface

import "github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"

// ScreenChainID is the stable id of the synthetic screen-boundary
// chain every scene carries.
const ScreenChainID = "__screen__"

// NewScreenChain builds the closed, axis-aligned rectangle chain that
// bounds the scene. Corners are exposed as JunctionPoints (via
// Chain.JunctionPoints) so corner handling in the visibility engine
// needs no geometric check, per spec 4.S. All four sides are walls:
// nothing reflects off the screen edge.
func NewScreenChain(width, height float64) (Chain, error) {
	corners := []geom.Vector{
		geom.NewVector(0, 0),
		geom.NewVector(width, 0),
		geom.NewVector(width, height),
		geom.NewVector(0, height),
	}
	surfaces := make([]Surface, 4)
	for i := 0; i < 4; i++ {
		start := corners[i]
		end := corners[(i+1)%4]
		surfaces[i] = New(wallID(i), geom.NewSegment(start, end), Wall)
	}
	return NewClosedChain(ScreenChainID, surfaces)
}

func wallID(i int) string {
	names := [4]string{"top", "right", "bottom", "left"}
	return ScreenChainID + ":" + names[i]
}
