package visibility

import (
	"testing"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

func square(id string, w, h float64) surface.Chain {
	tl := geom.NewVector(0, 0)
	tr := geom.NewVector(w, 0)
	br := geom.NewVector(w, h)
	bl := geom.NewVector(0, h)
	surfaces := []surface.Surface{
		surface.New(id+"-top", geom.NewSegment(tl, tr), surface.Wall),
		surface.New(id+"-right", geom.NewSegment(tr, br), surface.Wall),
		surface.New(id+"-bottom", geom.NewSegment(br, bl), surface.Wall),
		surface.New(id+"-left", geom.NewSegment(bl, tl), surface.Wall),
	}
	chain, err := surface.NewClosedChain(id, surfaces)
	if err != nil {
		panic(err)
	}
	return chain
}

func TestComputeEmptyRoomSeesAllFourCorners(t *testing.T) {
	screen := square("screen", 200, 100)
	origin := geom.NewVector(100, 50)

	stage := Compute(origin, nil, nil, screen)

	if !stage.IsValid {
		t.Fatalf("expected a valid stage")
	}
	if len(stage.Polygon) != 4 {
		t.Fatalf("expected the four screen corners, got %+v", stage.Polygon)
	}
}

func TestComputeSkipsPointCoincidentWithOrigin(t *testing.T) {
	screen := square("screen", 200, 100)
	origin := geom.NewVector(0, 0) // exactly a screen corner

	stage := Compute(origin, nil, nil, screen)

	for _, p := range stage.Polygon {
		if p.Equals(origin) {
			t.Errorf("origin-coincident corner should have been skipped, got %+v", stage.Polygon)
		}
	}
}

func TestCascadeStopsWhenSurfaceIsUnreachable(t *testing.T) {
	screen := square("screen", 200, 100)
	origin := geom.NewVector(100, 50)
	// Oriented so the avatar sits on its non-reflective side.
	behind := surface.New("behind", geom.NewSegment(geom.NewVector(150, 60), geom.NewVector(150, 40)), surface.Reflective)

	stages := Cascade(origin, nil, nil, screen, []surface.Surface{behind}, nil)

	if len(stages) != 1 {
		t.Fatalf("expected cascading to stop at stage 0, got %d stages", len(stages))
	}
}
