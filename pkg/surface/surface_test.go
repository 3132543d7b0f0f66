package surface

import (
	"testing"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/source"
)

func TestOrientationNormalPointsAwayFromReflectiveSide(t *testing.T) {
	// A horizontal floor from (0,0) to (200,0): the right-hand
	// perpendicular of its direction (200,0) is (0,-1). Also verify
	// CanReflectFrom matches the documented example in scenario 2.
	s := New("floor", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(200, 0)), Reflective)
	if !s.Normal.Equals(geom.NewVector(0, -1)) {
		t.Fatalf("normal = %v, want (0,-1)", s.Normal)
	}
	down := geom.NewVector(0, -1)
	if !s.CanReflectFrom(down) {
		t.Errorf("expected a downward ray to be able to reflect off the floor")
	}
	up := geom.NewVector(0, 1)
	if s.CanReflectFrom(up) {
		t.Errorf("expected an upward ray to not reflect off the floor (wrong side)")
	}
}

func TestNewChainRequiresExactSharedEndpoints(t *testing.T) {
	a := New("a", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(10, 0)), Wall)
	b := New("b", geom.NewSegment(geom.NewVector(10, 0), geom.NewVector(10, 10)), Wall)
	if _, err := NewChain("c1", []Surface{a, b}); err != nil {
		t.Fatalf("expected valid chain, got %v", err)
	}

	broken := New("b2", geom.NewSegment(geom.NewVector(10.0001, 0), geom.NewVector(10, 10)), Wall)
	if _, err := NewChain("c2", []Surface{a, broken}); err == nil {
		t.Errorf("expected error for non-exact junction")
	}
}

func TestChainJunctionAndTerminalPoints(t *testing.T) {
	a := New("a", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(10, 0)), Wall)
	b := New("b", geom.NewSegment(geom.NewVector(10, 0), geom.NewVector(10, 10)), Wall)
	c := New("c", geom.NewSegment(geom.NewVector(10, 10), geom.NewVector(0, 10)), Wall)
	chain, err := NewChain("chain1", []Surface{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	junctions := chain.JunctionPoints()
	if len(junctions) != 2 {
		t.Fatalf("expected 2 junctions, got %d", len(junctions))
	}
	if !junctions[0].Pos.Equals(geom.NewVector(10, 0)) {
		t.Errorf("junction 0 = %v, want (10,0)", junctions[0].Pos)
	}
	if !junctions[1].Pos.Equals(geom.NewVector(10, 10)) {
		t.Errorf("junction 1 = %v, want (10,10)", junctions[1].Pos)
	}

	start, end := chain.TerminalEndpoints()
	if !start.Pos.Equals(geom.NewVector(0, 0)) {
		t.Errorf("start terminal = %v, want (0,0)", start.Pos)
	}
	if !end.Pos.Equals(geom.NewVector(0, 10)) {
		t.Errorf("end terminal = %v, want (0,10)", end.Pos)
	}
}

func TestScreenChainIsClosedWithFourJunctions(t *testing.T) {
	chain, err := NewScreenChain(400, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !chain.Closed {
		t.Fatalf("expected screen chain to be closed")
	}
	junctions := chain.JunctionPoints()
	if len(junctions) != 4 {
		t.Fatalf("expected 4 corner junctions, got %d", len(junctions))
	}
	want := []source.JunctionPoint{
		source.NewJunctionPoint(ScreenChainID, 0, geom.NewVector(400, 0)),
		source.NewJunctionPoint(ScreenChainID, 1, geom.NewVector(400, 300)),
		source.NewJunctionPoint(ScreenChainID, 2, geom.NewVector(0, 300)),
		source.NewJunctionPoint(ScreenChainID, 3, geom.NewVector(0, 0)),
	}
	for i, w := range want {
		if !source.Equal(junctions[i], w) {
			t.Errorf("junction %d = %+v, want %+v", i, junctions[i], w)
		}
	}
}

func TestByID(t *testing.T) {
	a := New("a", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(10, 0)), Wall)
	chain, _ := NewChain("chain1", []Surface{a})
	if got, ok := chain.ByID("a"); !ok || got.ID != "a" {
		t.Errorf("expected to find surface 'a'")
	}
	if _, ok := chain.ByID("missing"); ok {
		t.Errorf("expected not to find surface 'missing'")
	}
}
