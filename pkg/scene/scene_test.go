package scene

import (
	"testing"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

func TestSceneAllSurfacesIncludesScreenBounds(t *testing.T) {
	screen, err := surface.NewScreenChain(200, 100)
	if err != nil {
		t.Fatalf("NewScreenChain: %v", err)
	}
	s := Scene{Screen: screen}

	all := s.AllSurfaces()
	if len(all) != 4 {
		t.Fatalf("expected the four screen walls, got %d", len(all))
	}
}

func TestSceneSurfaceByIDFindsChainMember(t *testing.T) {
	screen, err := surface.NewScreenChain(200, 100)
	if err != nil {
		t.Fatalf("NewScreenChain: %v", err)
	}
	mirror := surface.New("mirror", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(100, 0)), surface.Reflective)
	chain, err := surface.NewChain("c1", []surface.Surface{mirror})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	s := Scene{Chains: []surface.Chain{chain}, Screen: screen}

	got, ok := s.SurfaceByID("mirror")
	if !ok {
		t.Fatalf("expected to find surface %q", "mirror")
	}
	if got.ID != "mirror" {
		t.Errorf("got wrong surface: %+v", got)
	}

	if _, ok := s.SurfaceByID("nonexistent"); ok {
		t.Errorf("expected lookup of unknown id to fail")
	}
}

func TestSceneValidateRejectsDuplicateSurfaceIDs(t *testing.T) {
	screen, err := surface.NewScreenChain(200, 100)
	if err != nil {
		t.Fatalf("NewScreenChain: %v", err)
	}
	dup := surface.New(screen.Surfaces[0].ID, geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(1, 1)), surface.Wall)
	chain, err := surface.NewChain("dup-chain", []surface.Surface{dup})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	s := Scene{Chains: []surface.Chain{chain}, Screen: screen}

	if err := s.validate(); err == nil {
		t.Errorf("expected duplicate surface id to be rejected")
	}
}
