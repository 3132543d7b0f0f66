package reflectcache

import (
	"testing"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

func TestReflectIsBitExactInvolutionFromCache(t *testing.T) {
	s := surface.New("s1", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(17, 3)), surface.Reflective)
	p := geom.NewVector(5, 11)

	c := New()
	once := c.Reflect(p, s)
	twice := c.Reflect(once, s)

	if twice != p {
		t.Fatalf("Reflect(Reflect(p)) = %v, want bit-exact %v", twice, p)
	}
}

func TestReflectMemoizesByPointAndSurface(t *testing.T) {
	s := surface.New("s1", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(10, 0)), surface.Reflective)
	c := New()

	p := geom.NewVector(1, 1)
	first := c.Reflect(p, s)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries (forward+inverse) after one call, got %d", c.Len())
	}
	second := c.Reflect(p, s)
	if first != second {
		t.Errorf("expected identical cached result")
	}
	if c.Len() != 2 {
		t.Errorf("expected no new entries on cache hit, got %d", c.Len())
	}
}

func TestDifferentSurfacesDoNotCollide(t *testing.T) {
	p := geom.NewVector(1, 1)
	s1 := surface.New("s1", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(10, 0)), surface.Reflective)
	s2 := surface.New("s2", geom.NewSegment(geom.NewVector(0, 0), geom.NewVector(0, 10)), surface.Reflective)

	c := New()
	r1 := c.Reflect(p, s1)
	r2 := c.Reflect(p, s2)
	if r1 == r2 {
		t.Errorf("expected different reflections for different surfaces")
	}
}
