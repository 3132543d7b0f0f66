package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/surface"
)

// pointDocument is the wire form of a single (x, y) coordinate.
type pointDocument struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p pointDocument) vector() geom.Vector {
	return geom.NewVector(p.X, p.Y)
}

// SurfaceDocument is the wire form of one chain member.
type SurfaceDocument struct {
	ID    string        `yaml:"id"`
	Kind  string        `yaml:"kind"`
	Start pointDocument `yaml:"start"`
	End   pointDocument `yaml:"end"`
}

// ChainDocument is the wire form of one ordered run of adjoining
// surfaces.
type ChainDocument struct {
	ID       string            `yaml:"id"`
	Closed   bool              `yaml:"closed"`
	Surfaces []SurfaceDocument `yaml:"surfaces"`
}

// WindowDocument is the wire form of a single reflective window
// segment, used to seed a cascading visibility stage.
type WindowDocument struct {
	Start pointDocument `yaml:"start"`
	End   pointDocument `yaml:"end"`
}

// ScreenBoundsDocument is the wire form of the playfield's outer
// rectangle.
type ScreenBoundsDocument struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TraceParamsDocument is the wire form of the optional trace tuning
// block; zero values mean "use the default".
type TraceParamsDocument struct {
	MaxReflections int     `yaml:"max_reflections"`
	MaxDistance    float64 `yaml:"max_distance"`
	CursorRadius   float64 `yaml:"cursor_radius"`
}

// SceneDocument is the top-level wire form of an authored scene file:
// the playfield bounds, its chains and optional windows, and the
// avatar/cursor/plan that seed a first frame.
type SceneDocument struct {
	ScreenBounds ScreenBoundsDocument `yaml:"screen_bounds"`
	Chains       []ChainDocument      `yaml:"chains"`
	Windows      []WindowDocument     `yaml:"windows"`
	Avatar       pointDocument        `yaml:"avatar"`
	Cursor       pointDocument        `yaml:"cursor"`
	Plan         []string             `yaml:"plan"`
	Trace        *TraceParamsDocument `yaml:"trace"`
}

// Load reads and decodes a scene document from disk, then converts it
// into a Scene.
func Load(path string) (Scene, SceneDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, SceneDocument{}, fmt.Errorf("scene: failed to read %q: %w", path, err)
	}
	return Decode(data)
}

// Decode parses raw YAML bytes into a SceneDocument and converts it
// into a Scene.
func Decode(data []byte) (Scene, SceneDocument, error) {
	var doc SceneDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Scene{}, SceneDocument{}, fmt.Errorf("scene: failed to parse scene document: %w", err)
	}
	s, err := doc.ToScene()
	if err != nil {
		return Scene{}, SceneDocument{}, err
	}
	return s, doc, nil
}

// ToScene converts a decoded document into a Scene, building the
// synthetic screen-bounds chain and validating surface id uniqueness.
func (doc SceneDocument) ToScene() (Scene, error) {
	screen, err := surface.NewScreenChain(doc.ScreenBounds.Width, doc.ScreenBounds.Height)
	if err != nil {
		return Scene{}, fmt.Errorf("scene: failed to build screen bounds: %w", err)
	}

	chains := make([]surface.Chain, 0, len(doc.Chains))
	for _, cd := range doc.Chains {
		c, err := cd.toChain()
		if err != nil {
			return Scene{}, err
		}
		chains = append(chains, c)
	}

	windows := make([]geom.Segment, 0, len(doc.Windows))
	for _, wd := range doc.Windows {
		windows = append(windows, geom.NewSegment(wd.Start.vector(), wd.End.vector()))
	}

	s := Scene{Chains: chains, Screen: screen, Windows: windows}
	if err := s.validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

func (cd ChainDocument) toChain() (surface.Chain, error) {
	surfaces := make([]surface.Surface, 0, len(cd.Surfaces))
	for _, sd := range cd.Surfaces {
		kind, err := parseKind(sd.Kind)
		if err != nil {
			return surface.Chain{}, fmt.Errorf("scene: chain %q: %w", cd.ID, err)
		}
		surfaces = append(surfaces, surface.New(sd.ID, geom.NewSegment(sd.Start.vector(), sd.End.vector()), kind))
	}
	if cd.Closed {
		return surface.NewClosedChain(cd.ID, surfaces)
	}
	return surface.NewChain(cd.ID, surfaces)
}

func parseKind(k string) (surface.Kind, error) {
	switch k {
	case "reflective":
		return surface.Reflective, nil
	case "wall":
		return surface.Wall, nil
	default:
		return 0, fmt.Errorf("unknown surface kind %q", k)
	}
}

// ResolvePlan looks up the plan's surface ids against the scene's
// chains, preserving order, and reports the first id that cannot be
// found.
func (s Scene) ResolvePlan(ids []string) ([]surface.Surface, error) {
	out := make([]surface.Surface, 0, len(ids))
	for _, id := range ids {
		sf, ok := s.SurfaceByID(id)
		if !ok {
			return nil, fmt.Errorf("scene: plan references unknown surface %q", id)
		}
		out = append(out, sf)
	}
	return out, nil
}

// TraceParams converts the document's optional trace block into
// trajectory.TraceParams-shaped values, falling back to the supplied
// defaults for any zero field.
func (t *TraceParamsDocument) TraceParams(maxReflections int, maxDistance, cursorRadius float64) (int, float64, float64) {
	if t == nil {
		return maxReflections, maxDistance, cursorRadius
	}
	mr, md, cr := maxReflections, maxDistance, cursorRadius
	if t.MaxReflections > 0 {
		mr = t.MaxReflections
	}
	if t.MaxDistance > 0 {
		md = t.MaxDistance
	}
	if t.CursorRadius > 0 {
		cr = t.CursorRadius
	}
	return mr, md, cr
}
