// Package engine coordinates a single session's geometry: it holds
// the authored scene plus the avatar/cursor/plan/windows the caller
// mutates frame to frame, and recomputes the bypass evaluation, the
// unified trace, the render segments, and the cascading visibility
// stages only when something dirtied them, mirroring the teacher's
// progressive-raytracer dirty-state-then-recompute shape.
package engine

import (
	"fmt"
	"sync"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/internal/telemetry"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/bypass"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/reflectcache"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/render"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/scene"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/trajectory"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/visibility"
)

// Results is the full per-frame output a caller (the CLI, the HTTP
// API, a future renderer) needs: the bypass decision, the unified
// trace it fed, the render-ready segments derived from it, and the
// cascading visibility stages through whatever surfaces survived the
// bypass.
type Results struct {
	Bypass           bypass.Result
	Path             trajectory.UnifiedPath
	RenderSegments   []render.Segment
	VisibilityStages []visibility.Stage
}

// Engine is the mutable session state. It is safe for concurrent use;
// every exported method takes the lock.
type Engine struct {
	mu sync.Mutex

	cache  *reflectcache.Cache
	logger telemetry.Logger

	scene       scene.Scene
	avatar      geom.Vector
	cursor      geom.Vector
	plan        []string
	windows     []geom.Segment
	traceParams trajectory.TraceParams

	dirty   bool
	results Results
	err     error
}

// New builds an Engine with default trace parameters and a fresh
// reflection cache. A nil logger is replaced with telemetry.NopLogger.
func New(logger telemetry.Logger) *Engine {
	if logger == nil {
		logger = telemetry.NopLogger{}
	}
	return &Engine{
		cache:       reflectcache.New(),
		logger:      logger,
		traceParams: trajectory.DefaultTraceParams(),
		dirty:       true,
	}
}

// SetScene replaces the authored scene. It also resets the windows
// override to the scene's own authored windows.
func (e *Engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = s
	e.windows = s.Windows
	e.dirty = true
}

// SetAvatar moves the avatar's origin point, if it actually changed.
func (e *Engine) SetAvatar(p geom.Vector) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.avatar == p {
		return
	}
	e.avatar = p
	e.dirty = true
}

// SetCursor moves the aim cursor, if it actually changed.
func (e *Engine) SetCursor(p geom.Vector) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor == p {
		return
	}
	e.cursor = p
	e.dirty = true
}

// SetPlan replaces the ordered plan of surface ids, if it actually
// changed.
func (e *Engine) SetPlan(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if stringsEqual(e.plan, ids) {
		return
	}
	e.plan = append([]string(nil), ids...)
	e.dirty = true
}

// SetWindows overrides the windows a visibility cascade looks
// through, independent of the scene's own authored windows.
func (e *Engine) SetWindows(windows []geom.Segment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.windows = append([]geom.Segment(nil), windows...)
	e.dirty = true
}

// SetTraceParams overrides the default trace bounds.
func (e *Engine) SetTraceParams(params trajectory.TraceParams) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.traceParams == params {
		return
	}
	e.traceParams = params
	e.dirty = true
}

// GetResults recomputes the frame's results only if something was set
// since the last call, returning the same cached value otherwise.
func (e *Engine) GetResults() (Results, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dirty {
		return e.results, e.err
	}

	e.results, e.err = e.compute()
	e.dirty = false
	if e.err != nil {
		e.logger.Errorf("engine: frame computation failed: %v", e.err)
	}
	return e.results, e.err
}

func (e *Engine) compute() (Results, error) {
	if _, err := e.scene.ResolvePlan(e.plan); err != nil {
		return Results{}, fmt.Errorf("engine: %w", err)
	}

	bypassResult := bypass.Evaluate(e.cache, e.avatar, e.cursor, e.plan, e.scene)
	all := e.scene.AllSurfaces()

	path := trajectory.TracePath(e.cache, e.avatar, e.cursor, bypassResult.ActiveSurfaces, all, e.traceParams)
	renderSegments := render.Derive(e.cache, path, e.scene, all)
	stages := visibility.Cascade(e.avatar, e.windows, e.scene.Chains, e.scene.Screen, bypassResult.ActiveSurfaces, e.cache)

	e.logger.Printf("engine: frame computed (%d active, %d bypassed, %d render segments, %d visibility stages)",
		len(bypassResult.ActiveSurfaces), len(bypassResult.Bypassed), len(renderSegments), len(stages))

	return Results{
		Bypass:           bypassResult,
		Path:             path,
		RenderSegments:   renderSegments,
		VisibilityStages: stages,
	}, nil
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
