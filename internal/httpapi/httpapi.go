// Package httpapi is a small net/http JSON server wrapping a shared
// engine.Engine, grounded on the teacher's web/server.Server: a mux of
// /api/... handlers backed by one long-lived struct, replacing its PNG
// tile payloads with JSON geometry payloads.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/internal/telemetry"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/engine"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/geom"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/scene"
	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/trajectory"
)

// Server handles HTTP requests against a single shared Engine. Every
// handler takes the engine's own lock via its exported methods, so
// Server itself needs no additional synchronization.
type Server struct {
	port   int
	engine *engine.Engine
	logger telemetry.Logger
}

// NewServer builds a Server around an already-constructed Engine.
func NewServer(port int, e *engine.Engine, logger telemetry.Logger) *Server {
	if logger == nil {
		logger = telemetry.NopLogger{}
	}
	return &Server{port: port, engine: e, logger: logger}
}

// Start registers the API routes and blocks serving HTTP on the
// configured port.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene", s.handleScene)
	mux.HandleFunc("/api/frame", s.handleFrame)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("httpapi: starting server on http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScene replaces the engine's scene. The request body is the
// same YAML document pkg/scene.Decode accepts.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("httpapi: %s not allowed on /api/scene", r.Method))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("httpapi: failed to read request body: %w", err))
		return
	}

	sceneObj, doc, err := scene.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.engine.SetScene(sceneObj)
	s.engine.SetAvatar(geom.NewVector(doc.Avatar.X, doc.Avatar.Y))
	s.engine.SetCursor(geom.NewVector(doc.Cursor.X, doc.Cursor.Y))
	s.engine.SetPlan(doc.Plan)

	defaults := trajectory.DefaultTraceParams()
	mr, md, cr := doc.Trace.TraceParams(defaults.MaxReflections, defaults.MaxDistance, defaults.CursorRadius)
	s.engine.SetTraceParams(trajectory.TraceParams{MaxReflections: mr, MaxDistance: md, CursorRadius: cr})

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// frameRequest is the JSON body accepted by /api/frame: any field may
// be omitted to leave that piece of engine state unchanged.
type frameRequest struct {
	Avatar *pointJSON `json:"avatar"`
	Cursor *pointJSON `json:"cursor"`
	Plan   []string   `json:"plan"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleFrame applies any avatar/cursor/plan changes in the request
// body, then returns the recomputed frame results as JSON.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req frameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("httpapi: failed to parse frame request: %w", err))
			return
		}
		if req.Avatar != nil {
			s.engine.SetAvatar(geom.NewVector(req.Avatar.X, req.Avatar.Y))
		}
		if req.Cursor != nil {
			s.engine.SetCursor(geom.NewVector(req.Cursor.X, req.Cursor.Y))
		}
		if req.Plan != nil {
			s.engine.SetPlan(req.Plan)
		}
	}

	results, err := s.engine.GetResults()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
