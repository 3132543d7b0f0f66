package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlonKellner-RedHat/ricochet-game-sub002/pkg/engine"
)

const sampleSceneYAML = `
screen_bounds: {width: 200, height: 100}
chains:
  - id: mirror-chain
    surfaces:
      - id: mirror
        kind: reflective
        start: {x: 0, y: 0}
        end: {x: 200, y: 0}
avatar: {x: 0, y: 100}
cursor: {x: 200, y: 100}
plan: [mirror]
`

func TestHandleHealthReportsOK(t *testing.T) {
	s := NewServer(0, engine.New(nil), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %+v", body)
	}
}

func TestHandleSceneThenFrameRoundTrips(t *testing.T) {
	s := NewServer(0, engine.New(nil), nil)

	sceneReq := httptest.NewRequest(http.MethodPost, "/api/scene", bytes.NewBufferString(sampleSceneYAML))
	sceneRec := httptest.NewRecorder()
	s.handleScene(sceneRec, sceneReq)
	if sceneRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/scene, got %d: %s", sceneRec.Code, sceneRec.Body.String())
	}

	frameReq := httptest.NewRequest(http.MethodGet, "/api/frame", nil)
	frameRec := httptest.NewRecorder()
	s.handleFrame(frameRec, frameReq)
	if frameRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/frame, got %d: %s", frameRec.Code, frameRec.Body.String())
	}

	var results map[string]interface{}
	if err := json.Unmarshal(frameRec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode frame results: %v", err)
	}
	if _, ok := results["Path"]; !ok {
		t.Errorf("expected a Path field in the frame results, got %+v", results)
	}
}

func TestHandleSceneRejectsMalformedYAML(t *testing.T) {
	s := NewServer(0, engine.New(nil), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/scene", bytes.NewBufferString("not: [valid"))
	rec := httptest.NewRecorder()

	s.handleScene(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed YAML, got %d", rec.Code)
	}
}

func TestHandleFramePostUpdatesCursorBeforeComputing(t *testing.T) {
	s := NewServer(0, engine.New(nil), nil)
	sceneReq := httptest.NewRequest(http.MethodPost, "/api/scene", bytes.NewBufferString(sampleSceneYAML))
	s.handleScene(httptest.NewRecorder(), sceneReq)

	body, _ := json.Marshal(frameRequest{Cursor: &pointJSON{X: 50, Y: 100}})
	frameReq := httptest.NewRequest(http.MethodPost, "/api/frame", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleFrame(rec, frameReq)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
