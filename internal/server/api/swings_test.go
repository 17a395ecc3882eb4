package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/greggjuri/golf-swing-analyzer/internal/app"
	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
	"github.com/greggjuri/golf-swing-analyzer/internal/plane"
	"github.com/greggjuri/golf-swing-analyzer/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "swing-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// stubAnalyzer returns a canned result, or an error, for any path.
type stubAnalyzer struct {
	result *app.Result
	err    error
}

func (a *stubAnalyzer) Analyze(_ context.Context, _ string, onProgress func(app.Progress)) (*app.Result, error) {
	if a.err != nil {
		return nil, a.err
	}
	if onProgress != nil {
		onProgress(app.Progress{SessionID: a.result.SessionID, FramesProcessed: 30})
	}
	return a.result, nil
}

func cannedResult(id string) *app.Result {
	shift := 4.2
	return &app.Result{
		SessionID:      id,
		FrameCount:     120,
		DetectedFrames: 110,
		FPS:            60,
		Positions: []plane.ShaftPosition{
			{FrameNumber: 0, BasePoint: geom.Point3D{Y: 1.4}, TipPoint: geom.Point3D{X: 0.8}},
			{FrameNumber: 1, BasePoint: geom.Point3D{Y: 1.4}, TipPoint: geom.Point3D{X: 0.7, Y: 0.2}},
		},
		Analysis: plane.SwingPlaneAnalysis{
			Success: true,
			Metrics: plane.SwingMetrics{
				AttackAngle: -4.1,
				SwingPath:   2.3,
				PlaneAngle:  57.0,
				PlaneShift:  &shift,
			},
		},
	}
}

func seedSwing(t *testing.T, s *store.Store, id string) {
	t.Helper()
	angle := 60.0
	sw := &store.Swing{ID: id, VideoPath: "/v/" + id + ".mp4", Success: true, PlaneAngle: &angle}
	if err := s.Swings().Create(sw); err != nil {
		t.Fatalf("failed to seed swing: %v", err)
	}
}

func TestSwingHandler_Analyze(t *testing.T) {
	s := newTestStore(t)

	var progressEvents int
	handler := NewSwingHandler(s, &stubAnalyzer{result: cannedResult("session-1")}, func(app.Progress) {
		progressEvents++
	})

	body, _ := json.Marshal(analyzeRequest{VideoPath: "/videos/drive.mp4"})
	req := httptest.NewRequest(http.MethodPost, "/api/swings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response swingResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != "session-1" {
		t.Errorf("response ID = %q, want session-1", response.ID)
	}
	if response.AttackAngle == nil || *response.AttackAngle != -4.1 {
		t.Errorf("attack angle = %v, want -4.1", response.AttackAngle)
	}
	if progressEvents == 0 {
		t.Error("no progress events forwarded")
	}

	// The swing and its positions were persisted.
	if _, err := s.Swings().GetByID("session-1"); err != nil {
		t.Errorf("stored swing not found: %v", err)
	}
	positions, err := s.Swings().GetPositions("session-1")
	if err != nil {
		t.Fatalf("failed to read positions: %v", err)
	}
	if len(positions) != 2 {
		t.Errorf("stored %d positions, want 2", len(positions))
	}
}

func TestSwingHandler_AnalyzeFailure(t *testing.T) {
	s := newTestStore(t)
	handler := NewSwingHandler(s, &stubAnalyzer{err: errors.New("open video: no such file")}, nil)

	body, _ := json.Marshal(analyzeRequest{VideoPath: "/videos/missing.mp4"})
	req := httptest.NewRequest(http.MethodPost, "/api/swings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestSwingHandler_AnalyzeValidation(t *testing.T) {
	s := newTestStore(t)
	handler := NewSwingHandler(s, &stubAnalyzer{result: cannedResult("x")}, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"missing path", "{}", http.StatusBadRequest},
		{"invalid json", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/swings", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSwingHandler_AnalyzeUnavailable(t *testing.T) {
	s := newTestStore(t)
	handler := NewSwingHandler(s, nil, nil)

	body, _ := json.Marshal(analyzeRequest{VideoPath: "/videos/drive.mp4"})
	req := httptest.NewRequest(http.MethodPost, "/api/swings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestSwingHandler_ListAndGet(t *testing.T) {
	s := newTestStore(t)
	handler := NewSwingHandler(s, nil, nil)

	seedSwing(t, s, "swing-a")
	seedSwing(t, s, "swing-b")

	req := httptest.NewRequest(http.MethodGet, "/api/swings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var listed []swingResponse
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed %d swings, want 2", len(listed))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/swings/swing-a", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got swingResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != "swing-a" {
		t.Errorf("got ID %q, want swing-a", got.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/swings/nope", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSwingHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewSwingHandler(s, nil, nil)
	seedSwing(t, s, "swing-del")

	req := httptest.NewRequest(http.MethodDelete, "/api/swings/swing-del", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/swings/swing-del", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSwingHandler_Positions(t *testing.T) {
	s := newTestStore(t)
	handler := NewSwingHandler(s, nil, nil)
	seedSwing(t, s, "swing-pos")

	positions := []plane.ShaftPosition{
		{FrameNumber: 0, TipPoint: geom.Point3D{X: 1}},
		{FrameNumber: 1, TipPoint: geom.Point3D{X: 2}},
	}
	if err := s.Swings().SavePositions("swing-pos", positions); err != nil {
		t.Fatalf("failed to save positions: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/swings/swing-pos/positions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var got []plane.ShaftPosition
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 || got[1].TipPoint.X != 2 {
		t.Errorf("positions = %+v, want 2 entries ending at tip x 2", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/swings/nope/positions", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/swings/swing-pos/positions", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
