package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/greggjuri/golf-swing-analyzer/internal/app"
	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
	"github.com/greggjuri/golf-swing-analyzer/internal/plane"
	"github.com/greggjuri/golf-swing-analyzer/internal/server"
	"github.com/greggjuri/golf-swing-analyzer/internal/store"
)

// fakeAnalyzer produces a deterministic swing without needing a real
// video file on disk.
type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(_ context.Context, path string, onProgress func(app.Progress)) (*app.Result, error) {
	if onProgress != nil {
		onProgress(app.Progress{SessionID: "e2e-session", FramesProcessed: 60, TrackerState: "tracking"})
	}

	positions := make([]plane.ShaftPosition, 40)
	for i := range positions {
		u := float64(i) * 0.1
		positions[i] = plane.ShaftPosition{
			FrameNumber: i,
			BasePoint:   geom.Point3D{X: u, Y: 1.4, Z: 0.2 * u},
			TipPoint:    geom.Point3D{X: u + 0.3, Y: 0.4 + 0.02*u*u, Z: 0.2*u + 0.1},
			Timestamp:   float64(i) / 60,
		}
	}

	shift := 3.5
	return &app.Result{
		SessionID:      "e2e-session",
		FrameCount:     240,
		DetectedFrames: 238,
		FPS:            60,
		Positions:      positions,
		Analysis: plane.SwingPlaneAnalysis{
			Success: true,
			Metrics: plane.SwingMetrics{
				AttackAngle: -2.8,
				SwingPath:   0.9,
				PlaneAngle:  61.2,
				PlaneShift:  &shift,
			},
		},
	}, nil
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := server.New(server.Config{Store: s, Analyzer: fakeAnalyzer{}})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET /api/health error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("AnalyzeSwing", func(t *testing.T) {
		body := bytes.NewBufferString(`{"video_path": "/videos/drive.mp4"}`)
		resp, err := client.Post(ts.URL+"/api/swings", "application/json", body)
		if err != nil {
			t.Fatalf("POST /api/swings error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("analyze status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var sw struct {
			ID          string   `json:"id"`
			Success     bool     `json:"success"`
			AttackAngle *float64 `json:"attack_angle"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&sw); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if sw.ID != "e2e-session" || !sw.Success {
			t.Errorf("swing = %+v, want successful e2e-session", sw)
		}
		if sw.AttackAngle == nil || *sw.AttackAngle != -2.8 {
			t.Errorf("attack angle = %v, want -2.8", sw.AttackAngle)
		}
	})

	t.Run("ListSwings", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/swings")
		if err != nil {
			t.Fatalf("GET /api/swings error = %v", err)
		}
		defer resp.Body.Close()

		var swings []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&swings); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(swings) != 1 {
			t.Fatalf("listed %d swings, want 1", len(swings))
		}
	})

	t.Run("GetPositions", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/swings/e2e-session/positions")
		if err != nil {
			t.Fatalf("GET positions error = %v", err)
		}
		defer resp.Body.Close()

		var positions []plane.ShaftPosition
		if err := json.NewDecoder(resp.Body).Decode(&positions); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(positions) != 40 {
			t.Fatalf("got %d positions, want 40", len(positions))
		}
		for i := 1; i < len(positions); i++ {
			if positions[i].FrameNumber <= positions[i-1].FrameNumber {
				t.Fatalf("positions out of order at index %d", i)
			}
		}
	})

	t.Run("DeleteSwing", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/swings/e2e-session", nil)
		if err != nil {
			t.Fatalf("build DELETE request: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("DELETE error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}

		resp, err = client.Get(ts.URL + "/api/swings/e2e-session")
		if err != nil {
			t.Fatalf("GET deleted swing error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("get deleted status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}
