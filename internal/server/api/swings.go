// Package api provides HTTP API handlers for the swing analysis system.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/greggjuri/golf-swing-analyzer/internal/app"
	"github.com/greggjuri/golf-swing-analyzer/internal/plane"
	"github.com/greggjuri/golf-swing-analyzer/internal/store"
)

// Analyzer runs swing analysis over a video file.
type Analyzer interface {
	Analyze(ctx context.Context, path string, onProgress func(app.Progress)) (*app.Result, error)
}

// SwingHandler handles HTTP requests for swing resources.
type SwingHandler struct {
	store      *store.Store
	analyzer   Analyzer
	onProgress func(app.Progress)
}

// NewSwingHandler creates a new SwingHandler. The analyzer may be nil,
// in which case POST /api/swings is rejected. The progress callback may
// be nil.
func NewSwingHandler(s *store.Store, analyzer Analyzer, onProgress func(app.Progress)) *SwingHandler {
	return &SwingHandler{
		store:      s,
		analyzer:   analyzer,
		onProgress: onProgress,
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SwingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/swings, /api/swings/{id}, /api/swings/{id}/positions
	path := strings.TrimPrefix(r.URL.Path, "/api/swings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.analyze(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/positions"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.positions(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type analyzeRequest struct {
	VideoPath string `json:"video_path"`
}

type swingResponse struct {
	ID                 string  `json:"id"`
	VideoPath          string  `json:"video_path"`
	FrameCount         int     `json:"frame_count"`
	DetectedFrames     int     `json:"detected_frames"`
	InterpolatedFrames int     `json:"interpolated_frames"`
	FPS                float64 `json:"fps"`
	Success            bool    `json:"success"`
	ErrorMessage       string  `json:"error_message,omitempty"`

	AttackAngle       *float64 `json:"attack_angle,omitempty"`
	SwingPath         *float64 `json:"swing_path,omitempty"`
	PlaneAngle        *float64 `json:"plane_angle,omitempty"`
	PlaneShift        *float64 `json:"plane_shift,omitempty"`
	MaxDeviation      *float64 `json:"max_deviation,omitempty"`
	AvgDeviation      *float64 `json:"avg_deviation,omitempty"`
	DeviationAtImpact *float64 `json:"deviation_at_impact,omitempty"`

	CreatedAt string `json:"created_at"`
}

func toResponse(sw *store.Swing) swingResponse {
	return swingResponse{
		ID:                 sw.ID,
		VideoPath:          sw.VideoPath,
		FrameCount:         sw.FrameCount,
		DetectedFrames:     sw.DetectedFrames,
		InterpolatedFrames: sw.InterpolatedFrames,
		FPS:                sw.FPS,
		Success:            sw.Success,
		ErrorMessage:       sw.ErrorMessage,
		AttackAngle:        sw.AttackAngle,
		SwingPath:          sw.SwingPath,
		PlaneAngle:         sw.PlaneAngle,
		PlaneShift:         sw.PlaneShift,
		MaxDeviation:       sw.MaxDeviation,
		AvgDeviation:       sw.AvgDeviation,
		DeviationAtImpact:  sw.DeviationAtImpact,
		CreatedAt:          sw.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// SwingFromResult converts an analysis result into its stored form.
func SwingFromResult(result *app.Result, videoPath string) *store.Swing {
	sw := &store.Swing{
		ID:                 result.SessionID,
		VideoPath:          videoPath,
		FrameCount:         result.FrameCount,
		DetectedFrames:     result.DetectedFrames,
		InterpolatedFrames: result.InterpolatedFrames,
		FPS:                result.FPS,
		Success:            result.Analysis.Success,
		ErrorMessage:       result.Analysis.ErrorMessage,
	}
	if result.Analysis.Success {
		m := result.Analysis.Metrics
		sw.AttackAngle = &m.AttackAngle
		sw.SwingPath = &m.SwingPath
		sw.PlaneAngle = &m.PlaneAngle
		sw.PlaneShift = m.PlaneShift
		sw.MaxDeviation = &m.MaxDeviation
		sw.AvgDeviation = &m.AvgDeviation
		sw.DeviationAtImpact = &m.DeviationAtImpact
	}
	return sw
}

// analyze handles POST /api/swings: it runs analysis over the requested
// video, persists the swing, and returns it.
func (h *SwingHandler) analyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		http.Error(w, "Analysis not available", http.StatusServiceUnavailable)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VideoPath == "" {
		http.Error(w, "video_path is required", http.StatusBadRequest)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.VideoPath, h.onProgress)
	if err != nil {
		log.Printf("Analysis of %s failed: %v", req.VideoPath, err)
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sw := SwingFromResult(result, req.VideoPath)
	if err := h.store.Swings().Create(sw); err != nil {
		http.Error(w, "Failed to save swing", http.StatusInternalServerError)
		return
	}
	if err := h.store.Swings().SavePositions(sw.ID, result.Positions); err != nil {
		http.Error(w, "Failed to save positions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sw))
}

// list handles GET /api/swings.
func (h *SwingHandler) list(w http.ResponseWriter, _ *http.Request) {
	swings, err := h.store.Swings().List()
	if err != nil {
		http.Error(w, "Failed to list swings", http.StatusInternalServerError)
		return
	}

	responses := make([]swingResponse, 0, len(swings))
	for _, sw := range swings {
		responses = append(responses, toResponse(sw))
	}

	writeJSON(w, http.StatusOK, responses)
}

// get handles GET /api/swings/{id}.
func (h *SwingHandler) get(w http.ResponseWriter, _ *http.Request, id string) {
	sw, err := h.store.Swings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Swing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get swing", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sw))
}

// delete handles DELETE /api/swings/{id}.
func (h *SwingHandler) delete(w http.ResponseWriter, _ *http.Request, id string) {
	if err := h.store.Swings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Swing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete swing", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// positions handles GET /api/swings/{id}/positions.
func (h *SwingHandler) positions(w http.ResponseWriter, _ *http.Request, id string) {
	if _, err := h.store.Swings().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Swing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get swing", http.StatusInternalServerError)
		return
	}

	positions, err := h.store.Swings().GetPositions(id)
	if err != nil {
		http.Error(w, "Failed to get positions", http.StatusInternalServerError)
		return
	}
	if positions == nil {
		positions = []plane.ShaftPosition{}
	}

	writeJSON(w, http.StatusOK, positions)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
