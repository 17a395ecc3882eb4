// Package app orchestrates the full swing analysis session: frames are
// read from a source, run through parallel per-frame detection, stabilized
// by the tracker, lifted into 3D, and finally fit with swing planes and
// metrics.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/greggjuri/golf-swing-analyzer/internal/detect"
	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
	"github.com/greggjuri/golf-swing-analyzer/internal/plane"
	"github.com/greggjuri/golf-swing-analyzer/internal/track"
	"github.com/greggjuri/golf-swing-analyzer/internal/video"
)

// Config holds configuration for an analysis session.
type Config struct {
	Detector detect.Config
	Tracker  track.Config

	// TargetDirection is the intended ball flight direction in camera
	// space, used for swing path and attack angle.
	TargetDirection geom.Vector3

	// Workers is the size of the detection worker pool.
	Workers int

	// NewDetector overrides detector construction for the worker pool.
	// When nil, a ClubDetector is built from the Detector config.
	NewDetector func() (detect.Detector, error)

	// Camera, when set, enables metric lifting of detections via the
	// pinhole model. Without it positions stay in pixel space with
	// zero depth.
	Camera *CameraIntrinsics

	// HeadRadiusMeters is the real club head radius used for depth
	// estimation. Only meaningful when Camera is set.
	HeadRadiusMeters float64

	// ProgressInterval is the number of frames between progress
	// callbacks. Zero disables progress reporting.
	ProgressInterval int

	// MotionThreshold, when positive, skips leading idle footage: frames
	// are dropped until this percentage of pixels changes between
	// consecutive frames. Zero processes the clip from its first frame.
	MotionThreshold float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Detector:         detect.DefaultConfig(),
		Tracker:          track.DefaultConfig(),
		TargetDirection:  plane.DefaultTargetDirection(),
		Workers:          4,
		HeadRadiusMeters: DefaultHeadRadiusMeters,
		ProgressInterval: 30,
	}
}

// Progress is a periodic snapshot of a running session.
type Progress struct {
	SessionID       string  `json:"session_id"`
	FramesProcessed int     `json:"frames_processed"`
	TrackerState    string  `json:"tracker_state"`
	Confidence      float64 `json:"confidence"`
}

// Result is the complete output of one analysis session.
type Result struct {
	SessionID          string                   `json:"session_id"`
	FrameCount         int                      `json:"frame_count"`
	DetectedFrames     int                      `json:"detected_frames"`
	InterpolatedFrames int                      `json:"interpolated_frames"`
	FPS                float64                  `json:"fps"`
	Positions          []plane.ShaftPosition    `json:"positions"`
	Analysis           plane.SwingPlaneAnalysis `json:"analysis"`
}

// Session runs one swing analysis over one frame source. Create a new
// session per video.
type Session struct {
	id       string
	config   Config
	pipeline *Pipeline
	tracker  *track.ClubTracker
	analyzer *plane.Analyzer
	depth    *DepthEstimator
	progress func(Progress)
}

// NewSession creates a Session with the given configuration.
func NewSession(config Config) (*Session, error) {
	if config.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}

	factory := config.NewDetector
	if factory == nil {
		detectorConfig := config.Detector
		factory = func() (detect.Detector, error) {
			return detect.NewClubDetector(detectorConfig)
		}
	}
	pipeline, err := NewPipeline(config.Workers, factory)
	if err != nil {
		return nil, err
	}

	tracker, err := track.New(config.Tracker)
	if err != nil {
		return nil, err
	}

	analyzer, err := plane.NewAnalyzer(config.TargetDirection)
	if err != nil {
		return nil, err
	}

	var depth *DepthEstimator
	if config.Camera != nil {
		depth, err = NewDepthEstimator(*config.Camera, config.HeadRadiusMeters)
		if err != nil {
			return nil, err
		}
	}

	return &Session{
		id:       uuid.NewString(),
		config:   config,
		pipeline: pipeline,
		tracker:  tracker,
		analyzer: analyzer,
		depth:    depth,
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// OnProgress registers a progress callback. Must be called before Run;
// the callback is invoked from the session's processing goroutine.
func (s *Session) OnProgress(fn func(Progress)) {
	s.progress = fn
}

// Run processes the source end to end and returns the analysis result.
// Cancelling the context stops processing between frames.
func (s *Session) Run(ctx context.Context, source video.FrameSource) (*Result, error) {
	if err := source.Open(); err != nil {
		return nil, err
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Printf("Error closing frame source: %v", err)
		}
	}()

	s.tracker.Reset()

	if s.config.MotionThreshold > 0 {
		gate := video.NewMotionDetector(s.config.MotionThreshold)
		defer gate.Close()
		s.pipeline.SetActivityGate(gate)
	}

	positions := make([]plane.ShaftPosition, 0, 256)
	var frames, detected, interpolated int

	err := s.pipeline.Run(ctx, source, func(fd FrameDetection) {
		frames++
		stable := s.tracker.Update(fd.Result)
		if stable.ShaftDetected {
			detected++
			if stable.Interpolated {
				interpolated++
			}
			positions = append(positions, s.liftPosition(stable, fd))
		}

		if s.progress != nil && s.config.ProgressInterval > 0 &&
			frames%s.config.ProgressInterval == 0 {
			s.progress(Progress{
				SessionID:       s.id,
				FramesProcessed: frames,
				TrackerState:    s.tracker.State().String(),
				Confidence:      stable.Confidence,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Session %s: %d frames, %d detected (%d interpolated)",
		s.id, frames, detected, interpolated)

	return &Result{
		SessionID:          s.id,
		FrameCount:         frames,
		DetectedFrames:     detected,
		InterpolatedFrames: interpolated,
		FPS:                source.FPS(),
		Positions:          positions,
		Analysis:           s.analyzer.Analyze(positions),
	}, nil
}

// liftPosition converts a stabilized 2D detection into a 3D shaft
// position. Pixel y grows downward while camera space y grows upward, so
// the vertical axis flips either way.
func (s *Session) liftPosition(res detect.DetectionResult, fd FrameDetection) plane.ShaftPosition {
	base := res.ShaftLine.ProximalEndpoint()
	tip := res.ShaftLine.DistalEndpoint()

	if s.depth != nil && res.ClubHead != nil && res.ClubHead.Radius > 0 {
		if d, err := s.depth.Depth(res.ClubHead.Radius); err == nil {
			// Both endpoints share the head's depth; the shaft is
			// treated as fronto-parallel at this range.
			return plane.ShaftPosition{
				FrameNumber: res.FrameNumber,
				BasePoint:   s.depth.BackProject(base, d),
				TipPoint:    s.depth.BackProject(tip, d),
				Timestamp:   fd.Timestamp,
			}
		}
	}

	h := float64(fd.Height)
	return plane.ShaftPosition{
		FrameNumber: res.FrameNumber,
		BasePoint:   geom.Point3D{X: base.X, Y: h - base.Y},
		TipPoint:    geom.Point3D{X: tip.X, Y: h - tip.Y},
		Timestamp:   fd.Timestamp,
	}
}
