// Package track converts a raw per-frame detection stream into a stabilized
// stream, smoothing jitter and bridging brief occlusions.
package track

import (
	"fmt"

	"github.com/greggjuri/golf-swing-analyzer/internal/detect"
	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// State identifies the tracker's position in its per-segment state machine.
type State int

const (
	// StateLost means there is no recent history; the tracker is waiting
	// to re-acquire the club.
	StateLost State = iota
	// StateTracking means the tracker has confident recent detections.
	StateTracking
	// StateInterpolating means the club is occluded but the gap is still
	// within tolerance and outputs are being extrapolated.
	StateInterpolating
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	case StateInterpolating:
		return "interpolating"
	default:
		return "lost"
	}
}

// Config holds tracker configuration.
type Config struct {
	// SmoothingWindow is the number of recent accepted detections to
	// average.
	SmoothingWindow int
	// MaxGapFrames is the longest occlusion, in frames, the tracker will
	// bridge before declaring the club lost.
	MaxGapFrames int
	// ConfidenceThreshold is the minimum detection confidence accepted
	// into the window.
	ConfidenceThreshold float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow:     5,
		MaxGapFrames:        10,
		ConfidenceThreshold: 0.3,
	}
}

// accepted is one confident detection retained in the smoothing window.
type accepted struct {
	frame      int
	line       detect.Line
	confidence float64
	head       *detect.ClubHead
}

// ClubTracker smooths a detection stream across frames and fills short
// gaps by extrapolating the shaft's recent motion.
//
// Gap strategy: forward extrapolation. During occlusion the tracker
// projects the shaft forward using the endpoint velocity of the last two
// accepted detections (or holds the last detection when only one exists),
// marks the output as interpolated, and decays its confidence with gap
// length. No lookahead buffering is performed, so outputs stay causal.
//
// A tracker instance is owned by exactly one sequential processing stream
// and must not be shared across goroutines.
type ClubTracker struct {
	config Config
	window []accepted
	gap    int
	state  State
}

// New creates a ClubTracker with the given configuration.
func New(config Config) (*ClubTracker, error) {
	if config.SmoothingWindow < 1 {
		return nil, fmt.Errorf("smoothing window must be at least 1, got %d", config.SmoothingWindow)
	}
	if config.MaxGapFrames < 0 {
		return nil, fmt.Errorf("max gap frames must be non-negative, got %d", config.MaxGapFrames)
	}
	if config.ConfidenceThreshold < 0 || config.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("confidence threshold must be in [0, 1], got %f", config.ConfidenceThreshold)
	}

	return &ClubTracker{
		config: config,
		window: make([]accepted, 0, config.SmoothingWindow),
		state:  StateLost,
	}, nil
}

// State returns the tracker's current state.
func (t *ClubTracker) State() State {
	return t.state
}

// Reset clears all history unconditionally. Safe to call repeatedly; used
// when switching to a new video or swing.
func (t *ClubTracker) Reset() {
	t.window = t.window[:0]
	t.gap = 0
	t.state = StateLost
}

// Update consumes one raw detection and returns the stabilized result for
// that frame.
func (t *ClubTracker) Update(detection detect.DetectionResult) detect.DetectionResult {
	if detection.ShaftDetected && detection.ShaftLine != nil &&
		detection.Confidence >= t.config.ConfidenceThreshold {
		return t.accept(detection)
	}
	return t.miss(detection)
}

// accept pushes a confident detection into the window and emits the
// smoothed output.
func (t *ClubTracker) accept(detection detect.DetectionResult) detect.DetectionResult {
	entry := accepted{
		frame:      detection.FrameNumber,
		line:       canonical(*detection.ShaftLine),
		confidence: detection.Confidence,
		head:       detection.ClubHead,
	}

	if len(t.window) >= t.config.SmoothingWindow {
		copy(t.window, t.window[1:])
		t.window = t.window[:len(t.window)-1]
	}
	t.window = append(t.window, entry)

	t.gap = 0
	t.state = StateTracking

	line := t.smoothedLine()
	angle, err := line.Angle()
	if err != nil {
		// Window collapsed to a point; fall back to the raw detection.
		return detection
	}

	confidence := detection.Confidence
	if baseline := t.baselineConfidence(); baseline > confidence {
		confidence = baseline
	}

	return detect.DetectionResult{
		FrameNumber:   detection.FrameNumber,
		ShaftDetected: true,
		ShaftLine:     &line,
		ShaftAngle:    &angle,
		ClubHead:      t.smoothedHead(),
		Confidence:    confidence,
	}
}

// miss handles an occluded or low-confidence frame: extrapolate inside the
// gap tolerance, transition to lost beyond it.
func (t *ClubTracker) miss(detection detect.DetectionResult) detect.DetectionResult {
	if len(t.window) == 0 {
		t.state = StateLost
		return notDetected(detection.FrameNumber)
	}

	t.gap++
	if t.gap > t.config.MaxGapFrames {
		// Gap tolerance exceeded: this is a new tracking segment.
		t.Reset()
		return notDetected(detection.FrameNumber)
	}

	t.state = StateInterpolating

	last := t.window[len(t.window)-1]
	line := t.extrapolatedLine(last)
	angle, err := line.Angle()
	if err != nil {
		t.Reset()
		return notDetected(detection.FrameNumber)
	}

	// Confidence decays with gap length and stays strictly below the
	// last directly-observed confidence.
	decay := 1.0 - float64(t.gap)/float64(t.config.MaxGapFrames+1)
	confidence := last.confidence * decay

	var head *detect.ClubHead
	if last.head != nil {
		held := *last.head
		held.Confidence *= decay
		head = &held
	}

	return detect.DetectionResult{
		FrameNumber:   detection.FrameNumber,
		ShaftDetected: true,
		ShaftLine:     &line,
		ShaftAngle:    &angle,
		ClubHead:      head,
		Confidence:    confidence,
		Interpolated:  true,
	}
}

// smoothedLine returns the recency-weighted average of the window's shaft
// lines. Endpoints are canonical (grip end first) so averaging cannot
// cancel a line against its own reverse.
func (t *ClubTracker) smoothedLine() detect.Line {
	var sumW, x1, y1, x2, y2 float64
	for i, entry := range t.window {
		w := float64(i + 1) // more recent entries weigh more
		sumW += w
		x1 += w * entry.line.X1
		y1 += w * entry.line.Y1
		x2 += w * entry.line.X2
		y2 += w * entry.line.Y2
	}
	return detect.Line{X1: x1 / sumW, Y1: y1 / sumW, X2: x2 / sumW, Y2: y2 / sumW}
}

// extrapolatedLine projects the shaft forward from the last accepted
// detection using the most recent inter-frame endpoint velocity.
func (t *ClubTracker) extrapolatedLine(last accepted) detect.Line {
	if len(t.window) < 2 {
		return last.line
	}

	prev := t.window[len(t.window)-2]
	frames := last.frame - prev.frame
	if frames <= 0 {
		frames = 1
	}
	step := float64(t.gap) / float64(frames)

	return detect.Line{
		X1: last.line.X1 + step*(last.line.X1-prev.line.X1),
		Y1: last.line.Y1 + step*(last.line.Y1-prev.line.Y1),
		X2: last.line.X2 + step*(last.line.X2-prev.line.X2),
		Y2: last.line.Y2 + step*(last.line.Y2-prev.line.Y2),
	}
}

// baselineConfidence is the mean confidence of the smoothing window.
func (t *ClubTracker) baselineConfidence() float64 {
	if len(t.window) == 0 {
		return 0
	}
	var sum float64
	for _, entry := range t.window {
		sum += entry.confidence
	}
	return sum / float64(len(t.window))
}

// smoothedHead averages club head observations across the window.
func (t *ClubTracker) smoothedHead() *detect.ClubHead {
	var n float64
	var cx, cy, radius, confidence float64
	for _, entry := range t.window {
		if entry.head == nil {
			continue
		}
		n++
		cx += entry.head.Center.X
		cy += entry.head.Center.Y
		radius += entry.head.Radius
		confidence += entry.head.Confidence
	}
	if n == 0 {
		return nil
	}
	return &detect.ClubHead{
		Center:     geom.Point2D{X: cx / n, Y: cy / n},
		Radius:     radius / n,
		Confidence: confidence / n,
	}
}

// canonical orders a line's endpoints grip end first so temporal averages
// are stable against Hough endpoint ordering.
func canonical(line detect.Line) detect.Line {
	if line.Y1 > line.Y2 {
		return detect.Line{X1: line.X2, Y1: line.Y2, X2: line.X1, Y2: line.Y1}
	}
	return line
}

// notDetected builds the canonical "nothing found" result.
func notDetected(frame int) detect.DetectionResult {
	return detect.DetectionResult{FrameNumber: frame}
}
