package detect

import (
	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// Line is a club shaft candidate as a 2D segment in pixel space.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Length returns the segment length in pixels.
func (l Line) Length() float64 {
	return l.Start().Distance(l.End())
}

// Start returns the first endpoint.
func (l Line) Start() geom.Point2D {
	return geom.Point2D{X: l.X1, Y: l.Y1}
}

// End returns the second endpoint.
func (l Line) End() geom.Point2D {
	return geom.Point2D{X: l.X2, Y: l.Y2}
}

// Midpoint returns the segment midpoint.
func (l Line) Midpoint() geom.Point2D {
	return geom.Point2D{X: (l.X1 + l.X2) / 2, Y: (l.Y1 + l.Y2) / 2}
}

// Angle returns the signed angle of the segment from horizontal in degrees.
func (l Line) Angle() (float64, error) {
	return geom.AngleFromHorizontal(l.Start(), l.End())
}

// DistalEndpoint returns the endpoint farther down the frame, where the
// club head sits during most of the swing.
func (l Line) DistalEndpoint() geom.Point2D {
	if l.Y1 > l.Y2 {
		return l.Start()
	}
	return l.End()
}

// ProximalEndpoint returns the endpoint closer to the top of the frame,
// the grip end.
func (l Line) ProximalEndpoint() geom.Point2D {
	if l.Y1 > l.Y2 {
		return l.End()
	}
	return l.Start()
}

// ClubHead is a detected club head.
type ClubHead struct {
	Center     geom.Point2D `json:"center"`
	Radius     float64      `json:"radius"`
	Confidence float64      `json:"confidence"`
}

// DetectionResult is the per-frame output of club detection.
//
// ShaftLine and ShaftAngle are nil whenever ShaftDetected is false;
// Confidence is 0 when nothing was detected.
type DetectionResult struct {
	FrameNumber   int       `json:"frame_number"`
	ShaftDetected bool      `json:"shaft_detected"`
	ShaftLine     *Line     `json:"shaft_line,omitempty"`
	ShaftAngle    *float64  `json:"shaft_angle,omitempty"`
	ClubHead      *ClubHead `json:"club_head,omitempty"`
	Confidence    float64   `json:"confidence"`

	// Interpolated marks results synthesized by the tracker during
	// occlusion rather than observed directly.
	Interpolated bool `json:"interpolated,omitempty"`
}

// HeadDetected reports whether a club head was found.
func (r DetectionResult) HeadDetected() bool {
	return r.ClubHead != nil
}
