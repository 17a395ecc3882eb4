package app

import (
	"fmt"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// DefaultHeadRadiusMeters approximates a driver head seen face-on.
const DefaultHeadRadiusMeters = 0.06

// CameraIntrinsics is the pinhole model used to lift pixel detections
// into metric camera space.
type CameraIntrinsics struct {
	// FocalLengthPx is the focal length expressed in pixels.
	FocalLengthPx float64
	// CenterX, CenterY locate the principal point in pixel space.
	CenterX float64
	CenterY float64
}

// DepthEstimator recovers distance from the camera using the apparent
// size of the club head: an object of known radius R imaged at r pixels
// sits at depth f*R/r.
type DepthEstimator struct {
	intrinsics  CameraIntrinsics
	headRadiusM float64
}

// NewDepthEstimator creates a DepthEstimator for the given camera and
// real club head radius in meters.
func NewDepthEstimator(intrinsics CameraIntrinsics, headRadiusMeters float64) (*DepthEstimator, error) {
	if intrinsics.FocalLengthPx <= 0 {
		return nil, fmt.Errorf("focal length must be positive, got %f", intrinsics.FocalLengthPx)
	}
	if headRadiusMeters <= 0 {
		return nil, fmt.Errorf("head radius must be positive, got %f", headRadiusMeters)
	}
	return &DepthEstimator{
		intrinsics:  intrinsics,
		headRadiusM: headRadiusMeters,
	}, nil
}

// Depth estimates the club head's distance from the camera in meters
// given its apparent radius in pixels.
func (e *DepthEstimator) Depth(pixelRadius float64) (float64, error) {
	if pixelRadius <= 0 {
		return 0, fmt.Errorf("pixel radius must be positive, got %f", pixelRadius)
	}
	return e.intrinsics.FocalLengthPx * e.headRadiusM / pixelRadius, nil
}

// BackProject lifts a pixel coordinate at a known depth into metric
// camera space. Pixel y grows downward, so the vertical term flips to
// keep camera space y pointing up.
func (e *DepthEstimator) BackProject(p geom.Point2D, depth float64) geom.Point3D {
	return geom.Point3D{
		X: (p.X - e.intrinsics.CenterX) * depth / e.intrinsics.FocalLengthPx,
		Y: (e.intrinsics.CenterY - p.Y) * depth / e.intrinsics.FocalLengthPx,
		Z: depth,
	}
}
