package plane

import (
	"fmt"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// CalculatorConfig holds plane fitting configuration.
type CalculatorConfig struct {
	// MinPoints is the minimum number of shaft positions required to fit
	// a plane.
	MinPoints int
	// ImpactZoneWeight is the weight multiplier applied to positions
	// within ImpactZoneFrames of the impact frame.
	ImpactZoneWeight float64
	// ImpactZoneFrames is the half-width, in frames, of the impact zone.
	ImpactZoneFrames int
}

// DefaultCalculatorConfig returns a CalculatorConfig with sensible
// default values.
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		MinPoints:        10,
		ImpactZoneWeight: 2.0,
		ImpactZoneFrames: 10,
	}
}

// Calculator fits a best-fit 3D plane to shaft positions, optionally
// biasing the fit toward the impact zone. Calculators hold no mutable
// state; one instance may serve any number of phases or swings.
//
// Each shaft position contributes its midpoint to the fit, a single
// representative point per frame.
type Calculator struct {
	config CalculatorConfig
}

// NewCalculator creates a Calculator with the given configuration.
func NewCalculator(config CalculatorConfig) (*Calculator, error) {
	if config.MinPoints < 3 {
		return nil, fmt.Errorf("min points must be at least 3, got %d", config.MinPoints)
	}
	if config.ImpactZoneWeight < 1.0 {
		return nil, fmt.Errorf("impact zone weight must be >= 1.0, got %f", config.ImpactZoneWeight)
	}
	if config.ImpactZoneFrames < 1 {
		return nil, fmt.Errorf("impact zone frames must be >= 1, got %d", config.ImpactZoneFrames)
	}
	return &Calculator{config: config}, nil
}

// CalculatePlane fits a plane to the shaft position midpoints. When
// impactFrame is non-nil, positions within the impact zone receive the
// configured weight multiplier, biasing the plane toward impact-relevant
// geometry.
//
// Returns geom.ErrInsufficientPoints when fewer than MinPoints positions
// are supplied and geom.ErrDegeneratePlane when the points do not span a
// unique plane.
func (c *Calculator) CalculatePlane(positions []ShaftPosition, impactFrame *int) (geom.Plane3D, error) {
	if len(positions) < c.config.MinPoints {
		return geom.Plane3D{}, fmt.Errorf("%w: %d < %d",
			geom.ErrInsufficientPoints, len(positions), c.config.MinPoints)
	}

	points := make([]geom.Point3D, len(positions))
	weights := make([]float64, len(positions))
	for i, pos := range positions {
		points[i] = pos.Midpoint()
		weights[i] = c.weightFor(pos, impactFrame)
	}

	return geom.FitPlaneWeighted(points, weights)
}

// weightFor returns the fitting weight for one position.
func (c *Calculator) weightFor(pos ShaftPosition, impactFrame *int) float64 {
	if impactFrame == nil {
		return 1.0
	}
	distance := pos.FrameNumber - *impactFrame
	if distance < 0 {
		distance = -distance
	}
	if distance <= c.config.ImpactZoneFrames {
		return c.config.ImpactZoneWeight
	}
	return 1.0
}

// MinPoints exposes the configured minimum point count.
func (c *Calculator) MinPoints() int {
	return c.config.MinPoints
}
