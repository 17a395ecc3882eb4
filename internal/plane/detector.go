package plane

import (
	"fmt"
	"log"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// SwingPlaneResult holds the fitted planes and key positions for one
// swing. Any phase may be nil when its subsequence could not support a
// fit; one phase failing never aborts the others.
type SwingPlaneResult struct {
	AddressPlane   *geom.Plane3D `json:"address_plane,omitempty"`
	BackswingPlane *geom.Plane3D `json:"backswing_plane,omitempty"`
	DownswingPlane *geom.Plane3D `json:"downswing_plane,omitempty"`
	FullSwingPlane *geom.Plane3D `json:"full_swing_plane,omitempty"`

	ImpactPosition *ShaftPosition `json:"impact_position,omitempty"`
	TopPosition    *ShaftPosition `json:"top_position,omitempty"`

	// FitErrors records why each failed phase could not be fitted, one
	// entry per nil plane above.
	FitErrors []string `json:"fit_errors,omitempty"`
}

// PlaneShift returns the angle between the backswing and downswing plane
// normals in degrees. The second return value is false when either plane
// is missing.
func (r SwingPlaneResult) PlaneShift() (float64, bool) {
	if r.BackswingPlane == nil || r.DownswingPlane == nil {
		return 0, false
	}
	return geom.AngleBetweenPlanes(*r.BackswingPlane, *r.DownswingPlane), true
}

// DetectorConfig holds phase detection configuration.
type DetectorConfig struct {
	// MinPhasePoints is the minimum positions a phase subsequence needs
	// before a fit is attempted.
	MinPhasePoints int
	// AddressFrames is the number of leading frames treated as the
	// address phase.
	AddressFrames int
}

// DefaultDetectorConfig returns a DetectorConfig with sensible default
// values.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinPhasePoints: 5,
		AddressFrames:  10,
	}
}

// Detector segments a shaft position sequence into swing phases and fits
// a plane per phase.
//
// Top of backswing is the position where the club head reaches maximum
// height (maximum tip y in the y-up camera-world convention). Impact is
// the position of peak club head speed after the top, measured as tip
// displacement per frame.
type Detector struct {
	config     DetectorConfig
	calculator *Calculator
}

// NewDetector creates a Detector using the given calculator. A nil
// calculator gets the default configuration.
func NewDetector(config DetectorConfig, calculator *Calculator) (*Detector, error) {
	if config.MinPhasePoints < 3 {
		return nil, fmt.Errorf("min phase points must be at least 3, got %d", config.MinPhasePoints)
	}
	if calculator == nil {
		var err error
		calculator, err = NewCalculator(DefaultCalculatorConfig())
		if err != nil {
			return nil, err
		}
	}
	return &Detector{config: config, calculator: calculator}, nil
}

// DetectSwingPlanes identifies the key swing positions and fits address,
// backswing, downswing, and full-swing planes. Phases whose fits fail are
// left nil with the cause recorded in FitErrors; the rest are still
// populated.
func (d *Detector) DetectSwingPlanes(positions []ShaftPosition) SwingPlaneResult {
	var result SwingPlaneResult

	fit := func(name string, phase []ShaftPosition, impactFrame *int) *geom.Plane3D {
		fitted, err := d.fitPhase(name, phase, impactFrame)
		if err != nil {
			log.Printf("%v", err)
			result.FitErrors = append(result.FitErrors, err.Error())
			return nil
		}
		return fitted
	}

	if len(positions) < d.config.MinPhasePoints {
		msg := fmt.Sprintf("insufficient positions: %d < %d", len(positions), d.config.MinPhasePoints)
		log.Printf("plane detection skipped: %s", msg)
		result.FitErrors = append(result.FitErrors, msg)
		return result
	}

	result.TopPosition = findTopPosition(positions)
	result.ImpactPosition = findImpactPosition(positions, result.TopPosition)

	result.FullSwingPlane = fit("full swing", positions, nil)

	if result.TopPosition == nil {
		// Without a top we cannot split phases; the full-swing plane
		// stands in for both.
		result.BackswingPlane = result.FullSwingPlane
		result.DownswingPlane = result.FullSwingPlane
		return result
	}

	topFrame := result.TopPosition.FrameNumber

	var address, backswing, downswing []ShaftPosition
	addressEnd := positions[0].FrameNumber + d.config.AddressFrames
	for _, pos := range positions {
		if pos.FrameNumber < addressEnd {
			address = append(address, pos)
		}
		if pos.FrameNumber <= topFrame {
			backswing = append(backswing, pos)
		}
		if pos.FrameNumber >= topFrame {
			downswing = append(downswing, pos)
		}
	}

	result.AddressPlane = fit("address", address, nil)
	result.BackswingPlane = fit("backswing", backswing, nil)

	var impactFrame *int
	if result.ImpactPosition != nil {
		f := result.ImpactPosition.FrameNumber
		impactFrame = &f
	}
	result.DownswingPlane = fit("downswing", downswing, impactFrame)

	return result
}

// fitPhase fits a single phase. The returned error names the phase so a
// failed fit can be reported without further context; failures never
// propagate to other phases.
func (d *Detector) fitPhase(name string, positions []ShaftPosition, impactFrame *int) (*geom.Plane3D, error) {
	if len(positions) < d.config.MinPhasePoints {
		return nil, fmt.Errorf("insufficient %s points: %d < %d", name, len(positions), d.config.MinPhasePoints)
	}
	fitted, err := d.calculator.CalculatePlane(positions, impactFrame)
	if err != nil {
		return nil, fmt.Errorf("%s plane fit failed: %v", name, err)
	}
	return &fitted, nil
}

// findTopPosition locates the top of the backswing: the position with the
// highest club head, i.e. the maximum tip y.
func findTopPosition(positions []ShaftPosition) *ShaftPosition {
	if len(positions) < 3 {
		return nil
	}

	best := 0
	for i := 1; i < len(positions); i++ {
		if positions[i].TipPoint.Y > positions[best].TipPoint.Y {
			best = i
		}
	}

	top := positions[best]
	return &top
}

// findImpactPosition locates impact as the peak club head speed after the
// top: the largest tip displacement per frame in the downswing.
func findImpactPosition(positions []ShaftPosition, top *ShaftPosition) *ShaftPosition {
	if top == nil || len(positions) < 3 {
		return nil
	}

	var impact *ShaftPosition
	maxSpeed := 0.0

	prev := *top
	for _, pos := range positions {
		if pos.FrameNumber <= top.FrameNumber {
			continue
		}

		frames := pos.FrameNumber - prev.FrameNumber
		if frames <= 0 {
			prev = pos
			continue
		}

		speed := pos.TipPoint.Distance(prev.TipPoint) / float64(frames)
		if speed > maxSpeed {
			maxSpeed = speed
			p := pos
			impact = &p
		}
		prev = pos
	}

	return impact
}
