package plane

import (
	"fmt"
	"strings"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// SwingPlaneAnalysis is the complete result of analyzing one swing. When
// Success is false, ErrorMessage identifies which phase failed and why;
// whatever planes did fit remain populated.
type SwingPlaneAnalysis struct {
	Planes     SwingPlaneResult `json:"planes"`
	Metrics    SwingMetrics     `json:"metrics"`
	Deviations []float64        `json:"deviations"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Analyzer combines phase detection, plane fitting, and metrics into the
// top-level swing analysis entry point. All components are stateless;
// one Analyzer may serve any number of swings.
type Analyzer struct {
	calculator *Calculator
	detector   *Detector
	metrics    *Metrics
}

// NewAnalyzer creates an Analyzer with default component configurations
// and the given target direction.
func NewAnalyzer(targetDirection geom.Vector3) (*Analyzer, error) {
	calculator, err := NewCalculator(DefaultCalculatorConfig())
	if err != nil {
		return nil, err
	}
	detector, err := NewDetector(DefaultDetectorConfig(), calculator)
	if err != nil {
		return nil, err
	}
	metrics, err := NewMetrics(targetDirection)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		calculator: calculator,
		detector:   detector,
		metrics:    metrics,
	}, nil
}

// Analyze runs the full swing plane analysis over a shaft position
// sequence. The sequence is read, never mutated.
func (a *Analyzer) Analyze(positions []ShaftPosition) SwingPlaneAnalysis {
	if len(positions) == 0 {
		return SwingPlaneAnalysis{ErrorMessage: "no shaft positions provided"}
	}

	planes := a.detector.DetectSwingPlanes(positions)

	// Prefer the downswing plane, the one the ball actually cares about.
	analysisPlane := planes.DownswingPlane
	if analysisPlane == nil {
		analysisPlane = planes.FullSwingPlane
	}
	if analysisPlane == nil {
		msg := "could not fit a swing plane"
		if len(planes.FitErrors) > 0 {
			msg += ": " + strings.Join(planes.FitErrors, "; ")
		}
		return SwingPlaneAnalysis{
			Planes:       planes,
			ErrorMessage: msg,
		}
	}

	var planeShift *float64
	if shift, ok := planes.PlaneShift(); ok {
		planeShift = &shift
	}

	metrics, err := a.metrics.CalculateSwingMetrics(
		positions, *analysisPlane, planes.ImpactPosition, planeShift)
	if err != nil {
		return SwingPlaneAnalysis{
			Planes:       planes,
			ErrorMessage: fmt.Sprintf("metrics calculation failed: %v", err),
		}
	}

	deviations := make([]float64, len(positions))
	for i, pos := range positions {
		deviations[i] = a.metrics.OnPlaneDeviation(pos, *analysisPlane)
	}

	return SwingPlaneAnalysis{
		Planes:     planes,
		Metrics:    metrics,
		Deviations: deviations,
		Success:    true,
	}
}

// AnalyzeWithPlane analyzes a swing against a caller-supplied plane, for
// comparing to an ideal plane or re-scoring a specific phase. impactFrame
// optionally names the impact frame; the final position is used when it
// is absent or not found.
func (a *Analyzer) AnalyzeWithPlane(positions []ShaftPosition, p geom.Plane3D, impactFrame *int) SwingPlaneAnalysis {
	if len(positions) == 0 {
		return SwingPlaneAnalysis{ErrorMessage: "no shaft positions provided"}
	}

	planes := SwingPlaneResult{FullSwingPlane: &p}
	if impactFrame != nil {
		for i := range positions {
			if positions[i].FrameNumber == *impactFrame {
				planes.ImpactPosition = &positions[i]
				break
			}
		}
	}

	metrics, err := a.metrics.CalculateSwingMetrics(positions, p, planes.ImpactPosition, nil)
	if err != nil {
		return SwingPlaneAnalysis{
			Planes:       planes,
			ErrorMessage: fmt.Sprintf("metrics calculation failed: %v", err),
		}
	}

	deviations := make([]float64, len(positions))
	for i, pos := range positions {
		deviations[i] = a.metrics.OnPlaneDeviation(pos, p)
	}

	return SwingPlaneAnalysis{
		Planes:     planes,
		Metrics:    metrics,
		Deviations: deviations,
		Success:    true,
	}
}
