package detect

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// ClubDetector combines preprocessing, shaft detection, and club head
// detection into the per-frame detection pipeline. It is not goroutine
// safe; give each worker its own instance.
type ClubDetector struct {
	config Config
	pre    *Preprocessor
	shaft  *ShaftDetector
	head   *ClubHeadDetector
}

// NewClubDetector creates a ClubDetector with the given configuration.
func NewClubDetector(config Config) (*ClubDetector, error) {
	if config.CannyLow <= 0 || config.CannyHigh <= 0 || config.CannyLow >= config.CannyHigh {
		return nil, fmt.Errorf("invalid canny thresholds: low=%f, high=%f", config.CannyLow, config.CannyHigh)
	}
	if config.HoughThreshold <= 0 {
		return nil, fmt.Errorf("hough threshold must be positive, got %d", config.HoughThreshold)
	}
	if config.MinLineLength <= 0 {
		return nil, fmt.Errorf("min line length must be positive, got %f", config.MinLineLength)
	}

	pre, err := NewPreprocessor(config.BlurKernel, config.ROI, config.EnhanceContrast)
	if err != nil {
		return nil, err
	}

	return &ClubDetector{
		config: config,
		pre:    pre,
		shaft:  NewShaftDetector(config),
		head:   NewClubHeadDetector(config),
	}, nil
}

// Detect runs the full detection pipeline over one frame.
//
// An absent club is reported as a zero-confidence DetectionResult with nil
// shaft fields; errors are reserved for invalid input (empty frame, bad
// ROI).
func (d *ClubDetector) Detect(frame *gocv.Mat) (DetectionResult, error) {
	pre, err := d.pre.Preprocess(frame)
	if err != nil {
		return DetectionResult{}, err
	}
	defer pre.Close()

	edges := EdgeMask(pre, d.config.CannyLow, d.config.CannyHigh)
	cleaned := CleanEdgeMask(edges, 3)
	edges.Close()
	defer cleaned.Close()

	shaftLine, support := d.shaft.DetectShaft(cleaned)

	result := DetectionResult{}
	var shaftConfidence float64

	if shaftLine != nil {
		angle, angleErr := shaftLine.Angle()
		if angleErr == nil {
			lengthScore := math.Min(1.0, shaftLine.Length()/d.config.ConfidenceSpan)
			shaftConfidence = (lengthScore + support) / 2

			result.ShaftDetected = true
			result.ShaftLine = shaftLine
			result.ShaftAngle = &angle
		}
	}

	clubHead := d.head.DetectHead(pre, result.ShaftLine)
	result.ClubHead = clubHead

	switch {
	case result.ShaftDetected && clubHead != nil:
		result.Confidence = (shaftConfidence + clubHead.Confidence) / 2
	case result.ShaftDetected:
		result.Confidence = shaftConfidence
	case clubHead != nil:
		result.Confidence = clubHead.Confidence
	}

	return result, nil
}

// Close releases detector resources.
func (d *ClubDetector) Close() error {
	d.pre.Close()
	return nil
}
