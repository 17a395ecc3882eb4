// Package detect provides per-frame golf club detection: shaft line
// extraction from edge features and club head localization near the shaft
// endpoint. Detectors are stateless; temporal smoothing lives in the track
// package.
package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector defines the interface for per-frame club detection
// implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the club detection result.
	// A frame with no club is a valid zero-confidence result, not an error.
	Detect(frame *gocv.Mat) (DetectionResult, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for club detection.
type Config struct {
	// CannyLow and CannyHigh are the hysteresis thresholds for edge
	// detection.
	CannyLow  float32
	CannyHigh float32

	// HoughThreshold is the accumulator threshold for the probabilistic
	// Hough line transform.
	HoughThreshold int

	// MinLineLength is the minimum shaft candidate length in pixels.
	MinLineLength float64

	// MaxLineGap is the maximum allowed gap within a single line segment.
	MaxLineGap float64

	// BlurKernel is the Gaussian blur kernel size (must be odd).
	BlurKernel int

	// ROI optionally restricts detection to a region of the frame.
	ROI *image.Rectangle

	// EnhanceContrast enables CLAHE contrast equalization for poorly
	// lit footage.
	EnhanceContrast bool

	// MinHeadRadius and MaxHeadRadius bound the club head radius in
	// pixels for circle detection.
	MinHeadRadius int
	MaxHeadRadius int

	// HeadSearchRadius is the half-size of the search window around the
	// shaft's distal endpoint.
	HeadSearchRadius int

	// ConfidenceSpan is the shaft length in pixels that maps to full
	// length confidence.
	ConfidenceSpan float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		CannyLow:         50,
		CannyHigh:        150,
		HoughThreshold:   50,
		MinLineLength:    100,
		MaxLineGap:       10,
		BlurKernel:       5,
		MinHeadRadius:    20,
		MaxHeadRadius:    50,
		HeadSearchRadius: 100,
		ConfidenceSpan:   300,
	}
}
