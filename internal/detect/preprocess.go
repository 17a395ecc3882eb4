package detect

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrInvalidRegion is returned when a caller-supplied region of interest
// exceeds the frame bounds. The region is rejected, not clamped, so caller
// bugs stay visible.
var ErrInvalidRegion = errors.New("region of interest outside frame bounds")

// ErrEmptyFrame is returned when a nil or empty frame is passed to the
// pipeline.
var ErrEmptyFrame = errors.New("frame is empty or nil")

// CLAHE defaults.
const (
	claheClipLimit = 2.0
	claheTileSize  = 8
)

// Preprocessor prepares video frames for edge-based club detection:
// grayscale conversion, Gaussian blur, optional ROI crop, and optional
// CLAHE contrast equalization. Preprocess is deterministic and does not
// modify the input frame.
type Preprocessor struct {
	blurKernel int
	roi        *image.Rectangle
	clahe      gocv.CLAHE
	enhance    bool
}

// NewPreprocessor creates a Preprocessor. blurKernel must be positive and
// odd.
func NewPreprocessor(blurKernel int, roi *image.Rectangle, enhanceContrast bool) (*Preprocessor, error) {
	if blurKernel <= 0 || blurKernel%2 == 0 {
		return nil, fmt.Errorf("blur kernel must be positive and odd, got %d", blurKernel)
	}

	p := &Preprocessor{
		blurKernel: blurKernel,
		roi:        roi,
		enhance:    enhanceContrast,
	}
	if enhanceContrast {
		p.clahe = gocv.NewCLAHEWithParams(claheClipLimit, image.Pt(claheTileSize, claheTileSize))
	}
	return p, nil
}

// Preprocess runs the full preprocessing pipeline and returns a new
// single-channel Mat. The caller owns the returned Mat and must close it.
func (p *Preprocessor) Preprocess(frame *gocv.Mat) (gocv.Mat, error) {
	if frame == nil || frame.Empty() {
		return gocv.Mat{}, ErrEmptyFrame
	}

	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	if p.roi != nil {
		bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())
		if !p.roi.In(bounds) {
			gray.Close()
			return gocv.Mat{}, fmt.Errorf("%w: roi %v, frame %dx%d",
				ErrInvalidRegion, *p.roi, bounds.Dx(), bounds.Dy())
		}
		region := gray.Region(*p.roi)
		cropped := region.Clone()
		region.Close()
		gray.Close()
		gray = cropped
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Pt(p.blurKernel, p.blurKernel), 0, 0, gocv.BorderDefault)
	gray.Close()

	if p.enhance {
		enhanced := gocv.NewMat()
		p.clahe.Apply(blurred, &enhanced)
		blurred.Close()
		return enhanced, nil
	}

	return blurred, nil
}

// Close releases preprocessor resources.
func (p *Preprocessor) Close() {
	if p.enhance {
		p.clahe.Close()
	}
}

// EdgeMask applies Canny edge detection to a grayscale frame.
// The caller owns the returned Mat.
func EdgeMask(frame gocv.Mat, low, high float32) gocv.Mat {
	edges := gocv.NewMat()
	gocv.Canny(frame, &edges, low, high)
	return edges
}

// CleanEdgeMask closes small gaps in an edge mask with a morphological
// closing. The caller owns the returned Mat.
func CleanEdgeMask(edges gocv.Mat, kernelSize int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSize, kernelSize))
	defer kernel.Close()

	cleaned := gocv.NewMat()
	gocv.MorphologyEx(edges, &cleaned, gocv.MorphClose, kernel)
	return cleaned
}
