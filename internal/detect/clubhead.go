package detect

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// Hough circle parameters.
const (
	houghCircleDP      = 1
	houghCircleMinDist = 50
	houghCircleParam1  = 50
	houghCircleParam2  = 30

	// circleBaseConfidence is the confidence assigned to a Hough circle
	// hit before proximity scaling.
	circleBaseConfidence = 0.7
	// minCircularity is the isoperimetric ratio cutoff for the contour
	// fallback.
	minCircularity = 0.6
)

// ClubHeadDetector locates the club head as a roughly circular blob near
// the shaft's distal endpoint.
type ClubHeadDetector struct {
	config Config
}

// NewClubHeadDetector creates a ClubHeadDetector with the given
// configuration.
func NewClubHeadDetector(config Config) *ClubHeadDetector {
	return &ClubHeadDetector{config: config}
}

// DetectHead searches for the club head in a preprocessed grayscale frame.
// When a shaft line is available the search is confined to a window around
// its distal endpoint, otherwise the lower half of the frame is scanned.
// Returns nil when no qualifying region is found; that is a valid outcome,
// not an error.
func (d *ClubHeadDetector) DetectHead(frame gocv.Mat, shaft *Line) *ClubHead {
	roi, offset := d.searchRegion(frame, shaft)
	defer roi.Close()

	var expected *geom.Point2D
	if shaft != nil {
		p := shaft.DistalEndpoint()
		expected = &p
	}

	if head := d.houghCircle(roi, offset, expected); head != nil {
		return head
	}
	return d.contourFallback(roi, offset, expected)
}

// searchRegion returns a cloned search window and its offset in frame
// coordinates.
func (d *ClubHeadDetector) searchRegion(frame gocv.Mat, shaft *Line) (gocv.Mat, image.Point) {
	cols := frame.Cols()
	rows := frame.Rows()

	var rect image.Rectangle
	if shaft != nil {
		tip := shaft.DistalEndpoint()
		r := d.config.HeadSearchRadius
		rect = image.Rect(
			int(tip.X)-r, int(tip.Y)-r,
			int(tip.X)+r, int(tip.Y)+r,
		).Intersect(image.Rect(0, 0, cols, rows))
	} else {
		rect = image.Rect(0, rows/2, cols, rows)
	}

	if rect.Empty() {
		rect = image.Rect(0, 0, cols, rows)
	}

	region := frame.Region(rect)
	clone := region.Clone()
	region.Close()
	return clone, rect.Min
}

// houghCircle runs the circular Hough transform over the search window.
func (d *ClubHeadDetector) houghCircle(roi gocv.Mat, offset image.Point, expected *geom.Point2D) *ClubHead {
	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(
		roi,
		&circles,
		gocv.HoughGradient,
		houghCircleDP,
		houghCircleMinDist,
		houghCircleParam1,
		houghCircleParam2,
		d.config.MinHeadRadius,
		d.config.MaxHeadRadius,
	)

	if circles.Empty() || circles.Cols() == 0 {
		return nil
	}

	// Strongest circle first per OpenCV accumulator ordering.
	v := circles.GetVecfAt(0, 0)
	center := geom.Point2D{
		X: float64(v[0]) + float64(offset.X),
		Y: float64(v[1]) + float64(offset.Y),
	}

	return &ClubHead{
		Center:     center,
		Radius:     float64(v[2]),
		Confidence: circleBaseConfidence * proximityFactor(center, expected, float64(d.config.HeadSearchRadius)),
	}
}

// contourFallback extracts contours from a binarized search window and
// picks the most circular one inside the expected radius band.
func (d *ClubHeadDetector) contourFallback(roi gocv.Mat, offset image.Point, expected *geom.Point2D) *ClubHead {
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(roi, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var best *ClubHead
	bestCircularity := minCircularity

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)

		area := gocv.ContourArea(contour)
		perimeter := gocv.ArcLength(contour, true)
		if perimeter < 1e-6 {
			continue
		}

		// Isoperimetric ratio: 1.0 for a perfect circle.
		circularity := 4 * math.Pi * area / (perimeter * perimeter)
		if circularity < bestCircularity {
			continue
		}

		x, y, radius := gocv.MinEnclosingCircle(contour)
		r := float64(radius)
		if r < float64(d.config.MinHeadRadius) || r > float64(d.config.MaxHeadRadius) {
			continue
		}

		center := geom.Point2D{
			X: float64(x) + float64(offset.X),
			Y: float64(y) + float64(offset.Y),
		}

		bestCircularity = circularity
		best = &ClubHead{
			Center:     center,
			Radius:     r,
			Confidence: circularity * proximityFactor(center, expected, float64(d.config.HeadSearchRadius)),
		}
	}

	return best
}

// proximityFactor scales confidence by distance to the expected shaft
// endpoint, from 1.0 at the endpoint down to 0.5 at the search boundary.
func proximityFactor(center geom.Point2D, expected *geom.Point2D, searchRadius float64) float64 {
	if expected == nil || searchRadius <= 0 {
		return 1.0
	}
	dist := center.Distance(*expected)
	return 1.0 - 0.5*math.Min(1.0, dist/searchRadius)
}
