package detect

import (
	"math"

	"gocv.io/x/gocv"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// Scoring weights for shaft candidate selection.
const (
	lengthWeight   = 0.4
	supportWeight  = 0.4
	positionWeight = 0.2

	// axisBandDegrees is the width of the orientation band around the
	// frame axes inside which full-span lines get deprioritized as
	// probable background structure.
	axisBandDegrees = 3.0
	// axisPenalty multiplies the score of such lines. They stay in the
	// running because the shaft itself is near-vertical at address.
	axisPenalty = 0.5
	// fullSpanRatio of the frame diagonal above which a line counts as
	// spanning the frame.
	fullSpanRatio = 0.9
)

// ShaftDetector locates the club shaft in an edge mask via the
// probabilistic Hough line transform and candidate scoring.
type ShaftDetector struct {
	config Config
}

// NewShaftDetector creates a ShaftDetector with the given configuration.
func NewShaftDetector(config Config) *ShaftDetector {
	return &ShaftDetector{config: config}
}

// candidate is a scored shaft line.
type candidate struct {
	line    Line
	score   float64
	support float64
}

// DetectShaft extracts line segments from the edge mask, filters and scores
// them, and returns the best shaft candidate with its edge-support
// confidence. Returns (nil, 0) when no plausible shaft is present; a blank
// frame is a valid no-detection, never an error.
func (d *ShaftDetector) DetectShaft(edges gocv.Mat) (*Line, float64) {
	lines := gocv.NewMat()
	defer lines.Close()

	gocv.HoughLinesPWithParams(
		edges,
		&lines,
		1,             // rho resolution in pixels
		math.Pi/180.0, // theta resolution in radians
		d.config.HoughThreshold,
		float32(d.config.MinLineLength),
		float32(d.config.MaxLineGap),
	)

	if lines.Empty() || lines.Rows() == 0 {
		return nil, 0
	}

	frameW := float64(edges.Cols())
	frameH := float64(edges.Rows())

	best := candidate{score: -1}
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		line := Line{
			X1: float64(v[0]), Y1: float64(v[1]),
			X2: float64(v[2]), Y2: float64(v[3]),
		}

		c, ok := d.scoreCandidate(line, edges, frameW, frameH)
		if ok && c.score > best.score {
			best = c
		}
	}

	if best.score < 0 {
		return nil, 0
	}
	return &best.line, best.support
}

// scoreCandidate filters and scores a single Hough segment. The score
// combines normalized length, edge support along the segment, and
// proximity to the expected club region in the lower center of the frame.
func (d *ShaftDetector) scoreCandidate(line Line, edges gocv.Mat, frameW, frameH float64) (candidate, bool) {
	length := line.Length()
	if length < d.config.MinLineLength {
		return candidate{}, false
	}

	angle, err := line.Angle()
	if err != nil {
		return candidate{}, false
	}

	support := edgeSupport(edges, line)

	lengthScore := math.Min(1.0, length/d.config.ConfidenceSpan)

	// Positional plausibility: the club lives in the lower-center of the
	// frame for a fixed down-the-line camera.
	expected := geom.Point2D{X: frameW / 2, Y: frameH * 2 / 3}
	diag := math.Hypot(frameW, frameH)
	positionScore := 1.0 - math.Min(1.0, line.Midpoint().Distance(expected)/diag)

	score := lengthWeight*lengthScore + supportWeight*support + positionWeight*positionScore

	// Near-axis lines spanning the whole frame are usually walls, nets,
	// or mat edges. Deprioritize rather than exclude.
	if isAxisAligned(angle) && length > fullSpanRatio*diag {
		score *= axisPenalty
	}

	return candidate{line: line, score: score, support: support}, true
}

// isAxisAligned reports whether the undirected line orientation falls
// within the unlikely band around horizontal or vertical.
func isAxisAligned(angle float64) bool {
	a := geom.NormalizeAngle180(angle)
	return a < axisBandDegrees ||
		a > 180.0-axisBandDegrees ||
		math.Abs(a-90.0) < axisBandDegrees
}

// edgeSupport returns the fraction of sample points along the segment that
// land on (or within one pixel of) an edge pixel. This measures both
// straightness and edge-strength density: a segment bridging large gaps
// scores low.
func edgeSupport(edges gocv.Mat, line Line) float64 {
	length := line.Length()
	steps := int(length)
	if steps < 2 {
		return 0
	}

	rows := edges.Rows()
	cols := edges.Cols()
	hits := 0

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(line.X1 + t*(line.X2-line.X1)))
		y := int(math.Round(line.Y1 + t*(line.Y2-line.Y1)))

		if nearEdge(edges, x, y, rows, cols) {
			hits++
		}
	}

	return float64(hits) / float64(steps+1)
}

// nearEdge checks a 3x3 neighborhood for an edge pixel.
func nearEdge(edges gocv.Mat, x, y, rows, cols int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			px, py := x+dx, y+dy
			if px < 0 || py < 0 || px >= cols || py >= rows {
				continue
			}
			if edges.GetUCharAt(py, px) > 0 {
				return true
			}
		}
	}
	return false
}
