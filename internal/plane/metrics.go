package plane

import (
	"fmt"
	"math"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// SwingMetrics is the complete set of swing plane measurements. All angles
// are in degrees; deviations use the same length units as the input
// points.
type SwingMetrics struct {
	// AttackAngle is the vertical angle of club travel at impact.
	// Positive means an ascending blow, negative a descending one.
	AttackAngle float64 `json:"attack_angle"`
	// SwingPath is the horizontal angle of club travel at impact
	// relative to the target line. Positive is in-to-out, negative
	// out-to-in.
	SwingPath float64 `json:"swing_path"`
	// PlaneAngle is the swing plane tilt from horizontal ground.
	PlaneAngle float64 `json:"plane_angle"`
	// PlaneShift is the backswing-to-downswing plane change, when both
	// planes exist.
	PlaneShift *float64 `json:"plane_shift,omitempty"`

	MaxDeviation      float64 `json:"max_deviation"`
	AvgDeviation      float64 `json:"avg_deviation"`
	DeviationAtImpact float64 `json:"deviation_at_impact"`
}

// Metrics computes golf-specific measurements from fitted planes and shaft
// positions. All methods are pure functions over their inputs.
//
// 3D inputs use a y-up camera-world convention: X right, Y up, Z down the
// target line away from the camera.
type Metrics struct {
	target geom.Vector3
}

// NewMetrics creates a Metrics calculator aiming at the given target
// direction. A zero vector is rejected.
func NewMetrics(targetDirection geom.Vector3) (*Metrics, error) {
	unit, err := targetDirection.Unit()
	if err != nil {
		return nil, fmt.Errorf("target direction: %w", err)
	}
	return &Metrics{target: unit}, nil
}

// DefaultTargetDirection points straight down the target line.
func DefaultTargetDirection() geom.Vector3 {
	return geom.Vector3{Z: 1}
}

// AttackAngle measures the vertical angle of the shaft direction at impact
// within the swing plane: the shaft direction is projected into the plane
// and measured against the in-plane horizontal. Positive means the club
// was moving upward through impact.
//
// Returns geom.ErrDegenerateInput for a zero-length shaft or when the
// shaft direction is perpendicular to the plane.
func (m *Metrics) AttackAngle(impactShaft ShaftPosition, p geom.Plane3D) (float64, error) {
	dir, err := impactShaft.Direction()
	if err != nil {
		return 0, err
	}

	normal := p.Normal()

	inPlane, err := projectIntoPlane(dir, normal)
	if err != nil {
		return 0, err
	}
	horizontal, err := projectIntoPlane(geom.Vector3{X: 1}, normal)
	if err != nil {
		return 0, err
	}

	angle, err := geom.AngleBetweenVectors(inPlane, horizontal)
	if err != nil {
		return 0, err
	}

	// Sign from the vertical component: descending club points down.
	if inPlane.Y < 0 {
		angle = -angle
	}
	return angle, nil
}

// SwingPath measures the horizontal angle of club travel at impact
// relative to the target line. Positive = in-to-out, negative =
// out-to-in, by the vertical component of target x travel.
//
// A purely vertical travel direction has no horizontal path and returns
// 0. A zero-length shaft returns geom.ErrDegenerateInput.
func (m *Metrics) SwingPath(impactShaft ShaftPosition, targetOverride *geom.Vector3) (float64, error) {
	target := m.target
	if targetOverride != nil {
		unit, err := targetOverride.Unit()
		if err != nil {
			return 0, fmt.Errorf("target direction: %w", err)
		}
		target = unit
	}

	travel, err := impactShaft.Direction()
	if err != nil {
		return 0, err
	}

	travelH := geom.Vector3{X: travel.X, Z: travel.Z}
	if travelH.Norm() < 1e-10 {
		return 0, nil
	}
	travelH, _ = travelH.Unit()

	targetH := geom.Vector3{X: target.X, Z: target.Z}
	if targetH.Norm() < 1e-10 {
		targetH = geom.Vector3{Z: 1}
	} else {
		targetH, _ = targetH.Unit()
	}

	angle, err := geom.AngleBetweenVectors(travelH, targetH)
	if err != nil {
		return 0, err
	}

	if targetH.Cross(travelH).Y < 0 {
		angle = -angle
	}
	return angle, nil
}

// OnPlaneDeviation returns the absolute perpendicular distance from the
// shaft midpoint to the plane.
func (m *Metrics) OnPlaneDeviation(position ShaftPosition, p geom.Plane3D) float64 {
	return math.Abs(p.PointDistance(position.Midpoint()))
}

// PlaneAngle returns the plane's tilt from horizontal ground in degrees:
// 0 for a flat plane, 90 for a vertical one.
func (m *Metrics) PlaneAngle(p geom.Plane3D) float64 {
	return p.AngleToHorizontal()
}

// CalculateSwingMetrics computes the complete metric set for a swing.
// impact may be nil, in which case the final position stands in for it.
func (m *Metrics) CalculateSwingMetrics(
	positions []ShaftPosition,
	p geom.Plane3D,
	impact *ShaftPosition,
	planeShift *float64,
) (SwingMetrics, error) {
	if len(positions) == 0 {
		return SwingMetrics{}, fmt.Errorf("no shaft positions")
	}

	if impact == nil {
		impact = &positions[len(positions)-1]
	}

	attack, err := m.AttackAngle(*impact, p)
	if err != nil {
		return SwingMetrics{}, fmt.Errorf("attack angle: %w", err)
	}
	path, err := m.SwingPath(*impact, nil)
	if err != nil {
		return SwingMetrics{}, fmt.Errorf("swing path: %w", err)
	}

	var maxDev, sumDev float64
	for _, pos := range positions {
		dev := m.OnPlaneDeviation(pos, p)
		sumDev += dev
		if dev > maxDev {
			maxDev = dev
		}
	}

	return SwingMetrics{
		AttackAngle:       attack,
		SwingPath:         path,
		PlaneAngle:        m.PlaneAngle(p),
		PlaneShift:        planeShift,
		MaxDeviation:      maxDev,
		AvgDeviation:      sumDev / float64(len(positions)),
		DeviationAtImpact: m.OnPlaneDeviation(*impact, p),
	}, nil
}

// projectIntoPlane removes the component of v along the plane normal and
// normalizes the remainder. Fails when v is (near) perpendicular to the
// plane.
func projectIntoPlane(v, normal geom.Vector3) (geom.Vector3, error) {
	projected := geom.Vector3{
		X: v.X - v.Dot(normal)*normal.X,
		Y: v.Y - v.Dot(normal)*normal.Y,
		Z: v.Z - v.Dot(normal)*normal.Z,
	}
	return projected.Unit()
}
