// Package plane fits 3D swing planes to tracked club shaft positions and
// derives golf-specific metrics: attack angle, swing path, plane tilt, and
// on-plane deviation.
package plane

import (
	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// ShaftPosition is the club shaft in 3D camera space at one frame: a
// segment from the grip (base) to the club head (tip).
type ShaftPosition struct {
	FrameNumber int          `json:"frame_number"`
	BasePoint   geom.Point3D `json:"base_point"`
	TipPoint    geom.Point3D `json:"tip_point"`
	Timestamp   float64      `json:"timestamp"`
}

// Midpoint returns the center of the shaft segment.
func (p ShaftPosition) Midpoint() geom.Point3D {
	return geom.Point3D{
		X: (p.BasePoint.X + p.TipPoint.X) / 2,
		Y: (p.BasePoint.Y + p.TipPoint.Y) / 2,
		Z: (p.BasePoint.Z + p.TipPoint.Z) / 2,
	}
}

// Direction returns the unit vector from base to tip. Returns
// geom.ErrDegenerateInput for a zero-length shaft.
func (p ShaftPosition) Direction() (geom.Vector3, error) {
	return p.TipPoint.Sub(p.BasePoint).Unit()
}

// Length returns the distance from base to tip.
func (p ShaftPosition) Length() float64 {
	return p.BasePoint.Distance(p.TipPoint)
}
