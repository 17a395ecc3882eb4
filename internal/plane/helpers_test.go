package plane

import (
	"math"

	"github.com/greggjuri/golf-swing-analyzer/internal/geom"
)

// syntheticSwing generates a plausible swing arc lying exactly in a plane
// tilted by tiltDeg around the x axis. The club sweeps from address up to
// the top of the backswing and back down through impact. Frame numbers
// and timestamps are monotonic.
func syntheticSwing(tiltDeg float64) []ShaftPosition {
	tilt := tiltDeg * math.Pi / 180.0

	// Plane basis: e1 along x, e2 tilted up from the z axis.
	e1 := geom.Vector3{X: 1}
	e2 := geom.Vector3{Y: math.Cos(tilt), Z: math.Sin(tilt)}

	toWorld := func(u, v float64) geom.Point3D {
		return geom.Point3D{
			X: u*e1.X + v*e2.X,
			Y: u*e1.Y + v*e2.Y,
			Z: u*e1.Z + v*e2.Z,
		}
	}

	// Circular arc in plane coordinates: pivot above the ball, tip on a
	// 1.2 unit radius, grip a quarter of the way out.
	const (
		pivotV    = 1.4
		tipRadius = 1.2
	)

	sweep := func(phi float64) (tip, base geom.Point3D) {
		u := tipRadius * math.Sin(phi)
		v := pivotV - tipRadius*math.Cos(phi)
		tip = toWorld(u, v)
		base = toWorld(u*0.25, pivotV-(pivotV-v)*0.25)
		return tip, base
	}

	var positions []ShaftPosition
	frame := 0
	add := func(phi float64) {
		tip, base := sweep(phi)
		positions = append(positions, ShaftPosition{
			FrameNumber: frame,
			BasePoint:   base,
			TipPoint:    tip,
			Timestamp:   float64(frame) / 60.0,
		})
		frame++
	}

	// Backswing: club rises to the top.
	for phi := 0.0; phi <= 150.0; phi += 5.0 {
		add(phi * math.Pi / 180.0)
	}
	// Downswing: back through the ball.
	for phi := 145.0; phi >= -20.0; phi -= 5.0 {
		add(phi * math.Pi / 180.0)
	}

	return positions
}

// swingPlaneNormal returns the exact normal of the plane syntheticSwing
// generates for the given tilt.
func swingPlaneNormal(tiltDeg float64) geom.Vector3 {
	tilt := tiltDeg * math.Pi / 180.0
	// e1 x e2 for e1=(1,0,0), e2=(0, cos t, sin t)
	return geom.Vector3{Y: -math.Sin(tilt), Z: math.Cos(tilt)}
}

// coplanarPositions returns n shaft positions whose midpoints all lie on
// the plane z = 0.
func coplanarPositions(n int) []ShaftPosition {
	positions := make([]ShaftPosition, n)
	for i := range positions {
		u := float64(i)
		// Quadratic y keeps the midpoints from degenerating to a line.
		positions[i] = ShaftPosition{
			FrameNumber: i,
			BasePoint:   geom.Point3D{X: u, Y: 2 + 0.3*u},
			TipPoint:    geom.Point3D{X: u + 0.5, Y: 0.1 * u * u},
			Timestamp:   float64(i) / 60.0,
		}
	}
	return positions
}
