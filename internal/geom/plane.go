package geom

import (
	"errors"
	"math"
)

// Plane fitting errors.
var (
	// ErrInsufficientPoints is returned when too few points are supplied
	// to determine a plane.
	ErrInsufficientPoints = errors.New("insufficient points to fit plane")
	// ErrDegeneratePlane is returned when the supplied points are
	// collinear or otherwise do not span a unique plane.
	ErrDegeneratePlane = errors.New("degenerate point set: points do not span a plane")
)

// Plane3D is a plane in normal form a*x + b*y + c*z + d = 0.
// The normal vector (a, b, c) is unit length; construct planes through
// NewPlane3D to maintain that invariant.
type Plane3D struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
}

// NewPlane3D builds a plane from a normal vector and offset, normalizing the
// normal to unit length. Returns ErrDegenerateInput for a zero normal.
func NewPlane3D(a, b, c, d float64) (Plane3D, error) {
	mag := math.Sqrt(a*a + b*b + c*c)
	if mag < 1e-10 {
		return Plane3D{}, ErrDegenerateInput
	}
	return Plane3D{A: a / mag, B: b / mag, C: c / mag, D: d / mag}, nil
}

// Normal returns the unit normal vector of the plane.
func (p Plane3D) Normal() Vector3 {
	return Vector3{X: p.A, Y: p.B, Z: p.C}
}

// PointDistance returns the signed perpendicular distance from point to the
// plane. Positive means the point lies on the side the normal points toward.
func (p Plane3D) PointDistance(point Point3D) float64 {
	return p.A*point.X + p.B*point.Y + p.C*point.Z + p.D
}

// ProjectPoint returns the closest point on the plane to point.
func (p Plane3D) ProjectPoint(point Point3D) Point3D {
	dist := p.PointDistance(point)
	return point.Add(p.Normal().Scale(-dist))
}

// AngleToHorizontal returns the tilt of the plane relative to horizontal
// ground, in degrees: 0 for a flat plane, 90 for a vertical one. In screen
// coordinates the ground normal points along the y axis.
func (p Plane3D) AngleToHorizontal() float64 {
	groundNormal := Vector3{Y: 1}
	cos := clamp(p.Normal().Dot(groundNormal), -1.0, 1.0)
	return toDegrees(math.Acos(math.Abs(cos)))
}

// IsValid reports whether the plane has a finite unit normal.
func (p Plane3D) IsValid() bool {
	for _, v := range []float64{p.A, p.B, p.C, p.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	mag := math.Sqrt(p.A*p.A + p.B*p.B + p.C*p.C)
	return math.Abs(mag-1.0) < 1e-6
}

// AngleBetweenPlanes returns the dihedral angle between two planes in
// degrees, in [0, 90]. Orientation of the normals does not matter.
func AngleBetweenPlanes(p1, p2 Plane3D) float64 {
	cos := clamp(p1.Normal().Dot(p2.Normal()), -1.0, 1.0)
	return toDegrees(math.Acos(math.Abs(cos)))
}

// PlaneLineIntersection returns the intersection of the plane with the line
// through linePoint along lineDir. The second return value is false when the
// line is parallel to the plane.
func PlaneLineIntersection(plane Plane3D, linePoint Point3D, lineDir Vector3) (Point3D, bool) {
	normal := plane.Normal()
	denom := normal.Dot(lineDir)
	if math.Abs(denom) < 1e-10 {
		return Point3D{}, false
	}
	t := -plane.PointDistance(linePoint) / denom
	return linePoint.Add(lineDir.Scale(t)), true
}
