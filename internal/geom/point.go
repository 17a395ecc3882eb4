// Package geom provides the 2D and 3D geometry primitives used by swing
// analysis: points, angle calculations, planes, and best-fit plane estimation.
package geom

import (
	"errors"
	"math"
)

// ErrDegenerateInput is returned when an angle or direction calculation
// receives coincident points or a zero-length vector.
var ErrDegenerateInput = errors.New("degenerate input: zero-length vector")

// Point2D is a point in pixel space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3D is a point in camera-world space.
//
// Coordinates follow a y-up convention: X grows rightward, Y grows
// upward, Z grows down the target line away from the camera. Pixel-space
// detections are lifted into this frame by inverting the screen y axis.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector3 is a 3D direction. It shares the coordinate convention of Point3D.
type Vector3 struct {
	X, Y, Z float64
}

// Distance returns the Euclidean distance to other.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance returns the Euclidean distance to other.
func (p Point3D) Distance(other Point3D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Sub returns the vector from other to p.
func (p Point3D) Sub(other Point3D) Vector3 {
	return Vector3{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Add returns p translated by v.
func (p Point3D) Add(v Vector3) Point3D {
	return Point3D{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Norm returns the length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product with other.
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product v x other.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Scale returns v multiplied by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Unit returns v normalized to unit length.
// Returns ErrDegenerateInput if v has (near) zero length.
func (v Vector3) Unit() (Vector3, error) {
	n := v.Norm()
	if n < 1e-10 {
		return Vector3{}, ErrDegenerateInput
	}
	return Vector3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}, nil
}

// AngleBetweenVectors returns the angle between two 3D vectors in degrees,
// in the range [0, 180]. Returns ErrDegenerateInput if either vector has
// zero length.
func AngleBetweenVectors(v1, v2 Vector3) (float64, error) {
	u1, err := v1.Unit()
	if err != nil {
		return 0, err
	}
	u2, err := v2.Unit()
	if err != nil {
		return 0, err
	}

	dot := clamp(u1.Dot(u2), -1.0, 1.0)
	return toDegrees(math.Acos(dot)), nil
}

// AngleBetweenPoints returns the angle formed at the vertex by the two outer
// points, in degrees in [0, 180]. The result is symmetric in p1 and p2.
// Returns ErrDegenerateInput if either outer point coincides with the vertex.
func AngleBetweenPoints(p1, vertex, p2 Point2D) (float64, error) {
	v1 := Vector3{X: p1.X - vertex.X, Y: p1.Y - vertex.Y}
	v2 := Vector3{X: p2.X - vertex.X, Y: p2.Y - vertex.Y}
	return AngleBetweenVectors(v1, v2)
}

// AngleFromHorizontal returns the signed angle of the line from start to end
// relative to the horizontal axis, in degrees in (-180, 180].
// Returns ErrDegenerateInput if the points coincide.
func AngleFromHorizontal(start, end Point2D) (float64, error) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if dx == 0 && dy == 0 {
		return 0, ErrDegenerateInput
	}
	return toDegrees(math.Atan2(dy, dx)), nil
}

// AngleFromVertical returns the signed angle of the line from start to end
// relative to the downward vertical, in degrees. In image coordinates y
// grows downward, so a line pointing straight down returns 0.
func AngleFromVertical(start, end Point2D) (float64, error) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if dx == 0 && dy == 0 {
		return 0, ErrDegenerateInput
	}
	return toDegrees(math.Atan2(dx, dy)), nil
}

// NormalizeAngle180 normalizes an angle in degrees to [0, 180].
// Useful for undirected line orientations where a and a+180 are equivalent.
func NormalizeAngle180(angle float64) float64 {
	a := math.Mod(math.Abs(angle), 360.0)
	if a > 180.0 {
		a = 360.0 - a
	}
	return a
}

// NormalizeAngle360 normalizes an angle in degrees to [0, 360).
func NormalizeAngle360(angle float64) float64 {
	a := math.Mod(angle, 360.0)
	if a < 0 {
		a += 360.0
	}
	return a
}

func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
