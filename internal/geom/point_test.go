package geom

import (
	"errors"
	"math"
	"testing"
)

func TestAngleBetweenPoints_RightAngle(t *testing.T) {
	// Three points forming a right angle at the vertex (1, 0)
	p1 := Point2D{X: 0, Y: 0}
	vertex := Point2D{X: 1, Y: 0}
	p2 := Point2D{X: 1, Y: 1}

	angle, err := AngleBetweenPoints(p1, vertex, p2)
	if err != nil {
		t.Fatalf("AngleBetweenPoints() error = %v", err)
	}

	if math.Abs(angle-90.0) > 0.01 {
		t.Errorf("expected 90 degrees, got %f", angle)
	}
}

func TestAngleBetweenPoints_Symmetric(t *testing.T) {
	// Swapping the outer points must not change the angle
	cases := []struct {
		name       string
		p1, v, p2  Point2D
	}{
		{"right angle", Point2D{0, 0}, Point2D{1, 0}, Point2D{1, 1}},
		{"acute", Point2D{2, 1}, Point2D{0, 0}, Point2D{1, 3}},
		{"obtuse", Point2D{-3, 0}, Point2D{0, 0}, Point2D{1, 0.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a1, err := AngleBetweenPoints(tc.p1, tc.v, tc.p2)
			if err != nil {
				t.Fatalf("AngleBetweenPoints() error = %v", err)
			}
			a2, err := AngleBetweenPoints(tc.p2, tc.v, tc.p1)
			if err != nil {
				t.Fatalf("AngleBetweenPoints() error = %v", err)
			}

			if math.Abs(a1-a2) > 1e-9 {
				t.Errorf("angle not symmetric: %f != %f", a1, a2)
			}
			if a1 < 0 || a1 > 180 {
				t.Errorf("angle %f outside [0, 180]", a1)
			}
		})
	}
}

func TestAngleBetweenPoints_DuplicatePoint(t *testing.T) {
	v := Point2D{X: 1, Y: 1}

	_, err := AngleBetweenPoints(v, v, Point2D{X: 2, Y: 2})
	if !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestAngleFromHorizontal(t *testing.T) {
	cases := []struct {
		name     string
		start    Point2D
		end      Point2D
		expected float64
	}{
		{"horizontal right", Point2D{0, 0}, Point2D{10, 0}, 0},
		{"vertical down", Point2D{0, 0}, Point2D{0, 10}, 90},
		{"diagonal", Point2D{0, 0}, Point2D{10, 10}, 45},
		{"horizontal left", Point2D{10, 0}, Point2D{0, 0}, 180},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			angle, err := AngleFromHorizontal(tc.start, tc.end)
			if err != nil {
				t.Fatalf("AngleFromHorizontal() error = %v", err)
			}
			if math.Abs(angle-tc.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tc.expected, angle)
			}
		})
	}
}

func TestAngleFromHorizontal_IdenticalPoints(t *testing.T) {
	p := Point2D{X: 5, Y: 5}

	_, err := AngleFromHorizontal(p, p)
	if !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestAngleFromVertical(t *testing.T) {
	// Straight down is 0 in image coordinates
	angle, err := AngleFromVertical(Point2D{0, 0}, Point2D{0, 10})
	if err != nil {
		t.Fatalf("AngleFromVertical() error = %v", err)
	}
	if math.Abs(angle) > 1e-9 {
		t.Errorf("expected 0 for vertical line, got %f", angle)
	}
}

func TestNormalizeAngle180(t *testing.T) {
	cases := []struct {
		in, out float64
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{-45, 45},
		{270, 90},
		{-270, 90},
		{360, 0},
	}

	for _, tc := range cases {
		if got := NormalizeAngle180(tc.in); math.Abs(got-tc.out) > 1e-9 {
			t.Errorf("NormalizeAngle180(%f) = %f, want %f", tc.in, got, tc.out)
		}
	}
}

func TestVector3_Unit(t *testing.T) {
	v := Vector3{X: 3, Y: 4, Z: 0}

	u, err := v.Unit()
	if err != nil {
		t.Fatalf("Unit() error = %v", err)
	}

	if math.Abs(u.Norm()-1.0) > 1e-9 {
		t.Errorf("expected unit length, got %f", u.Norm())
	}

	if _, err := (Vector3{}).Unit(); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput for zero vector, got %v", err)
	}
}

func TestPoint3D_Distance(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 0}
	b := Point3D{X: 1, Y: 2, Z: 2}

	if got := a.Distance(b); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("expected distance 3, got %f", got)
	}
}
