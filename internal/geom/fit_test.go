package geom

import (
	"errors"
	"math"
	"testing"
)

func TestFitPlane_CoplanarPoints(t *testing.T) {
	// 12 points scattered on the plane z = 0
	points := []Point3D{
		{X: 0.3, Y: 1.7}, {X: 4.1, Y: 2.2}, {X: -2.5, Y: 0.9},
		{X: 1.1, Y: -3.3}, {X: 5.7, Y: 4.0}, {X: -1.2, Y: -2.8},
		{X: 2.9, Y: 0.1}, {X: -4.4, Y: 3.6}, {X: 0.0, Y: 5.2},
		{X: 3.3, Y: -1.9}, {X: -0.7, Y: 2.4}, {X: 1.8, Y: -4.1},
	}

	plane, err := FitPlane(points)
	if err != nil {
		t.Fatalf("FitPlane() error = %v", err)
	}

	// Normal must be (0, 0, ±1) and d must be 0
	if math.Abs(math.Abs(plane.C)-1.0) > 1e-6 {
		t.Errorf("expected |c| = 1, got %f", plane.C)
	}
	if math.Abs(plane.A) > 1e-6 || math.Abs(plane.B) > 1e-6 {
		t.Errorf("expected a = b = 0, got a=%f b=%f", plane.A, plane.B)
	}
	if math.Abs(plane.D) > 1e-6 {
		t.Errorf("expected d = 0, got %f", plane.D)
	}

	// Already-coplanar points must sit on the fitted plane
	for _, p := range points {
		if dist := math.Abs(plane.PointDistance(p)); dist > 1e-9 {
			t.Errorf("point %+v has distance %g from its own plane", p, dist)
		}
	}
}

func TestFitPlane_UnitNormal(t *testing.T) {
	points := []Point3D{
		{X: 1, Y: 0, Z: 0.1}, {X: 0, Y: 1, Z: -0.1}, {X: -1, Y: 0, Z: 0.05},
		{X: 0, Y: -1, Z: -0.05}, {X: 1, Y: 1, Z: 0.02}, {X: -1, Y: -1, Z: 0.0},
	}

	plane, err := FitPlane(points)
	if err != nil {
		t.Fatalf("FitPlane() error = %v", err)
	}

	if math.Abs(plane.Normal().Norm()-1.0) > 1e-6 {
		t.Errorf("expected unit normal, got length %f", plane.Normal().Norm())
	}
}

func TestFitPlane_TooFewPoints(t *testing.T) {
	points := []Point3D{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}}

	_, err := FitPlane(points)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestFitPlane_CollinearPoints(t *testing.T) {
	// All points on the line x = y = z
	var points []Point3D
	for i := 0; i < 12; i++ {
		v := float64(i)
		points = append(points, Point3D{X: v, Y: v, Z: v})
	}

	plane, err := FitPlane(points)
	if !errors.Is(err, ErrDegeneratePlane) {
		t.Fatalf("expected ErrDegeneratePlane, got %v (plane %+v)", err, plane)
	}

	// Never leak a garbage normal
	for _, v := range []float64{plane.A, plane.B, plane.C, plane.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("degenerate fit leaked non-finite component %f", v)
		}
	}
}

func TestFitPlane_CoincidentPoints(t *testing.T) {
	points := make([]Point3D, 10)
	for i := range points {
		points[i] = Point3D{X: 1, Y: 2, Z: 3}
	}

	if _, err := FitPlane(points); !errors.Is(err, ErrDegeneratePlane) {
		t.Errorf("expected ErrDegeneratePlane, got %v", err)
	}
}

func TestFitPlaneWeighted_BiasesTowardHeavyPoints(t *testing.T) {
	// Mostly points on z = 0, plus outliers at z = 5. Weighting the
	// outliers at zero must recover the z = 0 plane exactly.
	points := []Point3D{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 0}, {X: 2, Y: 1, Z: 0}, {X: 1, Y: 2, Z: 0},
		{X: 3, Y: 0, Z: 5}, {X: 0, Y: 3, Z: 5},
	}
	weights := []float64{1, 1, 1, 1, 1, 1, 0, 0}

	plane, err := FitPlaneWeighted(points, weights)
	if err != nil {
		t.Fatalf("FitPlaneWeighted() error = %v", err)
	}

	if math.Abs(math.Abs(plane.C)-1.0) > 1e-6 || math.Abs(plane.D) > 1e-6 {
		t.Errorf("expected plane z=0, got %+v", plane)
	}
}

func TestFitPlaneWeighted_LengthMismatch(t *testing.T) {
	points := []Point3D{{X: 0}, {X: 1}, {X: 2}}
	weights := []float64{1, 1}

	if _, err := FitPlaneWeighted(points, weights); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestFitPlaneWeighted_ZeroTotalWeight(t *testing.T) {
	points := []Point3D{{X: 0}, {X: 1, Y: 1}, {X: 2, Y: 0, Z: 1}}
	weights := []float64{0, 0, 0}

	if _, err := FitPlaneWeighted(points, weights); err == nil {
		t.Error("expected error for zero total weight")
	}
}
