package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitPlane fits a least-squares plane to the given points, minimizing
// perpendicular distance. All points receive equal weight.
//
// Returns ErrInsufficientPoints for fewer than 3 points and
// ErrDegeneratePlane when the points are collinear or coincident.
func FitPlane(points []Point3D) (Plane3D, error) {
	weights := make([]float64, len(points))
	for i := range weights {
		weights[i] = 1.0
	}
	return FitPlaneWeighted(points, weights)
}

// FitPlaneWeighted fits a weighted least-squares plane. Points with higher
// weights pull the plane more strongly toward themselves.
//
// The fit centers the points on the weighted centroid, forms the weighted
// scatter matrix, and takes the eigenvector of its smallest eigenvalue as
// the plane normal (the direction of least variance).
func FitPlaneWeighted(points []Point3D, weights []float64) (Plane3D, error) {
	if len(points) != len(weights) {
		return Plane3D{}, fmt.Errorf("points and weights length mismatch: %d != %d", len(points), len(weights))
	}
	if len(points) < 3 {
		return Plane3D{}, fmt.Errorf("%w: got %d, need at least 3", ErrInsufficientPoints, len(points))
	}

	var weightSum float64
	for _, w := range weights {
		if w < 0 {
			return Plane3D{}, fmt.Errorf("negative weight %f", w)
		}
		weightSum += w
	}
	if weightSum < 1e-10 {
		return Plane3D{}, fmt.Errorf("total weight must be positive, got %f", weightSum)
	}

	// Weighted centroid.
	var cx, cy, cz float64
	for i, p := range points {
		w := weights[i] / weightSum
		cx += w * p.X
		cy += w * p.Y
		cz += w * p.Z
	}
	centroid := Point3D{X: cx, Y: cy, Z: cz}

	// Weighted scatter matrix of centered points.
	var sxx, sxy, sxz, syy, syz, szz float64
	for i, p := range points {
		w := weights[i] / weightSum
		dx := p.X - centroid.X
		dy := p.Y - centroid.Y
		dz := p.Z - centroid.Z
		sxx += w * dx * dx
		sxy += w * dx * dy
		sxz += w * dx * dz
		syy += w * dy * dy
		syz += w * dy * dz
		szz += w * dz * dz
	}

	scatter := mat.NewSymDense(3, []float64{
		sxx, sxy, sxz,
		sxy, syy, syz,
		sxz, syz, szz,
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(scatter, true); !ok {
		return Plane3D{}, ErrDegeneratePlane
	}

	// Eigenvalues in ascending order. The smallest is the out-of-plane
	// variance; the middle one is zero only when the points are collinear
	// or coincident, i.e. no unique plane exists.
	vals := eig.Values(nil)
	scale := math.Max(vals[2], 1e-12)
	if vals[1] < 1e-9*scale || vals[2] < 1e-12 {
		return Plane3D{}, ErrDegeneratePlane
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	a := vecs.At(0, 0)
	b := vecs.At(1, 0)
	c := vecs.At(2, 0)
	d := -(a*centroid.X + b*centroid.Y + c*centroid.Z)

	plane, err := NewPlane3D(a, b, c, d)
	if err != nil {
		return Plane3D{}, ErrDegeneratePlane
	}
	if !plane.IsValid() {
		return Plane3D{}, ErrDegeneratePlane
	}
	return plane, nil
}
