package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

const floatEpsilon = 1e-9

// PlaneNormal returns the unit normal of the plane through three points, or the zero vector if
// the points are collinear.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Norm() < floatEpsilon {
		return r3.Vector{}
	}
	return n.Normalize()
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise
// differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// IsFinite reports whether every component of v is neither NaN nor infinite.
func IsFinite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
