// Package spatialmath holds the triangle geometry that meshes and samplers build on.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Triangle is three points in space with a cached unit normal. The normal follows the right hand
// rule over p0, p1, p2.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle returns a triangle over the three given points.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the triangle's corners in construction order.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal, or the zero vector for a degenerate triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the surface area of the triangle.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the average of the three corners.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// IsDegenerate reports whether the triangle has (almost) no area.
func (t *Triangle) IsDegenerate() bool {
	return t.Area() < floatEpsilon
}

// PointAt maps a point of the unit square onto the triangle. Points with u+v > 1 are folded back
// across the diagonal, so uniformly distributed (u, v) give uniformly distributed surface points.
func (t *Triangle) PointAt(u, v float64) r3.Vector {
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	return t.p0.Add(t.p1.Sub(t.p0).Mul(u)).Add(t.p2.Sub(t.p0).Mul(v))
}

// FromBarycentric returns a*p0 + b*p1 + c*p2.
func (t *Triangle) FromBarycentric(a, b, c float64) r3.Vector {
	return t.p0.Mul(a).Add(t.p1.Mul(b)).Add(t.p2.Mul(c))
}

// Barycentric returns the barycentric weights of the projection of pt onto the triangle's plane.
// The weights always sum to one. ok is false for a degenerate triangle.
func (t *Triangle) Barycentric(pt r3.Vector) (a, b, c float64, ok bool) {
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	d := pt.Sub(t.p0)
	d00 := e0.Dot(e0)
	d01 := e0.Dot(e1)
	d11 := e1.Dot(e1)
	d20 := d.Dot(e0)
	d21 := d.Dot(e1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < floatEpsilon*floatEpsilon {
		return 0, 0, 0, false
	}
	b = (d11*d20 - d01*d21) / denom
	c = (d00*d21 - d01*d20) / denom
	a = 1 - b - c
	return a, b, c, true
}

// Contains reports whether pt lies on the triangle, within tol of its plane and its edges.
func (t *Triangle) Contains(pt r3.Vector, tol float64) bool {
	a, b, c, ok := t.Barycentric(pt)
	if !ok {
		return false
	}
	if a < -tol || b < -tol || c < -tol {
		return false
	}
	return pt.Sub(t.FromBarycentric(a, b, c)).Norm() <= tol
}
