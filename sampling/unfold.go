package sampling

import (
	"math"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/rvcg/meshsample/mesh"
	"github.com/rvcg/meshsample/spatialmath"
)

const (
	// maxUnfoldDepth bounds the number of faces one straight surface path may cross.
	maxUnfoldDepth = 512
	unfoldEpsilon  = 1e-9
)

// An unfolder lays chains of faces flat into the plane of a starting face, so that straight
// paths over the surface become straight segments.
type unfolder struct {
	m         *mesh.Mesh
	triangles []*spatialmath.Triangle // nil for deleted and degenerate faces
	adj       [][3][]int
	incident  [][]int
}

func newUnfolder(m *mesh.Mesh) *unfolder {
	triangles := make([]*spatialmath.Triangle, len(m.Faces))
	for _, i := range m.LiveFaces() {
		if tri := m.Triangle(i); tri.Normal() != (r3.Vector{}) {
			triangles[i] = tri
		}
	}
	return &unfolder{m: m, triangles: triangles, adj: m.FaceAdjacency(), incident: m.VertexFaces()}
}

// flat reports whether face can be laid flat, i.e. it is live and not degenerate.
func (u *unfolder) flat(face int) bool {
	return u.triangles[face] != nil
}

// A window is the part of a face edge through which straight paths from s continue. An open
// window belongs to a face s lies on, which is then visible as a whole.
type window struct {
	s      r2.Point
	lo, hi r2.Point
	open   bool
}

func (w window) orientation() float64 {
	return math.Copysign(1, w.lo.Sub(w.s).Cross(w.hi.Sub(w.s)))
}

// sees reports whether the segment from s to t passes through the window. t must lie on the far
// side of the window's edge.
func (w window) sees(t r2.Point) bool {
	if w.open {
		return true
	}
	o := w.orientation()
	d := t.Sub(w.s)
	left, right := w.lo.Sub(w.s), w.hi.Sub(w.s)
	return o*left.Cross(d) >= -unfoldEpsilon*left.Norm()*d.Norm() &&
		o*d.Cross(right) >= -unfoldEpsilon*right.Norm()*d.Norm()
}

// clip narrows the window onto the segment from a to b.
func (w window) clip(a, b r2.Point) (window, bool) {
	o := w.orientation()
	left, right := w.lo.Sub(w.s), w.hi.Sub(w.s)
	bounds := [2]func(p r2.Point) float64{
		func(p r2.Point) float64 { return o * left.Cross(p.Sub(w.s)) },
		func(p r2.Point) float64 { return o * p.Sub(w.s).Cross(right) },
	}

	lo, hi := 0., 1.
	for _, g := range bounds {
		g0, g1 := g(a), g(b)
		switch {
		case g0 < 0 && g1 < 0:
			return window{}, false
		case g0 >= 0 && g1 >= 0:
		case g0 < 0:
			lo = math.Max(lo, g0/(g0-g1))
		default:
			hi = math.Min(hi, g0/(g0-g1))
		}
	}
	if hi-lo < unfoldEpsilon {
		return window{}, false
	}

	ab := b.Sub(a)
	clipped := window{s: w.s, lo: a.Add(ab.Mul(lo)), hi: a.Add(ab.Mul(hi))}
	l, r := clipped.lo.Sub(w.s), clipped.hi.Sub(w.s)
	if math.Abs(l.Cross(r)) <= unfoldEpsilon*l.Norm()*r.Norm() {
		return window{}, false
	}
	return clipped, true
}

// dist returns the distance from s to the closest point of the window.
func (w window) dist() float64 {
	if w.open {
		return 0
	}
	return segmentDistance(w.s, w.lo, w.hi)
}

func segmentDistance(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Norm()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Mul(t))).Norm()
}

// visitFunc receives every face a walk reaches, with the face's corners laid flat in V order and
// the window the straight paths came through.
type visitFunc func(face int, corners [3]r2.Point, w window)

// walk calls visit for every face that a straight surface path shorter than limit reaches from
// p, lying on face. Faces may be reached more than once through different windows. It reports
// false when p is on no face that can be laid flat.
func (u *unfolder) walk(p r3.Vector, face int, limit float64, visit visitFunc) bool {
	sources := u.sourceFaces(p, face)
	for _, f := range sources {
		corners, s := u.layout(f, p)
		visit(f, corners, window{s: s, open: true})
		for c := 0; c < 3; c++ {
			a, b := corners[c], corners[(c+1)%3]
			w := window{s: s, lo: a, hi: b}
			// paths into the face behind an edge through p start from that face instead
			if math.Abs(b.Sub(a).Cross(s.Sub(a))) < unfoldEpsilon*b.Sub(a).Norm() || w.dist() >= limit {
				continue
			}
			u.cross(f, c, corners, w, limit, []int{f}, visit)
		}
	}
	return len(sources) > 0
}

func (u *unfolder) cross(f, c int, corners [3]r2.Point, w window, limit float64, chain []int, visit visitFunc) {
	if len(chain) >= maxUnfoldDepth {
		return
	}
	fv := u.m.Faces[f].V
	va, vb := fv[c], fv[(c+1)%3]
	for _, g := range u.adj[f][c] {
		if slices.Contains(chain, g) {
			continue
		}
		flat, ok := u.unfoldAcross(g, va, vb, corners[c], corners[(c+1)%3], corners[(c+2)%3])
		if !ok {
			continue
		}
		visit(g, flat, w)

		next := append(chain[:len(chain):len(chain)], g)
		gv := u.m.Faces[g].V
		for k := 0; k < 3; k++ {
			a, b := gv[k], gv[(k+1)%3]
			if (a == va && b == vb) || (a == vb && b == va) {
				continue
			}
			clipped, ok := w.clip(flat[k], flat[(k+1)%3])
			if !ok || clipped.dist() >= limit {
				continue
			}
			u.cross(g, k, flat, clipped, limit, next, visit)
		}
	}
}

// sourceFaces returns the flat faces p lies on, starting with face itself. A point on an edge or
// a corner lies on every face around it.
func (u *unfolder) sourceFaces(p r3.Vector, face int) []int {
	var sources []int
	if u.flat(face) {
		sources = append(sources, face)
	}
	for _, v := range u.m.Faces[face].V {
		for _, g := range u.incident[v] {
			if g == face || !u.flat(g) || slices.Contains(sources, g) {
				continue
			}
			if u.triangles[g].Contains(p, unfoldEpsilon) {
				sources = append(sources, g)
			}
		}
	}
	return sources
}

// layout lays face f flat with corner 0 at the origin and corner 1 on the positive x axis, and
// returns its corners together with p projected into the same plane.
func (u *unfolder) layout(f int, p r3.Vector) ([3]r2.Point, r2.Point) {
	tri := u.triangles[f]
	pts := tri.Points()
	x := pts[1].Sub(pts[0]).Normalize()
	y := tri.Normal().Cross(x)
	project := func(q r3.Vector) r2.Point {
		d := q.Sub(pts[0])
		return r2.Point{X: d.Dot(x), Y: d.Dot(y)}
	}
	return [3]r2.Point{project(pts[0]), project(pts[1]), project(pts[2])}, project(p)
}

// unfoldAcross lays face g flat next to the edge from vertex va to vb, whose flat positions are
// pa and pb, on the side of the edge away from the point away.
func (u *unfolder) unfoldAcross(g, va, vb int, pa, pb, away r2.Point) ([3]r2.Point, bool) {
	var corners [3]r2.Point
	if !u.flat(g) {
		return corners, false
	}
	gv := u.m.Faces[g].V
	apex := slices.IndexFunc(gv[:], func(v int) bool { return v != va && v != vb })
	if apex < 0 {
		return corners, false
	}

	a := u.m.Vertices[va].Position
	ab := u.m.Vertices[vb].Position.Sub(a)
	ac := u.m.Vertices[gv[apex]].Position.Sub(a)
	t := ac.Dot(ab) / ab.Norm2()
	h := ac.Sub(ab.Mul(t)).Norm()

	foot := pa.Add(pb.Sub(pa).Mul(t))
	side := pb.Sub(pa).Ortho().Normalize()
	if side.Dot(away.Sub(foot)) > 0 {
		side = side.Mul(-1)
	}
	for c, v := range gv {
		switch {
		case c == apex:
			corners[c] = foot.Add(side.Mul(h))
		case v == va:
			corners[c] = pa
		default:
			corners[c] = pb
		}
	}
	return corners, true
}

// place returns the flat position of p, lying on face, given the face's flat corners.
func (u *unfolder) place(p r3.Vector, face int, corners [3]r2.Point) r2.Point {
	a, b, c, _ := u.triangles[face].Barycentric(p)
	return corners[0].Mul(a).Add(corners[1].Mul(b)).Add(corners[2].Mul(c))
}
