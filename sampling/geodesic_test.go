package sampling

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/rvcg/meshsample/mesh"
)

func TestSurfaceGraphDistance(t *testing.T) {
	m := mesh.NewUnitCube()
	sg := NewSurfaceGraph(m, 10)

	t.Run("same face", func(t *testing.T) {
		p := r3.Vector{X: 0.2, Y: 0.1, Z: 0}
		q := r3.Vector{X: 0.4, Y: 0.3, Z: 0}
		test.That(t, sg.Distance(p, 1, q, 1), test.ShouldAlmostEqual, p.Distance(q))
	})

	t.Run("coplanar faces", func(t *testing.T) {
		// two triangles of the top side, on either side of its diagonal
		p := r3.Vector{X: 0.825, Y: 0.645, Z: 1}
		q := r3.Vector{X: 0.713, Y: 0.785, Z: 1}
		test.That(t, m.Triangle(2).Contains(p, 1e-9), test.ShouldBeTrue)
		test.That(t, m.Triangle(3).Contains(q, 1e-9), test.ShouldBeTrue)
		test.That(t, sg.Distance(p, 2, q, 3), test.ShouldAlmostEqual, p.Distance(q))
	})

	t.Run("opposite faces", func(t *testing.T) {
		bottom := r3.Vector{X: 0.5, Y: 0.5, Z: 0}
		top := r3.Vector{X: 0.5, Y: 0.5, Z: 1}
		test.That(t, sg.Distance(bottom, 0, top, 2), test.ShouldAlmostEqual, 2)
		test.That(t, sg.Distance(top, 2, bottom, 0), test.ShouldAlmostEqual, 2)
	})

	t.Run("vertex distances", func(t *testing.T) {
		shortest := path.DijkstraFrom(simple.Node(0), sg.g)
		test.That(t, shortest.WeightTo(1), test.ShouldAlmostEqual, 1)
		test.That(t, shortest.WeightTo(2), test.ShouldAlmostEqual, math.Sqrt2)
		// straight over two sides once they are unfolded
		test.That(t, shortest.WeightTo(6), test.ShouldAlmostEqual, math.Sqrt(5))
	})

	t.Run("limit", func(t *testing.T) {
		d := NewSurfaceGraph(m, 1).Distance(r3.Vector{X: 0.5, Y: 0.5, Z: 0}, 0, r3.Vector{X: 0.5, Y: 0.5, Z: 1}, 2)
		test.That(t, math.IsInf(d, 1), test.ShouldBeTrue)
	})

	t.Run("disconnected", func(t *testing.T) {
		two, err := mesh.Build(mesh.Buffer{
			Positions: []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 5, Y: 0, Z: 0}, {X: 6, Y: 0, Z: 0}, {X: 5, Y: 1, Z: 0}},
			Triangles: [][3]int{{0, 1, 2}, {3, 4, 5}},
		})
		test.That(t, err, test.ShouldBeNil)
		d := NewSurfaceGraph(two, 10).Distance(r3.Vector{X: 0.1, Y: 0.1, Z: 0}, 0, r3.Vector{X: 5.1, Y: 0.1, Z: 0}, 1)
		test.That(t, math.IsInf(d, 1), test.ShouldBeTrue)
	})
}

func TestSurfaceGraphFold(t *testing.T) {
	// two triangles hinged at a right angle along the x axis
	fold, err := mesh.Build(mesh.Buffer{
		Positions: []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: -1}},
		Triangles: [][3]int{{0, 1, 2}, {0, 3, 1}},
	})
	test.That(t, err, test.ShouldBeNil)
	sg := NewSurfaceGraph(fold, 10)

	p := r3.Vector{X: 0.2, Y: 0.3, Z: 0}
	q := r3.Vector{X: 0.5, Y: 0, Z: -0.3}
	// flattened, q sits at (0.5, -0.3)
	test.That(t, sg.Distance(p, 0, q, 1), test.ShouldAlmostEqual, math.Sqrt(0.45))
	test.That(t, sg.Distance(q, 1, p, 0), test.ShouldAlmostEqual, math.Sqrt(0.45))
	test.That(t, sg.Distance(p, 0, q, 1), test.ShouldBeGreaterThan, p.Distance(q))
}

func TestSurfaceGraphReflexCorner(t *testing.T) {
	// an L of three unit squares; the straight segment between the arms leaves the surface, so the
	// shortest path bends at the inner corner (1, 1)
	l, err := mesh.Build(mesh.Buffer{
		Positions: []r3.Vector{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 2, Y: 1, Z: 0},
			{X: 0, Y: 2, Z: 0}, {X: 1, Y: 2, Z: 0},
		},
		Triangles: [][3]int{
			{0, 1, 4}, {0, 4, 3},
			{1, 2, 5}, {1, 5, 4},
			{3, 4, 7}, {3, 7, 6},
		},
	})
	test.That(t, err, test.ShouldBeNil)
	sg := NewSurfaceGraph(l, 10)

	p := r3.Vector{X: 1.9, Y: 0.5, Z: 0}
	q := r3.Vector{X: 0.5, Y: 1.9, Z: 0}
	test.That(t, l.Triangle(2).Contains(p, 1e-9), test.ShouldBeTrue)
	test.That(t, l.Triangle(5).Contains(q, 1e-9), test.ShouldBeTrue)

	want := 2 * math.Sqrt(1.06)
	test.That(t, sg.Distance(p, 2, q, 5), test.ShouldAlmostEqual, want)
	test.That(t, sg.Distance(q, 5, p, 2), test.ShouldAlmostEqual, want)

	t.Run("field", func(t *testing.T) {
		field := newDistanceField(l, 10)
		field.add(surfacePoint{pos: p, face: 2})
		test.That(t, field.dist[4], test.ShouldAlmostEqual, math.Sqrt(1.06))
		test.That(t, field.nearest(surfacePoint{pos: q, face: 5}), test.ShouldAlmostEqual, want)
	})
}

func TestDistanceField(t *testing.T) {
	m := mesh.NewUnitCube()
	bottom := surfacePoint{pos: r3.Vector{X: 0.5, Y: 0.5, Z: 0}, face: 0}
	top := surfacePoint{pos: r3.Vector{X: 0.5, Y: 0.5, Z: 1}, face: 2}

	field := newDistanceField(m, 10)
	field.add(bottom)
	test.That(t, field.dist[0], test.ShouldAlmostEqual, math.Sqrt(0.5))
	// unfolded over a side, (0, 0, 1) is 0.5 and 1.5 away along the two axes
	test.That(t, field.dist[4], test.ShouldAlmostEqual, math.Sqrt(2.5))
	test.That(t, field.dist[6], test.ShouldAlmostEqual, math.Sqrt(2.5))
	test.That(t, field.nearest(top), test.ShouldAlmostEqual, 2)
	test.That(t, field.nearest(top), test.ShouldAlmostEqual, field.sg.Distance(bottom.pos, bottom.face, top.pos, top.face))

	t.Run("across a diagonal", func(t *testing.T) {
		near := newDistanceField(m, 0.5)
		near.add(surfacePoint{pos: r3.Vector{X: 0.825, Y: 0.645, Z: 1}, face: 2})
		q := r3.Vector{X: 0.713, Y: 0.785, Z: 1}
		test.That(t, near.nearest(surfacePoint{pos: q, face: 3}), test.ShouldAlmostEqual, q.Distance(r3.Vector{X: 0.825, Y: 0.645, Z: 1}))
	})

	t.Run("bounded", func(t *testing.T) {
		near := newDistanceField(m, 1)
		near.add(bottom)
		test.That(t, near.dist[0], test.ShouldAlmostEqual, math.Sqrt(0.5))
		test.That(t, math.IsInf(near.dist[4], 1), test.ShouldBeTrue)
		test.That(t, near.nearest(top) >= 1, test.ShouldBeTrue)
	})

	t.Run("closest source wins", func(t *testing.T) {
		both := newDistanceField(m, 10)
		both.add(bottom)
		both.add(surfacePoint{pos: r3.Vector{X: 1, Y: 1, Z: 1}, face: 2})
		test.That(t, both.dist[6], test.ShouldAlmostEqual, 0)
		test.That(t, both.dist[0], test.ShouldAlmostEqual, math.Sqrt(0.5))
	})

	t.Run("degenerate faces", func(t *testing.T) {
		sliver, err := mesh.Build(mesh.Buffer{
			Positions: []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 2, Y: 0, Z: 0}},
			Triangles: [][3]int{{0, 1, 2}, {0, 1, 3}},
		})
		test.That(t, err, test.ShouldBeNil)
		f := newDistanceField(sliver, 1)
		test.That(t, f.measurable(0), test.ShouldBeTrue)
		test.That(t, f.measurable(1), test.ShouldBeFalse)
	})
}

func TestWindowClip(t *testing.T) {
	w := window{s: r2.Point{X: 0, Y: 0}, lo: r2.Point{X: 1, Y: -1}, hi: r2.Point{X: 1, Y: 1}}
	test.That(t, w.sees(r2.Point{X: 2, Y: 0}), test.ShouldBeTrue)
	test.That(t, w.sees(r2.Point{X: 2, Y: 1.9}), test.ShouldBeTrue)
	test.That(t, w.sees(r2.Point{X: 2, Y: 2.1}), test.ShouldBeFalse)
	test.That(t, w.dist(), test.ShouldAlmostEqual, 1)

	// the wedge covers y in [-2, 2] at x = 2
	clipped, ok := w.clip(r2.Point{X: 2, Y: -3}, r2.Point{X: 2, Y: 3})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, clipped.lo.Y, test.ShouldAlmostEqual, -2)
	test.That(t, clipped.hi.Y, test.ShouldAlmostEqual, 2)

	_, ok = w.clip(r2.Point{X: 2, Y: 3}, r2.Point{X: 2, Y: 5})
	test.That(t, ok, test.ShouldBeFalse)
}
