package mesh

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/rvcg/meshsample/spatialmath"
)

func TestBufferFromFlat(t *testing.T) {
	buf, err := BufferFromFlat([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, []int{0, 1, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf.Positions, test.ShouldResemble, []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}})
	test.That(t, buf.Triangles, test.ShouldResemble, [][3]int{{0, 1, 2}})

	vb, it := buf.Flat()
	test.That(t, vb, test.ShouldResemble, []float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	test.That(t, it, test.ShouldResemble, []int{0, 1, 2})

	_, err = BufferFromFlat([]float64{0, 0, 0, 1}, nil)
	test.That(t, IsBuildError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "multiple of 3")

	_, err = BufferFromFlat([]float64{0, 0, 0}, []int{0, 0})
	test.That(t, IsBuildError(err), test.ShouldBeTrue)

	buf, err = BufferFromFlat(nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf.Positions, test.ShouldHaveLength, 0)
	test.That(t, buf.Triangles, test.ShouldHaveLength, 0)
}

func TestBuild(t *testing.T) {
	t.Run("cube", func(t *testing.T) {
		m, err := Build(NewUnitCubeBuffer())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.VertexCount(), test.ShouldEqual, 8)
		test.That(t, m.FaceCount(), test.ShouldEqual, 12)
		test.That(t, m.Area(), test.ShouldAlmostEqual, 6)
		test.That(t, m.Attributes(), test.ShouldEqual, Attributes(0))
		test.That(t, m.Buffer(), test.ShouldResemble, NewUnitCubeBuffer())
	})

	t.Run("attributes", func(t *testing.T) {
		m, err := Build(NewUnitCubeBuffer(), WithAttributes(AttrColor), WithAttributes(AttrTexCoord))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.HasAttributes(AttrColor|AttrTexCoord), test.ShouldBeTrue)
		test.That(t, m.HasAttributes(AttrNormal), test.ShouldBeFalse)
	})

	t.Run("index out of range", func(t *testing.T) {
		buf := NewUnitCubeBuffer()
		buf.Triangles[3] = [3]int{4, 6, 8}
		_, err := Build(buf)
		test.That(t, IsBuildError(err), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "face 3")
		test.That(t, err.Error(), test.ShouldContainSubstring, "index 8")
	})

	t.Run("negative index", func(t *testing.T) {
		buf := NewUnitCubeBuffer()
		buf.Triangles[0] = [3]int{-1, 2, 1}
		_, err := Build(buf)
		test.That(t, IsBuildError(err), test.ShouldBeTrue)
	})

	t.Run("non-finite coordinate", func(t *testing.T) {
		buf := NewUnitCubeBuffer()
		buf.Positions[5] = r3.Vector{X: 1, Y: math.NaN(), Z: 1}
		_, err := Build(buf)
		test.That(t, IsBuildError(err), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "vertex 5")

		buf = NewUnitCubeBuffer()
		buf.Positions[0] = r3.Vector{X: math.Inf(1), Y: 0, Z: 0}
		_, err = Build(buf)
		test.That(t, IsBuildError(err), test.ShouldBeTrue)
	})

	t.Run("caller buffer untouched", func(t *testing.T) {
		buf := NewUnitCubeBuffer()
		m, err := Build(buf)
		test.That(t, err, test.ShouldBeNil)
		m.Vertices[0].Position = r3.Vector{X: 9, Y: 9, Z: 9}
		m.Faces[0].V[0] = 7
		test.That(t, buf, test.ShouldResemble, NewUnitCubeBuffer())
	})

	t.Run("flat", func(t *testing.T) {
		m, err := BuildFromFlat([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, []int{0, 1, 3})
		test.That(t, m, test.ShouldBeNil)
		test.That(t, IsBuildError(err), test.ShouldBeTrue)
	})
}

func TestClean(t *testing.T) {
	buf := NewUnitCubeBuffer()
	// vertex 8 duplicates vertex 0, vertex 9 is never used
	buf.Positions = append(buf.Positions, r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 5, Y: 5, Z: 5})
	buf.Triangles[4] = [3]int{8, 1, 5}
	// same corners as face 1, opposite winding
	buf.Triangles = append(buf.Triangles, [3]int{1, 2, 0})

	m, err := Build(buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.VertexCount(), test.ShouldEqual, 10)
	test.That(t, m.FaceCount(), test.ShouldEqual, 13)

	report := m.Clean()
	test.That(t, report, test.ShouldResemble, CleanReport{
		DuplicateVertices:    1,
		DuplicateFaces:       1,
		UnreferencedVertices: 1,
	})
	test.That(t, report.Any(), test.ShouldBeTrue)
	test.That(t, m.Buffer(), test.ShouldResemble, NewUnitCubeBuffer())
	test.That(t, len(m.Vertices), test.ShouldEqual, 8)
	test.That(t, len(m.Faces), test.ShouldEqual, 12)

	// a second pass finds nothing
	test.That(t, m.Clean().Any(), test.ShouldBeFalse)
}

func TestCleanPointCloud(t *testing.T) {
	m, err := Build(Buffer{Positions: []r3.Vector{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 1, Y: 2, Z: 3}}})
	test.That(t, err, test.ShouldBeNil)

	report := m.Clean()
	test.That(t, report, test.ShouldResemble, CleanReport{DuplicateVertices: 1})
	test.That(t, len(m.Vertices), test.ShouldEqual, 2)
	test.That(t, m.Vertices[0].Position, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, m.Vertices[1].Position, test.ShouldResemble, r3.Vector{X: 4, Y: 5, Z: 6})
}

func TestCompact(t *testing.T) {
	m := NewUnitCube()
	m.Faces[0].deleted = true
	m.Vertices[2].deleted = true
	m.Faces[1].deleted = true
	m.Faces[6].deleted = true
	m.Faces[7].deleted = true
	m.Faces[10].deleted = true
	test.That(t, m.VertexCount(), test.ShouldEqual, 7)
	test.That(t, m.FaceCount(), test.ShouldEqual, 7)
	test.That(t, m.LiveFaces(), test.ShouldResemble, []int{2, 3, 4, 5, 8, 9, 11})

	remap := m.Compact()
	test.That(t, remap, test.ShouldResemble, []int{0, 1, -1, 2, 3, 4, 5, 6})
	test.That(t, len(m.Vertices), test.ShouldEqual, 7)
	test.That(t, len(m.Faces), test.ShouldEqual, 7)
	test.That(t, m.Faces[0].V, test.ShouldResemble, [3]int{3, 4, 5})
	test.That(t, m.Faces[6].V, test.ShouldResemble, [3]int{1, 5, 4})
	for _, f := range m.Faces {
		test.That(t, f.IsDeleted(), test.ShouldBeFalse)
	}
}

func TestUpdateVertexNormals(t *testing.T) {
	m := NewUnitCube()
	test.That(t, m.UpdateVertexNormals(), test.ShouldBeTrue)
	test.That(t, m.HasAttributes(AttrNormal), test.ShouldBeTrue)

	s := 1 / math.Sqrt(3)
	test.That(t, spatialmath.R3VectorAlmostEqual(m.Vertices[0].Normal, r3.Vector{X: -s, Y: -s, Z: -s}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.R3VectorAlmostEqual(m.Vertices[6].Normal, r3.Vector{X: s, Y: s, Z: s}, 1e-12), test.ShouldBeTrue)
	for _, v := range m.Vertices {
		test.That(t, v.Normal.Norm(), test.ShouldAlmostEqual, 1)
	}

	cloud, err := Build(Buffer{Positions: []r3.Vector{{X: 1, Y: 2, Z: 3}}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cloud.UpdateVertexNormals(), test.ShouldBeFalse)
	test.That(t, cloud.HasAttributes(AttrNormal), test.ShouldBeFalse)
}

func TestEdges(t *testing.T) {
	m := NewUnitCube()
	edges := m.Edges()
	// 12 cube edges plus one diagonal per side
	test.That(t, edges, test.ShouldHaveLength, 18)
	test.That(t, edges[0], test.ShouldResemble, Edge{V: [2]int{0, 1}})
	for _, e := range edges {
		test.That(t, e.V[0], test.ShouldBeLessThan, e.V[1])
		l := m.Length(e)
		isSide := math.Abs(l-1) < 1e-12
		isDiagonal := math.Abs(l-math.Sqrt2) < 1e-12
		test.That(t, isSide || isDiagonal, test.ShouldBeTrue)
	}
}

func TestFaceAdjacency(t *testing.T) {
	m := NewUnitCube()
	adj := m.FaceAdjacency()
	test.That(t, adj, test.ShouldHaveLength, 12)
	for i, edges := range adj {
		for c, neighbors := range edges {
			// closed manifold: every edge has exactly one other face
			test.That(t, neighbors, test.ShouldHaveLength, 1)
			j := neighbors[0]
			test.That(t, j, test.ShouldNotEqual, i)
			a, b := m.Faces[i].V[c], m.Faces[i].V[(c+1)%3]
			test.That(t, m.Faces[j].V[:], test.ShouldContain, a)
			test.That(t, m.Faces[j].V[:], test.ShouldContain, b)
		}
	}
	// the bottom diagonal {0,2} joins the two bottom triangles
	test.That(t, adj[0][2], test.ShouldResemble, []int{1})

	t.Run("boundary and deleted faces", func(t *testing.T) {
		strip, err := Build(Buffer{
			Positions: []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}},
			Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 2, 3}},
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, strip.RemoveDuplicateFaces(), test.ShouldEqual, 1)
		adj := strip.FaceAdjacency()
		test.That(t, adj[0][0], test.ShouldBeEmpty)
		test.That(t, adj[0][2], test.ShouldResemble, []int{1})
		test.That(t, adj[1][0], test.ShouldResemble, []int{0})
		test.That(t, adj[2][0], test.ShouldBeEmpty)
	})
}

func TestVertexFaces(t *testing.T) {
	m := NewUnitCube()
	incident := m.VertexFaces()
	test.That(t, incident[0], test.ShouldResemble, []int{0, 1, 4, 5, 8, 9})
	test.That(t, incident[1], test.ShouldHaveLength, 4)
}
