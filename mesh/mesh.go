// Package mesh holds the indexed triangle mesh that import, normal computation, clean up and
// surface sampling all operate on.
package mesh

import (
	"image/color"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"github.com/rvcg/meshsample/spatialmath"
)

// Attributes selects the optional per-vertex data a mesh carries.
type Attributes uint8

// The optional vertex attributes.
const (
	AttrNormal Attributes = 1 << iota
	AttrColor
	AttrTexCoord
)

// Has reports whether every attribute in other is also set in a.
func (a Attributes) Has(other Attributes) bool {
	return a&other == other
}

// Vertex is a mesh vertex. Normal, Color and TexCoord are only meaningful when the owning mesh
// carries the matching attribute.
type Vertex struct {
	Position r3.Vector
	Normal   r3.Vector
	Color    color.NRGBA
	TexCoord r2.Point

	deleted bool
}

// IsDeleted reports whether the vertex was removed and is waiting for Compact.
func (v *Vertex) IsDeleted() bool {
	return v.deleted
}

// Face is a triangle over three vertex IDs.
type Face struct {
	V [3]int

	deleted bool
}

// IsDeleted reports whether the face was removed and is waiting for Compact.
func (f *Face) IsDeleted() bool {
	return f.deleted
}

// Mesh is an indexed triangle mesh. Vertex IDs are indices into Vertices and stay stable until
// Compact is called.
type Mesh struct {
	Vertices []Vertex
	Faces    []Face

	attrs Attributes
}

// Attributes returns the optional vertex attributes this mesh carries.
func (m *Mesh) Attributes() Attributes {
	return m.attrs
}

// HasAttributes reports whether the mesh carries every attribute in attrs.
func (m *Mesh) HasAttributes(attrs Attributes) bool {
	return m.attrs.Has(attrs)
}

// EnableAttributes adds attrs to the set of attributes the mesh carries.
func (m *Mesh) EnableAttributes(attrs Attributes) {
	m.attrs |= attrs
}

// VertexCount returns the number of live vertices.
func (m *Mesh) VertexCount() int {
	n := 0
	for i := range m.Vertices {
		if !m.Vertices[i].deleted {
			n++
		}
	}
	return n
}

// FaceCount returns the number of live faces.
func (m *Mesh) FaceCount() int {
	n := 0
	for i := range m.Faces {
		if !m.Faces[i].deleted {
			n++
		}
	}
	return n
}

// LiveFaces returns the indices of the faces that are not deleted, in order.
func (m *Mesh) LiveFaces() []int {
	live := make([]int, 0, len(m.Faces))
	for i := range m.Faces {
		if !m.Faces[i].deleted {
			live = append(live, i)
		}
	}
	return live
}

// Triangle returns the geometry of face i.
func (m *Mesh) Triangle(i int) *spatialmath.Triangle {
	f := m.Faces[i]
	return spatialmath.NewTriangle(
		m.Vertices[f.V[0]].Position,
		m.Vertices[f.V[1]].Position,
		m.Vertices[f.V[2]].Position,
	)
}

// FaceAreas returns the area of every face, with zero for deleted faces, so the result can be
// indexed by face ID.
func (m *Mesh) FaceAreas() []float64 {
	areas := make([]float64, len(m.Faces))
	for i := range m.Faces {
		if m.Faces[i].deleted {
			continue
		}
		areas[i] = m.Triangle(i).Area()
	}
	return areas
}

// Area returns the total surface area of the live faces.
func (m *Mesh) Area() float64 {
	return floats.Sum(m.FaceAreas())
}

// Buffer exports the live geometry as a Buffer with compacted indices.
func (m *Mesh) Buffer() Buffer {
	remap := make([]int, len(m.Vertices))
	positions := make([]r3.Vector, 0, len(m.Vertices))
	for i := range m.Vertices {
		if m.Vertices[i].deleted {
			remap[i] = -1
			continue
		}
		remap[i] = len(positions)
		positions = append(positions, m.Vertices[i].Position)
	}
	triangles := make([][3]int, 0, len(m.Faces))
	for _, i := range m.LiveFaces() {
		f := m.Faces[i].V
		triangles = append(triangles, [3]int{remap[f[0]], remap[f[1]], remap[f[2]]})
	}
	return Buffer{Positions: positions, Triangles: triangles}
}
