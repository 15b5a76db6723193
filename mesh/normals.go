package mesh

import "github.com/golang/geo/r3"

// UpdateVertexNormals sets every live vertex normal to the normalized sum of the unnormalized
// normals of its adjacent faces, so larger faces weigh more. Vertices with no adjacent face, or
// whose face normals cancel out, get the zero vector. A mesh without faces is left untouched and
// reports false.
func (m *Mesh) UpdateVertexNormals() bool {
	if m.FaceCount() == 0 {
		return false
	}

	sums := make([]r3.Vector, len(m.Vertices))
	for _, i := range m.LiveFaces() {
		f := m.Faces[i].V
		p0 := m.Vertices[f[0]].Position
		n := m.Vertices[f[1]].Position.Sub(p0).Cross(m.Vertices[f[2]].Position.Sub(p0))
		for _, v := range f {
			sums[v] = sums[v].Add(n)
		}
	}

	for i := range m.Vertices {
		if m.Vertices[i].deleted {
			continue
		}
		if sums[i].Norm2() == 0 {
			m.Vertices[i].Normal = r3.Vector{}
			continue
		}
		m.Vertices[i].Normal = sums[i].Normalize()
	}
	m.attrs |= AttrNormal
	return true
}
