package mesh

import (
	"slices"
)

// CleanReport counts what Clean removed.
type CleanReport struct {
	DuplicateVertices    int
	DuplicateFaces       int
	UnreferencedVertices int
}

// Any reports whether anything was removed.
func (r CleanReport) Any() bool {
	return r.DuplicateVertices > 0 || r.DuplicateFaces > 0 || r.UnreferencedVertices > 0
}

// Clean removes duplicate vertices, duplicate faces and unreferenced vertices, in that order, and
// then compacts the mesh.
func (m *Mesh) Clean() CleanReport {
	report := CleanReport{
		DuplicateVertices: m.RemoveDuplicateVertices(),
		DuplicateFaces:    m.RemoveDuplicateFaces(),
	}
	report.UnreferencedVertices = m.RemoveUnreferencedVertices()
	m.Compact()
	return report
}

// RemoveDuplicateVertices deletes every vertex whose position exactly equals that of a live
// vertex with a lower ID and points faces at the survivor. Attributes of the survivor are kept.
func (m *Mesh) RemoveDuplicateVertices() int {
	order := make([]int, 0, len(m.Vertices))
	for i := range m.Vertices {
		if !m.Vertices[i].deleted {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return m.Vertices[a].Position.Cmp(m.Vertices[b].Position)
	})

	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = i
	}
	removed := 0
	for k := 1; k < len(order); k++ {
		prev, cur := remap[order[k-1]], order[k]
		if m.Vertices[cur].Position != m.Vertices[prev].Position {
			continue
		}
		// order is stable, so prev is the lowest ID of the run
		remap[cur] = prev
		m.Vertices[cur].deleted = true
		removed++
	}
	if removed == 0 {
		return 0
	}

	for i := range m.Faces {
		if m.Faces[i].deleted {
			continue
		}
		for c, v := range m.Faces[i].V {
			m.Faces[i].V[c] = remap[v]
		}
	}
	return removed
}

// RemoveDuplicateFaces deletes every face that uses the same three vertices as a live face with a
// lower ID, regardless of winding.
func (m *Mesh) RemoveDuplicateFaces() int {
	seen := make(map[[3]int]struct{}, len(m.Faces))
	removed := 0
	for i := range m.Faces {
		if m.Faces[i].deleted {
			continue
		}
		key := m.Faces[i].V
		slices.Sort(key[:])
		if _, ok := seen[key]; ok {
			m.Faces[i].deleted = true
			removed++
			continue
		}
		seen[key] = struct{}{}
	}
	return removed
}

// RemoveUnreferencedVertices deletes every live vertex no live face uses. A mesh without faces is
// a point cloud and keeps all of its vertices.
func (m *Mesh) RemoveUnreferencedVertices() int {
	live := m.LiveFaces()
	if len(live) == 0 {
		return 0
	}

	referenced := make([]bool, len(m.Vertices))
	for _, i := range live {
		for _, v := range m.Faces[i].V {
			referenced[v] = true
		}
	}
	removed := 0
	for i := range m.Vertices {
		if !m.Vertices[i].deleted && !referenced[i] {
			m.Vertices[i].deleted = true
			removed++
		}
	}
	return removed
}

// Compact drops deleted vertices and faces and renumbers the rest, preserving their relative
// order. It returns the old-to-new vertex ID map, with -1 for dropped vertices.
func (m *Mesh) Compact() []int {
	remap := make([]int, len(m.Vertices))
	vertices := m.Vertices[:0]
	for i, v := range m.Vertices {
		if v.deleted {
			remap[i] = -1
			continue
		}
		remap[i] = len(vertices)
		vertices = append(vertices, v)
	}
	m.Vertices = vertices

	faces := m.Faces[:0]
	for _, f := range m.Faces {
		if f.deleted {
			continue
		}
		for c, v := range f.V {
			f.V[c] = remap[v]
		}
		faces = append(faces, f)
	}
	m.Faces = faces
	return remap
}
