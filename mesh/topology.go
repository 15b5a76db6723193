package mesh

import (
	"cmp"
	"slices"
)

// Edge is an undirected mesh edge with V[0] < V[1].
type Edge struct {
	V [2]int
}

// Edges returns each edge of the live faces once, sorted by vertex IDs.
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, 3*len(m.Faces)/2)
	edges := make([]Edge, 0, 3*len(m.Faces)/2)
	for _, i := range m.LiveFaces() {
		f := m.Faces[i].V
		for c := 0; c < 3; c++ {
			e, ok := faceEdge(f, c)
			if !ok {
				continue
			}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		if c := cmp.Compare(x.V[0], y.V[0]); c != 0 {
			return c
		}
		return cmp.Compare(x.V[1], y.V[1])
	})
	return edges
}

// Length returns the euclidean length of e in m.
func (m *Mesh) Length(e Edge) float64 {
	return m.Vertices[e.V[0]].Position.Distance(m.Vertices[e.V[1]].Position)
}

// FaceAdjacency returns, for every face and each of its edges, the other live faces sharing that
// edge. Edge c of a face runs from V[c] to V[(c+1)%3]. Deleted faces get no neighbors and are
// never listed as one. Non-manifold edges list every other face on them.
func (m *Mesh) FaceAdjacency() [][3][]int {
	byEdge := make(map[Edge][]int, 3*len(m.Faces)/2)
	live := m.LiveFaces()
	for _, i := range live {
		f := m.Faces[i].V
		for c := 0; c < 3; c++ {
			if e, ok := faceEdge(f, c); ok {
				byEdge[e] = append(byEdge[e], i)
			}
		}
	}

	adj := make([][3][]int, len(m.Faces))
	for _, i := range live {
		f := m.Faces[i].V
		for c := 0; c < 3; c++ {
			e, ok := faceEdge(f, c)
			if !ok {
				continue
			}
			for _, j := range byEdge[e] {
				if j != i {
					adj[i][c] = append(adj[i][c], j)
				}
			}
		}
	}
	return adj
}

// VertexFaces returns the live faces around every vertex, in face order.
func (m *Mesh) VertexFaces() [][]int {
	incident := make([][]int, len(m.Vertices))
	for _, i := range m.LiveFaces() {
		f := m.Faces[i].V
		for c, v := range f {
			if slices.Contains(f[:c], v) {
				continue
			}
			incident[v] = append(incident[v], i)
		}
	}
	return incident
}

func faceEdge(f [3]int, c int) (Edge, bool) {
	a, b := f[c], f[(c+1)%3]
	if a == b {
		return Edge{}, false
	}
	if a > b {
		a, b = b, a
	}
	return Edge{V: [2]int{a, b}}, true
}
