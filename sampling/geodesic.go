package sampling

import (
	"container/heap"
	"math"
	"slices"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/rvcg/meshsample/mesh"
)

// SurfaceGraph measures distances along a mesh surface. A shortest surface path is straight
// once the faces it crosses are unfolded into a plane, and it only bends at mesh vertices. The
// graph therefore joins every two vertices that a straight surface path shorter than the limit
// connects, weighted by that path's length. Node IDs are mesh vertex IDs.
type SurfaceGraph struct {
	m     *mesh.Mesh
	u     *unfolder
	limit float64
	g     *simple.WeightedUndirectedGraph
}

// NewSurfaceGraph returns the surface graph of the live faces of m for paths shorter than limit.
func NewSurfaceGraph(m *mesh.Mesh, limit float64) *SurfaceGraph {
	sg := &SurfaceGraph{
		m:     m,
		u:     newUnfolder(m),
		limit: limit,
		g:     simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
	for v, faces := range sg.u.incident {
		if len(faces) == 0 {
			continue
		}
		for w, d := range sg.straight(m.Vertices[v].Position, faces[0]) {
			if w != v {
				join(sg.g, simple.Node(v), simple.Node(w), d)
			}
		}
	}
	return sg
}

// Distance returns the surface distance between p, lying on face fp, and q, lying on face fq.
// The result is +Inf when the distance is not below the graph's limit, including when the faces
// are not connected.
func (sg *SurfaceGraph) Distance(p r3.Vector, fp int, q r3.Vector, fq int) float64 {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	graph.CopyWeighted(g, sg.g)

	pn := g.NewNode()
	g.AddNode(pn)
	qn := g.NewNode()
	g.AddNode(qn)
	for v, d := range sg.straight(p, fp) {
		join(g, pn, simple.Node(v), d)
	}
	for v, d := range sg.straight(q, fq) {
		join(g, qn, simple.Node(v), d)
	}

	targets := sg.u.sourceFaces(q, fq)
	sg.u.walk(p, fp, sg.limit, func(face int, corners [3]r2.Point, w window) {
		if !slices.Contains(targets, face) {
			return
		}
		if flat := sg.u.place(q, face, corners); w.sees(flat) {
			join(g, pn, qn, flat.Sub(w.s).Norm())
		}
	})

	_, d := path.DijkstraFromTo(pn, qn, g)
	if d >= sg.limit {
		return math.Inf(1)
	}
	return d
}

// straight returns the length of the shortest straight surface path from p, lying on face, to
// each vertex such a path shorter than the limit reaches.
func (sg *SurfaceGraph) straight(p r3.Vector, face int) map[int]float64 {
	reached := make(map[int]float64)
	sg.u.walk(p, face, sg.limit, func(f int, corners [3]r2.Point, w window) {
		for c, v := range sg.m.Faces[f].V {
			if !w.sees(corners[c]) {
				continue
			}
			d := corners[c].Sub(w.s).Norm()
			if old, ok := reached[v]; d < sg.limit && (!ok || d < old) {
				reached[v] = d
			}
		}
	})
	return reached
}

// join sets the edge between a and b to weight d unless it is already shorter.
func join(g *simple.WeightedUndirectedGraph, a, b graph.Node, d float64) {
	if e := g.WeightedEdge(a.ID(), b.ID()); e != nil && e.Weight() <= d {
		return
	}
	g.SetWeightedEdge(g.NewWeightedEdge(a, b, d))
}

// distanceField tracks the surface distance to the closest of a growing set of points. Only
// distances below the radius are exact; anything else reads as at least the radius.
type distanceField struct {
	sg     *SurfaceGraph
	radius float64
	// dist holds, per mesh vertex, the distance to the closest added point.
	dist   []float64
	points map[int][]r3.Vector
}

func newDistanceField(m *mesh.Mesh, radius float64) *distanceField {
	dist := make([]float64, len(m.Vertices))
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	return &distanceField{
		sg:     NewSurfaceGraph(m, radius),
		radius: radius,
		dist:   dist,
		points: make(map[int][]r3.Vector),
	}
}

// measurable reports whether distances from points on face can be measured along the surface.
func (f *distanceField) measurable(face int) bool {
	return f.sg.u.flat(face)
}

// add records sp and lowers the vertex distances with a Dijkstra search that stops at the
// radius.
func (f *distanceField) add(sp surfacePoint) {
	f.points[sp.face] = append(f.points[sp.face], sp.pos)

	queue := &vertexQueue{}
	for v, d := range f.sg.straight(sp.pos, sp.face) {
		if d < f.dist[v] {
			f.dist[v] = d
			heap.Push(queue, vertexDistance{id: int64(v), dist: d})
		}
	}
	for queue.Len() > 0 {
		cur := heap.Pop(queue).(vertexDistance)
		if cur.dist > f.dist[cur.id] {
			continue
		}
		neighbors := f.sg.g.From(cur.id)
		for neighbors.Next() {
			next := neighbors.Node().ID()
			d := cur.dist + f.sg.g.WeightedEdge(cur.id, next).Weight()
			if d < f.radius && d < f.dist[next] {
				f.dist[next] = d
				heap.Push(queue, vertexDistance{id: next, dist: d})
			}
		}
	}
}

// nearest returns the surface distance from sp to the closest added point: either a straight
// path to the point itself or a straight path to a vertex followed by that vertex's distance.
func (f *distanceField) nearest(sp surfacePoint) float64 {
	best := math.Inf(1)
	f.sg.u.walk(sp.pos, sp.face, f.radius, func(face int, corners [3]r2.Point, w window) {
		for _, p := range f.points[face] {
			if flat := f.sg.u.place(p, face, corners); w.sees(flat) {
				best = math.Min(best, flat.Sub(w.s).Norm())
			}
		}
		for c, v := range f.sg.m.Faces[face].V {
			if w.sees(corners[c]) {
				best = math.Min(best, corners[c].Sub(w.s).Norm()+f.dist[v])
			}
		}
	})
	return best
}

type vertexDistance struct {
	id   int64
	dist float64
}

type vertexQueue []vertexDistance

func (q vertexQueue) Len() int           { return len(q) }
func (q vertexQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q vertexQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *vertexQueue) Push(x any) {
	*q = append(*q, x.(vertexDistance))
}

func (q *vertexQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
