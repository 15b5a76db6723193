package sampling

import (
	"math"

	"github.com/golang/geo/r3"
)

type cellKey [3]int64

// spatialGrid buckets points into cubic cells whose edge equals the query radius, so a radius
// query only inspects the 27 cells around the query point.
type spatialGrid struct {
	cell   float64
	cells  map[cellKey][]int
	points []r3.Vector
}

func newSpatialGrid(cell float64) *spatialGrid {
	return &spatialGrid{cell: cell, cells: make(map[cellKey][]int)}
}

func (g *spatialGrid) key(p r3.Vector) cellKey {
	return cellKey{
		int64(math.Floor(p.X / g.cell)),
		int64(math.Floor(p.Y / g.cell)),
		int64(math.Floor(p.Z / g.cell)),
	}
}

// insert stores p under id. IDs must be assigned densely from zero.
func (g *spatialGrid) insert(p r3.Vector, id int) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], id)
	g.points = append(g.points, p)
}

// within returns the IDs of the stored points strictly closer than radius to p. radius must not
// exceed the cell edge.
func (g *spatialGrid) within(p r3.Vector, radius float64) []int {
	var found []int
	k := g.key(p)
	r2 := radius * radius
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, id := range g.cells[cellKey{k[0] + dx, k[1] + dy, k[2] + dz}] {
					if g.points[id].Sub(p).Norm2() < r2 {
						found = append(found, id)
					}
				}
			}
		}
	}
	return found
}
