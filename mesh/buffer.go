package mesh

import (
	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

// Buffer is the flat, caller owned description of a triangle mesh: vertex positions and triples
// of indices into them. Build never mutates a Buffer.
type Buffer struct {
	Positions []r3.Vector
	Triangles [][3]int
}

// BufferFromFlat reads column-major 3xN vertex and 3xM index arrays, as handed over by a
// scripting host, into a Buffer. Indices are not range checked here; Build does that.
func BufferFromFlat(vb []float64, it []int) (Buffer, error) {
	if len(vb)%3 != 0 {
		return Buffer{}, NewBuildError("vertex array length %d is not a multiple of 3", len(vb))
	}
	if len(it)%3 != 0 {
		return Buffer{}, NewBuildError("index array length %d is not a multiple of 3", len(it))
	}

	positions := lo.Map(lo.Chunk(vb, 3), func(c []float64, _ int) r3.Vector {
		return r3.Vector{X: c[0], Y: c[1], Z: c[2]}
	})
	triangles := lo.Map(lo.Chunk(it, 3), func(c []int, _ int) [3]int {
		return [3]int{c[0], c[1], c[2]}
	})
	return Buffer{Positions: positions, Triangles: triangles}, nil
}

// Flat is the inverse of BufferFromFlat.
func (b Buffer) Flat() ([]float64, []int) {
	vb := make([]float64, 0, 3*len(b.Positions))
	for _, p := range b.Positions {
		vb = append(vb, p.X, p.Y, p.Z)
	}
	it := make([]int, 0, 3*len(b.Triangles))
	for _, t := range b.Triangles {
		it = append(it, t[0], t[1], t[2])
	}
	return vb, it
}
