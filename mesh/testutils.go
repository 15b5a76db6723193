package mesh

import "github.com/golang/geo/r3"

// NewUnitCubeBuffer returns an axis aligned unit cube with a corner at the origin: 8 vertices
// and 12 outward facing triangles, surface area 6.
func NewUnitCubeBuffer() Buffer {
	return Buffer{
		Positions: []r3.Vector{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Triangles: [][3]int{
			{0, 3, 2}, {0, 2, 1}, // z = 0
			{4, 5, 6}, {4, 6, 7}, // z = 1
			{0, 1, 5}, {0, 5, 4}, // y = 0
			{3, 7, 6}, {3, 6, 2}, // y = 1
			{0, 4, 7}, {0, 7, 3}, // x = 0
			{1, 2, 6}, {1, 6, 5}, // x = 1
		},
	}
}

// NewUnitCube builds the mesh of NewUnitCubeBuffer.
func NewUnitCube() *Mesh {
	m, err := Build(NewUnitCubeBuffer())
	if err != nil {
		panic(err)
	}
	return m
}
