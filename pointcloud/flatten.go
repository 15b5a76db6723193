package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Flatten returns the points as column-major 3xN data: x0, y0, z0, x1, y1, z1 and so on.
func Flatten(ps PointSet) []float64 {
	out := make([]float64, 0, 3*len(ps))
	for _, p := range ps {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// FlattenMatrix returns the points as the columns of a 3xN matrix. An empty set yields an empty
// matrix.
func FlattenMatrix(ps PointSet) *mat.Dense {
	if len(ps) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(3, len(ps), nil)
	for j, p := range ps {
		m.Set(0, j, p.X)
		m.Set(1, j, p.Y)
		m.Set(2, j, p.Z)
	}
	return m
}

// FromFlat is the inverse of Flatten.
func FromFlat(data []float64) (PointSet, error) {
	if len(data)%3 != 0 {
		return nil, errors.Errorf("flat point data length %d is not a multiple of 3", len(data))
	}
	ps := make(PointSet, 0, len(data)/3)
	for i := 0; i < len(data); i += 3 {
		ps = append(ps, r3.Vector{X: data[i], Y: data[i+1], Z: data[i+2]})
	}
	return ps, nil
}
