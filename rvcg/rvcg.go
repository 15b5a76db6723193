// Package rvcg exposes mesh import and surface sampling over flat numeric arrays, the shape
// scripting hosts exchange with native code. Points, normals and colors are column-major 3xN
// arrays; faces are 3xM arrays of 0-based vertex indices.
package rvcg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/rvcg/meshsample/logging"
	"github.com/rvcg/meshsample/mesh"
	"github.com/rvcg/meshsample/meshio"
	"github.com/rvcg/meshsample/pointcloud"
	"github.com/rvcg/meshsample/sampling"
)

// ImportResult is an imported mesh in flat form. Optional arrays are nil when not requested.
type ImportResult struct {
	Vertices  []float64
	Faces     []int
	Normals   []float64
	Colors    []int
	TexCoords []float64
	Cleaned   mesh.CleanReport
}

// ImportMesh reads a PLY, STL, OBJ or OFF file. updateNormals computes area weighted vertex
// normals, readColor returns vertex colors and texture coordinates, and clean removes duplicate
// and unreferenced elements before export.
func ImportMesh(filename string, updateNormals, readColor, clean bool, logger logging.Logger) (*ImportResult, error) {
	res, err := meshio.Import(filename, logger,
		meshio.WithNormals(updateNormals),
		meshio.WithColor(readColor),
		meshio.WithClean(clean),
	)
	if err != nil {
		return nil, err
	}
	m := res.Mesh
	m.Compact()

	vertices, faces := m.Buffer().Flat()
	out := &ImportResult{
		Vertices: vertices,
		Faces:    faces,
		Cleaned:  res.Cleaned,
	}
	if res.NormalsUpdated {
		out.Normals = lo.FlatMap(m.Vertices, func(v mesh.Vertex, _ int) []float64 {
			return []float64{v.Normal.X, v.Normal.Y, v.Normal.Z}
		})
	}
	if readColor {
		out.Colors = lo.FlatMap(m.Vertices, func(v mesh.Vertex, _ int) []int {
			return []int{int(v.Color.R), int(v.Color.G), int(v.Color.B)}
		})
		out.TexCoords = lo.FlatMap(m.Vertices, func(v mesh.Vertex, _ int) []float64 {
			return []float64{v.TexCoord.X, v.TexCoord.Y}
		})
	}
	return out, nil
}

type sampleOptions struct {
	seed   uint64
	logger logging.Logger
}

// SampleOption configures SampleSurface.
type SampleOption func(*sampleOptions)

// WithSeed sets the random seed. Equal seeds give equal samples.
func WithSeed(seed uint64) SampleOption {
	return func(o *sampleOptions) {
		o.seed = seed
	}
}

// WithLogger sets the logger sampling reports to. The default discards everything.
func WithLogger(logger logging.Logger) SampleOption {
	return func(o *sampleOptions) {
		o.logger = logger
	}
}

// SampleSurface samples the surface of the mesh given by flat vertex and face arrays and
// returns the points as a flat 3xK array. method 0 selects Monte Carlo sampling with exactly
// targetCount points; any other method selects Poisson disk sampling, which returns a data
// dependent number of points. oversamplingFactor and useGeodesicDistance only apply to Poisson
// disk sampling.
func SampleSurface(
	vertices []float64,
	faces []int,
	targetCount, method, oversamplingFactor int,
	useGeodesicDistance bool,
	opts ...SampleOption,
) ([]float64, error) {
	ps, err := sampleSurface(vertices, faces, targetCount, method, oversamplingFactor, useGeodesicDistance, opts...)
	if err != nil {
		return nil, err
	}
	return pointcloud.Flatten(ps), nil
}

// SampleSurfaceMatrix is SampleSurface returning the points as the columns of a 3xK matrix.
func SampleSurfaceMatrix(
	vertices []float64,
	faces []int,
	targetCount, method, oversamplingFactor int,
	useGeodesicDistance bool,
	opts ...SampleOption,
) (*mat.Dense, error) {
	ps, err := sampleSurface(vertices, faces, targetCount, method, oversamplingFactor, useGeodesicDistance, opts...)
	if err != nil {
		return nil, err
	}
	return pointcloud.FlattenMatrix(ps), nil
}

func sampleSurface(
	vertices []float64,
	faces []int,
	targetCount, method, oversamplingFactor int,
	useGeodesicDistance bool,
	opts ...SampleOption,
) (pointcloud.PointSet, error) {
	o := sampleOptions{logger: logging.NewBlankLogger("rvcg")}
	for _, opt := range opts {
		opt(&o)
	}

	params := sampling.Parameters{
		TargetCount:         targetCount,
		Method:              sampling.MethodFromCode(method),
		OversamplingFactor:  oversamplingFactor,
		UseGeodesicDistance: useGeodesicDistance,
		Seed:                o.seed,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m, err := mesh.BuildFromFlat(vertices, faces)
	if err != nil {
		return nil, err
	}
	return sampling.NewSampler(o.logger).Sample(m, params)
}

// ExportSamples writes flat 3xK sample data to a .pcd (ascii) or .las file.
func ExportSamples(points []float64, filename string) error {
	ps, err := pointcloud.FromFlat(points)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".las":
		return pointcloud.WriteToLASFile(ps, filename)
	case ".pcd":
		return writePCDFile(ps, filename)
	default:
		return errors.Errorf("do not know how to write file %q", filename)
	}
}

func writePCDFile(ps pointcloud.PointSet, filename string) (err error) {
	//nolint:gosec
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return pointcloud.ToPCD(ps, f, pointcloud.PCDAscii)
}
