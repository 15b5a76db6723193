// Package sampling draws point sets from the surface of a triangle mesh, either as plain area
// weighted Monte Carlo samples or as a Poisson disk subset of them.
package sampling

import (
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rvcg/meshsample/logging"
	"github.com/rvcg/meshsample/mesh"
	"github.com/rvcg/meshsample/pointcloud"
	"github.com/rvcg/meshsample/spatialmath"
)

// pcgStream is the fixed PCG stream selector; Parameters.Seed picks the state.
const pcgStream = 0x9e3779b97f4a7c15

// PoissonStats describes the most recent Poisson disk run of a Sampler.
type PoissonStats struct {
	Radius   float64
	Seeds    int
	Accepted int
}

// A Sampler draws surface samples from meshes. It owns its random source and is not safe for
// concurrent use.
type Sampler struct {
	logger logging.Logger
	stats  PoissonStats
}

// NewSampler returns a Sampler that logs to a "sampling" sublogger of logger.
func NewSampler(logger logging.Logger) *Sampler {
	return &Sampler{logger: logger.Sublogger("sampling")}
}

// runLogger tags every entry of one Sample call with the run's method and seed.
func (s *Sampler) runLogger(params Parameters) logging.Logger {
	return s.logger.WithFields("method", params.Method.String(), "seed", params.Seed)
}

// PoissonStats returns the statistics of the last Sample call, or the zero value unless that call
// ran Poisson disk sampling to completion.
func (s *Sampler) PoissonStats() PoissonStats {
	return s.stats
}

// Sample draws a point set from the live faces of m according to params. The mesh is not
// modified. The same mesh and parameters always give the same points.
func (s *Sampler) Sample(m *mesh.Mesh, params Parameters) (pointcloud.PointSet, error) {
	s.stats = PoissonStats{}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	src, err := newSurfaceSource(m, params.Seed)
	if err != nil {
		return nil, err
	}

	var samples []surfacePoint
	switch params.Method {
	case MonteCarlo:
		samples = src.draw(params.TargetCount)
		s.runLogger(params).Debugw("monte carlo sampling", "faces", len(src.live), "area", src.area, "points", len(samples))
	case PoissonDisk:
		samples = s.poissonDisk(m, src, params)
	}

	return lo.Map(samples, func(sp surfacePoint, _ int) r3.Vector {
		return sp.pos
	}), nil
}

// surfacePoint is a sample together with the face it was drawn from.
type surfacePoint struct {
	pos  r3.Vector
	face int
}

// surfaceSource draws area weighted uniform points from a mesh. Face choice and the position
// within the face read from the same PCG state.
type surfaceSource struct {
	triangles []*spatialmath.Triangle
	live      []int
	area      float64
	faces     distuv.Categorical
	rng       *rand.Rand
}

func newSurfaceSource(m *mesh.Mesh, seed uint64) (*surfaceSource, error) {
	live := m.LiveFaces()
	if len(live) == 0 {
		return nil, NewEmptyMeshError(0, 0)
	}
	areas := m.FaceAreas()
	area := m.Area()
	if !(area > 0) {
		return nil, NewEmptyMeshError(len(live), area)
	}

	triangles := make([]*spatialmath.Triangle, len(m.Faces))
	for _, i := range live {
		triangles[i] = m.Triangle(i)
	}

	pcg := rand.NewPCG(seed, pcgStream)
	return &surfaceSource{
		triangles: triangles,
		live:      live,
		area:      area,
		faces:     distuv.NewCategorical(areas, pcg),
		rng:       rand.New(pcg),
	}, nil
}

func (src *surfaceSource) draw(n int) []surfacePoint {
	samples := make([]surfacePoint, 0, n)
	for len(samples) < n {
		face := int(src.faces.Rand())
		tri := src.triangles[face]
		if tri == nil {
			continue
		}
		samples = append(samples, surfacePoint{
			pos:  tri.PointAt(src.rng.Float64(), src.rng.Float64()),
			face: face,
		})
	}
	return samples
}
