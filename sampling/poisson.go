package sampling

import (
	"math"

	"github.com/samber/lo"

	"github.com/rvcg/meshsample/mesh"
)

// packingEfficiency is the fraction of the surface that the disks of radius r/2 around the
// samples of a maximal Poisson disk set cover in practice.
const packingEfficiency = 0.7

// PoissonDiskRadius returns the disk radius that places roughly n samples on a surface of the
// given area.
func PoissonDiskRadius(area float64, n int) float64 {
	return math.Sqrt(area / (packingEfficiency * math.Pi * float64(n)))
}

// poissonDisk prunes a Monte Carlo seed cloud in generation order, keeping each seed that is at
// least the disk radius away from everything kept before it.
func (s *Sampler) poissonDisk(m *mesh.Mesh, src *surfaceSource, params Parameters) []surfacePoint {
	radius := PoissonDiskRadius(src.area, params.TargetCount)
	seeds := src.draw(params.TargetCount * params.OversamplingFactor)

	grid := newSpatialGrid(radius)
	var field *distanceField
	if params.UseGeodesicDistance {
		field = newDistanceField(m, radius)
	}

	accepted := make([]surfacePoint, 0, params.TargetCount)
	for _, seed := range seeds {
		// surface distances are never shorter than straight ones
		near := grid.within(seed.pos, radius)
		if len(near) > 0 {
			if field == nil || !field.measurable(seed.face) {
				continue
			}
			if lo.ContainsBy(near, func(i int) bool { return !field.measurable(accepted[i].face) }) {
				continue
			}
			if field.nearest(seed) < radius {
				continue
			}
		}
		grid.insert(seed.pos, len(accepted))
		accepted = append(accepted, seed)
		if field != nil {
			field.add(seed)
		}
	}

	s.stats = PoissonStats{Radius: radius, Seeds: len(seeds), Accepted: len(accepted)}
	s.runLogger(params).Debugw("poisson disk sampling",
		"radius", radius,
		"seeds", len(seeds),
		"accepted", len(accepted),
		"geodesic", params.UseGeodesicDistance)
	return accepted
}
