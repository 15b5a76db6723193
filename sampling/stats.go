package sampling

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/rvcg/meshsample/pointcloud"
)

// Stats summarizes the nearest neighbor spacing of a point set.
type Stats struct {
	Count  int
	Min    float64
	Mean   float64
	Median float64
}

// ComputeStats returns the nearest neighbor spacing statistics of ps, which needs at least two
// points. Euclidean distance is used regardless of how the set was sampled.
func ComputeStats(ps pointcloud.PointSet) (Stats, error) {
	if len(ps) < 2 {
		return Stats{}, errors.Errorf("need at least 2 points for spacing statistics, got %d", len(ps))
	}
	nearest := make(stats.Float64Data, len(ps))
	for i := range ps {
		nearest[i] = math.Inf(1)
		for j := range ps {
			if i == j {
				continue
			}
			nearest[i] = math.Min(nearest[i], ps[i].Distance(ps[j]))
		}
	}

	minimum, err := nearest.Min()
	if err != nil {
		return Stats{}, err
	}
	mean, err := nearest.Mean()
	if err != nil {
		return Stats{}, err
	}
	median, err := nearest.Median()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Count: len(ps), Min: minimum, Mean: mean, Median: median}, nil
}
