package vanish

import (
	"github.com/banshee-data/horizon.report/internal/cluster"
	"github.com/banshee-data/horizon.report/internal/geom"
)

// ClusterLinesByDirection groups lines by their angle using the
// adaptive clusterer, returning a dense 0-based label per line. Lines
// belonging to the same vanishing point tend to share a direction, so
// this gives a cheap consensus-free grouping. maxClusters caps the
// search; pass 0 for no limit.
func ClusterLinesByDirection(lines []geom.Segment, maxClusters int) ([]int, error) {
	samples := make([][]float64, len(lines))
	for i, l := range lines {
		samples[i] = []float64{geom.Angle(l)}
	}
	return cluster.Adaptive(samples, maxClusters, cluster.DefaultKMeansParams())
}
