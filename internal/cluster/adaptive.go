package cluster

import (
	"fmt"
	"math"
)

// Adaptive partitions points into an unspecified number of clusters.
//
// The cluster count is chosen with the Bayesian Information Criterion,
// which rewards explained variance while penalizing model complexity.
// The search starts at one cluster and adds clusters one at a time,
// stopping as soon as the score stops strictly improving; it does not
// resume with larger counts after a non-improving step. Ties keep the
// smaller-k solution.
//
// maxClusters caps the search; pass 0 for no limit. Negative values
// are invalid.
func Adaptive(points [][]float64, maxClusters int, params KMeansParams) ([]int, error) {
	if maxClusters < 0 {
		return nil, fmt.Errorf("cluster: maxClusters must be non-negative, got %d", maxClusters)
	}
	limit := maxClusters
	if limit == 0 {
		limit = math.MaxInt
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("cluster: no points to cluster")
	}

	k := 1
	best, err := KMeans(points, k, params)
	if err != nil {
		return nil, err
	}
	bestScore := bicScore(points, best)

	for k < len(points) && k <= limit {
		k++
		r, err := KMeans(points, k, params)
		if err != nil {
			return nil, err
		}
		score := bicScore(points, r)
		if score < bestScore {
			best = r
			bestScore = score
		} else {
			// Additional clusters are no longer paying for themselves.
			break
		}
	}
	return best.Labels, nil
}

// bicScore rates a clustering: n*ln(SSE/n) + k*ln(n), lower is better.
// A non-positive SSE (all points identical) scores 0, which no real
// clustering can beat, so the search treats it as optimal.
func bicScore(points [][]float64, r Result) float64 {
	n := float64(len(points))
	k := float64(len(r.Centers))
	if r.SSE <= 0 {
		return 0
	}
	return n*math.Log(r.SSE/n) + k*math.Log(n)
}
