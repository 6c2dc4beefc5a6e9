// Package cluster implements fixed-k k-means clustering and an
// adaptive variant that selects the cluster count with the Bayesian
// Information Criterion (x-means style search).
//
// Points are plain []float64 samples of any dimensionality. Output is
// deterministic for a fixed seed: restart attempts derive their own
// seeded generators and results are reduced after all attempts finish.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// KMeansParams configures a fixed-k clustering run.
type KMeansParams struct {
	// MaxIterations caps the number of assign/update rounds.
	MaxIterations int
	// Epsilon stops iteration once no center moves further than this
	// between rounds.
	Epsilon float64
	// Attempts is the number of random restarts; the attempt with the
	// lowest total within-cluster error wins.
	Attempts int
	// Seed makes runs reproducible. Attempt i uses Seed+i.
	Seed int64
}

// DefaultKMeansParams returns the parameters used by the vanishing
// point pipeline.
func DefaultKMeansParams() KMeansParams {
	return KMeansParams{
		MaxIterations: 100,
		Epsilon:       0.25,
		Attempts:      3,
		Seed:          0,
	}
}

// Validate reports the first invalid field, if any.
func (p KMeansParams) Validate() error {
	if p.MaxIterations <= 0 {
		return fmt.Errorf("cluster: MaxIterations must be positive, got %d", p.MaxIterations)
	}
	if p.Epsilon < 0 {
		return fmt.Errorf("cluster: Epsilon must be non-negative, got %g", p.Epsilon)
	}
	if p.Attempts <= 0 {
		return fmt.Errorf("cluster: Attempts must be positive, got %d", p.Attempts)
	}
	return nil
}

// Result holds one clustering outcome: a dense 0-based label per input
// point and a center per label.
type Result struct {
	Labels  []int
	Centers [][]float64
	// SSE is the total within-cluster sum of squared distances.
	SSE float64
}

// KMeans partitions points into k clusters using Lloyd's algorithm
// with random restarts. The best attempt (lowest total within-cluster
// squared error) is returned. Attempts run concurrently; the winner is
// picked after all finish so results do not depend on scheduling.
func KMeans(points [][]float64, k int, params KMeansParams) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	if k <= 0 {
		return Result{}, fmt.Errorf("cluster: k must be positive, got %d", k)
	}
	if len(points) < k {
		return Result{}, fmt.Errorf("cluster: need at least %d points for k=%d, got %d", k, k, len(points))
	}

	results := make([]Result, params.Attempts)
	var wg sync.WaitGroup
	for i := 0; i < params.Attempts; i++ {
		wg.Add(1)
		go func(attempt int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(params.Seed + int64(attempt)))
			results[attempt] = lloyd(points, k, params, rng)
		}(i)
	}
	wg.Wait()

	best := results[0]
	for _, r := range results[1:] {
		if r.SSE < best.SSE {
			best = r
		}
	}
	return best, nil
}

// lloyd runs one seeded k-means attempt to convergence.
func lloyd(points [][]float64, k int, params KMeansParams, rng *rand.Rand) Result {
	dims := len(points[0])

	// Seed centers from k distinct input points.
	centers := make([][]float64, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centers[i] = append([]float64(nil), points[idx]...)
	}

	labels := make([]int, len(points))
	for iter := 0; iter < params.MaxIterations; iter++ {
		for i, p := range points {
			labels[i] = nearestCenter(p, centers)
		}

		moved := 0.0
		counts := make([]int, k)
		sums := make([][]float64, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for i, p := range points {
			counts[labels[i]]++
			for d, v := range p {
				sums[labels[i]][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Reseed empty clusters so every label stays populated.
				centers[c] = append([]float64(nil), points[rng.Intn(len(points))]...)
				moved = math.Inf(1)
				continue
			}
			next := make([]float64, dims)
			for d := range next {
				next[d] = sums[c][d] / float64(counts[c])
			}
			moved = math.Max(moved, euclidean(centers[c], next))
			centers[c] = next
		}
		if moved < params.Epsilon {
			break
		}
	}

	for i, p := range points {
		labels[i] = nearestCenter(p, centers)
	}
	return Result{Labels: labels, Centers: centers, SSE: totalSSE(points, labels, centers)}
}

func nearestCenter(p []float64, centers [][]float64) int {
	best := 0
	bestDist := euclidean(p, centers[0])
	for c := 1; c < len(centers); c++ {
		if d := euclidean(p, centers[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// totalSSE sums within-cluster squared distances from each point to
// its cluster center.
func totalSSE(points [][]float64, labels []int, centers [][]float64) float64 {
	var sse float64
	for i, p := range points {
		d := euclidean(p, centers[labels[i]])
		sse += d * d
	}
	return sse
}
