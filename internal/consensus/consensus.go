// Package consensus implements robust multi-model fitting by
// randomized hypothesis sampling: J-linkage (agglomerative clustering
// of preference sets) and X-RANSAC (residual-histogram peak detection
// recovering several models per sampling round).
//
// The engine only depends on the Model capability contract, never on a
// concrete geometric model, so any model exposing Fit and Residuals
// can be plugged in.
package consensus

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrDegenerate is returned by Model.Fit when no usable fit exists for
// a sample (for example, all-parallel line segments). The engine skips
// degenerate hypotheses; it is not a terminal error.
var ErrDegenerate = errors.New("consensus: degenerate model fit")

// Model is the capability contract for a geometric model. D is the
// datum type (e.g. a line segment), F the fitted parameter type (e.g.
// a vanishing point).
type Model[D any, F any] interface {
	// Fit estimates model parameters from data. It returns an error
	// wrapping ErrDegenerate when no fit exists.
	Fit(data []D) (F, error)
	// Residuals returns one non-negative error value per datum for a
	// fitted model.
	Residuals(data []D, fit F) []float64
}

// ModelResult pairs one fitted model with the data assigned to it.
type ModelResult[D any, F any] struct {
	Fit     F
	Inliers []D
}

// Results holds the outcome of a fitting run. Each datum appears in at
// most one model's inlier set; Outliers are the data rejected by every
// model. Zero models found is a valid outcome, not an error.
type Results[D any, F any] struct {
	Models   []ModelResult[D, F]
	Outliers []D
}

// Params configures a fitting run.
type Params struct {
	// SampleSize is the number of data points per random hypothesis.
	SampleSize int
	// InlierThreshold is the residual below which a datum supports a
	// hypothesis.
	InlierThreshold float64
	// MinInliers is the smallest inlier set accepted as a model.
	MinInliers int
	// Iterations is the number of random hypotheses to generate,
	// typically from RANSACIterations or XRANSACIterations.
	Iterations int
	// Seed makes runs reproducible.
	Seed int64
}

// Validate reports the first invalid field, if any.
func (p Params) Validate() error {
	if p.SampleSize < 2 {
		return fmt.Errorf("consensus: SampleSize must be at least 2, got %d", p.SampleSize)
	}
	if p.InlierThreshold <= 0 {
		return fmt.Errorf("consensus: InlierThreshold must be positive, got %g", p.InlierThreshold)
	}
	if p.MinInliers < 1 {
		return fmt.Errorf("consensus: MinInliers must be at least 1, got %d", p.MinInliers)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("consensus: Iterations must be at least 1, got %d", p.Iterations)
	}
	return nil
}

// RANSACIterations returns the closed-form number of random samples
// needed to draw at least one all-inlier sample with the desired
// success probability, given the sample size and the assumed fraction
// of outliers in the data.
func RANSACIterations(sampleSize int, outlierRate, successRate float64) int {
	inlierRate := 1 - outlierRate
	pAllInlier := math.Pow(inlierRate, float64(sampleSize))
	if pAllInlier <= 0 {
		return math.MaxInt32
	}
	if pAllInlier >= 1 {
		return 1
	}
	n := math.Log(1-successRate) / math.Log(1-pAllInlier)
	return int(math.Ceil(n))
}

// XRANSACIterations adjusts RANSACIterations for X-RANSAC, where one
// sampling round can recover several models: a round succeeds for a
// model as soon as its residual-histogram peak gathers minPeakSamples
// supporters, so the per-round success probability scales accordingly.
func XRANSACIterations(sampleSize int, outlierRate, successRate float64, minPeakSamples int) int {
	if minPeakSamples < 1 {
		minPeakSamples = 1
	}
	inlierRate := 1 - outlierRate
	pRound := math.Min(1, float64(minPeakSamples)*math.Pow(inlierRate, float64(sampleSize)))
	if pRound <= 0 {
		return math.MaxInt32
	}
	if pRound >= 1 {
		return 1
	}
	n := math.Log(1-successRate) / math.Log(1-pRound)
	return int(math.Ceil(n))
}

// sampleIndices draws sampleSize distinct indices in [0, n).
func sampleIndices(rng *rand.Rand, n, sampleSize int) []int {
	return rng.Perm(n)[:sampleSize]
}

// emptyResults is the canonical total-failure outcome: no models, all
// data rejected.
func emptyResults[D any, F any](data []D) *Results[D, F] {
	return &Results[D, F]{Outliers: data}
}
