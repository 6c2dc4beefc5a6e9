package consensus

import (
	"fmt"
	"math/rand"
	"sort"
)

// XParams configures the X-RANSAC histogram extension.
type XParams struct {
	// HistogramBins is the number of bins in the per-round residual
	// histogram.
	HistogramBins int
	// MinProminence is the minimum height of a histogram bin, above
	// the neighbouring valleys, for it to count as a peak.
	MinProminence int
	// MinPeakSamples is the minimum support a peak needs before it is
	// considered a candidate model.
	MinPeakSamples int
}

// DefaultXParams returns the histogram parameters used by the
// vanishing point pipeline.
func DefaultXParams() XParams {
	return XParams{
		HistogramBins:  25,
		MinProminence:  5,
		MinPeakSamples: 10,
	}
}

// Validate reports the first invalid field, if any.
func (p XParams) Validate() error {
	if p.HistogramBins < 2 {
		return fmt.Errorf("consensus: HistogramBins must be at least 2, got %d", p.HistogramBins)
	}
	if p.MinProminence < 1 {
		return fmt.Errorf("consensus: MinProminence must be at least 1, got %d", p.MinProminence)
	}
	if p.MinPeakSamples < 1 {
		return fmt.Errorf("consensus: MinPeakSamples must be at least 1, got %d", p.MinPeakSamples)
	}
	return nil
}

// XRANSAC extends randomized sampling so a single round can recover
// several models. After each hypothesis, the residuals of all data are
// histogrammed; besides the near-zero inliers of the sampled model,
// other structures show up as additional peaks, and each prominent
// peak is refit into its own candidate model.
type XRANSAC[D any, F any] struct {
	model   Model[D, F]
	params  Params
	xparams XParams
}

// NewXRANSAC creates an X-RANSAC engine around a model.
func NewXRANSAC[D any, F any](model Model[D, F], params Params, xparams XParams) (*XRANSAC[D, F], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := xparams.Validate(); err != nil {
		return nil, err
	}
	return &XRANSAC[D, F]{model: model, params: params, xparams: xparams}, nil
}

// candidate is one refit peak with the indices that supported it.
type candidate[F any] struct {
	fit     F
	indices []int
}

// Run fits models to data. Candidate models are collected over all
// sampling rounds, then resolved greedily, largest support first, into
// disjoint inlier sets. A run that finds no acceptable model returns
// empty Models with every datum in Outliers.
func (x *XRANSAC[D, F]) Run(data []D) (*Results[D, F], error) {
	if len(data) < x.params.SampleSize {
		return emptyResults[D, F](data), nil
	}
	rng := rand.New(rand.NewSource(x.params.Seed))

	var candidates []candidate[F]
	sample := make([]D, x.params.SampleSize)
	for iter := 0; iter < x.params.Iterations; iter++ {
		for k, idx := range sampleIndices(rng, len(data), x.params.SampleSize) {
			sample[k] = data[idx]
		}
		fit, err := x.model.Fit(sample)
		if err != nil {
			continue
		}
		residuals := x.model.Residuals(data, fit)
		candidates = append(candidates, x.peakCandidates(data, residuals)...)
	}
	if len(candidates) == 0 {
		return emptyResults[D, F](data), nil
	}
	return x.resolve(data, candidates), nil
}

// peakCandidates histograms the residuals of one hypothesis and refits
// a candidate model on the data under each prominent peak.
func (x *XRANSAC[D, F]) peakCandidates(data []D, residuals []float64) []candidate[F] {
	maxResidual := 0.0
	for _, r := range residuals {
		if r > maxResidual {
			maxResidual = r
		}
	}
	if maxResidual == 0 {
		maxResidual = 1
	}
	binWidth := maxResidual / float64(x.xparams.HistogramBins)

	counts := make([]int, x.xparams.HistogramBins)
	binOf := make([]int, len(residuals))
	for i, r := range residuals {
		bin := int(r / binWidth)
		if bin >= x.xparams.HistogramBins {
			bin = x.xparams.HistogramBins - 1
		}
		binOf[i] = bin
		counts[bin]++
	}

	var cands []candidate[F]
	for _, peak := range histogramPeaks(counts, x.xparams.MinProminence) {
		lo, hi := peakExtent(counts, peak)
		var indices []int
		for i, bin := range binOf {
			if bin >= lo && bin <= hi {
				indices = append(indices, i)
			}
		}
		if len(indices) < x.xparams.MinPeakSamples || len(indices) < x.params.MinInliers {
			continue
		}
		subset := make([]D, len(indices))
		for k, i := range indices {
			subset[k] = data[i]
		}
		fit, err := x.model.Fit(subset)
		if err != nil {
			continue
		}

		// Keep only the members that actually fit the refit model.
		refitResiduals := x.model.Residuals(subset, fit)
		var kept []int
		for k, r := range refitResiduals {
			if r < x.params.InlierThreshold {
				kept = append(kept, indices[k])
			}
		}
		if len(kept) < x.params.MinInliers {
			continue
		}
		cands = append(cands, candidate[F]{fit: fit, indices: kept})
	}
	return cands
}

// resolve turns overlapping candidates into disjoint model results:
// candidates claim data greedily, largest support first, and each
// datum belongs to the first model that claims it.
func (x *XRANSAC[D, F]) resolve(data []D, candidates []candidate[F]) *Results[D, F] {
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].indices) > len(candidates[j].indices)
	})

	claimed := make([]bool, len(data))
	results := &Results[D, F]{}
	for _, c := range candidates {
		var free []int
		for _, i := range c.indices {
			if !claimed[i] {
				free = append(free, i)
			}
		}
		if len(free) < x.params.MinInliers {
			continue
		}
		inliers := make([]D, len(free))
		for k, i := range free {
			claimed[i] = true
			inliers[k] = data[i]
		}
		results.Models = append(results.Models, ModelResult[D, F]{Fit: c.fit, Inliers: inliers})
	}
	for i, d := range data {
		if !claimed[i] {
			results.Outliers = append(results.Outliers, d)
		}
	}
	if len(results.Models) == 0 {
		return emptyResults[D, F](data)
	}
	return results
}

// histogramPeaks returns the bins that are local maxima with at least
// minProminence height above the deepest neighbouring valley on their
// shallower side.
func histogramPeaks(counts []int, minProminence int) []int {
	var peaks []int
	for i := range counts {
		if counts[i] == 0 {
			continue
		}
		left := 0
		if i > 0 {
			left = counts[i-1]
		}
		right := 0
		if i < len(counts)-1 {
			right = counts[i+1]
		}
		if counts[i] < left || counts[i] < right {
			continue
		}
		// Prominence against the higher of the two neighbouring
		// valleys.
		valley := valleyDepth(counts, i, -1)
		if v := valleyDepth(counts, i, 1); v > valley {
			valley = v
		}
		if counts[i]-valley >= minProminence {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// valleyDepth walks from a peak in the given direction until counts
// stop decreasing and returns the lowest count seen. Outside the
// histogram the count is zero, so edge peaks are fully prominent on
// that side.
func valleyDepth(counts []int, peak, dir int) int {
	if i := peak + dir; i < 0 || i >= len(counts) {
		return 0
	}
	lowest := counts[peak]
	for i := peak + dir; i >= 0 && i < len(counts); i += dir {
		if counts[i] > lowest {
			break
		}
		lowest = counts[i]
	}
	return lowest
}

// peakExtent returns the contiguous bin range [lo, hi] around a peak,
// expanding outward while counts keep falling.
func peakExtent(counts []int, peak int) (lo, hi int) {
	lo, hi = peak, peak
	for lo > 0 && counts[lo-1] <= counts[lo] && counts[lo-1] > 0 {
		lo--
	}
	for hi < len(counts)-1 && counts[hi+1] <= counts[hi] && counts[hi+1] > 0 {
		hi++
	}
	return lo, hi
}
