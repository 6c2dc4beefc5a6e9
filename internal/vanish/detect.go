package vanish

import (
	"fmt"

	"github.com/banshee-data/horizon.report/internal/consensus"
	"github.com/banshee-data/horizon.report/internal/geom"
)

// Mode selects the consensus strategy used to group lines into
// vanishing points.
type Mode int

const (
	// ModeJLinkage groups lines by agglomerative clustering of
	// per-line preference sets. This is the default.
	ModeJLinkage Mode = iota
	// ModeXRANSAC additionally mines the residual histogram of each
	// sampling round for several models at once.
	ModeXRANSAC
)

func (m Mode) String() string {
	switch m {
	case ModeJLinkage:
		return "j-linkage"
	case ModeXRANSAC:
		return "x-ransac"
	default:
		return "unknown"
	}
}

// Options configures vanishing point detection.
type Options struct {
	Mode Mode
	// SampleSize is the number of lines per random hypothesis. A VP
	// candidate needs two lines.
	SampleSize int
	// InlierThreshold is the maximum midpoint residual, in pixels,
	// for a line to support a vanishing point.
	InlierThreshold float64
	// MinInliers is the smallest line group accepted as a VP.
	MinInliers int
	// OutlierRate is the assumed fraction of lines not belonging to
	// any vanishing point, used to budget iterations.
	OutlierRate float64
	// SuccessRate is the desired probability of sampling at least one
	// all-inlier hypothesis.
	SuccessRate float64
	// MaxIterations caps the closed-form iteration estimate.
	MaxIterations int
	// Seed makes detection reproducible.
	Seed int64
	// X configures the residual histogram in ModeXRANSAC and is
	// ignored otherwise.
	X consensus.XParams
}

// DefaultOptions returns the detection defaults.
func DefaultOptions() Options {
	return Options{
		Mode:            ModeJLinkage,
		SampleSize:      2,
		InlierThreshold: 3,
		MinInliers:      4,
		OutlierRate:     0.73,
		SuccessRate:     0.999,
		MaxIterations:   10000,
		Seed:            0,
		X:               consensus.DefaultXParams(),
	}
}

// Validate reports the first invalid field, if any.
func (o Options) Validate() error {
	if o.OutlierRate < 0 || o.OutlierRate >= 1 {
		return fmt.Errorf("vanish: OutlierRate must be in [0, 1), got %g", o.OutlierRate)
	}
	if o.SuccessRate <= 0 || o.SuccessRate >= 1 {
		return fmt.Errorf("vanish: SuccessRate must be in (0, 1), got %g", o.SuccessRate)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("vanish: MaxIterations must be at least 1, got %d", o.MaxIterations)
	}
	return nil
}

// FindVanishingPoints groups lines into vanishing points using the
// configured consensus mode.
//
// The returned map assigns each detected VP its inlier lines; each
// line belongs to at most one VP. The slice holds the lines rejected
// by every model. A run finding zero models returns an empty map and
// the full input as outliers; that is the canonical total-failure
// result, not an error.
func FindVanishingPoints(lines []geom.Segment, opts Options) (map[geom.Point][]geom.Segment, []geom.Segment, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	for i, l := range lines {
		if l.Length() == 0 {
			return nil, nil, fmt.Errorf("vanish: line %d is zero-length: %w", i, geom.ErrZeroLength)
		}
	}

	params := consensus.Params{
		SampleSize:      opts.SampleSize,
		InlierThreshold: opts.InlierThreshold,
		MinInliers:      opts.MinInliers,
		Seed:            opts.Seed,
	}

	var results *consensus.Results[geom.Segment, geom.Point]
	switch opts.Mode {
	case ModeJLinkage:
		params.Iterations = capIterations(
			consensus.RANSACIterations(opts.SampleSize, opts.OutlierRate, opts.SuccessRate),
			opts.MaxIterations)
		engine, err := consensus.NewJLinkage[geom.Segment, geom.Point](SegmentVPModel{}, params)
		if err != nil {
			return nil, nil, err
		}
		results, err = engine.Run(lines)
		if err != nil {
			return nil, nil, err
		}
	case ModeXRANSAC:
		params.Iterations = capIterations(
			consensus.XRANSACIterations(opts.SampleSize, opts.OutlierRate, opts.SuccessRate, opts.X.MinPeakSamples),
			opts.MaxIterations)
		engine, err := consensus.NewXRANSAC[geom.Segment, geom.Point](SegmentVPModel{}, params, opts.X)
		if err != nil {
			return nil, nil, err
		}
		results, err = engine.Run(lines)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("vanish: unknown mode %d", opts.Mode)
	}

	vpToLines := make(map[geom.Point][]geom.Segment, len(results.Models))
	for _, m := range results.Models {
		vpToLines[m.Fit] = m.Inliers
	}
	return vpToLines, results.Outliers, nil
}

func capIterations(estimate, cap int) int {
	if estimate > cap {
		return cap
	}
	return estimate
}
