// Package config loads detection tuning overrides from JSON. All
// fields are pointers so a file only has to name the values it wants
// to change; everything else keeps the built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/banshee-data/horizon.report/internal/vanish"
)

// Tuning overrides the vanishing point detection defaults. The JSON
// schema matches the options recorded with each benchmark run, so a
// past run can be replayed from its recorded options blob.
type Tuning struct {
	Mode            *string  `json:"mode,omitempty"`
	SampleSize      *int     `json:"sample_size,omitempty"`
	InlierThreshold *float64 `json:"inlier_threshold,omitempty"`
	MinInliers      *int     `json:"min_inliers,omitempty"`
	OutlierRate     *float64 `json:"outlier_rate,omitempty"`
	SuccessRate     *float64 `json:"success_rate,omitempty"`
	MaxIterations   *int     `json:"max_iterations,omitempty"`
	Seed            *int64   `json:"seed,omitempty"`

	// X-RANSAC histogram params, ignored in j-linkage mode.
	HistogramBins  *int `json:"histogram_bins,omitempty"`
	MinProminence  *int `json:"min_prominence,omitempty"`
	MinPeakSamples *int `json:"min_peak_samples,omitempty"`
}

// Load reads a tuning file. A missing file is an error; callers that
// treat the file as optional should check for it first.
func Load(path string) (*Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read tuning file: %w", err)
	}
	var t Tuning
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("config: parse tuning file %s: %w", path, err)
	}
	return &t, nil
}

// Apply overlays the non-nil overrides onto opts and validates the
// result. A nil receiver applies nothing.
func (t *Tuning) Apply(opts vanish.Options) (vanish.Options, error) {
	if t == nil {
		return opts, nil
	}
	if t.Mode != nil {
		switch *t.Mode {
		case "j-linkage", "jlinkage":
			opts.Mode = vanish.ModeJLinkage
		case "x-ransac", "xransac":
			opts.Mode = vanish.ModeXRANSAC
		default:
			return opts, fmt.Errorf("config: unknown mode %q", *t.Mode)
		}
	}
	if t.SampleSize != nil {
		opts.SampleSize = *t.SampleSize
	}
	if t.InlierThreshold != nil {
		opts.InlierThreshold = *t.InlierThreshold
	}
	if t.MinInliers != nil {
		opts.MinInliers = *t.MinInliers
	}
	if t.OutlierRate != nil {
		opts.OutlierRate = *t.OutlierRate
	}
	if t.SuccessRate != nil {
		opts.SuccessRate = *t.SuccessRate
	}
	if t.MaxIterations != nil {
		opts.MaxIterations = *t.MaxIterations
	}
	if t.Seed != nil {
		opts.Seed = *t.Seed
	}
	if t.HistogramBins != nil {
		opts.X.HistogramBins = *t.HistogramBins
	}
	if t.MinProminence != nil {
		opts.X.MinProminence = *t.MinProminence
	}
	if t.MinPeakSamples != nil {
		opts.X.MinPeakSamples = *t.MinPeakSamples
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("config: tuning produced invalid options: %w", err)
	}
	return opts, nil
}
