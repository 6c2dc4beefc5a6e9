// Package report renders benchmark results as HTML charts and PNG
// histograms.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/horizon.report/internal/store"
)

// Summary aggregates the per-image scores of one run.
type Summary struct {
	Images            int
	HorizonScored     int     // images where both horizons were detected
	MeanHorizonError  float64 // over scored images
	MeanLocationError float64
	MeanAbsCountError float64
	TotalDetectedVPs  int
}

// Summarize computes aggregate statistics for a set of image scores.
func Summarize(scores []*store.ImageScore) Summary {
	var s Summary
	s.Images = len(scores)
	var horizonSum, locationSum, countSum float64
	for _, sc := range scores {
		if sc.HorizonError != nil {
			horizonSum += *sc.HorizonError
			s.HorizonScored++
		}
		locationSum += sc.LocationError
		countSum += math.Abs(float64(sc.ModelCountError))
		s.TotalDetectedVPs += sc.DetectedVPs
	}
	if s.HorizonScored > 0 {
		s.MeanHorizonError = horizonSum / float64(s.HorizonScored)
	}
	if s.Images > 0 {
		s.MeanLocationError = locationSum / float64(s.Images)
		s.MeanAbsCountError = countSum / float64(s.Images)
	}
	return s
}

// WriteHTML renders a benchmark run as a standalone HTML page with one
// bar chart per metric.
func WriteHTML(path string, run *store.Run, scores []*store.ImageScore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}

	summary := Summarize(scores)
	subtitle := fmt.Sprintf(
		"run=%s corpus=%s mode=%s images=%d created=%s",
		run.RunID, run.Corpus, run.Mode, summary.Images,
		time.Unix(0, run.CreatedAt).UTC().Format(time.RFC3339),
	)

	labels := make([]string, 0, len(scores))
	horizonBars := make([]opts.BarData, 0, len(scores))
	locationBars := make([]opts.BarData, 0, len(scores))
	countBars := make([]opts.BarData, 0, len(scores))
	for _, sc := range scores {
		labels = append(labels, filepath.Base(sc.ImagePath))
		if sc.HorizonError != nil {
			horizonBars = append(horizonBars, opts.BarData{Value: *sc.HorizonError})
		} else {
			horizonBars = append(horizonBars, opts.BarData{Value: nil})
		}
		locationBars = append(locationBars, opts.BarData{Value: sc.LocationError})
		countBars = append(countBars, opts.BarData{Value: sc.ModelCountError})
	}

	horizonChart := charts.NewBar()
	horizonChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Horizon Error (height-normalised)",
			Subtitle: fmt.Sprintf("%s | mean=%.4f over %d scored", subtitle, summary.MeanHorizonError, summary.HorizonScored),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	horizonChart.SetXAxis(labels).AddSeries("horizon", horizonBars)

	locationChart := charts.NewBar()
	locationChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Location Accuracy Error (mean log distance)",
			Subtitle: fmt.Sprintf("mean=%.4f", summary.MeanLocationError),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	locationChart.SetXAxis(labels).AddSeries("location", locationBars)

	countChart := charts.NewBar()
	countChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Model Count Error (detected minus truth)",
			Subtitle: fmt.Sprintf("mean abs=%.2f detected total=%d", summary.MeanAbsCountError, summary.TotalDetectedVPs),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	countChart.SetXAxis(labels).AddSeries("count", countBars,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	page := components.NewPage()
	page.PageTitle = "Vanishing Point Benchmark"
	page.AddCharts(horizonChart, locationChart, countChart)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("report: render page: %w", err)
	}
	return nil
}
