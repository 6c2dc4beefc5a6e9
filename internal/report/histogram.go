package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/horizon.report/internal/store"
)

// WriteHorizonHistogram saves a PNG histogram of the horizon errors of
// a run. Images where either horizon was undetected are skipped.
// Returns the number of values plotted.
func WriteHorizonHistogram(path string, scores []*store.ImageScore, bins int) (int, error) {
	if bins <= 0 {
		bins = 16
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("report: create output dir: %w", err)
	}

	values := make(plotter.Values, 0, len(scores))
	for _, sc := range scores {
		if sc.HorizonError != nil {
			values = append(values, *sc.HorizonError)
		}
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("report: no horizon errors to plot")
	}

	p := plot.New()
	p.Title.Text = "Horizon Error Distribution"
	p.X.Label.Text = "Error (fraction of image height)"
	p.Y.Label.Text = "Images"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return 0, fmt.Errorf("report: build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return 0, fmt.Errorf("report: save histogram: %w", err)
	}
	return len(values), nil
}
