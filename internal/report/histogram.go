package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

// defaultHistogramBins is used when the caller passes bins <= 0.
const defaultHistogramBins = 20

// WriteLengthHistogram saves a PNG histogram of window lengths to path.
func WriteLengthHistogram(windows []timewindow.TimeWindow, bins int, path string) error {
	if len(windows) == 0 {
		return fmt.Errorf("no windows to plot")
	}
	if bins <= 0 {
		bins = defaultHistogramBins
	}

	values := make(plotter.Values, len(windows))
	for i, w := range windows {
		values[i] = w.Length()
	}

	p := plot.New()
	p.Title.Text = "Window Lengths"
	p.X.Label.Text = "Length (s)"
	p.Y.Label.Text = "Windows"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram plot: %w", err)
	}
	return nil
}
