package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

// RenderCoveragePage writes an HTML page visualising the selected windows:
// a scatter of start time against length (coloured by tagged phase count)
// and a bar chart of window counts per event.
func RenderCoveragePage(windows []timewindow.TimeWindow, w io.Writer) error {
	if len(windows) == 0 {
		return fmt.Errorf("no windows to plot")
	}

	page := components.NewPage()
	page.PageTitle = "Time Window Coverage"
	page.AddCharts(
		windowScatter(windows),
		eventBar(windows),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render coverage page: %w", err)
	}
	return nil
}

// WriteCoveragePage renders the coverage page to a file.
func WriteCoveragePage(windows []timewindow.TimeWindow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create coverage page: %w", err)
	}
	defer f.Close()
	return RenderCoveragePage(windows, f)
}

func windowScatter(windows []timewindow.TimeWindow) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(windows))
	maxPhases := 1.0
	for _, win := range windows {
		n := float64(len(win.Phases))
		if n > maxPhases {
			maxPhases = n
		}
		data = append(data, opts.ScatterData{
			Name:  fmt.Sprintf("%s %s %s", win.EventID, win.Receiver.ID(), win.Component),
			Value: []interface{}{win.Start, win.Length(), n},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Time Window Coverage", Width: "1100px", Height: "550px"}),
		charts.WithTitleOpts(opts.Title{Title: "Window Coverage", Subtitle: fmt.Sprintf("windows=%d", len(windows))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Start (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Length (s)", NameLocation: "middle", NameGap: 35}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxPhases),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("windows", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

func eventBar(windows []timewindow.TimeWindow) *charts.Bar {
	counts := make(map[string]int)
	for _, win := range windows {
		counts[win.EventID]++
	}

	events := make([]string, 0, len(counts))
	for id := range counts {
		events = append(events, id)
	}
	sort.Strings(events)

	y := make([]opts.BarData, len(events))
	for i, id := range events {
		y[i] = opts.BarData{Value: counts[id]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: "Windows per Event"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(events).
		AddSeries("windows", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}
