// Package report summarises a selection run: length statistics for the log
// summary, a window-length histogram PNG, and an HTML coverage page.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

// LengthStats describes the distribution of window lengths in seconds.
type LengthStats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Q1     float64
	Median float64
	Q3     float64
}

// ComputeLengthStats reduces the windows to their length distribution.
// A zero Count means there were no windows; the other fields are then zero.
func ComputeLengthStats(windows []timewindow.TimeWindow) LengthStats {
	if len(windows) == 0 {
		return LengthStats{}
	}

	lengths := make([]float64, len(windows))
	for i, w := range windows {
		lengths[i] = w.Length()
	}
	sort.Float64s(lengths)

	s := LengthStats{
		Count:  len(lengths),
		Mean:   stat.Mean(lengths, nil),
		Min:    lengths[0],
		Max:    lengths[len(lengths)-1],
		Q1:     stat.Quantile(0.25, stat.Empirical, lengths, nil),
		Median: stat.Quantile(0.5, stat.Empirical, lengths, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, lengths, nil),
	}
	if len(lengths) > 1 {
		s.StdDev = stat.StdDev(lengths, nil)
	}
	return s
}

// String renders the stats as a single log-friendly line.
func (s LengthStats) String() string {
	if s.Count == 0 {
		return "no windows"
	}
	return fmt.Sprintf("n=%d mean=%.2fs stddev=%.2fs min=%.2fs q1=%.2fs median=%.2fs q3=%.2fs max=%.2fs",
		s.Count, s.Mean, s.StdDev, s.Min, s.Q1, s.Median, s.Q3, s.Max)
}
