package traveltime

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/interp"
)

// phaseCurve is one phase's travel-time curve, interpolated linearly between
// tabulated (distance, time) samples.
type phaseCurve struct {
	minDist float64
	maxDist float64
	pl      interp.PiecewiseLinear
}

// TableCalculator answers travel-time queries from a precomputed table of
// (phase, distance, time) samples, one table per source depth. It satisfies
// the Calculator contract without doing any ray tracing of its own: outside a
// phase's tabulated distance range it reports no arrival, mirroring an engine
// that finds no ray path.
//
// Like any Calculator it is single-threaded; each worker owns its own copy.
type TableCalculator struct {
	curves map[string][]sample
	depth  float64
	phases []string

	// fitted caches, rebuilt lazily when phases change
	fitted map[string]phaseCurve
}

type sample struct {
	dist float64
	time float64
}

// LoadTable reads a travel-time table in CSV form with rows
// "phase,distance_deg,time_s" (a header row is skipped if present).
func LoadTable(path string) (*TableCalculator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open travel-time table: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable parses a travel-time table from r. See LoadTable for the format.
func ReadTable(r io.Reader) (*TableCalculator, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	tc := &TableCalculator{curves: make(map[string][]sample)}
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read travel-time table: %w", err)
		}
		line++
		dist, derr := strconv.ParseFloat(rec[1], 64)
		tt, terr := strconv.ParseFloat(rec[2], 64)
		if derr != nil || terr != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("travel-time table line %d: bad numeric fields %q,%q", line, rec[1], rec[2])
		}
		if rec[0] == "" {
			return nil, fmt.Errorf("travel-time table line %d: empty phase name", line)
		}
		tc.curves[rec[0]] = append(tc.curves[rec[0]], sample{dist: dist, time: tt})
	}
	if len(tc.curves) == 0 {
		return nil, fmt.Errorf("travel-time table contains no samples")
	}
	for _, samples := range tc.curves {
		sort.Slice(samples, func(i, j int) bool { return samples[i].dist < samples[j].dist })
	}
	return tc, nil
}

// SetSourceDepth records the source depth. The table is depth-specific, so
// this only labels the configuration; tables for other depths are separate
// files chosen by the caller.
func (tc *TableCalculator) SetSourceDepth(depthKm float64) {
	tc.depth = depthKm
}

// SetPhases configures which phases Arrivals computes and fits an
// interpolator for each phase present in the table.
func (tc *TableCalculator) SetPhases(phases []string) {
	tc.phases = append([]string(nil), phases...)
	tc.fitted = make(map[string]phaseCurve, len(phases))
	for _, name := range tc.phases {
		samples, ok := tc.curves[name]
		if !ok || len(samples) < 2 {
			continue
		}
		xs := make([]float64, len(samples))
		ys := make([]float64, len(samples))
		for i, s := range samples {
			xs[i] = s.dist
			ys[i] = s.time
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			// Duplicate abscissae in the table; skip the phase rather than
			// abort the run, matching the zero-arrivals contract.
			continue
		}
		tc.fitted[name] = phaseCurve{minDist: xs[0], maxDist: xs[len(xs)-1], pl: pl}
	}
}

// Arrivals returns one interpolated arrival per configured phase whose table
// covers distanceDeg, ordered by travel time.
func (tc *TableCalculator) Arrivals(distanceDeg float64) ([]Arrival, error) {
	if tc.fitted == nil {
		return nil, fmt.Errorf("travel-time table: SetPhases not called")
	}
	out := make([]Arrival, 0, len(tc.phases))
	for _, name := range tc.phases {
		curve, ok := tc.fitted[name]
		if !ok || distanceDeg < curve.minDist || distanceDeg > curve.maxDist {
			continue
		}
		out = append(out, Arrival{
			Phase:    name,
			Time:     curve.pl.Predict(distanceDeg),
			Distance: distanceDeg,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}
