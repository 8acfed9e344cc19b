// Package traveltime defines the travel-time engine contract consumed by the
// window selection pipeline, the per-record travel-time aggregate, and a
// table-driven engine implementation.
package traveltime

import "sort"

// Arrival is one predicted travel time for a named phase along a specific
// source-receiver path. A phase may arrive more than once (triplication), so
// callers must not assume phase names are unique within a batch.
type Arrival struct {
	Phase    string
	Time     float64 // seconds after origin time
	Distance float64 // path length in degrees; > 180 indicates a major-arc path
}

// MajorArc reports whether the arrival travelled the long way around.
func (a Arrival) MajorArc() bool {
	return a.Distance > 180
}

// Calculator computes predicted arrivals for a configured source. A
// Calculator instance is stateful and not safe for concurrent use: configure
// it once per event (depth and phase list) and reuse it across the receivers
// of that event from a single goroutine.
type Calculator interface {
	// SetSourceDepth configures the source depth in kilometres.
	SetSourceDepth(depthKm float64)

	// SetPhases configures the phase names to compute.
	SetPhases(phases []string)

	// Arrivals returns the predicted arrivals at the given epicentral
	// distance, ordered by travel time. A phase that does not exist at this
	// distance and depth simply produces no arrivals.
	Arrivals(distanceDeg float64) ([]Arrival, error)
}

// FirstPerPhase reduces a batch of arrivals to the earliest arrival of each
// phase name, preserving ascending time order in the result.
func FirstPerPhase(arrivals []Arrival) []Arrival {
	seen := make(map[string]struct{}, len(arrivals))
	out := make([]Arrival, 0, len(arrivals))
	sorted := make([]Arrival, len(arrivals))
	copy(sorted, arrivals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	for _, a := range sorted {
		if _, ok := seen[a.Phase]; ok {
			continue
		}
		seen[a.Phase] = struct{}{}
		out = append(out, a)
	}
	return out
}
