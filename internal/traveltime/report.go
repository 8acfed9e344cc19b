package traveltime

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// placeholder marks a phase with no arrival at a record's distance.
const placeholder = "-"

// WriteReport writes the travel-time report: one header line per phase
// category, then one padded row per record with the fastest travel time of
// each phase, or a placeholder when the phase did not arrive. Rows are sorted
// by event then station for reproducible output.
func WriteReport(w io.Writer, usePhases, avoidPhases []string, records []Record) error {
	if _, err := fmt.Fprintf(w, "# use phases: %s\n", strings.Join(usePhases, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# avoid phases: %s\n", strings.Join(avoidPhases, " ")); err != nil {
		return err
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].EventID != sorted[j].EventID {
			return sorted[i].EventID < sorted[j].EventID
		}
		if sorted[i].Station != sorted[j].Station {
			return sorted[i].Station < sorted[j].Station
		}
		return sorted[i].Network < sorted[j].Network
	})

	for _, rec := range sorted {
		if _, err := fmt.Fprintf(w, "%-16s %-8s %-8s", rec.EventID, rec.Station, rec.Network); err != nil {
			return err
		}
		for _, phase := range usePhases {
			if err := writeTime(w, rec.UseTimes, phase); err != nil {
				return err
			}
		}
		for _, phase := range avoidPhases {
			if err := writeTime(w, rec.AvoidTimes, phase); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeTime(w io.Writer, times map[string]float64, phase string) error {
	if t, ok := times[phase]; ok {
		_, err := fmt.Fprintf(w, " %10.2f", t)
		return err
	}
	_, err := fmt.Fprintf(w, " %10s", placeholder)
	return err
}
