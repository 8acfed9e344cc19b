package traveltime

// Record holds the fastest predicted travel time of each use and avoid phase
// for one (event, receiver) pair. Duplicate arrivals of the same phase name
// (triplication) are deliberately reduced to the fastest one; callers needing
// every arrival must work from the raw arrival list instead, which is what
// window phase-tagging does.
type Record struct {
	EventID    string
	Station    string
	Network    string
	UseTimes   map[string]float64
	AvoidTimes map[string]float64
}

// NewRecord builds a Record from raw arrivals, keeping the fastest arrival
// per phase name in each category.
func NewRecord(eventID, station, network string, use, avoid []Arrival) Record {
	return Record{
		EventID:    eventID,
		Station:    station,
		Network:    network,
		UseTimes:   fastestPerPhase(use),
		AvoidTimes: fastestPerPhase(avoid),
	}
}

func fastestPerPhase(arrivals []Arrival) map[string]float64 {
	times := make(map[string]float64, len(arrivals))
	for _, a := range arrivals {
		if t, ok := times[a.Phase]; !ok || a.Time < t {
			times[a.Phase] = a.Time
		}
	}
	return times
}
