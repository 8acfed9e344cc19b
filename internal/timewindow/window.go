// Package timewindow constructs analysis time windows from predicted phase
// arrivals and serializes window collections to the fixed-width binary .twd
// format consumed by downstream inversion tooling.
package timewindow

import (
	"fmt"
	"sort"
	"sync"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/interval"
)

// Component is one axis of ground-motion measurement. The numeric values are
// wire codes baked into the .twd format.
type Component uint8

const (
	ComponentZ Component = 1 // vertical
	ComponentR Component = 2 // radial
	ComponentT Component = 3 // transverse
)

// ParseComponent parses a single-letter component name.
func ParseComponent(s string) (Component, error) {
	switch s {
	case "Z":
		return ComponentZ, nil
	case "R":
		return ComponentR, nil
	case "T":
		return ComponentT, nil
	}
	return 0, fmt.Errorf("unknown component %q", s)
}

func (c Component) String() string {
	switch c {
	case ComponentZ:
		return "Z"
	case ComponentR:
		return "R"
	case ComponentT:
		return "T"
	}
	return fmt.Sprintf("Component(%d)", uint8(c))
}

// Receiver identifies a sensor location: station and network name plus
// geographic position. Identity is station+network; the position rides along
// for the file header.
type Receiver struct {
	Station   string
	Network   string
	Latitude  float64
	Longitude float64
}

// ID returns the station_network identity string used in logs and reports.
func (r Receiver) ID() string {
	return r.Station + "_" + r.Network
}

// TimeWindow is one accepted analysis window: a time interval on a specific
// (event, receiver, component) record, tagged with the use phases whose
// predicted arrival falls inside it. Immutable once built.
type TimeWindow struct {
	interval.Interval
	Receiver  Receiver
	EventID   string
	Component Component
	Phases    []string // sorted, deduplicated; informational, not identity
}

// Key identifies a window for dedup purposes: receiver, event, component and
// the rounded bounds. The phase set is deliberately excluded so duplicate
// windows from different processing paths collapse.
type Key struct {
	Station   string
	Network   string
	EventID   string
	Component Component
	Start     float64
	End       float64
}

// Key returns the identity key of the window.
func (w TimeWindow) Key() Key {
	return Key{
		Station:   w.Receiver.Station,
		Network:   w.Receiver.Network,
		EventID:   w.EventID,
		Component: w.Component,
		Start:     w.Start,
		End:       w.End,
	}
}

// RecordID returns the human-readable record identity used in the
// invalid-record log.
func (w TimeWindow) RecordID() string {
	return fmt.Sprintf("%s %s %s", w.EventID, w.Receiver.ID(), w.Component)
}

func normalizePhases(phases []string) []string {
	if len(phases) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(phases))
	out := make([]string, 0, len(phases))
	for _, p := range phases {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Set is a thread-safe window collection keyed by window identity. Duplicate
// windows merge their phase sets rather than producing two entries.
type Set struct {
	mu sync.Mutex
	m  map[Key]TimeWindow
}

// NewSet returns an empty window set.
func NewSet() *Set {
	return &Set{m: make(map[Key]TimeWindow)}
}

// Add inserts the window, merging phase tags when an identical window is
// already present.
func (s *Set) Add(w TimeWindow) {
	w.Phases = normalizePhases(w.Phases)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := w.Key()
	if existing, ok := s.m[key]; ok {
		existing.Phases = normalizePhases(append(existing.Phases, w.Phases...))
		s.m[key] = existing
		return
	}
	s.m[key] = w
}

// Len returns the number of distinct windows.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Windows returns the collection sorted by event, receiver, component and
// start time, for deterministic output.
func (s *Set) Windows() []TimeWindow {
	s.mu.Lock()
	out := make([]TimeWindow, 0, len(s.m))
	for _, w := range s.m {
		out = append(out, w)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		if a.Receiver.Station != b.Receiver.Station {
			return a.Receiver.Station < b.Receiver.Station
		}
		if a.Receiver.Network != b.Receiver.Network {
			return a.Receiver.Network < b.Receiver.Network
		}
		if a.Component != b.Component {
			return a.Component < b.Component
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
	return out
}
