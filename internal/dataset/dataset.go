// Package dataset loads the JSON description of a selection run: the event
// catalog, receiver inventory and the (event, receiver, component) records to
// process.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/timewindow"
)

// Event is one seismic source: catalog identity and hypocenter.
type Event struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DepthKm   float64 `json:"depth_km"`
}

// Receiver is one sensor location.
type Receiver struct {
	Station   string  `json:"station"`
	Network   string  `json:"network"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Record is one (event, receiver, component) unit of work. SampleInterval
// and TraceEnd come from the waveform metadata; zero values disable grid
// snapping and the trace-bound check respectively.
type Record struct {
	EventID        string  `json:"event"`
	Station        string  `json:"station"`
	Network        string  `json:"network"`
	Component      string  `json:"component"`
	SampleInterval float64 `json:"sample_interval,omitempty"`
	TraceEnd       float64 `json:"trace_end,omitempty"`
}

// Dataset is the full run input. Records reference events and receivers by
// identity; references are validated at load time.
type Dataset struct {
	Events    []Event    `json:"events"`
	Receivers []Receiver `json:"receivers"`
	Records   []Record   `json:"records"`
}

// Load reads and validates a dataset JSON file.
func Load(path string) (*Dataset, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("dataset file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset JSON: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &ds, nil
}

// Validate checks that every record references a known event and receiver
// and carries a parseable component.
func (ds *Dataset) Validate() error {
	if len(ds.Events) == 0 {
		return fmt.Errorf("event catalog is empty")
	}
	if len(ds.Receivers) == 0 {
		return fmt.Errorf("receiver inventory is empty")
	}

	events := make(map[string]struct{}, len(ds.Events))
	for _, ev := range ds.Events {
		if ev.ID == "" {
			return fmt.Errorf("event with empty identity")
		}
		if _, dup := events[ev.ID]; dup {
			return fmt.Errorf("duplicate event %q", ev.ID)
		}
		events[ev.ID] = struct{}{}
	}

	receivers := make(map[string]struct{}, len(ds.Receivers))
	for _, r := range ds.Receivers {
		if r.Station == "" || r.Network == "" {
			return fmt.Errorf("receiver with empty station or network")
		}
		key := r.Station + "_" + r.Network
		if _, dup := receivers[key]; dup {
			return fmt.Errorf("duplicate receiver %s", key)
		}
		receivers[key] = struct{}{}
	}

	for i, rec := range ds.Records {
		if _, ok := events[rec.EventID]; !ok {
			return fmt.Errorf("record %d references unknown event %q", i, rec.EventID)
		}
		if _, ok := receivers[rec.Station+"_"+rec.Network]; !ok {
			return fmt.Errorf("record %d references unknown receiver %s_%s", i, rec.Station, rec.Network)
		}
		if _, err := timewindow.ParseComponent(rec.Component); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if rec.SampleInterval < 0 || rec.TraceEnd < 0 {
			return fmt.Errorf("record %d has negative waveform metadata", i)
		}
	}
	return nil
}

// EventByID returns the event with the given identity.
func (ds *Dataset) EventByID(id string) (Event, bool) {
	for _, ev := range ds.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// ReceiverByID returns the receiver with the given station and network.
func (ds *Dataset) ReceiverByID(station, network string) (Receiver, bool) {
	for _, r := range ds.Receivers {
		if r.Station == station && r.Network == network {
			return r, true
		}
	}
	return Receiver{}, false
}

// RecordsByEvent groups the records of each event, preserving input order
// within a group.
func (ds *Dataset) RecordsByEvent() map[string][]Record {
	out := make(map[string][]Record)
	for _, rec := range ds.Records {
		out[rec.EventID] = append(out[rec.EventID], rec)
	}
	return out
}

// EpicentralDistance returns the great-circle distance in degrees between a
// hypocenter and a receiver, by the spherical law of cosines.
func EpicentralDistance(ev Event, r Receiver) float64 {
	lat1 := ev.Latitude * math.Pi / 180
	lat2 := r.Latitude * math.Pi / 180
	dLon := (r.Longitude - ev.Longitude) * math.Pi / 180

	cosD := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)
	// Clamp against floating noise before acos.
	cosD = math.Max(-1, math.Min(1, cosD))
	return math.Acos(cosD) * 180 / math.Pi
}
