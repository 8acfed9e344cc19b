package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDataset() Dataset {
	return Dataset{
		Events: []Event{
			{ID: "200707211534A", Latitude: -8.1, Longitude: -71.3, DepthKm: 632},
		},
		Receivers: []Receiver{
			{Station: "ABC", Network: "II", Latitude: 35.7, Longitude: 139.7},
		},
		Records: []Record{
			{EventID: "200707211534A", Station: "ABC", Network: "II", Component: "T",
				SampleInterval: 0.05, TraceEnd: 3276.8},
		},
	}
}

func writeDataset(t *testing.T, ds Dataset) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	data, err := json.Marshal(ds)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("valid dataset loads", func(t *testing.T) {
		t.Parallel()
		ds, err := Load(writeDataset(t, validDataset()))
		require.NoError(t, err)
		assert.Len(t, ds.Records, 1)
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		_, err := Load("dataset.yaml")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Dataset)
	}{
		{"empty event catalog", func(ds *Dataset) { ds.Events = nil }},
		{"empty receiver inventory", func(ds *Dataset) { ds.Receivers = nil }},
		{"unknown event reference", func(ds *Dataset) { ds.Records[0].EventID = "nope" }},
		{"unknown receiver reference", func(ds *Dataset) { ds.Records[0].Station = "ZZZ" }},
		{"bad component", func(ds *Dataset) { ds.Records[0].Component = "Q" }},
		{"negative sample interval", func(ds *Dataset) { ds.Records[0].SampleInterval = -1 }},
		{"duplicate event", func(ds *Dataset) { ds.Events = append(ds.Events, ds.Events[0]) }},
		{"duplicate receiver", func(ds *Dataset) { ds.Receivers = append(ds.Receivers, ds.Receivers[0]) }},
		{"empty event id", func(ds *Dataset) { ds.Events[0].ID = "" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ds := validDataset()
			tt.mutate(&ds)
			assert.Error(t, ds.Validate())
		})
	}

	t.Run("valid dataset passes", func(t *testing.T) {
		t.Parallel()
		ds := validDataset()
		assert.NoError(t, ds.Validate())
	})
}

func TestLookups(t *testing.T) {
	t.Parallel()

	ds := validDataset()

	ev, ok := ds.EventByID("200707211534A")
	require.True(t, ok)
	assert.Equal(t, 632.0, ev.DepthKm)

	_, ok = ds.EventByID("nope")
	assert.False(t, ok)

	r, ok := ds.ReceiverByID("ABC", "II")
	require.True(t, ok)
	assert.Equal(t, 35.7, r.Latitude)

	_, ok = ds.ReceiverByID("ABC", "XX")
	assert.False(t, ok)

	groups := ds.RecordsByEvent()
	require.Len(t, groups, 1)
	assert.Len(t, groups["200707211534A"], 1)
}

func TestEpicentralDistance(t *testing.T) {
	t.Parallel()

	t.Run("zero distance to itself", func(t *testing.T) {
		t.Parallel()
		d := EpicentralDistance(
			Event{Latitude: 10, Longitude: 20},
			Receiver{Latitude: 10, Longitude: 20},
		)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("antipodes are 180 degrees apart", func(t *testing.T) {
		t.Parallel()
		d := EpicentralDistance(
			Event{Latitude: 0, Longitude: 0},
			Receiver{Latitude: 0, Longitude: 180},
		)
		assert.InDelta(t, 180, d, 1e-9)
	})

	t.Run("quarter turn along the equator", func(t *testing.T) {
		t.Parallel()
		d := EpicentralDistance(
			Event{Latitude: 0, Longitude: 0},
			Receiver{Latitude: 0, Longitude: 90},
		)
		assert.InDelta(t, 90, d, 1e-9)
	})

	t.Run("pole to equator", func(t *testing.T) {
		t.Parallel()
		d := EpicentralDistance(
			Event{Latitude: 90, Longitude: 45},
			Receiver{Latitude: 0, Longitude: -120},
		)
		assert.InDelta(t, 90, d, 1e-9)
	})
}
