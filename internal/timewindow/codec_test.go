package timewindow

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/interval"
)

func sampleWindows() []TimeWindow {
	recv1 := Receiver{Station: "ABC", Network: "II", Latitude: 35.7, Longitude: 139.7}
	recv2 := Receiver{Station: "XYZ", Network: "IU", Latitude: -12.05, Longitude: -77.05}
	return []TimeWindow{
		{
			Interval:  interval.MustNew(480, 560),
			Receiver:  recv1,
			EventID:   "200707211534A",
			Component: ComponentT,
			Phases:    []string{"S"},
		},
		{
			Interval:  interval.MustNew(880, 960),
			Receiver:  recv1,
			EventID:   "200707211534A",
			Component: ComponentZ,
			Phases:    []string{"S", "ScS"},
		},
		{
			Interval:  interval.MustNew(1203.25, 1310.5),
			Receiver:  recv2,
			EventID:   "201001010000A",
			Component: ComponentR,
			Phases:    []string{"ScS"},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	windows := sampleWindows()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, windows))

	decoded, err := Decode(&buf)
	require.NoError(t, err)

	want := sortedWindows(windows)
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	windows := sampleWindows()
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, windows))

	// Same collection in reverse order encodes to identical bytes.
	reversed := []TimeWindow{windows[2], windows[1], windows[0]}
	require.NoError(t, Encode(&b, reversed))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestEncodeEmptyCollection(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Encode(&buf, nil)
	assert.True(t, errors.Is(err, ErrEmptyCollection))
	assert.Zero(t, buf.Len(), "no partial output on failure")
}

func TestEncodeOversizedIdentities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*TimeWindow)
	}{
		{"station too long", func(w *TimeWindow) { w.Receiver.Station = "STATIONNAME" }},
		{"event too long", func(w *TimeWindow) { w.EventID = "0123456789ABCDEF" }},
		{"phase too long", func(w *TimeWindow) { w.Phases = []string{"SKKKKKKKKKKKKKKKS"} }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			windows := sampleWindows()
			tt.mutate(&windows[0])
			var buf bytes.Buffer
			assert.Error(t, Encode(&buf, windows))
		})
	}
}

func TestDecodeCorruptTrailingBytes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleWindows()))

	// Chop one byte off the last record.
	data := buf.Bytes()[:buf.Len()-1]
	_, err := Decode(bytes.NewReader(data))
	assert.True(t, errors.Is(err, ErrCorruptFile))
}

func TestDecodeTruncatedHeader(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytes.NewReader([]byte{0x00, 0x01}))
	assert.True(t, errors.Is(err, ErrCorruptFile))
}

func TestDecodeDuplicateRecordsCollapse(t *testing.T) {
	t.Parallel()

	w := sampleWindows()[0]
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []TimeWindow{w, w, w}))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Len(t, decoded, 1)
}

func TestPhaseCapacityCeiling(t *testing.T) {
	t.Parallel()

	w := sampleWindows()[0]
	w.Phases = nil
	for i := 0; i < 14; i++ {
		w.Phases = append(w.Phases, fmt.Sprintf("P%02d", i))
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []TimeWindow{w}))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Len(t, decoded[0].Phases, MaxTaggedPhases, "tagging past the slot count truncates silently")
}

func TestWriteReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "windows.twd")
	windows := sampleWindows()
	require.NoError(t, WriteFile(path, windows))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, len(windows))
}
