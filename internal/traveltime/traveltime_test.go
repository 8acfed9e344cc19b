package traveltime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstPerPhase(t *testing.T) {
	t.Parallel()

	t.Run("keeps earliest arrival per phase", func(t *testing.T) {
		t.Parallel()
		in := []Arrival{
			{Phase: "S", Time: 812.4},
			{Phase: "S", Time: 805.1}, // triplicated, earlier
			{Phase: "ScS", Time: 951.0},
			{Phase: "S", Time: 820.9},
		}
		got := FirstPerPhase(in)
		require.Len(t, got, 2)
		assert.Equal(t, Arrival{Phase: "S", Time: 805.1}, got[0])
		assert.Equal(t, Arrival{Phase: "ScS", Time: 951.0}, got[1])
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FirstPerPhase(nil))
	})

	t.Run("does not mutate input order", func(t *testing.T) {
		t.Parallel()
		in := []Arrival{{Phase: "S", Time: 900}, {Phase: "S", Time: 800}}
		FirstPerPhase(in)
		assert.Equal(t, 900.0, in[0].Time)
	})
}

func TestMajorArc(t *testing.T) {
	t.Parallel()
	assert.False(t, Arrival{Distance: 95.5}.MajorArc())
	assert.True(t, Arrival{Distance: 264.5}.MajorArc())
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	use := []Arrival{
		{Phase: "S", Time: 812.4},
		{Phase: "S", Time: 805.1},
	}
	avoid := []Arrival{
		{Phase: "sS", Time: 880.0},
	}
	rec := NewRecord("200707211534A", "ABC", "II", use, avoid)

	assert.Equal(t, "200707211534A", rec.EventID)
	assert.Equal(t, map[string]float64{"S": 805.1}, rec.UseTimes, "fastest arrival wins")
	assert.Equal(t, map[string]float64{"sS": 880.0}, rec.AvoidTimes)
}

func TestReadTable(t *testing.T) {
	t.Parallel()

	const table = `phase,distance_deg,time_s
S,60,1010.5
S,70,1152.2
S,80,1288.1
ScS,60,1133.0
ScS,80,1298.4
`

	t.Run("interpolates between samples", func(t *testing.T) {
		t.Parallel()
		tc, err := ReadTable(strings.NewReader(table))
		require.NoError(t, err)

		tc.SetSourceDepth(100)
		tc.SetPhases([]string{"S", "ScS"})

		arr, err := tc.Arrivals(70)
		require.NoError(t, err)
		require.Len(t, arr, 2)
		// Sorted by time: S before ScS.
		assert.Equal(t, "S", arr[0].Phase)
		assert.InDelta(t, 1152.2, arr[0].Time, 1e-9)
		assert.Equal(t, "ScS", arr[1].Phase)
		assert.InDelta(t, (1133.0+1298.4)/2, arr[1].Time, 1e-9)
		assert.Equal(t, 70.0, arr[0].Distance)
	})

	t.Run("no arrival outside tabulated range", func(t *testing.T) {
		t.Parallel()
		tc, err := ReadTable(strings.NewReader(table))
		require.NoError(t, err)
		tc.SetPhases([]string{"S"})

		arr, err := tc.Arrivals(150)
		require.NoError(t, err)
		assert.Empty(t, arr)
	})

	t.Run("unknown phase produces no arrivals", func(t *testing.T) {
		t.Parallel()
		tc, err := ReadTable(strings.NewReader(table))
		require.NoError(t, err)
		tc.SetPhases([]string{"PKP"})

		arr, err := tc.Arrivals(70)
		require.NoError(t, err)
		assert.Empty(t, arr)
	})

	t.Run("arrivals before SetPhases is an error", func(t *testing.T) {
		t.Parallel()
		tc, err := ReadTable(strings.NewReader(table))
		require.NoError(t, err)
		_, err = tc.Arrivals(70)
		assert.Error(t, err)
	})

	t.Run("empty table is an error", func(t *testing.T) {
		t.Parallel()
		_, err := ReadTable(strings.NewReader(""))
		assert.Error(t, err)
	})

	t.Run("bad numeric field past header is an error", func(t *testing.T) {
		t.Parallel()
		_, err := ReadTable(strings.NewReader("S,60,1010.5\nS,abc,1100\n"))
		assert.Error(t, err)
	})
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	records := []Record{
		NewRecord("201001010000A", "XYZ", "IU",
			[]Arrival{{Phase: "S", Time: 900.123}},
			nil),
		NewRecord("200707211534A", "ABC", "II",
			[]Arrival{{Phase: "S", Time: 805.1}},
			[]Arrival{{Phase: "sS", Time: 880.0}}),
	}

	var sb strings.Builder
	err := WriteReport(&sb, []string{"S", "ScS"}, []string{"sS"}, records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "# use phases: S ScS", lines[0])
	assert.Equal(t, "# avoid phases: sS", lines[1])

	// Rows sorted by event ID; missing ScS shows the placeholder.
	assert.True(t, strings.HasPrefix(lines[2], "200707211534A"), "rows must be sorted by event")
	assert.Contains(t, lines[2], "805.10")
	assert.Contains(t, lines[2], "-")
	assert.Contains(t, lines[3], "900.12")
}
