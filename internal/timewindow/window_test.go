package timewindow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/interval"
)

func TestParseComponent(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Component{"Z": ComponentZ, "R": ComponentR, "T": ComponentT} {
		c, err := ParseComponent(name)
		require.NoError(t, err)
		assert.Equal(t, want, c)
		assert.Equal(t, name, c.String())
	}

	_, err := ParseComponent("E")
	assert.Error(t, err)
}

func window(eventID string, start, end float64, phases ...string) TimeWindow {
	return TimeWindow{
		Interval:  interval.MustNew(start, end),
		Receiver:  testReceiver,
		EventID:   eventID,
		Component: ComponentT,
		Phases:    phases,
	}
}

func TestSetDeduplicates(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Add(window("200707211534A", 480, 560, "S"))
	s.Add(window("200707211534A", 480, 560, "ScS"))

	require.Equal(t, 1, s.Len())
	got := s.Windows()
	assert.Equal(t, []string{"S", "ScS"}, got[0].Phases, "duplicate windows merge phase sets")
}

func TestSetOrdering(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Add(window("B", 480, 560))
	s.Add(window("A", 700, 800))
	s.Add(window("A", 480, 560))

	got := s.Windows()
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].EventID)
	assert.Equal(t, 480.0, got[0].Start)
	assert.Equal(t, 700.0, got[1].Start)
	assert.Equal(t, "B", got[2].EventID)
}

func TestSetConcurrentAdd(t *testing.T) {
	t.Parallel()

	s := NewSet()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add(window("200707211534A", float64(j)*10, float64(j)*10+5, "S"))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, s.Len(), "identical windows from all goroutines collapse")
}
