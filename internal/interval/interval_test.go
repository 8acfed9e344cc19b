package interval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rounds bounds to two decimals", func(t *testing.T) {
		t.Parallel()
		iv, err := New(479.996, 560.004)
		require.NoError(t, err)
		assert.Equal(t, 480.0, iv.Start)
		assert.Equal(t, 560.0, iv.End)
	})

	t.Run("rounding is idempotent", func(t *testing.T) {
		t.Parallel()
		inputs := [][2]float64{
			{0.005, 0.015},
			{-123.456789, 98.7654321},
			{500, 500},
			{1e9 + 0.004, 1e9 + 0.006},
		}
		for _, in := range inputs {
			once, err := New(in[0], in[1])
			require.NoError(t, err)
			twice, err := New(once.Start, once.End)
			require.NoError(t, err)
			assert.Equal(t, once, twice, "rounding [%f, %f] twice changed bounds", in[0], in[1])
		}
	})

	t.Run("zero-length interval is valid", func(t *testing.T) {
		t.Parallel()
		iv, err := New(42.0, 42.0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, iv.Length())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		t.Parallel()
		_, err := New(10.0, 9.0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInterval))
	})

	t.Run("bounds that round into order are accepted", func(t *testing.T) {
		t.Parallel()
		// 10.001 and 10.0009 both round to 10.00.
		iv, err := New(10.001, 10.0009)
		require.NoError(t, err)
		assert.Equal(t, Interval{Start: 10.0, End: 10.0}, iv)
	})
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", MustNew(0, 1), MustNew(2, 3), false},
		{"touching endpoints count", MustNew(0, 1), MustNew(1, 2), true},
		{"partial overlap", MustNew(0, 5), MustNew(3, 8), true},
		{"containment", MustNew(0, 10), MustNew(2, 3), true},
		{"identical", MustNew(4, 6), MustNew(4, 6), true},
		{"point inside", MustNew(5, 5), MustNew(0, 10), true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "Overlaps must be symmetric")
		})
	}
}

func TestMergeAndShift(t *testing.T) {
	t.Parallel()

	t.Run("merge spans both intervals", func(t *testing.T) {
		t.Parallel()
		got := MustNew(3, 8).Merge(MustNew(0, 5))
		assert.Equal(t, MustNew(0, 8), got)
	})

	t.Run("shift translates both bounds", func(t *testing.T) {
		t.Parallel()
		got := MustNew(480, 560).Shift(-20)
		assert.Equal(t, MustNew(460, 540), got)
	})

	t.Run("contains is closed on both ends", func(t *testing.T) {
		t.Parallel()
		iv := MustNew(480, 560)
		assert.True(t, iv.Contains(480))
		assert.True(t, iv.Contains(560))
		assert.True(t, iv.Contains(500))
		assert.False(t, iv.Contains(479.99))
		assert.False(t, iv.Contains(560.01))
	})
}

func TestString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[480.00, 560.00]", MustNew(480, 560).String())
}
