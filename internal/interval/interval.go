// Package interval provides the closed time-interval value type and the
// set algebra (coalesce, subtract) used for analysis window construction.
package interval

import (
	"errors"
	"fmt"
	"math"
)

// Precision is the number of decimal places interval bounds are rounded to
// at construction time. Two decimals absorb floating noise from upstream
// travel-time computation while preserving sub-second resolution, and make
// equality and map keys reproducible.
const Precision = 2

// ErrInvalidInterval is returned when an interval would end before it starts.
var ErrInvalidInterval = errors.New("interval end before start")

// Interval is an immutable closed interval [Start, End] in seconds.
// Both bounds are rounded to Precision decimal places; operations return
// new values rather than mutating.
type Interval struct {
	Start float64
	End   float64
}

// Round rounds x to Precision decimal places.
func Round(x float64) float64 {
	const scale = 100 // 10^Precision
	return math.Round(x*scale) / scale
}

// New constructs an interval with both bounds rounded to Precision decimal
// places. It returns ErrInvalidInterval when end < start after rounding.
func New(start, end float64) (Interval, error) {
	s, e := Round(start), Round(end)
	if e < s {
		return Interval{}, fmt.Errorf("%w: [%f, %f]", ErrInvalidInterval, s, e)
	}
	return Interval{Start: s, End: e}, nil
}

// MustNew is New for bounds known to be ordered. It panics on error and is
// intended for literals in tests and internal call sites that already hold
// the start <= end invariant.
func MustNew(start, end float64) Interval {
	iv, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// Length returns End - Start.
func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// Overlaps reports whether iv and other share at least one point.
// Closed-interval semantics: touching endpoints count as overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.End >= other.Start && iv.Start <= other.End
}

// Contains reports whether t lies within [Start, End].
func (iv Interval) Contains(t float64) bool {
	return iv.Start <= t && t <= iv.End
}

// Merge returns the span [min(starts), max(ends)]. Callers ensure the two
// intervals overlap when a union (rather than an unconditional span) is meant.
func (iv Interval) Merge(other Interval) Interval {
	return Interval{
		Start: math.Min(iv.Start, other.Start),
		End:   math.Max(iv.End, other.End),
	}
}

// Shift translates both bounds by delta.
func (iv Interval) Shift(delta float64) Interval {
	return Interval{Start: Round(iv.Start + delta), End: Round(iv.End + delta)}
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", iv.Start, iv.End)
}
