package timewindow

import (
	"fmt"
	"math"
	"sort"

	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/interval"
	"github.com/UT-GlobalSeismology/Kibrary-sub009/internal/traveltime"
)

// Rejection reasons written to the invalid-record log. These are domain
// outcomes, not errors: a rejected record never aborts a run.
const (
	ReasonNoUsePhases    = "no use phases arrive"
	ReasonAvoidBetween   = "avoid phase arrives between use phases"
	ReasonNothingRemains = "nothing remains after exclusion"
	ReasonExceedsTrace   = "window exceeds available data"
)

// Params are the shift and policy knobs for window construction. Front
// shifts extend a window before an arrival, rear shifts after it.
type Params struct {
	FrontShift      float64
	RearShift       float64
	AvoidFrontShift float64
	AvoidRearShift  float64

	// MinLength drops any window shorter than this after exclusion.
	MinLength float64

	// AllowSplit builds one window per use arrival (coalesced) instead of a
	// single window spanning all use arrivals.
	AllowSplit bool

	// FirstArrivalOnly keeps only the earliest arrival of each use phase
	// (triplication handling). Avoid arrivals are always all kept.
	FirstArrivalOnly bool

	// AllowMajorArc keeps use arrivals whose path wraps the long way around.
	AllowMajorArc bool
}

// Record is one (event, receiver, component) processing unit with its
// predicted arrivals and the waveform metadata needed to bound windows.
type Record struct {
	EventID   string
	Receiver  Receiver
	Component Component

	// SampleInterval enables snapping window bounds to the sample grid when
	// positive. TraceEnd, when positive, discards windows that run past the
	// available data.
	SampleInterval float64
	TraceEnd       float64

	Use   []traveltime.Arrival
	Avoid []traveltime.Arrival
}

// ID returns the record identity string used in the invalid-record log.
func (r Record) ID() string {
	return fmt.Sprintf("%s %s %s", r.EventID, r.Receiver.ID(), r.Component)
}

// Rejection reports why a record produced no windows.
type Rejection struct {
	RecordID string
	Reason   string
}

// Builder constructs analysis windows record by record. A Builder is
// stateless apart from its Params and safe for concurrent use.
type Builder struct {
	params Params
}

// NewBuilder validates the construction parameters.
func NewBuilder(params Params) (*Builder, error) {
	if params.MinLength < 0 {
		return nil, fmt.Errorf("minimum window length must be non-negative, got %f", params.MinLength)
	}
	if params.FrontShift+params.RearShift <= 0 {
		return nil, fmt.Errorf("window shifts must span a positive length, got front=%f rear=%f",
			params.FrontShift, params.RearShift)
	}
	if params.AvoidFrontShift+params.AvoidRearShift < 0 {
		return nil, fmt.Errorf("avoid shifts must span a non-negative length, got front=%f rear=%f",
			params.AvoidFrontShift, params.AvoidRearShift)
	}
	return &Builder{params: params}, nil
}

// Build runs the per-record state machine: select arrivals, build and cut
// windows, snap to the sample grid, tag phases. A nil Rejection with an empty
// window slice cannot happen: zero windows always carries a Rejection, and
// rejections never carry windows. The returned error is reserved for
// malformed input (empty phase names), never for domain policy outcomes.
func (b *Builder) Build(rec Record) ([]TimeWindow, *Rejection, error) {
	if err := validateArrivals(rec.Use); err != nil {
		return nil, nil, err
	}
	if err := validateArrivals(rec.Avoid); err != nil {
		return nil, nil, err
	}

	usable := rec.Use
	if !b.params.AllowMajorArc {
		usable = minorArcOnly(usable)
	}
	if len(usable) == 0 {
		return nil, &Rejection{RecordID: rec.ID(), Reason: ReasonNoUsePhases}, nil
	}

	selected := usable
	if b.params.FirstArrivalOnly {
		selected = traveltime.FirstPerPhase(usable)
	}

	avoidWindows := b.shiftedWindows(rec.Avoid, b.params.AvoidFrontShift, b.params.AvoidRearShift)

	var survivors []interval.Interval
	if b.params.AllowSplit {
		useWindows := b.shiftedWindows(selected, b.params.FrontShift, b.params.RearShift)
		survivors = interval.Subtract(useWindows, avoidWindows, b.params.MinLength)
	} else {
		first, last := timeSpan(selected)
		for _, a := range rec.Avoid {
			if first <= a.Time+b.params.AvoidRearShift && a.Time-b.params.AvoidFrontShift <= last {
				return nil, &Rejection{RecordID: rec.ID(), Reason: ReasonAvoidBetween}, nil
			}
		}
		candidate, err := interval.New(first-b.params.FrontShift, last+b.params.RearShift)
		if err != nil {
			return nil, nil, err
		}
		survivors = interval.Subtract([]interval.Interval{candidate}, avoidWindows, b.params.MinLength)
	}
	if len(survivors) == 0 {
		return nil, &Rejection{RecordID: rec.ID(), Reason: ReasonNothingRemains}, nil
	}

	bounded := b.snapAndBound(survivors, rec)
	if len(bounded) == 0 {
		return nil, &Rejection{RecordID: rec.ID(), Reason: ReasonExceedsTrace}, nil
	}

	windows := make([]TimeWindow, 0, len(bounded))
	for _, iv := range bounded {
		windows = append(windows, TimeWindow{
			Interval:  iv,
			Receiver:  rec.Receiver,
			EventID:   rec.EventID,
			Component: rec.Component,
			// Tag from the pre-reduction arrival list so triplicated phases
			// landing inside the window are all represented.
			Phases: tagPhases(iv, usable),
		})
	}
	return windows, nil, nil
}

func validateArrivals(arrivals []traveltime.Arrival) error {
	for _, a := range arrivals {
		if a.Phase == "" {
			return fmt.Errorf("arrival at %f has an empty phase name", a.Time)
		}
	}
	return nil
}

func minorArcOnly(arrivals []traveltime.Arrival) []traveltime.Arrival {
	out := make([]traveltime.Arrival, 0, len(arrivals))
	for _, a := range arrivals {
		if !a.MajorArc() {
			out = append(out, a)
		}
	}
	return out
}

// shiftedWindows builds [t-front, t+rear] around each arrival and coalesces
// the batch.
func (b *Builder) shiftedWindows(arrivals []traveltime.Arrival, front, rear float64) []interval.Interval {
	windows := make([]interval.Interval, 0, len(arrivals))
	for _, a := range arrivals {
		windows = append(windows, interval.MustNew(a.Time-front, a.Time+rear))
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return interval.Coalesce(windows)
}

func timeSpan(arrivals []traveltime.Arrival) (first, last float64) {
	first, last = arrivals[0].Time, arrivals[0].Time
	for _, a := range arrivals[1:] {
		first = math.Min(first, a.Time)
		last = math.Max(last, a.Time)
	}
	return first, last
}

// snapAndBound floors window bounds to the sample grid when a sample interval
// is known and discards windows that run past the end of the trace.
func (b *Builder) snapAndBound(windows []interval.Interval, rec Record) []interval.Interval {
	out := make([]interval.Interval, 0, len(windows))
	for _, iv := range windows {
		if rec.SampleInterval > 0 {
			iv = interval.MustNew(
				math.Floor(iv.Start/rec.SampleInterval)*rec.SampleInterval,
				math.Floor(iv.End/rec.SampleInterval)*rec.SampleInterval,
			)
		}
		if rec.TraceEnd > 0 && iv.End > rec.TraceEnd {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// tagPhases collects the names of use phases whose arrival lies within the
// closed window.
func tagPhases(iv interval.Interval, arrivals []traveltime.Arrival) []string {
	var phases []string
	for _, a := range arrivals {
		if iv.Contains(interval.Round(a.Time)) {
			phases = append(phases, a.Phase)
		}
	}
	return normalizePhases(phases)
}
