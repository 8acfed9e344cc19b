package interval

// Coalesce merges a start-sorted batch of intervals into the minimal set of
// disjoint, non-adjacent intervals covering the same union. Input must be
// sorted by Start; this is a caller-enforced precondition, not re-validated.
// Runs in a single O(n) left-to-right sweep.
func Coalesce(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	out := make([]Interval, 0, len(intervals))
	current := intervals[0]
	for _, iv := range intervals[1:] {
		if current.Overlaps(iv) {
			current = current.Merge(iv)
			continue
		}
		out = append(out, current)
		current = iv
	}
	return append(out, current)
}

// cut removes the part of u covered by a. When a covers the front of u the
// surviving tail [a.End, u.End] is returned; when a starts inside u only the
// leading portion [u.Start, a.Start] survives, even if a ends before u does.
// The second return is false when u is consumed entirely.
//
// The keep-the-earlier-portion-only convention means an interior avoid
// interval never yields two pieces. Downstream window files depend on this
// exact behaviour; a symmetric difference would be a distinct operation.
func cut(u, a Interval) (Interval, bool) {
	if !u.Overlaps(a) {
		return u, true
	}
	if a.Start <= u.Start {
		if u.End <= a.End {
			return Interval{}, false
		}
		return Interval{Start: a.End, End: u.End}, true
	}
	return Interval{Start: u.Start, End: a.Start}, true
}

// Subtract removes the avoid intervals from each use interval, yielding at
// most one survivor per use interval under the cut rule above. Survivors
// shorter than minLength are dropped. Both inputs must be start-sorted and
// avoid must already be coalesced.
func Subtract(use, avoid []Interval, minLength float64) []Interval {
	out := make([]Interval, 0, len(use))
	for _, u := range use {
		survivor, alive := u, true
		for _, a := range avoid {
			if a.Start > survivor.End {
				break
			}
			survivor, alive = cut(survivor, a)
			if !alive {
				break
			}
		}
		if alive && survivor.Length() >= minLength {
			out = append(out, survivor)
		}
	}
	return out
}
