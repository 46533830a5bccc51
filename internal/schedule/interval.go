// internal/schedule/interval.go
package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open busy span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// WeightedInterval carries the priority rank of the occupying item, so a
// candidate can be blocked only by occupants at or above its own rank.
type WeightedInterval struct {
	Start  time.Time
	End    time.Time
	Weight int
}

// MergeIntervals returns the minimal sorted non-overlapping cover of the
// input. The input is not modified.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	out := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		if !iv.Start.After(cur.End) {
			if iv.End.After(cur.End) {
				cur.End = iv.End
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	return append(out, cur)
}

// MergeWeighted merges overlapping intervals only when they share a
// weight. Overlaps across different weights are preserved so callers can
// later filter "blocking at my rank or above".
func MergeWeighted(in []WeightedInterval) []WeightedInterval {
	if len(in) == 0 {
		return nil
	}
	sorted := make([]WeightedInterval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].Weight > sorted[j].Weight
	})

	out := make([]WeightedInterval, 0, len(sorted))
	for _, iv := range sorted {
		merged := false
		// Walk back over entries that may still absorb this one; entries
		// are start-sorted, so only same-weight running spans qualify.
		for k := len(out) - 1; k >= 0; k-- {
			if out[k].Weight != iv.Weight {
				continue
			}
			if iv.Start.After(out[k].End) {
				break
			}
			if iv.End.After(out[k].End) {
				out[k].End = iv.End
			}
			merged = true
			break
		}
		if !merged {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// InsertWeighted appends and re-merges. Lists are per-user and small;
// correctness over micro-efficiency.
func InsertWeighted(list []WeightedInterval, iv WeightedInterval) []WeightedInterval {
	return MergeWeighted(append(list, iv))
}

// BlockingAt flattens the weighted list into the plain merged intervals
// that block a candidate of the given rank: only equal-or-higher weights
// count.
func BlockingAt(list []WeightedInterval, weight int) []Interval {
	plain := make([]Interval, 0, len(list))
	for _, iv := range list {
		if iv.Weight >= weight {
			plain = append(plain, Interval{Start: iv.Start, End: iv.End})
		}
	}
	return MergeIntervals(plain)
}
