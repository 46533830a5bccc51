// internal/schedule/interval_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base returns a fixed reference time (Monday 2024-06-03 09:00 UTC).
func base() time.Time {
	return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
}

func span(startMin, endMin int) Interval {
	return Interval{
		Start: base().Add(time.Duration(startMin) * time.Minute),
		End:   base().Add(time.Duration(endMin) * time.Minute),
	}
}

func TestMergeIntervals(t *testing.T) {
	merged := MergeIntervals([]Interval{
		span(120, 180),
		span(0, 60),
		span(30, 90),
		span(60, 100), // touching the previous run
		span(300, 360),
	})

	require.Len(t, merged, 3)
	assert.Equal(t, span(0, 100), merged[0])
	assert.Equal(t, span(120, 180), merged[1])
	assert.Equal(t, span(300, 360), merged[2])
}

func TestMergeIntervals_Empty(t *testing.T) {
	assert.Nil(t, MergeIntervals(nil))
}

// Any permutation of the same set must merge to the same minimal cover,
// and its total covered duration must match a brute-force union measure.
func TestMergeIntervals_PermutationInvariant(t *testing.T) {
	set := []Interval{span(0, 45), span(30, 60), span(90, 120), span(110, 150), span(200, 210)}

	want := MergeIntervals(set)
	wantMinutes := bruteForceCoverMinutes(t, set)

	var total time.Duration
	for _, iv := range want {
		total += iv.Duration()
	}
	assert.Equal(t, wantMinutes, int(total.Minutes()))

	for _, perm := range permutations(set) {
		assert.Equal(t, want, MergeIntervals(perm))
	}
}

func TestMergeWeighted_KeepsCrossWeightOverlap(t *testing.T) {
	a := WeightedInterval{Start: base(), End: base().Add(time.Hour), Weight: 2}
	b := WeightedInterval{Start: base().Add(30 * time.Minute), End: base().Add(2 * time.Hour), Weight: 4}

	merged := MergeWeighted([]WeightedInterval{a, b})
	require.Len(t, merged, 2, "different weights must not merge")

	// Same weight does merge.
	c := WeightedInterval{Start: base().Add(45 * time.Minute), End: base().Add(90 * time.Minute), Weight: 2}
	merged = MergeWeighted([]WeightedInterval{a, b, c})
	require.Len(t, merged, 2)
	assert.Equal(t, base().Add(90*time.Minute), merged[0].End)
	assert.Equal(t, 2, merged[0].Weight)
}

func TestInsertWeighted(t *testing.T) {
	list := InsertWeighted(nil, WeightedInterval{Start: base(), End: base().Add(time.Hour), Weight: 3})
	list = InsertWeighted(list, WeightedInterval{Start: base().Add(30 * time.Minute), End: base().Add(time.Hour), Weight: 3})
	require.Len(t, list, 1)
}

func TestBlockingAt(t *testing.T) {
	list := []WeightedInterval{
		{Start: base(), End: base().Add(time.Hour), Weight: 2},
		{Start: base().Add(2 * time.Hour), End: base().Add(3 * time.Hour), Weight: 4},
	}

	blocking := BlockingAt(list, 3)
	require.Len(t, blocking, 1, "lower-weight occupants must not block")
	assert.Equal(t, base().Add(2*time.Hour), blocking[0].Start)

	blocking = BlockingAt(list, 2)
	assert.Len(t, blocking, 2)
}

// bruteForceCoverMinutes walks minute by minute over the hull of the set.
func bruteForceCoverMinutes(t *testing.T, set []Interval) int {
	t.Helper()
	covered := 0
	for cursor := span(0, 0).Start; cursor.Before(base().Add(6 * time.Hour)); cursor = cursor.Add(time.Minute) {
		for _, iv := range set {
			if !cursor.Before(iv.Start) && cursor.Before(iv.End) {
				covered++
				break
			}
		}
	}
	return covered
}

func permutations(set []Interval) [][]Interval {
	var out [][]Interval
	var walk func(cur []Interval, rest []Interval)
	walk = func(cur []Interval, rest []Interval) {
		if len(rest) == 0 {
			out = append(out, append([]Interval(nil), cur...))
			return
		}
		for i := range rest {
			next := make([]Interval, 0, len(rest)-1)
			next = append(next, rest[:i]...)
			next = append(next, rest[i+1:]...)
			walk(append(cur, rest[i]), next)
		}
	}
	walk(nil, set)
	return out
}
