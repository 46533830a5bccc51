// internal/schedule/slot_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSlot_EmptyCalendar(t *testing.T) {
	c := NewClock(workPrefs(), base())

	got, ok := FindSlot(time.Hour, base(), nil, nil, c)
	require.True(t, ok)
	assert.Equal(t, base(), got)
}

func TestFindSlot_SkipsBusyIntervals(t *testing.T) {
	c := NewClock(workPrefs(), base())
	busy := MergeIntervals([]Interval{
		{Start: base(), End: base().Add(time.Hour)},                     // 09:00-10:00
		{Start: base().Add(time.Hour), End: base().Add(2 * time.Hour)},  // 10:00-11:00
	})

	got, ok := FindSlot(30*time.Minute, base(), nil, busy, c)
	require.True(t, ok)
	assert.Equal(t, base().Add(2*time.Hour), got, "first free instant is 11:00")
}

func TestFindSlot_BufferExpandsConflicts(t *testing.T) {
	prefs := workPrefs()
	prefs.Buffer = 15 * time.Minute
	c := NewClock(prefs, base())
	busy := []Interval{{Start: base().Add(time.Hour), End: base().Add(2 * time.Hour)}} // 10:00-11:00

	// 09:30 + 30m touches the expanded 09:45 lead-in, so the cursor jumps
	// past the conflict end plus buffer.
	got, ok := FindSlot(30*time.Minute, base().Add(30*time.Minute), nil, busy, c)
	require.True(t, ok)
	assert.Equal(t, base().Add(2*time.Hour+15*time.Minute), got)
}

func TestFindSlot_AdvancesPastDayEnd(t *testing.T) {
	c := NewClock(workPrefs(), base())

	// 17:30 start cannot hold an hour before 18:00; Tuesday 09:00 can.
	got, ok := FindSlot(time.Hour, base().Add(8*time.Hour+30*time.Minute), nil, nil, c)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC), got)
}

func TestFindSlot_BoundedWindowExhausted(t *testing.T) {
	c := NewClock(workPrefs(), base())
	winEnd := base().Add(30 * time.Minute)

	_, ok := FindSlot(time.Hour, base(), &winEnd, nil, c)
	assert.False(t, ok)
}

func TestFindSlot_DurationNeverFitsAnyDay(t *testing.T) {
	prefs := workPrefs()
	prefs.DayEndMinutes = 10 * 60 // one-hour working day
	c := NewClock(prefs, base())
	winEnd := base().AddDate(0, 0, 3)

	_, ok := FindSlot(2*time.Hour, base(), &winEnd, nil, c)
	assert.False(t, ok)
}

func TestFindSlot_NonPositiveDurationPanics(t *testing.T) {
	c := NewClock(workPrefs(), base())
	assert.Panics(t, func() { FindSlot(0, base(), nil, nil, c) })
}
