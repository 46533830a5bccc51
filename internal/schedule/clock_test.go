// internal/schedule/clock_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workPrefs() *Preferences {
	return &Preferences{
		DayStartMinutes: 9 * 60,
		DayEndMinutes:   18 * 60,
	}
}

func TestClock_NilPreferencesPanics(t *testing.T) {
	assert.Panics(t, func() { NewClock(nil, base()) })
}

func TestClock_AllDisabledWeekdaySetPanics(t *testing.T) {
	prefs := workPrefs()
	prefs.Weekdays = map[time.Weekday]bool{time.Monday: false, time.Friday: false}
	assert.Panics(t, func() { NewClock(prefs, base()) })
}

func TestClock_EmptyWeekdaySetEnablesAllDays(t *testing.T) {
	c := NewClock(workPrefs(), base())
	for i := 0; i < 7; i++ {
		assert.True(t, c.IsEnabledDay(base().AddDate(0, 0, i)))
	}
}

func TestClock_EnabledDays(t *testing.T) {
	prefs := workPrefs()
	prefs.Weekdays = map[time.Weekday]bool{time.Monday: true, time.Wednesday: true}
	c := NewClock(prefs, base())

	assert.True(t, c.IsEnabledDay(base()))                 // Monday
	assert.False(t, c.IsEnabledDay(base().AddDate(0, 0, 1))) // Tuesday
	assert.True(t, c.IsEnabledDay(base().AddDate(0, 0, 2)))  // Wednesday
}

func TestClock_WorkingDayBounds(t *testing.T) {
	c := NewClock(workPrefs(), base())
	day := time.Date(2024, 6, 3, 13, 45, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), c.StartOfWorkingDay(day))
	assert.Equal(t, time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC), c.EndOfWorkingDay(day))
}

// End at or before start is a misconfiguration: the day degrades to
// spanning into the next midnight instead of failing.
func TestClock_DegenerateDayEndSpansToMidnight(t *testing.T) {
	prefs := workPrefs()
	prefs.DayEndMinutes = 8 * 60
	c := NewClock(prefs, base())

	end := c.EndOfWorkingDay(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), end)
}

func TestClock_Clamp(t *testing.T) {
	prefs := workPrefs()
	prefs.Weekdays = map[time.Weekday]bool{time.Monday: true, time.Tuesday: true}
	prefs.LeadTime = 30 * time.Minute
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC) // Monday 08:00
	c := NewClock(prefs, now)

	// Before the lead-time floor and before day start.
	got := c.Clamp(time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), got)

	// Inside working hours: untouched.
	inside := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, inside, c.Clamp(inside))

	// At day end: next working day.
	got = c.Clamp(time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC), got)

	// Disabled Wednesday: skips to next Monday.
	got = c.Clamp(time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), got)
}

func TestClock_NextWorkingDay(t *testing.T) {
	prefs := workPrefs()
	prefs.Weekdays = map[time.Weekday]bool{time.Friday: true}
	c := NewClock(prefs, base())

	got := c.NextWorkingDay(base()) // from Monday
	require.Equal(t, time.Friday, got.Weekday())
	assert.Equal(t, time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC), got)
}
