// internal/schedule/window_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daygrid/internal/models"
)

func flexibleEvent(window models.WindowClass) *models.Event {
	return &models.Event{
		ID:       1,
		Kind:     models.KindEvent,
		Priority: models.PriorityRelevant,
		Window:   window,
	}
}

func TestAddMonths_ClampsToLastDay(t *testing.T) {
	jan31 := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), AddMonths(jan31, 1), "leap year")
	assert.Equal(t, time.Date(2023, 2, 28, 10, 0, 0, 0, time.UTC), AddMonths(jan31.AddDate(-1, 0, 0), 1))
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC),
		AddMonths(time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC), 1))

	// Year rollover.
	assert.Equal(t, time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC),
		AddMonths(time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC), 1))
}

func TestResolveWindow_ThisMonthLeapSafe(t *testing.T) {
	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC) // Wednesday
	c := NewClock(workPrefs(), now)

	_, end, ok := ResolveWindow(flexibleEvent(models.WindowThisMonth), c)
	require.True(t, ok)
	require.NotNil(t, end)
	assert.False(t, end.After(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)),
		"window end must not spill past February")
}

func TestResolveWindow_Soon(t *testing.T) {
	c := NewClock(workPrefs(), base())

	start, end, ok := ResolveWindow(flexibleEvent(models.WindowSoon), c)
	require.True(t, ok)
	require.NotNil(t, end)
	assert.Equal(t, base(), start) // base is inside working hours
	assert.Equal(t, base().Add(48*time.Hour), *end)
}

func TestResolveWindow_ExplicitEndTightens(t *testing.T) {
	c := NewClock(workPrefs(), base())
	ev := flexibleEvent(models.WindowSoon)
	explicit := base().Add(24 * time.Hour)
	ev.WindowEnd = &explicit

	_, end, ok := ResolveWindow(ev, c)
	require.True(t, ok)
	assert.Equal(t, explicit, *end, "explicit earlier end wins over the class bound")
}

func TestResolveWindow_CustomOpenEnded(t *testing.T) {
	c := NewClock(workPrefs(), base())
	ev := flexibleEvent(models.WindowNone)

	start, end, ok := ResolveWindow(ev, c)
	require.True(t, ok)
	assert.Nil(t, end)
	assert.Equal(t, base(), start)
}

func TestResolveWindow_Infeasible(t *testing.T) {
	c := NewClock(workPrefs(), base())
	ev := flexibleEvent(models.WindowCustom)
	past := base().Add(-2 * time.Hour)
	ev.WindowEnd = &past

	_, _, ok := ResolveWindow(ev, c)
	assert.False(t, ok, "end before clamped start is infeasible")
}

func TestResolveWindow_ProvisionalStartRaisesTentative(t *testing.T) {
	c := NewClock(workPrefs(), base())
	ev := flexibleEvent(models.WindowSoon)
	later := base().Add(5 * time.Hour)
	ev.Start = &later

	start, end, ok := ResolveWindow(ev, c)
	require.True(t, ok)
	assert.Equal(t, later, start)
	assert.Equal(t, later.Add(48*time.Hour), *end)
}
