// internal/schedule/recur_test.go
package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daygrid/internal/models"
)

func TestExpandOccurrences_None(t *testing.T) {
	end := base().Add(time.Hour)
	occ := ExpandOccurrences(base(), &end, models.RepeatNone)

	require.Len(t, occ, 1)
	assert.Equal(t, base(), occ[0].Start)
	assert.Equal(t, end, *occ[0].End)
}

func TestExpandOccurrences_DailyStopsAtYearEnd(t *testing.T) {
	start := time.Date(2024, 12, 30, 14, 0, 0, 0, time.UTC)
	occ := ExpandOccurrences(start, nil, models.RepeatDaily)

	require.Len(t, occ, 2, "Dec 30 and Dec 31; Jan 1 is out")
	assert.Equal(t, time.Date(2024, 12, 31, 14, 0, 0, 0, time.UTC), occ[1].Start)
	assert.Nil(t, occ[1].End)
}

func TestExpandOccurrences_WeeklyPreservesDuration(t *testing.T) {
	start := time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	occ := ExpandOccurrences(start, &end, models.RepeatWeekly)

	require.Len(t, occ, 9, "Nov 4 through Dec 30")
	for _, o := range occ {
		require.NotNil(t, o.End)
		assert.Equal(t, 90*time.Minute, o.End.Sub(o.Start))
	}
	assert.Equal(t, time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC), occ[8].Start)
}

// A Jan 31 monthly series clamps short months instead of drifting into
// the following month.
func TestExpandOccurrences_MonthlyClampsDay(t *testing.T) {
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	occ := ExpandOccurrences(start, nil, models.RepeatMonthly)

	require.Len(t, occ, 12)
	assert.Equal(t, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC), occ[1].Start)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), occ[3].Start)
	assert.Equal(t, time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC), occ[11].Start)
}

// Yearly series span the base year plus two, nothing further.
func TestExpandOccurrences_YearlyBound(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	occ := ExpandOccurrences(start, nil, models.RepeatYearly)

	require.Len(t, occ, 3)
	assert.Equal(t, 2024, occ[0].Start.Year())
	assert.Equal(t, 2025, occ[1].Start.Year())
	assert.Equal(t, 2026, occ[2].Start.Year())
}

func TestExpandOccurrences_YearlyFeb29Clamps(t *testing.T) {
	start := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	occ := ExpandOccurrences(start, nil, models.RepeatYearly)

	require.Len(t, occ, 3)
	assert.Equal(t, time.Date(2025, 2, 28, 10, 0, 0, 0, time.UTC), occ[1].Start)
	assert.Equal(t, time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC), occ[2].Start)
}
