// internal/schedule/window.go
package schedule

import (
	"time"

	"daygrid/internal/models"
)

// ResolveWindow computes the feasible [start, end) range for placing one
// flexible item. A nil end means open-ended; ok=false means the window is
// infeasible and the item must be waitlisted.
func ResolveWindow(ev *models.Event, c *Clock) (start time.Time, end *time.Time, ok bool) {
	// Tentative start: the latest of the item's own provisional start,
	// its explicit window start and "now".
	tentative := c.Now()
	if ev.Start != nil && ev.Start.After(tentative) {
		tentative = *ev.Start
	}
	if ev.WindowStart != nil && ev.WindowStart.After(tentative) {
		tentative = *ev.WindowStart
	}

	switch ev.Window {
	case models.WindowSoon:
		end = earlierOf(tentative.Add(48*time.Hour), ev.WindowEnd)
	case models.WindowThisWeek:
		end = earlierOf(tentative.AddDate(0, 0, 7), ev.WindowEnd)
	case models.WindowThisMonth:
		end = earlierOf(AddMonths(tentative, 1), ev.WindowEnd)
	default:
		// Custom range or none: explicit bounds only, each tightening
		// and never loosening the tentative values.
		if ev.WindowEnd != nil {
			e := *ev.WindowEnd
			end = &e
		}
	}

	start = c.Clamp(tentative)
	if end != nil && !end.After(start) {
		return time.Time{}, nil, false
	}
	return start, end, true
}

func earlierOf(computed time.Time, explicit *time.Time) *time.Time {
	if explicit != nil && explicit.Before(computed) {
		e := *explicit
		return &e
	}
	return &computed
}

// AddMonths adds calendar months, clamping the day-of-month to the last
// day of the target month instead of overflowing into the next one
// (Jan 31 + 1 month = Feb 29 in a leap year, not Mar 2).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	ty := y
	tm := int(m) + months
	for tm > 12 {
		tm -= 12
		ty++
	}
	for tm < 1 {
		tm += 12
		ty--
	}
	if last := daysInMonth(ty, time.Month(tm)); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(ty, time.Month(tm), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
