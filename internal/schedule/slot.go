// internal/schedule/slot.go
package schedule

import "time"

// openWindowHorizon bounds the search when a window has no end, so an
// open-ended item cannot spin the cursor forever on a packed calendar.
const openWindowHorizon = 365 * 24 * time.Hour

// FindSlot returns the earliest instant at or after winStart where
// [cursor, cursor+duration) fits inside working hours and conflicts with
// none of the busy intervals once each is expanded by the buffer on both
// sides. busy must be start-sorted and merged. ok=false means no slot
// exists within the window.
//
// A non-positive duration is a contract violation, not a scheduling
// outcome.
func FindSlot(duration time.Duration, winStart time.Time, winEnd *time.Time, busy []Interval, c *Clock) (time.Time, bool) {
	if duration <= 0 {
		panic("schedule: non-positive duration")
	}

	buffer := c.Buffer()
	cursor := c.Clamp(winStart)
	horizon := cursor.Add(openWindowHorizon)

	for {
		candEnd := cursor.Add(duration)

		if winEnd != nil {
			if candEnd.After(*winEnd) {
				return time.Time{}, false
			}
		} else if candEnd.After(horizon) {
			return time.Time{}, false
		}

		// The slot must finish inside the working day, leaving the buffer
		// before day end when one is configured.
		dayLimit := c.EndOfWorkingDay(cursor).Add(-buffer)
		if candEnd.After(dayLimit) {
			cursor = c.Clamp(c.NextWorkingDay(cursor))
			continue
		}

		conflict, found := firstConflict(cursor, candEnd, busy, buffer)
		if !found {
			return cursor, true
		}

		next := conflict.End.Add(buffer)
		if min := cursor.Add(time.Minute); next.Before(min) {
			next = min
		}
		cursor = c.Clamp(next)
	}
}

// firstConflict scans the sorted busy list for the first interval whose
// buffer-expanded span intersects [start, end). The scan short-circuits
// once an interval starts beyond the candidate end.
func firstConflict(start, end time.Time, busy []Interval, buffer time.Duration) (Interval, bool) {
	cand := Interval{Start: start, End: end}
	for _, b := range busy {
		expanded := Interval{Start: b.Start.Add(-buffer), End: b.End.Add(buffer)}
		if !expanded.Start.Before(end) {
			break
		}
		if cand.Overlaps(expanded) {
			return b, true
		}
	}
	return Interval{}, false
}
