// internal/schedule/recur.go
package schedule

import (
	"time"

	"daygrid/internal/models"
)

// Occurrence is one materialized instance of a repeating item. End is
// nil when the base occurrence has no end.
type Occurrence struct {
	Start time.Time
	End   *time.Time
}

// ExpandOccurrences generates the bounded occurrence sequence for a
// repeat rule; the first entry is always the base occurrence itself.
// Daily, weekly and monthly series stop at December 31 of the base
// year; yearly series stop after base year + 2. Month and year steps
// are computed from the base each time with day-of-month clamping, so
// a Jan 31 monthly series lands on Feb 29 rather than drifting.
//
// The expander knows nothing about busy time: occurrences that should
// participate in scheduling go through the resolver separately.
func ExpandOccurrences(start time.Time, end *time.Time, rule models.RepeatRule) []Occurrence {
	out := []Occurrence{makeOccurrence(start, end)}
	if rule == models.RepeatNone || rule == "" {
		return out
	}

	for n := 1; ; n++ {
		var next time.Time
		switch rule {
		case models.RepeatDaily:
			next = start.AddDate(0, 0, n)
		case models.RepeatWeekly:
			next = start.AddDate(0, 0, 7*n)
		case models.RepeatMonthly:
			next = AddMonths(start, n)
		case models.RepeatYearly:
			next = AddMonths(start, 12*n)
		default:
			return out
		}

		if rule == models.RepeatYearly {
			if next.Year() > start.Year()+2 {
				return out
			}
		} else if next.Year() > start.Year() {
			return out
		}

		var nextEnd *time.Time
		if end != nil {
			e := next.Add(end.Sub(start))
			nextEnd = &e
		}
		out = append(out, Occurrence{Start: next, End: nextEnd})
	}
}

func makeOccurrence(start time.Time, end *time.Time) Occurrence {
	occ := Occurrence{Start: start}
	if end != nil {
		e := *end
		occ.End = &e
	}
	return occ
}
