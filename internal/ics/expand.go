package ics

import (
	"log"
	"time"

	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerEvent caps expansion so a pathological RRULE cannot
// flood the calendar on import.
const maxOccurrencesPerEvent = 500

// Occurrence is one concrete instance of an imported event.
type Occurrence struct {
	Event ParsedEvent
	Start time.Time
	End   time.Time
}

// Expand materializes every event's occurrences inside [rangeStart,
// rangeEnd]. Non-recurring events yield themselves when they intersect
// the range; RRULE events are expanded with EXDATE applied.
func Expand(events []ParsedEvent, rangeStart, rangeEnd time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(events))

	for _, ev := range events {
		if ev.RawRRule == "" {
			if ev.Start.Before(rangeEnd) && ev.End.After(rangeStart) {
				out = append(out, Occurrence{Event: ev, Start: ev.Start, End: ev.End})
			}
			continue
		}
		out = append(out, expandRecurring(ev, rangeStart, rangeEnd)...)
	}
	return out
}

func expandRecurring(ev ParsedEvent, rangeStart, rangeEnd time.Time) []Occurrence {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		log.Printf("[ics][expand][skip] uid=%s bad RRULE %q: %v", ev.UID, ev.RawRRule, err)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	starts := set.Between(rangeStart.In(ev.Start.Location()), rangeEnd.In(ev.Start.Location()), true)
	if len(starts) > maxOccurrencesPerEvent {
		log.Printf("[ics][expand] uid=%s truncated at %d occurrences", ev.UID, maxOccurrencesPerEvent)
		starts = starts[:maxOccurrencesPerEvent]
	}

	duration := ev.End.Sub(ev.Start)
	out := make([]Occurrence, 0, len(starts))
	for _, start := range starts {
		out = append(out, Occurrence{Event: ev, Start: start, End: start.Add(duration)})
	}
	return out
}
