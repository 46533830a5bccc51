// internal/schedule/resolver.go
package schedule

import (
	"sort"
	"time"

	"daygrid/internal/models"
)

// Decision is one per-item placement outcome of a resolution pass. A
// waitlisted decision always carries nil start/end.
type Decision struct {
	EventID    int64      `json:"event_id"`
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	Waitlisted bool       `json:"waitlisted"`
}

func placed(id int64, start, end time.Time) Decision {
	return Decision{EventID: id, Start: &start, End: &end}
}

func waitlisted(id int64) Decision {
	return Decision{EventID: id, Waitlisted: true}
}

// Resolve runs a full re-scheduling pass over one user's items and
// returns a placement decision for every schedulable item. It never
// fails on "no slot": items that cannot be placed come back waitlisted.
//
// Placement order: priority rank descending, fixed first within a rank,
// then creation time ascending. Fixed items with a concrete time enter
// the busy list untouched; everything else is placed greedily against
// the busy intervals at or above its own rank.
func Resolve(items []*models.Event, prefs *Preferences, now time.Time) []Decision {
	c := NewClock(prefs, now)
	pool := schedulablePool(items)
	sortForPlacement(pool)

	var busy []WeightedInterval
	decisions := make([]Decision, 0, len(pool))

	for _, ev := range pool {
		weight := ev.Priority.Rank()

		if ev.Fixed {
			if ev.Start == nil {
				// A fixed item without a time cannot hold a slot.
				decisions = append(decisions, waitlisted(ev.ID))
				continue
			}
			start := *ev.Start
			end := start.Add(ev.Duration())
			if ev.End != nil {
				end = *ev.End
			}
			if !ev.OverlapAllowed {
				busy = InsertWeighted(busy, WeightedInterval{Start: start, End: end, Weight: weight})
			}
			decisions = append(decisions, placed(ev.ID, start, end))
			continue
		}

		winStart, winEnd, ok := ResolveWindow(ev, c)
		if !ok {
			decisions = append(decisions, waitlisted(ev.ID))
			continue
		}

		start, found := FindSlot(ev.Duration(), winStart, winEnd, BlockingAt(busy, weight), c)
		if !found {
			decisions = append(decisions, waitlisted(ev.ID))
			continue
		}
		end := start.Add(ev.Duration())
		if !ev.OverlapAllowed {
			busy = InsertWeighted(busy, WeightedInterval{Start: start, End: end, Weight: weight})
		}
		decisions = append(decisions, placed(ev.ID, start, end))
	}

	return decisions
}

// ResolveDisplaced handles the insert of a fixed item with an explicit
// time: every scheduled, movable, lower-priority item it overlaps is
// re-placed (or waitlisted) against the rest of the calendar. Items that
// do not overlap the inserted one are left alone, which keeps a write
// from triggering a full-table rescan.
func ResolveDisplaced(inserted *models.Event, items []*models.Event, prefs *Preferences, now time.Time) []Decision {
	if inserted.Start == nil || inserted.End == nil {
		return nil
	}
	c := NewClock(prefs, now)
	span := Interval{Start: *inserted.Start, End: *inserted.End}
	rank := inserted.Priority.Rank()

	var victims []*models.Event
	var busy []WeightedInterval

	for _, ev := range schedulablePool(items) {
		if ev.ID == inserted.ID || !ev.Scheduled() || ev.OverlapAllowed {
			continue
		}
		span2 := Interval{Start: *ev.Start, End: *ev.End}
		if !ev.Fixed && ev.Priority.Rank() < rank && span.Overlaps(span2) {
			victims = append(victims, ev)
			continue
		}
		busy = InsertWeighted(busy, WeightedInterval{Start: span2.Start, End: span2.End, Weight: ev.Priority.Rank()})
	}
	if !inserted.OverlapAllowed {
		busy = InsertWeighted(busy, WeightedInterval{Start: span.Start, End: span.End, Weight: rank})
	}

	sort.SliceStable(victims, func(i, j int) bool {
		ri, rj := victims[i].Priority.Rank(), victims[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return victims[i].Start.Before(*victims[j].Start)
	})

	decisions := make([]Decision, 0, len(victims))
	for _, ev := range victims {
		weight := ev.Priority.Rank()
		winStart, winEnd, ok := ResolveWindow(ev, c)
		if !ok {
			decisions = append(decisions, waitlisted(ev.ID))
			continue
		}
		// Unlike the full pass, lower-rank bystanders will not be moved
		// here, so every occupied interval blocks regardless of weight.
		start, found := FindSlot(ev.Duration(), winStart, winEnd, BlockingAt(busy, 0), c)
		if !found {
			decisions = append(decisions, waitlisted(ev.ID))
			continue
		}
		end := start.Add(ev.Duration())
		busy = InsertWeighted(busy, WeightedInterval{Start: start, End: end, Weight: weight})
		decisions = append(decisions, placed(ev.ID, start, end))
	}
	return decisions
}

// schedulablePool keeps only the items that compete for slots: timed
// events of critical, urgent or relevant priority. Optional and
// reminder items never enter, and tasks/reminders hold no calendar time.
func schedulablePool(items []*models.Event) []*models.Event {
	pool := make([]*models.Event, 0, len(items))
	for _, ev := range items {
		if ev.Kind == models.KindEvent && ev.Priority.Schedulable() {
			pool = append(pool, ev)
		}
	}
	return pool
}

func sortForPlacement(pool []*models.Event) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		if a.Fixed != b.Fixed {
			return a.Fixed
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
