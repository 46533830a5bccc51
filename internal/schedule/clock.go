// internal/schedule/clock.go
package schedule

import "time"

// Preferences is the engine's view of a user's working calendar. The
// producer layer maps stored preferences into this once per pass.
type Preferences struct {
	// Minutes from midnight.
	DayStartMinutes int
	DayEndMinutes   int

	// Enabled weekdays. Empty or nil means every day is enabled.
	Weekdays map[time.Weekday]bool

	Buffer   time.Duration
	LeadTime time.Duration
}

// Clock answers "is this instant schedulable" against one user's working
// calendar. It captures "now" once so a whole resolution pass is a pure
// function of its inputs.
type Clock struct {
	prefs    Preferences
	now      time.Time
	earliest time.Time // now + lead time
}

// NewClock panics on contract violations: nil preferences, or a
// non-empty weekday set that enables no day (NextWorkingDay would never
// terminate). Those are caller bugs, not scheduling outcomes.
func NewClock(prefs *Preferences, now time.Time) *Clock {
	if prefs == nil {
		panic("schedule: nil preferences")
	}
	if len(prefs.Weekdays) > 0 {
		any := false
		for _, enabled := range prefs.Weekdays {
			if enabled {
				any = true
				break
			}
		}
		if !any {
			panic("schedule: weekday set enables no day")
		}
	}
	return &Clock{
		prefs:    *prefs,
		now:      now,
		earliest: now.Add(prefs.LeadTime),
	}
}

func (c *Clock) Now() time.Time        { return c.now }
func (c *Clock) Earliest() time.Time   { return c.earliest }
func (c *Clock) Buffer() time.Duration { return c.prefs.Buffer }

// IsEnabledDay checks the weekday against the enabled set. An empty set
// fails open: all seven days are enabled.
func (c *Clock) IsEnabledDay(t time.Time) bool {
	if len(c.prefs.Weekdays) == 0 {
		return true
	}
	return c.prefs.Weekdays[t.Weekday()]
}

func (c *Clock) StartOfWorkingDay(t time.Time) time.Time {
	return atMinutes(t, c.prefs.DayStartMinutes)
}

// EndOfWorkingDay applies the configured day end. A misconfigured end at
// or before the start degrades to spanning into the next midnight so the
// day still yields a usable window.
func (c *Clock) EndOfWorkingDay(t time.Time) time.Time {
	if c.prefs.DayEndMinutes <= c.prefs.DayStartMinutes {
		return atMinutes(t.AddDate(0, 0, 1), 0)
	}
	return atMinutes(t, c.prefs.DayEndMinutes)
}

// NextWorkingDay advances to start-of-working-day on the next enabled
// weekday after t.
func (c *Clock) NextWorkingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for !c.IsEnabledDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return c.StartOfWorkingDay(d)
}

// Clamp raises t to the nearest schedulable instant at or after it:
// never before the lead-time floor, never on a disabled day, never
// outside working hours. Every branch strictly increases t, so the loop
// reaches a fixed point.
func (c *Clock) Clamp(t time.Time) time.Time {
	for {
		if t.Before(c.earliest) {
			t = c.earliest
			continue
		}
		if !c.IsEnabledDay(t) {
			t = c.NextWorkingDay(t)
			continue
		}
		if t.Before(c.StartOfWorkingDay(t)) {
			t = c.StartOfWorkingDay(t)
			continue
		}
		if !t.Before(c.EndOfWorkingDay(t)) {
			t = c.NextWorkingDay(t)
			continue
		}
		return t
	}
}

func atMinutes(t time.Time, minutes int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minutes/60, minutes%60, 0, 0, t.Location())
}
