// internal/models/event.go
package models

import "time"

// EventKind defines what the record represents. Only timed events
// participate in slot scheduling; tasks and reminders are tracked but
// never occupy calendar time.
type EventKind string

const (
	KindEvent    EventKind = "event"
	KindTask     EventKind = "task"
	KindReminder EventKind = "reminder"
)

type EventPriority string

const (
	PriorityCritical EventPriority = "critical"
	PriorityUrgent   EventPriority = "urgent"
	PriorityRelevant EventPriority = "relevant"
	PriorityOptional EventPriority = "optional"
	PriorityReminder EventPriority = "reminder"
)

// Rank orders priorities for scheduling. Higher ranks win slots.
// Optional and reminder share the bottom: they never compete for slots.
func (p EventPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityUrgent:
		return 3
	case PriorityRelevant:
		return 2
	case PriorityOptional:
		return 1
	default:
		return 0
	}
}

// Schedulable reports whether items of this priority enter the
// scheduling pool at all.
func (p EventPriority) Schedulable() bool {
	return p.Rank() >= PriorityRelevant.Rank()
}

func (p EventPriority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityUrgent, PriorityRelevant, PriorityOptional, PriorityReminder:
		return true
	}
	return false
}

// WindowClass is the priority-linked availability class bounding where a
// flexible item may be placed.
type WindowClass string

const (
	WindowNone      WindowClass = "none"
	WindowSoon      WindowClass = "soon"       // +48h
	WindowThisWeek  WindowClass = "this_week"  // +7d
	WindowThisMonth WindowClass = "this_month" // +1 calendar month, day-clamped
	WindowCustom    WindowClass = "custom"     // explicit bounds
)

func (w WindowClass) Valid() bool {
	switch w {
	case WindowNone, WindowSoon, WindowThisWeek, WindowThisMonth, WindowCustom:
		return true
	}
	return false
}

type RepeatRule string

const (
	RepeatNone    RepeatRule = "none"
	RepeatDaily   RepeatRule = "daily"
	RepeatWeekly  RepeatRule = "weekly"
	RepeatMonthly RepeatRule = "monthly"
	RepeatYearly  RepeatRule = "yearly"
)

func (r RepeatRule) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// DefaultDurationMinutes applies when an event carries neither an
// explicit end nor a stored duration.
const DefaultDurationMinutes = 60

// Event is the unit being scheduled.
type Event struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner_id"`
	Kind        EventKind     `json:"kind"`
	Priority    EventPriority `json:"priority"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`

	// Start/End are null while the item is waitlisted.
	Start           *time.Time `json:"start,omitempty"`
	End             *time.Time `json:"end,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`

	// Fixed items keep their time; the resolver never moves them.
	Fixed bool `json:"fixed"`
	// OverlapAllowed items (e.g. virtual attendance) never occupy busy time.
	OverlapAllowed bool `json:"overlap_allowed"`

	Window      WindowClass `json:"window"`
	WindowStart *time.Time  `json:"window_start,omitempty"`
	WindowEnd   *time.Time  `json:"window_end,omitempty"`

	Waitlisted bool       `json:"waitlisted"`
	Repeat     RepeatRule `json:"repeat"`

	// SourceUID links events materialized from an ICS import.
	SourceUID string `json:"source_uid,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration resolves the effective scheduling duration: explicit end wins,
// then the stored minutes, then the default.
func (e *Event) Duration() time.Duration {
	if e.Start != nil && e.End != nil && e.End.After(*e.Start) {
		return e.End.Sub(*e.Start)
	}
	if e.DurationMinutes > 0 {
		return time.Duration(e.DurationMinutes) * time.Minute
	}
	return DefaultDurationMinutes * time.Minute
}

// Scheduled reports whether the event currently holds a concrete slot.
func (e *Event) Scheduled() bool {
	return !e.Waitlisted && e.Start != nil && e.End != nil
}

// EventFilter defines the available parameters for listing events.
type EventFilter struct {
	OwnerID    *int64
	Kind       *EventKind
	Priority   *EventPriority
	Waitlisted *bool
	From       *time.Time
	To         *time.Time
}
