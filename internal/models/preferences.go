// internal/models/preferences.go
package models

import "time"

// SchedulingPreferences is the per-user working calendar: when slots may
// be placed and how much breathing room the scheduler keeps.
type SchedulingPreferences struct {
	UserID int64 `json:"user_id"`

	// Minutes from midnight, e.g. 540 = 09:00.
	DayStartMinutes int `json:"day_start_minutes"`
	DayEndMinutes   int `json:"day_end_minutes"`

	// Enabled weekdays, 0=Sunday..6=Saturday. Empty means all days.
	Weekdays []int64 `json:"weekdays"`

	BufferMinutes   int `json:"buffer_minutes"`
	LeadTimeMinutes int `json:"lead_time_minutes"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultPreferences returns the working calendar used when a user has
// never saved one: 09:00-18:00, every day, no buffer, no lead time.
func DefaultPreferences(userID int64) *SchedulingPreferences {
	return &SchedulingPreferences{
		UserID:          userID,
		DayStartMinutes: 9 * 60,
		DayEndMinutes:   18 * 60,
	}
}
