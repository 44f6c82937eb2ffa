package model

import "time"

// Contest is platform-level, shared across users.
// Natural key: (platform, title, start_time).
type Contest struct {
	ID              string    `json:"id"`
	PlatformID      string    `json:"platform_id"`
	Title           string    `json:"title"`
	ContestURL      *string   `json:"contest_url,omitempty"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	IsRated         bool      `json:"is_rated"`
	PlatformName    *string   `json:"platform_name,omitempty"` // For display
}

// IsUpcoming reports whether the contest starts at or after now.
// A contest starting within the same second as now counts as upcoming.
func (c Contest) IsUpcoming(now time.Time) bool {
	return !c.StartTime.Before(now)
}

// ReminderSettings are per-user defaults applied when a reminder is
// created without an explicit lead time.
type ReminderSettings struct {
	UserID               string    `json:"user_id"`
	DefaultMinutesBefore int       `json:"default_minutes_before"`
	EmailEnabled         bool      `json:"email_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ContestReminder struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ContestID    string    `json:"contest_id"`
	ReminderTime time.Time `json:"reminder_time"`
	IsSent       bool      `json:"is_sent"`
	CreatedAt    time.Time `json:"created_at"`

	ContestTitle     *string    `json:"contest_title,omitempty"`
	ContestStartTime *time.Time `json:"contest_start_time,omitempty"`
	PlatformName     *string    `json:"platform_name,omitempty"`
}
