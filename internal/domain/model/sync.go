package model

import "time"

type SyncState string

const (
	SyncPending   SyncState = "pending"
	SyncSyncing   SyncState = "syncing"
	SyncCompleted SyncState = "completed"
	SyncFailed    SyncState = "failed"
)

// UserPlatformLink connects a user to an external platform account.
// Unique per (user, platform); soft-deactivated on disconnect, never
// deleted, so submission provenance survives.
type UserPlatformLink struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	PlatformID       string     `json:"platform_id"`
	PlatformUsername string     `json:"platform_username"`
	IsActive         bool       `json:"is_active"`
	LastSynced       *time.Time `json:"last_synced,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PlatformName     *string    `json:"platform_name,omitempty"` // For display
}

// PlatformProfile is the latest profile snapshot fetched from a platform.
// Overwritten wholesale on every sync, never versioned.
type PlatformProfile struct {
	Username             string  `json:"username"`
	Rating               *int    `json:"rating,omitempty"`
	Rank                 *string `json:"rank,omitempty"`
	SolvedCount          *int    `json:"solved_count,omitempty"`
	ContestsParticipated *int    `json:"contests_participated,omitempty"`
}

// SyncStatus records the outcome of the most recent sync attempt for a
// (user, platform) pair. One row per pair, last write wins.
type SyncStatus struct {
	UserID            string     `json:"user_id"`
	PlatformID        string     `json:"platform_id"`
	Status            SyncState  `json:"status"`
	LastSyncTime      *time.Time `json:"last_sync_time,omitempty"`
	SubmissionsSynced int        `json:"submissions_synced"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	// UpdatedAt is stamped on every write; a "syncing" row whose age
	// exceeds the lock TTL is treated as abandoned by a crashed run.
	UpdatedAt    time.Time `json:"updated_at"`
	PlatformName *string   `json:"platform_name,omitempty"` // For display
}

type DashboardStats struct {
	TotalSubmissions     int `json:"total_submissions"`
	AcceptedSubmissions  int `json:"accepted_submissions"`
	ThisMonthSubmissions int `json:"this_month_submissions"`
	ContestsParticipated int `json:"contests_participated"`
	UpcomingContests     int `json:"upcoming_contests"`
	ConnectedPlatforms   int `json:"connected_platforms"`
}

type DifficultyBreakdown struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// ActivityPoint is one day's submission count, for activity-over-time
// charts.
type ActivityPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}
