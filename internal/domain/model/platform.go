package model

import "time"

// Display names of the seeded platform catalog. Adapter registry lookups
// are case-insensitive, so "leetcode" resolves to PlatformLeetCode.
const (
	PlatformLeetCode      = "LeetCode"
	PlatformCodeforces    = "Codeforces"
	PlatformAtCoder       = "AtCoder"
	PlatformGeeksforGeeks = "GeeksforGeeks"
)

// Platform is immutable reference data, seeded once at startup.
type Platform struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BaseURL   string    `json:"base_url"`
	CreatedAt time.Time `json:"created_at"`
}
