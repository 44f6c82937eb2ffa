package model

import (
	"strconv"
	"strings"
	"time"
)

type DifficultyLevel string

const (
	LevelEasy    DifficultyLevel = "Easy"
	LevelMedium  DifficultyLevel = "Medium"
	LevelHard    DifficultyLevel = "Hard"
	LevelUnknown DifficultyLevel = "Unknown"
)

// Rating thresholds for platforms that report a numeric contest rating
// instead of a label. Below easy, above hard, medium in between.
const (
	easyRatingCeiling = 1200
	hardRatingFloor   = 1800
)

// Difficulty normalizes the per-platform difficulty field at ingestion.
// Raw preserves the source text for display; Rating is set when the source
// reported a number; Level is the single ordered scale downstream code uses.
type Difficulty struct {
	Raw    string          `json:"raw"`
	Rating *int            `json:"rating,omitempty"`
	Level  DifficultyLevel `json:"level"`
}

// ParseDifficulty maps a platform difficulty string ("Easy", "1847", ...)
// onto the normalized scale.
func ParseDifficulty(raw string) Difficulty {
	d := Difficulty{Raw: raw, Level: LevelUnknown}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return d
	}
	if rating, err := strconv.Atoi(trimmed); err == nil {
		return DifficultyFromRating(rating)
	}
	switch strings.ToLower(trimmed) {
	case "easy", "basic", "school":
		d.Level = LevelEasy
	case "medium", "intermediate":
		d.Level = LevelMedium
	case "hard", "advanced", "expert":
		d.Level = LevelHard
	}
	return d
}

// DifficultyFromRating maps a numeric contest rating onto the scale.
func DifficultyFromRating(rating int) Difficulty {
	level := LevelMedium
	if rating < easyRatingCeiling {
		level = LevelEasy
	} else if rating > hardRatingFloor {
		level = LevelHard
	}
	return Difficulty{Raw: strconv.Itoa(rating), Rating: &rating, Level: level}
}

const (
	StatusAccepted          = "Accepted"
	StatusWrongAnswer       = "Wrong Answer"
	StatusTimeLimitExceeded = "Time Limit Exceeded"
	StatusRuntimeError      = "Runtime Error"
	StatusCompilationError  = "Compilation Error"
)

// Submission is an external result normalized into the common shape.
// Natural key: (user, platform, problem slug, submitted_at); the slug is
// derived from the title so that cosmetic title changes do not duplicate
// rows. MemoryUsedBytes is always bytes; adapters convert at ingestion.
type Submission struct {
	UserID          string     `json:"user_id"`
	PlatformID      string     `json:"platform_id"`
	ProblemTitle    string     `json:"problem_title"`
	ProblemSlug     string     `json:"problem_slug"`
	ProblemURL      *string    `json:"problem_url,omitempty"`
	Difficulty      Difficulty `json:"difficulty"`
	Category        *string    `json:"category,omitempty"`
	Status          string     `json:"status"`
	Language        *string    `json:"language,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ExecutionTimeMs *int       `json:"execution_time_ms,omitempty"`
	MemoryUsedBytes *int64     `json:"memory_used_bytes,omitempty"`
	PlatformName    *string    `json:"platform_name,omitempty"` // For display
}
