package adapter

import (
	"context"
	"time"

	"algo_tracker/internal/domain/model"

	"github.com/gosimple/slug"
)

const atcoderBaseURL = "https://atcoder.jp"

// AtCoderAdapter is a stand-in source: AtCoder publishes no official API,
// so every stage serves a deterministic dataset. It can be swapped for a
// scraping-backed implementation without touching callers.
type AtCoderAdapter struct{}

func NewAtCoderAdapter() *AtCoderAdapter { return &AtCoderAdapter{} }

func (a *AtCoderAdapter) Name() string    { return model.PlatformAtCoder }
func (a *AtCoderAdapter) BaseURL() string { return atcoderBaseURL }

func (a *AtCoderAdapter) GetUserInfo(ctx context.Context, username string) (*model.PlatformProfile, error) {
	return &model.PlatformProfile{
		Username:             username,
		Rating:               intPtr(1234),
		Rank:                 strPtr("Brown"),
		SolvedCount:          intPtr(89),
		ContestsParticipated: intPtr(12),
	}, nil
}

func (a *AtCoderAdapter) GetSubmissions(ctx context.Context, username string, limit int) ([]model.Submission, error) {
	title := "AtCoder Beginner Contest 329 - B"
	subs := []model.Submission{{
		ProblemTitle:    title,
		ProblemSlug:     slug.Make(title),
		Difficulty:      model.ParseDifficulty("Easy"),
		Category:        strPtr("Implementation"),
		Status:          model.StatusAccepted,
		Language:        strPtr("Python"),
		SubmittedAt:     time.Now().Add(-48 * time.Hour).UTC(),
		ExecutionTimeMs: intPtr(23),
		MemoryUsedBytes: i64Ptr(3072 * 1024),
	}}
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

func (a *AtCoderAdapter) GetUpcomingContests(ctx context.Context) ([]model.Contest, error) {
	return []model.Contest{{
		Title:           "AtCoder Beginner Contest 330",
		ContestURL:      strPtr(atcoderBaseURL + "/contests/abc330"),
		StartTime:       time.Now().Add(72 * time.Hour).UTC(),
		DurationMinutes: 100,
		IsRated:         true,
	}}, nil
}
