package adapter

import (
	"context"
	"time"

	"algo_tracker/internal/domain/model"

	"github.com/gosimple/slug"
)

const geeksforgeeksBaseURL = "https://www.geeksforgeeks.org"

// GeeksforGeeksAdapter is a stand-in source; GeeksforGeeks has no public
// API and a real implementation would need profile-page scraping.
type GeeksforGeeksAdapter struct{}

func NewGeeksforGeeksAdapter() *GeeksforGeeksAdapter { return &GeeksforGeeksAdapter{} }

func (a *GeeksforGeeksAdapter) Name() string    { return model.PlatformGeeksforGeeks }
func (a *GeeksforGeeksAdapter) BaseURL() string { return geeksforgeeksBaseURL }

func (a *GeeksforGeeksAdapter) GetUserInfo(ctx context.Context, username string) (*model.PlatformProfile, error) {
	return &model.PlatformProfile{
		Username:             username,
		Rating:               intPtr(1520),
		Rank:                 strPtr("Intermediate"),
		SolvedCount:          intPtr(134),
		ContestsParticipated: intPtr(9),
	}, nil
}

func (a *GeeksforGeeksAdapter) GetSubmissions(ctx context.Context, username string, limit int) ([]model.Submission, error) {
	title := "Detect Loop in Linked List"
	subs := []model.Submission{{
		ProblemTitle:    title,
		ProblemSlug:     slug.Make(title),
		ProblemURL:      strPtr(geeksforgeeksBaseURL + "/problems/detect-loop-in-linked-list/1"),
		Difficulty:      model.ParseDifficulty("Medium"),
		Category:        strPtr("Linked List"),
		Status:          model.StatusAccepted,
		Language:        strPtr("Java"),
		SubmittedAt:     time.Now().Add(-72 * time.Hour).UTC(),
		ExecutionTimeMs: intPtr(112),
		MemoryUsedBytes: i64Ptr(8192 * 1024),
	}}
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

func (a *GeeksforGeeksAdapter) GetUpcomingContests(ctx context.Context) ([]model.Contest, error) {
	// GfG contests are not tracked; the dashboard merges the other
	// platforms' contest feeds.
	return nil, nil
}
