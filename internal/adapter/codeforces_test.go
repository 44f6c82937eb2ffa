package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"algo_tracker/internal/domain/model"
)

func newTestCodeforcesAdapter(handler http.Handler) (*CodeforcesAdapter, *httptest.Server) {
	server := httptest.NewServer(handler)
	ad := NewCodeforcesAdapter(2 * time.Second)
	ad.SetBaseURL(server.URL)
	return ad, server
}

func TestCodeforcesGetUserInfo(t *testing.T) {
	ad, server := newTestCodeforcesAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user.info" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("handles"); got != "tourist" {
			t.Errorf("handles = %q, want tourist", got)
		}
		w.Write([]byte(`{"status":"OK","result":[{"handle":"tourist","rating":3822,"rank":"legendary grandmaster"}]}`))
	}))
	defer server.Close()

	profile, err := ad.GetUserInfo(context.Background(), "tourist")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if profile == nil {
		t.Fatal("GetUserInfo returned nil profile")
	}
	if profile.Username != "tourist" {
		t.Errorf("Username = %q, want tourist", profile.Username)
	}
	if profile.Rating == nil || *profile.Rating != 3822 {
		t.Errorf("Rating = %v, want 3822", profile.Rating)
	}
	if profile.Rank == nil || *profile.Rank != "legendary grandmaster" {
		t.Errorf("Rank = %v, want legendary grandmaster", profile.Rank)
	}
}

func TestCodeforcesGetUserInfoMissingUser(t *testing.T) {
	ad, server := newTestCodeforcesAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[]}`))
	}))
	defer server.Close()

	profile, err := ad.GetUserInfo(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile for unknown handle, got %+v", profile)
	}
}

func TestCodeforcesGetUserInfoFallback(t *testing.T) {
	ad := NewCodeforcesAdapter(500 * time.Millisecond)
	// Point at a server that is already closed to force a transport error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	ad.SetBaseURL(server.URL)

	profile, err := ad.GetUserInfo(context.Background(), "tourist")
	if err != nil {
		t.Fatalf("GetUserInfo should degrade to fallback, got error: %v", err)
	}
	if profile == nil {
		t.Fatal("expected fallback profile, got nil")
	}
	if profile.Username != "tourist" {
		t.Errorf("fallback Username = %q, want request handle", profile.Username)
	}
	if profile.Rating == nil || *profile.Rating != 1847 {
		t.Errorf("fallback Rating = %v, want 1847", profile.Rating)
	}
}

func TestCodeforcesGetSubmissions(t *testing.T) {
	ad, server := newTestCodeforcesAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user.status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"OK","result":[
			{"creationTimeSeconds":1700000000,"timeConsumedMillis":156,"memoryConsumedBytes":2097152,
			 "verdict":"OK","programmingLanguage":"GNU C++17",
			 "problem":{"contestId":1877,"index":"B","name":"Helmets in Night Light","rating":1300,"tags":["greedy","sortings"]}},
			{"creationTimeSeconds":1699990000,"timeConsumedMillis":2000,"memoryConsumedBytes":0,
			 "verdict":"TIME_LIMIT_EXCEEDED","programmingLanguage":"GNU C++17",
			 "problem":{"contestId":1877,"index":"C","name":"Joyboard","tags":[]}}
		]}`))
	}))
	defer server.Close()

	subs, err := ad.GetSubmissions(context.Background(), "tourist", 10)
	if err != nil {
		t.Fatalf("GetSubmissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d submissions, want 2", len(subs))
	}

	first := subs[0]
	if first.ProblemTitle != "1877B - Helmets in Night Light" {
		t.Errorf("ProblemTitle = %q", first.ProblemTitle)
	}
	if first.ProblemSlug != "1877b-helmets-in-night-light" {
		t.Errorf("ProblemSlug = %q", first.ProblemSlug)
	}
	if first.Status != model.StatusAccepted {
		t.Errorf("Status = %q, want %q", first.Status, model.StatusAccepted)
	}
	if first.Difficulty.Level != model.LevelMedium {
		t.Errorf("Difficulty.Level = %s, want Medium for rating 1300", first.Difficulty.Level)
	}
	if first.MemoryUsedBytes == nil || *first.MemoryUsedBytes != 2097152 {
		t.Errorf("MemoryUsedBytes = %v, want 2097152", first.MemoryUsedBytes)
	}
	if first.Category == nil || *first.Category != "greedy, sortings" {
		t.Errorf("Category = %v", first.Category)
	}
	if !first.SubmittedAt.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Errorf("SubmittedAt = %v", first.SubmittedAt)
	}

	second := subs[1]
	if second.Status != model.StatusTimeLimitExceeded {
		t.Errorf("Status = %q, want %q", second.Status, model.StatusTimeLimitExceeded)
	}
	if second.Difficulty.Level != model.LevelUnknown {
		t.Errorf("Difficulty.Level = %s, want Unknown when no rating", second.Difficulty.Level)
	}
	if second.MemoryUsedBytes != nil {
		t.Errorf("MemoryUsedBytes = %v, want nil for zero bytes", second.MemoryUsedBytes)
	}
}

func TestCodeforcesGetSubmissionsLimit(t *testing.T) {
	ad, server := newTestCodeforcesAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":[
			{"creationTimeSeconds":1700000000,"verdict":"OK","problem":{"contestId":1,"index":"A","name":"One"}},
			{"creationTimeSeconds":1700000001,"verdict":"OK","problem":{"contestId":2,"index":"A","name":"Two"}},
			{"creationTimeSeconds":1700000002,"verdict":"OK","problem":{"contestId":3,"index":"A","name":"Three"}}
		]}`))
	}))
	defer server.Close()

	subs, err := ad.GetSubmissions(context.Background(), "tourist", 2)
	if err != nil {
		t.Fatalf("GetSubmissions: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("got %d submissions, want limit of 2", len(subs))
	}
}

func TestCodeforcesGetUpcomingContests(t *testing.T) {
	ad, server := newTestCodeforcesAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contest.list" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"OK","result":[
			{"id":1913,"name":"Codeforces Round 913 (Div. 3)","type":"ICPC","phase":"BEFORE","durationSeconds":8100,"startTimeSeconds":1900000000},
			{"id":1912,"name":"Codeforces Round 912 (Div. 2)","type":"CF","phase":"FINISHED","durationSeconds":7200,"startTimeSeconds":1600000000},
			{"id":1914,"name":"Codeforces Round 914 (Div. 2)","type":"CF","phase":"BEFORE","durationSeconds":7200,"startTimeSeconds":1900100000}
		]}`))
	}))
	defer server.Close()

	contests, err := ad.GetUpcomingContests(context.Background())
	if err != nil {
		t.Fatalf("GetUpcomingContests: %v", err)
	}
	if len(contests) != 2 {
		t.Fatalf("got %d contests, want 2 (finished ones excluded)", len(contests))
	}
	if contests[0].DurationMinutes != 135 {
		t.Errorf("DurationMinutes = %d, want 135", contests[0].DurationMinutes)
	}
	if contests[0].IsRated {
		t.Error("ICPC type contest should not be flagged rated")
	}
	if !contests[1].IsRated {
		t.Error("CF type contest should be flagged rated")
	}
}

func TestCodeforcesAPIFailureStatus(t *testing.T) {
	ad, server := newTestCodeforcesAdapter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle xyz not found"}`))
	}))
	defer server.Close()

	// A FAILED envelope degrades to fallback data, same as a transport error.
	profile, err := ad.GetUserInfo(context.Background(), "xyz")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if profile == nil {
		t.Fatal("expected fallback profile for FAILED envelope")
	}
}

func TestNormalizeVerdict(t *testing.T) {
	tests := []struct {
		verdict string
		want    string
	}{
		{"OK", model.StatusAccepted},
		{"WRONG_ANSWER", model.StatusWrongAnswer},
		{"TIME_LIMIT_EXCEEDED", model.StatusTimeLimitExceeded},
		{"RUNTIME_ERROR", model.StatusRuntimeError},
		{"COMPILATION_ERROR", model.StatusCompilationError},
		{"MEMORY_LIMIT_EXCEEDED", "Memory Limit Exceeded"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := normalizeVerdict(tt.verdict); got != tt.want {
			t.Errorf("normalizeVerdict(%q) = %q, want %q", tt.verdict, got, tt.want)
		}
	}
}
