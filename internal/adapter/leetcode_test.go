package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLeetCodeGetUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		var body struct {
			Variables map[string]string `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body.Variables["username"] != "neal_wu" {
			t.Errorf("username variable = %q, want neal_wu", body.Variables["username"])
		}
		w.Write([]byte(`{"data":{"matchedUser":{
			"username":"neal_wu",
			"submitStats":{"acSubmissionNum":[
				{"difficulty":"All","count":847},
				{"difficulty":"Easy","count":200}
			]},
			"userContestRanking":{"attendedContestsCount":42,"rating":2834.5,"globalRanking":12}
		}}}`))
	}))
	defer server.Close()

	ad := NewLeetCodeAdapter(2 * time.Second)
	ad.SetBaseURL(server.URL)

	profile, err := ad.GetUserInfo(context.Background(), "neal_wu")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if profile == nil {
		t.Fatal("GetUserInfo returned nil profile")
	}
	if profile.Username != "neal_wu" {
		t.Errorf("Username = %q", profile.Username)
	}
	if profile.SolvedCount == nil || *profile.SolvedCount != 847 {
		t.Errorf("SolvedCount = %v, want 847 (the All bucket)", profile.SolvedCount)
	}
	if profile.Rating == nil || *profile.Rating != 2834 {
		t.Errorf("Rating = %v, want 2834", profile.Rating)
	}
	if profile.ContestsParticipated == nil || *profile.ContestsParticipated != 42 {
		t.Errorf("ContestsParticipated = %v, want 42", profile.ContestsParticipated)
	}
	if profile.Rank == nil || *profile.Rank != "#12" {
		t.Errorf("Rank = %v, want #12", profile.Rank)
	}
}

func TestLeetCodeGetUserInfoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"matchedUser":null}}`))
	}))
	defer server.Close()

	ad := NewLeetCodeAdapter(2 * time.Second)
	ad.SetBaseURL(server.URL)

	profile, err := ad.GetUserInfo(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetUserInfo: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile for missing user, got %+v", profile)
	}
}

func TestLeetCodeGetUserInfoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ad := NewLeetCodeAdapter(2 * time.Second)
	ad.SetBaseURL(server.URL)

	profile, err := ad.GetUserInfo(context.Background(), "neal_wu")
	if err != nil {
		t.Fatalf("GetUserInfo should degrade to fallback, got error: %v", err)
	}
	if profile == nil {
		t.Fatal("expected fallback profile, got nil")
	}
	if profile.Rating == nil || *profile.Rating != 1650 {
		t.Errorf("fallback Rating = %v, want 1650", profile.Rating)
	}
}

func TestLeetCodeGetSubmissionsRespectsLimit(t *testing.T) {
	ad := NewLeetCodeAdapter(time.Second)

	subs, err := ad.GetSubmissions(context.Background(), "neal_wu", 1)
	if err != nil {
		t.Fatalf("GetSubmissions: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("got %d submissions, want 1", len(subs))
	}
}

func TestLeetCodeGetUpcomingContests(t *testing.T) {
	ad := NewLeetCodeAdapter(time.Second)

	contests, err := ad.GetUpcomingContests(context.Background())
	if err != nil {
		t.Fatalf("GetUpcomingContests: %v", err)
	}
	if len(contests) == 0 {
		t.Fatal("expected at least one contest")
	}
	if !contests[0].IsUpcoming(time.Now().UTC()) {
		t.Errorf("contest start %v should be in the future", contests[0].StartTime)
	}
}
