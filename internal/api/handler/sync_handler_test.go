package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"algo_tracker/internal/app/service"
	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
)

type stubLinkRepo struct{ links []model.UserPlatformLink }

func (r stubLinkRepo) Upsert(_ context.Context, userID, platformID, username string, lastSynced *time.Time) (*model.UserPlatformLink, error) {
	return nil, nil
}
func (r stubLinkRepo) Deactivate(_ context.Context, userID, platformID string) error { return nil }
func (r stubLinkRepo) FindActive(_ context.Context, userID, platformID string) (*model.UserPlatformLink, error) {
	return nil, common.ErrNotFound
}
func (r stubLinkRepo) ListActiveByUser(_ context.Context, userID string) ([]model.UserPlatformLink, error) {
	return r.links, nil
}
func (r stubLinkRepo) ListAllActive(_ context.Context) ([]model.UserPlatformLink, error) {
	return r.links, nil
}

func TestResolveUsernamePrefersRequestBody(t *testing.T) {
	// The body wins outright, so no connection lookup happens.
	h := NewSyncHandler(nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/sync/LeetCode", strings.NewReader(`{"username":"tourist"}`))

	name, err := h.resolveUsername(req, "user-1", "LeetCode")
	if err != nil {
		t.Fatalf("resolveUsername: %v", err)
	}
	if name != "tourist" {
		t.Errorf("username = %q, want tourist", name)
	}
}

func TestResolveUsernameFallsBackToConnection(t *testing.T) {
	platformName := "LeetCode"
	links := []model.UserPlatformLink{{
		UserID: "user-1", PlatformUsername: "alice", IsActive: true, PlatformName: &platformName,
	}}
	ps := service.NewPlatformService(nil, nil, stubLinkRepo{links: links}, nil)
	h := NewSyncHandler(nil, ps, nil)

	// No body at all.
	req := httptest.NewRequest(http.MethodPost, "/sync/leetcode", nil)
	name, err := h.resolveUsername(req, "user-1", "leetcode")
	if err != nil {
		t.Fatalf("resolveUsername: %v", err)
	}
	if name != "alice" {
		t.Errorf("username = %q, want alice", name)
	}

	// A blank body username does not count as provided.
	req = httptest.NewRequest(http.MethodPost, "/sync/leetcode", strings.NewReader(`{"username":"   "}`))
	name, err = h.resolveUsername(req, "user-1", "leetcode")
	if err != nil {
		t.Fatalf("resolveUsername: %v", err)
	}
	if name != "alice" {
		t.Errorf("username = %q, want alice", name)
	}
}

func TestResolveUsernameNoConnection(t *testing.T) {
	ps := service.NewPlatformService(nil, nil, stubLinkRepo{}, nil)
	h := NewSyncHandler(nil, ps, nil)

	req := httptest.NewRequest(http.MethodPost, "/sync/leetcode", nil)
	if _, err := h.resolveUsername(req, "user-1", "leetcode"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("resolveUsername error = %v, want ErrNotFound", err)
	}
}
