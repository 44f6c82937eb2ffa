package service

import (
	"context"
	"errors"
	"testing"

	"algo_tracker/internal/adapter"
	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
)

func newTestPlatformService(state *memState, adapters ...adapter.Adapter) *PlatformService {
	return NewPlatformService(
		adapter.NewRegistry(adapters...),
		fakePlatformRepo{state},
		fakeLinkRepo{state},
		fakeStatusRepo{state},
	)
}

func TestConnectCreatesLinkAndPendingStatus(t *testing.T) {
	setTestConfig(t)

	ad := &fakeAdapter{
		name:    "TestJudge",
		profile: &model.PlatformProfile{Username: "alice"},
	}
	state := newMemState(testPlatform("TestJudge"))
	svc := newTestPlatformService(state, ad)

	link, err := svc.Connect(context.Background(), testUserID, "testjudge", "alice")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if link.PlatformUsername != "alice" {
		t.Errorf("link username = %q", link.PlatformUsername)
	}
	if link.PlatformName == nil || *link.PlatformName != "TestJudge" {
		t.Errorf("link platform name = %v", link.PlatformName)
	}

	status, ok := state.statuses[pairKey(testUserID, testPlatformID)]
	if !ok {
		t.Fatal("Connect should seed a sync status row")
	}
	if status.Status != model.SyncPending {
		t.Errorf("status = %s, want pending", status.Status)
	}
}

func TestConnectUnsupportedPlatform(t *testing.T) {
	setTestConfig(t)

	state := newMemState(testPlatform("TestJudge"))
	svc := newTestPlatformService(state) // empty registry

	_, err := svc.Connect(context.Background(), testUserID, "hackerrank", "alice")
	if !errors.Is(err, common.ErrBadRequest) {
		t.Errorf("Connect error = %v, want ErrBadRequest", err)
	}
	if len(state.links) != 0 {
		t.Error("no link should be created for an unsupported platform")
	}
}

func TestConnectUnknownUser(t *testing.T) {
	setTestConfig(t)

	// profile == nil with no error means the handle does not exist.
	ad := &fakeAdapter{name: "TestJudge"}
	state := newMemState(testPlatform("TestJudge"))
	svc := newTestPlatformService(state, ad)

	_, err := svc.Connect(context.Background(), testUserID, "TestJudge", "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Connect error = %v, want ErrNotFound", err)
	}
}

func TestConnectEmptyUsername(t *testing.T) {
	setTestConfig(t)

	ad := &fakeAdapter{name: "TestJudge", profile: &model.PlatformProfile{Username: "alice"}}
	state := newMemState(testPlatform("TestJudge"))
	svc := newTestPlatformService(state, ad)

	_, err := svc.Connect(context.Background(), testUserID, "TestJudge", "   ")
	if !errors.Is(err, common.ErrValidation) {
		t.Errorf("Connect error = %v, want ErrValidation", err)
	}
}

func TestConnectVerificationOutage(t *testing.T) {
	setTestConfig(t)

	ad := &fakeAdapter{name: "TestJudge", profileErr: errors.New("connection refused")}
	state := newMemState(testPlatform("TestJudge"))
	svc := newTestPlatformService(state, ad)

	_, err := svc.Connect(context.Background(), testUserID, "TestJudge", "alice")
	if !errors.Is(err, common.ErrServiceUnavailable) {
		t.Errorf("Connect error = %v, want ErrServiceUnavailable", err)
	}
}

func TestDisconnect(t *testing.T) {
	setTestConfig(t)

	ad := &fakeAdapter{name: "TestJudge", profile: &model.PlatformProfile{Username: "alice"}}
	state := newMemState(testPlatform("TestJudge"))
	svc := newTestPlatformService(state, ad)

	if _, err := svc.Connect(context.Background(), testUserID, "TestJudge", "alice"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := svc.Disconnect(context.Background(), testUserID, "TestJudge"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	link := state.links[pairKey(testUserID, testPlatformID)]
	if link.IsActive {
		t.Error("link should be deactivated, not deleted")
	}

	// Disconnecting again reports not found.
	state.links = map[string]model.UserPlatformLink{}
	if err := svc.Disconnect(context.Background(), testUserID, "TestJudge"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Disconnect error = %v, want ErrNotFound", err)
	}
}
