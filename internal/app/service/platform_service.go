package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"algo_tracker/internal/adapter"
	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/domain/repository"
	"algo_tracker/internal/platform/config"
)

// PlatformService manages the catalog of supported platforms and the
// user's connections to them.
type PlatformService struct {
	registry     *adapter.Registry
	platformRepo repository.PlatformRepository
	linkRepo     repository.LinkRepository
	statusRepo   repository.SyncStatusRepository
}

func NewPlatformService(
	registry *adapter.Registry,
	platformRepo repository.PlatformRepository,
	linkRepo repository.LinkRepository,
	statusRepo repository.SyncStatusRepository,
) *PlatformService {
	return &PlatformService{
		registry:     registry,
		platformRepo: platformRepo,
		linkRepo:     linkRepo,
		statusRepo:   statusRepo,
	}
}

// Connect verifies the handle exists on the platform, then creates or
// refreshes the user's link. Reconnecting an existing link just updates
// the username and re-activates it.
func (s *PlatformService) Connect(ctx context.Context, userID, platformName, username string) (*model.UserPlatformLink, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("platform username is required: %w", common.ErrValidation)
	}

	ad := s.registry.Resolve(platformName)
	if ad == nil {
		return nil, fmt.Errorf("platform %q is not supported: %w", platformName, common.ErrBadRequest)
	}

	platform, err := s.platformRepo.FindByName(ctx, ad.Name())
	if err != nil {
		return nil, err
	}

	verifyCtx, cancel := context.WithTimeout(ctx, time.Duration(config.AppConfig.AdapterTimeoutSeconds)*time.Second)
	defer cancel()
	profile, err := ad.GetUserInfo(verifyCtx, username)
	if err != nil {
		return nil, fmt.Errorf("could not verify %s account: %w", ad.Name(), common.ErrServiceUnavailable)
	}
	if profile == nil {
		return nil, fmt.Errorf("user %q not found on %s: %w", username, ad.Name(), common.ErrNotFound)
	}

	link, err := s.linkRepo.Upsert(ctx, userID, platform.ID, username, nil)
	if err != nil {
		return nil, err
	}
	link.PlatformName = &platform.Name

	// Fresh connections start with a pending status so the dashboard can
	// show "never synced" until the first attempt runs.
	if _, err := s.statusRepo.Get(ctx, userID, platform.ID); err != nil {
		pending := model.SyncStatus{UserID: userID, PlatformID: platform.ID, Status: model.SyncPending}
		if err := s.statusRepo.Set(ctx, pending); err != nil {
			return nil, err
		}
	}
	return link, nil
}

// Disconnect soft-deactivates the link. Submissions and profile
// snapshots already synced stay put.
func (s *PlatformService) Disconnect(ctx context.Context, userID, platformName string) error {
	platform, err := s.platformRepo.FindByName(ctx, platformName)
	if err != nil {
		return err
	}
	return s.linkRepo.Deactivate(ctx, userID, platform.ID)
}

func (s *PlatformService) ListPlatforms(ctx context.Context) ([]model.Platform, error) {
	return s.platformRepo.List(ctx)
}

func (s *PlatformService) ListConnections(ctx context.Context, userID string) ([]model.UserPlatformLink, error) {
	return s.linkRepo.ListActiveByUser(ctx, userID)
}

func (s *PlatformService) SyncStatuses(ctx context.Context, userID string) ([]model.SyncStatus, error) {
	return s.statusRepo.ListByUser(ctx, userID)
}
