package service

import (
	"context"
	"time"

	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/domain/repository"
)

// StatsService assembles aggregate views over already-synced data; it
// never talks to the platform adapters.
type StatsService struct {
	submissionRepo repository.SubmissionRepository
	profileRepo    repository.ProfileRepository
	contestRepo    repository.ContestRepository
	linkRepo       repository.LinkRepository
}

func NewStatsService(
	submissionRepo repository.SubmissionRepository,
	profileRepo repository.ProfileRepository,
	contestRepo repository.ContestRepository,
	linkRepo repository.LinkRepository,
) *StatsService {
	return &StatsService{
		submissionRepo: submissionRepo,
		profileRepo:    profileRepo,
		contestRepo:    contestRepo,
		linkRepo:       linkRepo,
	}
}

func (s *StatsService) Dashboard(ctx context.Context, userID string) (*model.DashboardStats, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	total, err := s.submissionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	accepted, err := s.submissionRepo.CountByUserAndStatus(ctx, userID, model.StatusAccepted)
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.submissionRepo.CountByUserSince(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}
	contests, err := s.profileRepo.SumContestsParticipated(ctx, userID)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.contestRepo.CountUpcoming(ctx, now)
	if err != nil {
		return nil, err
	}
	links, err := s.linkRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalSubmissions:     total,
		AcceptedSubmissions:  accepted,
		ThisMonthSubmissions: thisMonth,
		ContestsParticipated: contests,
		UpcomingContests:     upcoming,
		ConnectedPlatforms:   len(links),
	}, nil
}

func (s *StatsService) DifficultyBreakdown(ctx context.Context, userID string) (*model.DifficultyBreakdown, error) {
	return s.submissionRepo.DifficultyBreakdown(ctx, userID)
}

const (
	defaultActivityDays = 30
	maxActivityDays     = 365
)

// Activity returns per-day submission counts over the trailing window.
// The window is clamped to at most a year.
func (s *StatsService) Activity(ctx context.Context, userID string, days int) ([]model.ActivityPoint, error) {
	if days <= 0 {
		days = defaultActivityDays
	}
	if days > maxActivityDays {
		days = maxActivityDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	points, err := s.submissionRepo.ActivityByDay(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []model.ActivityPoint{}
	}
	return points, nil
}
