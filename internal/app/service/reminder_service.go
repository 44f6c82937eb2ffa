package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/domain/repository"

	"github.com/google/uuid"
)

// defaultReminderMinutes applies when a user has never saved settings.
const defaultReminderMinutes = 30

type ReminderService struct {
	reminderRepo repository.ReminderRepository
	contestRepo  repository.ContestRepository
}

func NewReminderService(reminderRepo repository.ReminderRepository, contestRepo repository.ContestRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo, contestRepo: contestRepo}
}

// Create schedules a reminder the given number of minutes before the
// contest starts. One reminder per (user, contest). Zero minutes means
// "use the user's default lead time".
func (s *ReminderService) Create(ctx context.Context, userID, contestID string, minutesBefore int) (*model.ContestReminder, error) {
	if minutesBefore < 0 {
		return nil, fmt.Errorf("minutes_before must not be negative: %w", common.ErrValidation)
	}
	if minutesBefore == 0 {
		settings, err := s.Settings(ctx, userID)
		if err != nil {
			return nil, err
		}
		minutesBefore = settings.DefaultMinutesBefore
	}

	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !contest.IsUpcoming(time.Now().UTC()) {
		return nil, fmt.Errorf("contest has already started: %w", common.ErrBadRequest)
	}

	reminder := &model.ContestReminder{
		ID:           uuid.NewString(),
		UserID:       userID,
		ContestID:    contestID,
		ReminderTime: contest.StartTime.Add(-time.Duration(minutesBefore) * time.Minute),
	}
	if err := s.reminderRepo.Create(ctx, reminder); err != nil {
		return nil, err
	}

	reminder.ContestTitle = &contest.Title
	reminder.ContestStartTime = &contest.StartTime
	reminder.PlatformName = contest.PlatformName
	return reminder, nil
}

func (s *ReminderService) List(ctx context.Context, userID string) ([]model.ContestReminder, error) {
	return s.reminderRepo.ListByUser(ctx, userID)
}

func (s *ReminderService) Delete(ctx context.Context, id, userID string) error {
	return s.reminderRepo.Delete(ctx, id, userID)
}

// Settings returns the user's reminder preferences, falling back to
// defaults when none were ever saved.
func (s *ReminderService) Settings(ctx context.Context, userID string) (*model.ReminderSettings, error) {
	settings, err := s.reminderRepo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.ReminderSettings{
				UserID:               userID,
				DefaultMinutesBefore: defaultReminderMinutes,
				EmailEnabled:         true,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *ReminderService) UpdateSettings(ctx context.Context, userID string, minutesBefore int, emailEnabled bool) (*model.ReminderSettings, error) {
	if minutesBefore <= 0 {
		return nil, fmt.Errorf("default_minutes_before must be positive: %w", common.ErrValidation)
	}
	settings := model.ReminderSettings{
		UserID:               userID,
		DefaultMinutesBefore: minutesBefore,
		EmailEnabled:         emailEnabled,
	}
	if err := s.reminderRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
