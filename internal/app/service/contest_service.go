package service

import (
	"context"
	"time"

	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/domain/repository"
)

const defaultContestLimit = 50

type ContestService struct {
	contestRepo repository.ContestRepository
}

func NewContestService(contestRepo repository.ContestRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo}
}

// ListUpcoming returns contests starting now or later, soonest first.
func (s *ContestService) ListUpcoming(ctx context.Context, limit int) ([]model.Contest, error) {
	if limit < 1 || limit > defaultContestLimit {
		limit = defaultContestLimit
	}
	contests, err := s.contestRepo.ListUpcoming(ctx, time.Now().UTC(), limit)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}
