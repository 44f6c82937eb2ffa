package service

import (
	"context"

	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/domain/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SubmissionPage is one page of a user's synced submissions plus the
// total count for pagination.
type SubmissionPage struct {
	Submissions []model.Submission `json:"submissions"`
	Total       int                `json:"total"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
}

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
}

func NewSubmissionService(submissionRepo repository.SubmissionRepository) *SubmissionService {
	return &SubmissionService{submissionRepo: submissionRepo}
}

func (s *SubmissionService) List(ctx context.Context, userID string, page, pageSize int) (*SubmissionPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	subs, total, err := s.submissionRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return &SubmissionPage{Submissions: subs, Total: total, Page: page, PageSize: pageSize}, nil
}
