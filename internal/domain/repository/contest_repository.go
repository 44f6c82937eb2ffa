package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"

	"github.com/google/uuid"
)

type ContestRepository interface {
	// UpsertBatch inserts contests keyed by (platform, title, start_time);
	// existing rows get their URL/duration/rated flag refreshed.
	UpsertBatch(ctx context.Context, contests []model.Contest) error
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]model.Contest, error)
	CountUpcoming(ctx context.Context, now time.Time) (int, error)
	FindByID(ctx context.Context, id string) (*model.Contest, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) UpsertBatch(ctx context.Context, contests []model.Contest) error {
	if len(contests) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgContestRepository.UpsertBatch begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO contests (id, platform_id, title, contest_url, start_time, duration_minutes, is_rated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (platform_id, title, start_time) DO UPDATE SET
	              contest_url = EXCLUDED.contest_url,
	              duration_minutes = EXCLUDED.duration_minutes,
	              is_rated = EXCLUDED.is_rated`

	for _, c := range contests {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query,
			id, c.PlatformID, c.Title, c.ContestURL, c.StartTime, c.DurationMinutes, c.IsRated,
		); err != nil {
			return fmt.Errorf("pgContestRepository.UpsertBatch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgContestRepository.UpsertBatch commit: %w", err)
	}
	return nil
}

func (r *pgContestRepository) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]model.Contest, error) {
	query := `SELECT c.id, c.platform_id, c.title, c.contest_url, c.start_time, c.duration_minutes, c.is_rated, p.name
	          FROM contests c
	          JOIN platforms p ON p.id = c.platform_id
	          WHERE c.start_time >= $1
	          ORDER BY c.start_time ASC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListUpcoming: %w", err)
	}
	defer rows.Close()

	var contests []model.Contest
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.PlatformID, &c.Title, &c.ContestURL, &c.StartTime,
			&c.DurationMinutes, &c.IsRated, &c.PlatformName); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListUpcoming scan: %w", err)
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}

func (r *pgContestRepository) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contests WHERE start_time >= $1`, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgContestRepository.CountUpcoming: %w", err)
	}
	return count, nil
}

func (r *pgContestRepository) FindByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT c.id, c.platform_id, c.title, c.contest_url, c.start_time, c.duration_minutes, c.is_rated, p.name
	          FROM contests c
	          JOIN platforms p ON p.id = c.platform_id
	          WHERE c.id = $1`
	c := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.PlatformID, &c.Title, &c.ContestURL, &c.StartTime, &c.DurationMinutes, &c.IsRated, &c.PlatformName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindByID: %w", err)
	}
	return c, nil
}
