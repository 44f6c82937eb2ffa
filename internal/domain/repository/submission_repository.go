package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"algo_tracker/internal/domain/model"
)

type SubmissionRepository interface {
	// UpsertBatch inserts submissions keyed by the natural key
	// (user, platform, problem slug, submitted_at); rows already present
	// are silently skipped. Returns the number of newly inserted rows.
	UpsertBatch(ctx context.Context, subs []model.Submission) (int, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	CountByUserAndStatus(ctx context.Context, userID, status string) (int, error)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
	DifficultyBreakdown(ctx context.Context, userID string) (*model.DifficultyBreakdown, error)
	// ActivityByDay returns per-day submission counts since the given
	// time, ordered by day ascending. Days with no submissions are
	// absent from the result.
	ActivityByDay(ctx context.Context, userID string, since time.Time) ([]model.ActivityPoint, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) UpsertBatch(ctx context.Context, subs []model.Submission) (int, error) {
	if len(subs) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.UpsertBatch begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO submissions
	              (user_id, platform_id, problem_title, problem_slug, problem_url,
	               difficulty, difficulty_rating, difficulty_level, category, status,
	               language, submitted_at, execution_time_ms, memory_used_bytes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          ON CONFLICT (user_id, platform_id, problem_slug, submitted_at) DO NOTHING`

	inserted := 0
	for _, s := range subs {
		result, err := tx.ExecContext(ctx, query,
			s.UserID, s.PlatformID, s.ProblemTitle, s.ProblemSlug, s.ProblemURL,
			s.Difficulty.Raw, s.Difficulty.Rating, s.Difficulty.Level, s.Category, s.Status,
			s.Language, s.SubmittedAt, s.ExecutionTimeMs, s.MemoryUsedBytes,
		)
		if err != nil {
			return 0, fmt.Errorf("pgSubmissionRepository.UpsertBatch insert: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("pgSubmissionRepository.UpsertBatch rows affected: %w", err)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.UpsertBatch commit: %w", err)
	}
	return inserted, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error) {
	query := `SELECT s.user_id, s.platform_id, s.problem_title, s.problem_slug, s.problem_url,
	                 s.difficulty, s.difficulty_rating, s.difficulty_level, s.category, s.status,
	                 s.language, s.submitted_at, s.execution_time_ms, s.memory_used_bytes, p.name
	          FROM submissions s
	          JOIN platforms p ON p.id = s.platform_id
	          WHERE s.user_id = $1
	          ORDER BY s.submitted_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(
			&s.UserID, &s.PlatformID, &s.ProblemTitle, &s.ProblemSlug, &s.ProblemURL,
			&s.Difficulty.Raw, &s.Difficulty.Rating, &s.Difficulty.Level, &s.Category, &s.Status,
			&s.Language, &s.SubmittedAt, &s.ExecutionTimeMs, &s.MemoryUsedBytes, &s.PlatformName,
		); err != nil {
			return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *pgSubmissionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountByUser: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) CountByUserAndStatus(ctx context.Context, userID, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE user_id = $1 AND status = $2`, userID, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountByUserAndStatus: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE user_id = $1 AND submitted_at >= $2`, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountByUserSince: %w", err)
	}
	return count, nil
}

// DifficultyBreakdown groups accepted submissions by the level assigned at
// ingestion; nothing is re-parsed here.
func (r *pgSubmissionRepository) DifficultyBreakdown(ctx context.Context, userID string) (*model.DifficultyBreakdown, error) {
	query := `SELECT difficulty_level, COUNT(*)
	          FROM submissions
	          WHERE user_id = $1 AND status = $2
	          GROUP BY difficulty_level`
	rows, err := r.db.QueryContext(ctx, query, userID, model.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.DifficultyBreakdown: %w", err)
	}
	defer rows.Close()

	breakdown := &model.DifficultyBreakdown{}
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.DifficultyBreakdown scan: %w", err)
		}
		switch model.DifficultyLevel(level) {
		case model.LevelEasy:
			breakdown.Easy += count
		case model.LevelHard:
			breakdown.Hard += count
		default:
			// Unknown counts as medium, matching the ingestion default.
			breakdown.Medium += count
		}
	}
	return breakdown, rows.Err()
}

func (r *pgSubmissionRepository) ActivityByDay(ctx context.Context, userID string, since time.Time) ([]model.ActivityPoint, error) {
	query := `SELECT DATE(submitted_at AT TIME ZONE 'UTC') AS day, COUNT(*)
	          FROM submissions
	          WHERE user_id = $1 AND submitted_at >= $2
	          GROUP BY day
	          ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ActivityByDay: %w", err)
	}
	defer rows.Close()

	var points []model.ActivityPoint
	for rows.Next() {
		var p model.ActivityPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ActivityByDay scan: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
