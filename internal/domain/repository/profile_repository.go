package repository

import (
	"context"
	"database/sql"
	"fmt"

	"algo_tracker/internal/domain/model"
)

type ProfileRepository interface {
	// Upsert overwrites the profile snapshot for (user, platform).
	Upsert(ctx context.Context, userID, platformID string, profile *model.PlatformProfile) error
	SumContestsParticipated(ctx context.Context, userID string) (int, error)
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) Upsert(ctx context.Context, userID, platformID string, profile *model.PlatformProfile) error {
	query := `INSERT INTO platform_profiles (user_id, platform_id, username, rating, rank, solved_count, contests_participated, fetched_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	          ON CONFLICT (user_id, platform_id) DO UPDATE SET
	              username = EXCLUDED.username,
	              rating = EXCLUDED.rating,
	              rank = EXCLUDED.rank,
	              solved_count = EXCLUDED.solved_count,
	              contests_participated = EXCLUDED.contests_participated,
	              fetched_at = now()`
	_, err := r.db.ExecContext(ctx, query, userID, platformID,
		profile.Username, profile.Rating, profile.Rank, profile.SolvedCount, profile.ContestsParticipated)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) SumContestsParticipated(ctx context.Context, userID string) (int, error) {
	query := `SELECT COALESCE(SUM(contests_participated), 0) FROM platform_profiles WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("pgProfileRepository.SumContestsParticipated: %w", err)
	}
	return total, nil
}
