package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
)

type SyncStatusRepository interface {
	// Set overwrites the single status row for (user, platform).
	// Last write wins; this is a register, not an append log.
	Set(ctx context.Context, status model.SyncStatus) error
	Get(ctx context.Context, userID, platformID string) (*model.SyncStatus, error)
	ListByUser(ctx context.Context, userID string) ([]model.SyncStatus, error)
}

type pgSyncStatusRepository struct {
	db *sql.DB
}

func NewPgSyncStatusRepository(db *sql.DB) SyncStatusRepository {
	return &pgSyncStatusRepository{db: db}
}

func (r *pgSyncStatusRepository) Set(ctx context.Context, status model.SyncStatus) error {
	query := `INSERT INTO sync_status (user_id, platform_id, status, last_sync_time, submissions_synced, error_message, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, now())
	          ON CONFLICT (user_id, platform_id) DO UPDATE SET
	              status = EXCLUDED.status,
	              last_sync_time = EXCLUDED.last_sync_time,
	              submissions_synced = EXCLUDED.submissions_synced,
	              error_message = EXCLUDED.error_message,
	              updated_at = now()`
	_, err := r.db.ExecContext(ctx, query,
		status.UserID, status.PlatformID, status.Status,
		status.LastSyncTime, status.SubmissionsSynced, status.ErrorMessage)
	if err != nil {
		return fmt.Errorf("pgSyncStatusRepository.Set: %w", err)
	}
	return nil
}

func (r *pgSyncStatusRepository) Get(ctx context.Context, userID, platformID string) (*model.SyncStatus, error) {
	query := `SELECT ss.user_id, ss.platform_id, ss.status, ss.last_sync_time,
	                 ss.submissions_synced, ss.error_message, ss.updated_at, p.name
	          FROM sync_status ss
	          JOIN platforms p ON p.id = ss.platform_id
	          WHERE ss.user_id = $1 AND ss.platform_id = $2`
	s := &model.SyncStatus{}
	err := r.db.QueryRowContext(ctx, query, userID, platformID).Scan(
		&s.UserID, &s.PlatformID, &s.Status, &s.LastSyncTime,
		&s.SubmissionsSynced, &s.ErrorMessage, &s.UpdatedAt, &s.PlatformName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSyncStatusRepository.Get: %w", err)
	}
	return s, nil
}

func (r *pgSyncStatusRepository) ListByUser(ctx context.Context, userID string) ([]model.SyncStatus, error) {
	query := `SELECT ss.user_id, ss.platform_id, ss.status, ss.last_sync_time,
	                 ss.submissions_synced, ss.error_message, ss.updated_at, p.name
	          FROM sync_status ss
	          JOIN platforms p ON p.id = ss.platform_id
	          WHERE ss.user_id = $1
	          ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSyncStatusRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var statuses []model.SyncStatus
	for rows.Next() {
		var s model.SyncStatus
		if err := rows.Scan(&s.UserID, &s.PlatformID, &s.Status, &s.LastSyncTime,
			&s.SubmissionsSynced, &s.ErrorMessage, &s.UpdatedAt, &s.PlatformName); err != nil {
			return nil, fmt.Errorf("pgSyncStatusRepository.ListByUser scan: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}
