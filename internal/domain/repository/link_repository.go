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

type LinkRepository interface {
	// Upsert creates or refreshes the link for (user, platform):
	// last write wins on username, active flag and last-synced time.
	Upsert(ctx context.Context, userID, platformID, platformUsername string, lastSynced *time.Time) (*model.UserPlatformLink, error)
	Deactivate(ctx context.Context, userID, platformID string) error
	FindActive(ctx context.Context, userID, platformID string) (*model.UserPlatformLink, error)
	ListActiveByUser(ctx context.Context, userID string) ([]model.UserPlatformLink, error)
	// ListAllActive returns every active link across users, for the
	// auto-sync scheduler.
	ListAllActive(ctx context.Context) ([]model.UserPlatformLink, error)
}

type pgLinkRepository struct {
	db *sql.DB
}

func NewPgLinkRepository(db *sql.DB) LinkRepository {
	return &pgLinkRepository{db: db}
}

func (r *pgLinkRepository) Upsert(ctx context.Context, userID, platformID, platformUsername string, lastSynced *time.Time) (*model.UserPlatformLink, error) {
	query := `INSERT INTO user_platforms (id, user_id, platform_id, platform_username, is_active, last_synced)
	          VALUES ($1, $2, $3, $4, TRUE, $5)
	          ON CONFLICT (user_id, platform_id) DO UPDATE SET
	              platform_username = EXCLUDED.platform_username,
	              is_active = TRUE,
	              last_synced = COALESCE(EXCLUDED.last_synced, user_platforms.last_synced),
	              updated_at = now()
	          RETURNING id, user_id, platform_id, platform_username, is_active, last_synced, created_at, updated_at`

	link := &model.UserPlatformLink{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, platformID, platformUsername, lastSynced).Scan(
		&link.ID, &link.UserID, &link.PlatformID, &link.PlatformUsername,
		&link.IsActive, &link.LastSynced, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pgLinkRepository.Upsert: %w", err)
	}
	return link, nil
}

func (r *pgLinkRepository) Deactivate(ctx context.Context, userID, platformID string) error {
	query := `UPDATE user_platforms SET is_active = FALSE, updated_at = now()
	          WHERE user_id = $1 AND platform_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, platformID)
	if err != nil {
		return fmt.Errorf("pgLinkRepository.Deactivate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgLinkRepository.Deactivate rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgLinkRepository) FindActive(ctx context.Context, userID, platformID string) (*model.UserPlatformLink, error) {
	query := `SELECT up.id, up.user_id, up.platform_id, up.platform_username, up.is_active,
	                 up.last_synced, up.created_at, up.updated_at, p.name
	          FROM user_platforms up
	          JOIN platforms p ON p.id = up.platform_id
	          WHERE up.user_id = $1 AND up.platform_id = $2 AND up.is_active`
	link := &model.UserPlatformLink{}
	err := r.db.QueryRowContext(ctx, query, userID, platformID).Scan(
		&link.ID, &link.UserID, &link.PlatformID, &link.PlatformUsername,
		&link.IsActive, &link.LastSynced, &link.CreatedAt, &link.UpdatedAt, &link.PlatformName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgLinkRepository.FindActive: %w", err)
	}
	return link, nil
}

func (r *pgLinkRepository) ListActiveByUser(ctx context.Context, userID string) ([]model.UserPlatformLink, error) {
	query := `SELECT up.id, up.user_id, up.platform_id, up.platform_username, up.is_active,
	                 up.last_synced, up.created_at, up.updated_at, p.name
	          FROM user_platforms up
	          JOIN platforms p ON p.id = up.platform_id
	          WHERE up.user_id = $1 AND up.is_active
	          ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgLinkRepository.ListActiveByUser: %w", err)
	}
	defer rows.Close()

	var links []model.UserPlatformLink
	for rows.Next() {
		var link model.UserPlatformLink
		if err := rows.Scan(
			&link.ID, &link.UserID, &link.PlatformID, &link.PlatformUsername,
			&link.IsActive, &link.LastSynced, &link.CreatedAt, &link.UpdatedAt, &link.PlatformName,
		); err != nil {
			return nil, fmt.Errorf("pgLinkRepository.ListActiveByUser scan: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *pgLinkRepository) ListAllActive(ctx context.Context) ([]model.UserPlatformLink, error) {
	query := `SELECT up.id, up.user_id, up.platform_id, up.platform_username, up.is_active,
	                 up.last_synced, up.created_at, up.updated_at, p.name
	          FROM user_platforms up
	          JOIN platforms p ON p.id = up.platform_id
	          WHERE up.is_active
	          ORDER BY up.user_id, p.name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgLinkRepository.ListAllActive: %w", err)
	}
	defer rows.Close()

	var links []model.UserPlatformLink
	for rows.Next() {
		var link model.UserPlatformLink
		if err := rows.Scan(
			&link.ID, &link.UserID, &link.PlatformID, &link.PlatformUsername,
			&link.IsActive, &link.LastSynced, &link.CreatedAt, &link.UpdatedAt, &link.PlatformName,
		); err != nil {
			return nil, fmt.Errorf("pgLinkRepository.ListAllActive scan: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
