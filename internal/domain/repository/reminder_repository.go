package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *model.ContestReminder) error
	ListByUser(ctx context.Context, userID string) ([]model.ContestReminder, error)
	Delete(ctx context.Context, id, userID string) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.ContestReminder, error)
	MarkSent(ctx context.Context, id string) error
	// GetSettings returns ErrNotFound when the user has never saved
	// settings; callers apply defaults.
	GetSettings(ctx context.Context, userID string) (*model.ReminderSettings, error)
	UpsertSettings(ctx context.Context, settings model.ReminderSettings) error
}

type pgReminderRepository struct {
	db *sql.DB
}

func NewPgReminderRepository(db *sql.DB) ReminderRepository {
	return &pgReminderRepository{db: db}
}

func (r *pgReminderRepository) Create(ctx context.Context, reminder *model.ContestReminder) error {
	query := `INSERT INTO contest_reminders (id, user_id, contest_id, reminder_time, is_sent)
	          VALUES ($1, $2, $3, $4, FALSE)`
	_, err := r.db.ExecContext(ctx, query,
		reminder.ID, reminder.UserID, reminder.ContestID, reminder.ReminderTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("reminder already exists for contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgReminderRepository.Create: %w", err)
	}
	return nil
}

func (r *pgReminderRepository) ListByUser(ctx context.Context, userID string) ([]model.ContestReminder, error) {
	query := `SELECT cr.id, cr.user_id, cr.contest_id, cr.reminder_time, cr.is_sent, cr.created_at,
	                 c.title, c.start_time, p.name
	          FROM contest_reminders cr
	          JOIN contests c ON c.id = cr.contest_id
	          JOIN platforms p ON p.id = c.platform_id
	          WHERE cr.user_id = $1
	          ORDER BY cr.reminder_time ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgReminderRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var reminders []model.ContestReminder
	for rows.Next() {
		var rem model.ContestReminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.ContestID, &rem.ReminderTime, &rem.IsSent,
			&rem.CreatedAt, &rem.ContestTitle, &rem.ContestStartTime, &rem.PlatformName); err != nil {
			return nil, fmt.Errorf("pgReminderRepository.ListByUser scan: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *pgReminderRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contest_reminders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("pgReminderRepository.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgReminderRepository.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.ContestReminder, error) {
	query := `SELECT cr.id, cr.user_id, cr.contest_id, cr.reminder_time, cr.is_sent, cr.created_at,
	                 c.title, c.start_time, p.name
	          FROM contest_reminders cr
	          JOIN contests c ON c.id = cr.contest_id
	          JOIN platforms p ON p.id = c.platform_id
	          WHERE NOT cr.is_sent AND cr.reminder_time <= $1
	          ORDER BY cr.reminder_time ASC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("pgReminderRepository.ListDue: %w", err)
	}
	defer rows.Close()

	var reminders []model.ContestReminder
	for rows.Next() {
		var rem model.ContestReminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.ContestID, &rem.ReminderTime, &rem.IsSent,
			&rem.CreatedAt, &rem.ContestTitle, &rem.ContestStartTime, &rem.PlatformName); err != nil {
			return nil, fmt.Errorf("pgReminderRepository.ListDue scan: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *pgReminderRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE contest_reminders SET is_sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgReminderRepository.MarkSent: %w", err)
	}
	return nil
}

func (r *pgReminderRepository) GetSettings(ctx context.Context, userID string) (*model.ReminderSettings, error) {
	query := `SELECT user_id, default_minutes_before, email_enabled, updated_at
	          FROM reminder_settings
	          WHERE user_id = $1`
	s := &model.ReminderSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.DefaultMinutesBefore, &s.EmailEnabled, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgReminderRepository.GetSettings: %w", err)
	}
	return s, nil
}

func (r *pgReminderRepository) UpsertSettings(ctx context.Context, settings model.ReminderSettings) error {
	query := `INSERT INTO reminder_settings (user_id, default_minutes_before, email_enabled, updated_at)
	          VALUES ($1, $2, $3, now())
	          ON CONFLICT (user_id) DO UPDATE SET
	              default_minutes_before = EXCLUDED.default_minutes_before,
	              email_enabled = EXCLUDED.email_enabled,
	              updated_at = now()`
	_, err := r.db.ExecContext(ctx, query,
		settings.UserID, settings.DefaultMinutesBefore, settings.EmailEnabled)
	if err != nil {
		return fmt.Errorf("pgReminderRepository.UpsertSettings: %w", err)
	}
	return nil
}
