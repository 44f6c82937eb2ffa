package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
)

type PlatformRepository interface {
	FindByName(ctx context.Context, name string) (*model.Platform, error)
	FindByID(ctx context.Context, id string) (*model.Platform, error)
	List(ctx context.Context) ([]model.Platform, error)
}

type pgPlatformRepository struct {
	db *sql.DB
}

func NewPgPlatformRepository(db *sql.DB) PlatformRepository {
	return &pgPlatformRepository{db: db}
}

func (r *pgPlatformRepository) FindByName(ctx context.Context, name string) (*model.Platform, error) {
	query := `SELECT id, name, base_url, created_at FROM platforms WHERE LOWER(name) = LOWER($1)`
	p := &model.Platform{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name, &p.BaseURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlatformRepository.FindByName: %w", err)
	}
	return p, nil
}

func (r *pgPlatformRepository) FindByID(ctx context.Context, id string) (*model.Platform, error) {
	query := `SELECT id, name, base_url, created_at FROM platforms WHERE id = $1`
	p := &model.Platform{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.BaseURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlatformRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgPlatformRepository) List(ctx context.Context) ([]model.Platform, error) {
	query := `SELECT id, name, base_url, created_at FROM platforms ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgPlatformRepository.List: %w", err)
	}
	defer rows.Close()

	var platforms []model.Platform
	for rows.Next() {
		var p model.Platform
		if err := rows.Scan(&p.ID, &p.Name, &p.BaseURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgPlatformRepository.List scan: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}
