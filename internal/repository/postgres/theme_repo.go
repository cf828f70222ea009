package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteflow/internal/domain"
)

type themeRepository struct {
	DB *sql.DB
}

func NewThemeRepository(db *sql.DB) domain.ThemeRepository {
	return &themeRepository{DB: db}
}

func (r *themeRepository) ListActive(ctx context.Context) ([]*domain.Theme, error) {
	query := `
		SELECT id, name, primary_color, secondary_color, bg_gradient, is_active, created_at
		FROM themes
		WHERE is_active = TRUE
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	themes := []*domain.Theme{}
	for rows.Next() {
		t := &domain.Theme{}
		if err := rows.Scan(&t.ID, &t.Name, &t.PrimaryColor, &t.SecondaryColor, &t.BgGradient, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

func (r *themeRepository) GetActiveByID(ctx context.Context, id string) (*domain.Theme, error) {
	query := `
		SELECT id, name, primary_color, secondary_color, bg_gradient, is_active, created_at
		FROM themes
		WHERE id = $1 AND is_active = TRUE
	`
	return r.getOne(ctx, query, id)
}

func (r *themeRepository) GetByID(ctx context.Context, id string) (*domain.Theme, error) {
	query := `
		SELECT id, name, primary_color, secondary_color, bg_gradient, is_active, created_at
		FROM themes
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *themeRepository) getOne(ctx context.Context, query, id string) (*domain.Theme, error) {
	t := &domain.Theme{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.PrimaryColor, &t.SecondaryColor, &t.BgGradient, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrThemeNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *themeRepository) Upsert(ctx context.Context, t *domain.Theme) error {
	query := `
		INSERT INTO themes (id, name, primary_color, secondary_color, bg_gradient, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color, bg_gradient = EXCLUDED.bg_gradient,
			is_active = EXCLUDED.is_active
	`
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.Name, t.PrimaryColor, t.SecondaryColor, t.BgGradient, t.IsActive)
	return err
}
