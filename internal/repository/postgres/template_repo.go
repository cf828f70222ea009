package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteflow/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{DB: db}
}

func (r *templateRepository) ListActive(ctx context.Context, category string) ([]*domain.Template, error) {
	query := `
		SELECT id, name, category, emoji, hue_a, hue_b, description, image_url, video_url, is_active, created_at
		FROM templates
		WHERE is_active = TRUE
	`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*domain.Template{}
	for rows.Next() {
		t := &domain.Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Emoji, &t.HueA, &t.HueB, &t.Description, &t.ImageURL, &t.VideoURL, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *templateRepository) GetActiveByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `
		SELECT id, name, category, emoji, hue_a, hue_b, description, image_url, video_url, is_active, created_at
		FROM templates
		WHERE id = $1 AND is_active = TRUE
	`
	return r.getOne(ctx, query, id)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `
		SELECT id, name, category, emoji, hue_a, hue_b, description, image_url, video_url, is_active, created_at
		FROM templates
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *templateRepository) getOne(ctx context.Context, query, id string) (*domain.Template, error) {
	t := &domain.Template{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Category, &t.Emoji, &t.HueA, &t.HueB, &t.Description, &t.ImageURL, &t.VideoURL, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *templateRepository) Upsert(ctx context.Context, t *domain.Template) error {
	query := `
		INSERT INTO templates (id, name, category, emoji, hue_a, hue_b, description, image_url, video_url, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category, emoji = EXCLUDED.emoji,
			hue_a = EXCLUDED.hue_a, hue_b = EXCLUDED.hue_b, description = EXCLUDED.description,
			image_url = EXCLUDED.image_url, video_url = EXCLUDED.video_url, is_active = EXCLUDED.is_active
	`
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.Name, t.Category, t.Emoji, t.HueA, t.HueB, t.Description, t.ImageURL, t.VideoURL, t.IsActive)
	return err
}
