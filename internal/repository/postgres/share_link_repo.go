package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inviteflow/internal/domain"
)

type shareLinkRepository struct {
	DB *sql.DB
}

func NewShareLinkRepository(db *sql.DB) domain.ShareLinkRepository {
	return &shareLinkRepository{DB: db}
}

func (r *shareLinkRepository) Create(ctx context.Context, l *domain.ShareLink) error {
	query := `
		INSERT INTO share_links (invitation_id, token, is_active, view_count, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		l.InvitationID, l.Token, l.IsActive, l.ViewCount, l.CreatedAt, l.ExpiresAt,
	).Scan(&l.ID)
}

const shareLinkColumns = `id, invitation_id, token, is_active, view_count, created_at, expires_at`

func scanShareLink(row rowScanner) (*domain.ShareLink, error) {
	l := &domain.ShareLink{}
	err := row.Scan(&l.ID, &l.InvitationID, &l.Token, &l.IsActive, &l.ViewCount, &l.CreatedAt, &l.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *shareLinkRepository) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	query := `SELECT ` + shareLinkColumns + ` FROM share_links WHERE token = $1`
	l, err := scanShareLink(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *shareLinkRepository) FirstActiveByInvitation(ctx context.Context, invitationID string, now time.Time) (*domain.ShareLink, error) {
	query := `
		SELECT ` + shareLinkColumns + `
		FROM share_links
		WHERE invitation_id = $1 AND is_active = TRUE AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	l, err := scanShareLink(r.DB.QueryRowContext(ctx, query, invitationID, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// IncrementViewCount is a single SQL increment so concurrent public fetches
// never lose updates.
func (r *shareLinkRepository) IncrementViewCount(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE share_links SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shareLinkRepository) SumViewsByInvitation(ctx context.Context, invitationID string) (int, error) {
	var sum int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(view_count), 0) FROM share_links WHERE invitation_id = $1`,
		invitationID).Scan(&sum)
	return sum, err
}
