package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"inviteflow/internal/domain"
)

type guestRepository struct {
	DB *sql.DB
}

func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{DB: db}
}

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	query := `
		INSERT INTO guests (invitation_id, name, email, phone, rsvp_status, rsvp_date,
			plus_one, plus_one_count, notes, invitation_sent, invitation_sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		g.InvitationID, g.Name, g.Email, g.Phone, g.RSVPStatus, g.RSVPDate,
		g.PlusOne, g.PlusOneCount, g.Notes, g.InvitationSent, g.InvitationSentAt,
		g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateGuest
	}
	return err
}

// Upsert inserts by (invitation_id, email) or overwrites the RSVP-mutable
// fields on conflict. The unique constraint is the correctness backstop for
// concurrent submissions with the same email.
func (r *guestRepository) Upsert(ctx context.Context, g *domain.Guest) error {
	query := `
		INSERT INTO guests (invitation_id, name, email, phone, rsvp_status, rsvp_date,
			plus_one, plus_one_count, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (invitation_id, email) DO UPDATE
		SET name = EXCLUDED.name, rsvp_status = EXCLUDED.rsvp_status, rsvp_date = EXCLUDED.rsvp_date,
			plus_one = EXCLUDED.plus_one, plus_one_count = EXCLUDED.plus_one_count,
			notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
		RETURNING id, phone, invitation_sent, invitation_sent_at, created_at
	`
	var sentAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query,
		g.InvitationID, g.Name, g.Email, g.Phone, g.RSVPStatus, g.RSVPDate,
		g.PlusOne, g.PlusOneCount, g.Notes, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID, &g.Phone, &g.InvitationSent, &sentAt, &g.CreatedAt)
	if err != nil {
		return err
	}
	if sentAt.Valid {
		g.InvitationSentAt = &sentAt.Time
	}
	return nil
}

const guestColumns = `id, invitation_id, name, email, phone, rsvp_status, rsvp_date,
		plus_one, plus_one_count, notes, invitation_sent, invitation_sent_at, created_at, updated_at`

func scanGuest(row rowScanner) (*domain.Guest, error) {
	g := &domain.Guest{}
	var rsvpDate, sentAt sql.NullTime
	err := row.Scan(&g.ID, &g.InvitationID, &g.Name, &g.Email, &g.Phone, &g.RSVPStatus, &rsvpDate,
		&g.PlusOne, &g.PlusOneCount, &g.Notes, &g.InvitationSent, &sentAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rsvpDate.Valid {
		g.RSVPDate = &rsvpDate.Time
	}
	if sentAt.Valid {
		g.InvitationSentAt = &sentAt.Time
	}
	return g, nil
}

func (r *guestRepository) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	g, err := scanGuest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) ListByInvitation(ctx context.Context, invitationID string) ([]*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE invitation_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := []*domain.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *guestRepository) Update(ctx context.Context, g *domain.Guest) error {
	query := `
		UPDATE guests
		SET name = $2, email = $3, phone = $4, rsvp_status = $5, rsvp_date = $6,
			plus_one = $7, plus_one_count = $8, notes = $9, updated_at = $10
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		g.ID, g.Name, g.Email, g.Phone, g.RSVPStatus, g.RSVPDate,
		g.PlusOne, g.PlusOneCount, g.Notes, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateGuest
		}
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

func (r *guestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id)
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

func (r *guestRepository) CountByInvitation(ctx context.Context, invitationID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM guests WHERE invitation_id = $1`, invitationID).Scan(&count)
	return count, err
}

func (r *guestRepository) CountsByInvitation(ctx context.Context, invitationID string) (domain.GuestCounts, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE rsvp_status = 'attending'),
			COUNT(*) FILTER (WHERE rsvp_status = 'pending'),
			COUNT(*) FILTER (WHERE rsvp_status = 'not_attending')
		FROM guests
		WHERE invitation_id = $1
	`
	var c domain.GuestCounts
	err := r.DB.QueryRowContext(ctx, query, invitationID).Scan(&c.Total, &c.Attending, &c.Pending, &c.NotAttending)
	return c, err
}

func (r *guestRepository) CountSentByInvitation(ctx context.Context, invitationID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM guests WHERE invitation_id = $1 AND invitation_sent = TRUE`,
		invitationID).Scan(&count)
	return count, err
}

func (r *guestRepository) CountsByUser(ctx context.Context, userID string) (domain.GuestCounts, error) {
	query := `
		SELECT COUNT(g.id),
			COUNT(g.id) FILTER (WHERE g.rsvp_status = 'attending'),
			COUNT(g.id) FILTER (WHERE g.rsvp_status = 'pending'),
			COUNT(g.id) FILTER (WHERE g.rsvp_status = 'not_attending')
		FROM guests g
		INNER JOIN invitations i ON i.id = g.invitation_id
		WHERE i.user_id = $1
	`
	var c domain.GuestCounts
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&c.Total, &c.Attending, &c.Pending, &c.NotAttending)
	return c, err
}

func (r *guestRepository) MarkInvitationSent(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE guests
		SET invitation_sent = TRUE, invitation_sent_at = $2, updated_at = $2
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, at)
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
