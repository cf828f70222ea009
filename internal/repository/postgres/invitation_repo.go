package postgres

import (
	"context"
	"database/sql"
	"errors"

	"inviteflow/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{DB: db}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (user_id, template_id, theme_id, title, subtitle, celebrant_name,
			event_date, event_time, venue_name, venue_address, max_guests, status, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		inv.UserID, inv.TemplateID, inv.ThemeID, inv.Title, inv.Subtitle, inv.CelebrantName,
		inv.EventDate, inv.EventTime, inv.VenueName, inv.VenueAddress, inv.MaxGuests, inv.Status,
		inv.CreatedAt, inv.UpdatedAt, inv.ExpiresAt,
	).Scan(&inv.ID)
}

const invitationColumns = `id, user_id, template_id, theme_id, title, subtitle, celebrant_name,
		event_date, event_time, venue_name, venue_address, max_guests, status, created_at, updated_at, expires_at`

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner, extra ...any) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var templateID, themeID, eventTime sql.NullString
	var expiresAt sql.NullTime
	dest := []any{
		&inv.ID, &inv.UserID, &templateID, &themeID, &inv.Title, &inv.Subtitle, &inv.CelebrantName,
		&inv.EventDate, &eventTime, &inv.VenueName, &inv.VenueAddress, &inv.MaxGuests, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt, &expiresAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if templateID.Valid {
		inv.TemplateID = &templateID.String
	}
	if themeID.Valid {
		inv.ThemeID = &themeID.String
	}
	if eventTime.Valid {
		inv.EventTime = &eventTime.String
	}
	if expiresAt.Valid {
		inv.ExpiresAt = &expiresAt.Time
	}
	return inv, nil
}

func (r *invitationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.InvitationSummary, error) {
	query := `
		SELECT i.id, i.user_id, i.template_id, i.theme_id, i.title, i.subtitle, i.celebrant_name,
			i.event_date, i.event_time, i.venue_name, i.venue_address, i.max_guests, i.status,
			i.created_at, i.updated_at, i.expires_at,
			t.name, t.category,
			COUNT(g.id),
			COUNT(g.id) FILTER (WHERE g.rsvp_status = 'attending'),
			COUNT(g.id) FILTER (WHERE g.rsvp_status = 'pending'),
			COUNT(g.id) FILTER (WHERE g.rsvp_status = 'not_attending')
		FROM invitations i
		LEFT JOIN templates t ON t.id = i.template_id
		LEFT JOIN guests g ON g.invitation_id = i.id
		WHERE i.user_id = $1
		GROUP BY i.id, t.name, t.category
		ORDER BY i.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []*domain.InvitationSummary{}
	for rows.Next() {
		var templateName, templateCategory sql.NullString
		var counts domain.GuestCounts
		inv, err := scanInvitation(rows,
			&templateName, &templateCategory,
			&counts.Total, &counts.Attending, &counts.Pending, &counts.NotAttending,
		)
		if err != nil {
			return nil, err
		}
		s := &domain.InvitationSummary{Invitation: inv, Counts: counts}
		if templateName.Valid {
			s.TemplateName = &templateName.String
		}
		if templateCategory.Valid {
			s.TemplateCategory = &templateCategory.String
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *invitationRepository) Update(ctx context.Context, inv *domain.Invitation) error {
	query := `
		UPDATE invitations
		SET template_id = $2, theme_id = $3, title = $4, subtitle = $5, celebrant_name = $6,
			event_date = $7, event_time = $8, venue_name = $9, venue_address = $10,
			max_guests = $11, status = $12, updated_at = $13, expires_at = $14
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		inv.ID, inv.TemplateID, inv.ThemeID, inv.Title, inv.Subtitle, inv.CelebrantName,
		inv.EventDate, inv.EventTime, inv.VenueName, inv.VenueAddress,
		inv.MaxGuests, inv.Status, inv.UpdatedAt, inv.ExpiresAt,
	)
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

func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
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

func (r *invitationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitations WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *invitationRepository) CountByUserAndStatus(ctx context.Context, userID string, status domain.InvitationStatus) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitations WHERE user_id = $1 AND status = $2`, userID, status).Scan(&count)
	return count, err
}

func (r *invitationRepository) CountByTemplateCategory(ctx context.Context, userID string) (map[string]int, error) {
	query := `
		SELECT t.category, COUNT(*)
		FROM invitations i
		INNER JOIN templates t ON t.id = i.template_id
		WHERE i.user_id = $1
		GROUP BY t.category
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}
