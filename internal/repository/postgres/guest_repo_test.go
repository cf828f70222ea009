package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"inviteflow/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestGuestRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		guest   *domain.Guest
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success returns generated id",
			guest: &domain.Guest{
				InvitationID: "inv-uuid-1",
				Name:         "Ana",
				Email:        "ana@example.com",
				RSVPStatus:   domain.RSVPPending,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO guests`).
					WithArgs("inv-uuid-1", "Ana", "ana@example.com", "", domain.RSVPPending, nil,
						false, 0, "", false, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("guest-uuid-1"))
			},
		},
		{
			name:  "duplicate email on the same invitation",
			guest: &domain.Guest{InvitationID: "inv-uuid-1", Name: "Ana", Email: "ana@example.com"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO guests`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateGuest,
		},
		{
			name:  "db error",
			guest: &domain.Guest{InvitationID: "inv-uuid-1", Name: "Ana", Email: "ana@example.com"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO guests`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewGuestRepository(db)
			err = repo.Create(ctx, tt.guest)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "guest-uuid-1", tt.guest.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGuestRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sentAt := createdAt.Add(time.Hour)

	t.Run("conflict keeps existing sent flag and created_at", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rsvpDate := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		guest := &domain.Guest{
			InvitationID: "inv-uuid-1",
			Name:         "Ana",
			Email:        "ana@example.com",
			RSVPStatus:   domain.RSVPAttending,
			RSVPDate:     &rsvpDate,
		}

		rows := sqlmock.NewRows([]string{"id", "phone", "invitation_sent", "invitation_sent_at", "created_at"}).
			AddRow("guest-uuid-1", "555-1234", true, sentAt, createdAt)
		mock.ExpectQuery(`ON CONFLICT \(invitation_id, email\) DO UPDATE`).
			WillReturnRows(rows)

		repo := NewGuestRepository(db)
		require.NoError(t, repo.Upsert(ctx, guest))
		require.Equal(t, "guest-uuid-1", guest.ID)
		require.Equal(t, "555-1234", guest.Phone)
		require.True(t, guest.InvitationSent)
		require.NotNil(t, guest.InvitationSentAt)
		require.Equal(t, sentAt, *guest.InvitationSentAt)
		require.Equal(t, createdAt, guest.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fresh insert leaves sent fields empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		guest := &domain.Guest{InvitationID: "inv-uuid-1", Name: "Ana", Email: "ana@example.com", RSVPStatus: domain.RSVPPending}
		rows := sqlmock.NewRows([]string{"id", "phone", "invitation_sent", "invitation_sent_at", "created_at"}).
			AddRow("guest-uuid-2", "", false, nil, createdAt)
		mock.ExpectQuery(`INSERT INTO guests`).WillReturnRows(rows)

		repo := NewGuestRepository(db)
		require.NoError(t, repo.Upsert(ctx, guest))
		require.False(t, guest.InvitationSent)
		require.Nil(t, guest.InvitationSentAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGuestRepository_ListByInvitation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "invitation_id", "name", "email", "phone", "rsvp_status", "rsvp_date",
		"plus_one", "plus_one_count", "notes", "invitation_sent", "invitation_sent_at", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("guest-2", "inv-uuid-1", "Bea", "bea@example.com", "", "attending", now, true, 1, "", true, now, now, now).
		AddRow("guest-1", "inv-uuid-1", "Ana", "ana@example.com", "", "pending", nil, false, 0, "", false, nil, now, now)
	mock.ExpectQuery(`FROM guests WHERE invitation_id = \$1 ORDER BY created_at DESC`).
		WithArgs("inv-uuid-1").
		WillReturnRows(rows)

	repo := NewGuestRepository(db)
	guests, err := repo.ListByInvitation(ctx, "inv-uuid-1")
	require.NoError(t, err)
	require.Len(t, guests, 2)
	require.Equal(t, "guest-2", guests[0].ID)
	require.NotNil(t, guests[0].RSVPDate)
	require.Nil(t, guests[1].RSVPDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestRepository_CountsByInvitation(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"count", "attending", "pending", "not_attending"}).
		AddRow(10, 6, 3, 1)
	mock.ExpectQuery(`SELECT COUNT\(\*\),`).
		WithArgs("inv-uuid-1").
		WillReturnRows(rows)

	repo := NewGuestRepository(db)
	counts, err := repo.CountsByInvitation(ctx, "inv-uuid-1")
	require.NoError(t, err)
	require.Equal(t, domain.GuestCounts{Total: 10, Attending: 6, Pending: 3, NotAttending: 1}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestRepository_MarkInvitationSent(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE guests`).
			WithArgs("guest-uuid-1", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewGuestRepository(db)
		require.NoError(t, repo.MarkInvitationSent(ctx, "guest-uuid-1", at))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown guest", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE guests`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewGuestRepository(db)
		require.ErrorIs(t, repo.MarkInvitationSent(ctx, "nonexistent", at), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGuestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM guests`).
		WithArgs("guest-uuid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewGuestRepository(db)
	require.NoError(t, repo.Delete(ctx, "guest-uuid-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
