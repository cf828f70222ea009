package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"inviteflow/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestShareLinkRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	link := &domain.ShareLink{
		InvitationID: "inv-uuid-1",
		Token:        "tok-abc",
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, 30),
	}
	mock.ExpectQuery(`INSERT INTO share_links`).
		WithArgs("inv-uuid-1", "tok-abc", true, 0, now, now.AddDate(0, 0, 30)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("link-uuid-1"))

	repo := NewShareLinkRepository(db)
	require.NoError(t, repo.Create(ctx, link))
	require.Equal(t, "link-uuid-1", link.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShareLinkRepository_GetByToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "invitation_id", "token", "is_active", "view_count", "created_at", "expires_at"}).
			AddRow("link-uuid-1", "inv-uuid-1", "tok-abc", true, 7, now, now.AddDate(0, 0, 30))
		mock.ExpectQuery(`FROM share_links WHERE token = \$1`).
			WithArgs("tok-abc").
			WillReturnRows(rows)

		repo := NewShareLinkRepository(db)
		link, err := repo.GetByToken(ctx, "tok-abc")
		require.NoError(t, err)
		require.Equal(t, "link-uuid-1", link.ID)
		require.Equal(t, 7, link.ViewCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM share_links WHERE token = \$1`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		repo := NewShareLinkRepository(db)
		_, err = repo.GetByToken(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareLinkRepository_FirstActiveByInvitation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("returns newest live link", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "invitation_id", "token", "is_active", "view_count", "created_at", "expires_at"}).
			AddRow("link-uuid-2", "inv-uuid-1", "tok-new", true, 0, now, now.AddDate(0, 0, 30))
		mock.ExpectQuery(`WHERE invitation_id = \$1 AND is_active = TRUE AND expires_at > \$2`).
			WithArgs("inv-uuid-1", now).
			WillReturnRows(rows)

		repo := NewShareLinkRepository(db)
		link, err := repo.FirstActiveByInvitation(ctx, "inv-uuid-1", now)
		require.NoError(t, err)
		require.Equal(t, "tok-new", link.Token)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no live link", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE invitation_id = \$1 AND is_active = TRUE AND expires_at > \$2`).
			WillReturnError(sql.ErrNoRows)

		repo := NewShareLinkRepository(db)
		_, err = repo.FirstActiveByInvitation(ctx, "inv-uuid-1", now)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareLinkRepository_IncrementViewCount(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE share_links SET view_count = view_count \+ 1`).
			WithArgs("link-uuid-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewShareLinkRepository(db)
		require.NoError(t, repo.IncrementViewCount(ctx, "link-uuid-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown link", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE share_links SET view_count = view_count \+ 1`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewShareLinkRepository(db)
		require.ErrorIs(t, repo.IncrementViewCount(ctx, "nonexistent"), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestShareLinkRepository_SumViewsByInvitation(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(view_count\), 0\) FROM share_links`).
		WithArgs("inv-uuid-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(42))

	repo := NewShareLinkRepository(db)
	sum, err := repo.SumViewsByInvitation(ctx, "inv-uuid-1")
	require.NoError(t, err)
	require.Equal(t, 42, sum)
	require.NoError(t, mock.ExpectationsWereMet())
}
