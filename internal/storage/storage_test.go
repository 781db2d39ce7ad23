package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dotpoint/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "products_unique_name_key"}, want: ErrAlreadyExists},
		{name: "duplicate subscription", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: subscriptionsUserProductKey}, want: ErrDuplicateSubscription},
		{name: "foreign key violation", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "modules_product_id_fkey"}, want: ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err), tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestStorage_ActiveSubscriptionProductIDs(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT product_id FROM subscriptions\s+WHERE user_id = \$1 AND expiration_date >= \$2::date`).
		WithArgs(int64(42), "2026-06-10").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(int64(7)).AddRow(int64(8)))

	ids, err := s.ActiveSubscriptionProductIDs(context.Background(), 42, time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_SubscriptionRequiredProductIDs(t *testing.T) {
	s, mock := newMockStorage(t)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id FROM products WHERE subscription_required = TRUE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)).AddRow(int64(9)))

		ids, err := s.SubscriptionRequiredProductIDs(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 9}, ids)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id FROM products WHERE subscription_required = TRUE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		ids, err := s.SubscriptionRequiredProductIDs(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})

	t.Run("query error", func(t *testing.T) {
		dbErr := errors.New("boom")
		mock.ExpectQuery(`SELECT id FROM products`).WillReturnError(dbErr)

		_, err := s.SubscriptionRequiredProductIDs(context.Background())
		assert.ErrorIs(t, err, dbErr)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateSubscription(t *testing.T) {
	exp := time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC)
	sub := models.Subscription{UserID: 1, ProductID: 7, ExpirationDate: exp}

	tests := []struct {
		name    string
		err     error
		wantID  int64
		wantErr error
	}{
		{name: "created", wantID: 15},
		{name: "duplicate", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: subscriptionsUserProductKey}, wantErr: ErrDuplicateSubscription},
		{name: "unknown product", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "subscriptions_product_id_fkey"}, wantErr: ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			q := mock.ExpectQuery(`INSERT INTO subscriptions`).WithArgs(int64(1), int64(7), "2099-01-01")
			if tt.err != nil {
				q.WillReturnError(tt.err)
			} else {
				q.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tt.wantID))
			}

			id, err := s.CreateSubscription(context.Background(), sub)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErr == ErrDuplicateSubscription {
					assert.NotErrorIs(t, err, ErrAlreadyExists)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_CreateSubscription_CanceledContext(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateSubscription(ctx, models.Subscription{UserID: 1, ProductID: 1})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetProduct(t *testing.T) {
	columns := []string{"id", "title", "unique_name", "position", "subscription_required", "active"}

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), "Go", "go", 1, true, true))

		p, err := s.GetProduct(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, models.Product{ID: 7, Title: "Go", UniqueName: "go", Position: 1, SubscriptionRequired: true, Active: true}, p)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(`SELECT (.+) FROM products WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := s.GetProduct(context.Background(), 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_GetModule_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`SELECT (.+) FROM modules WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetModule(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_CreateModule_UnknownProduct(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`INSERT INTO modules`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "modules_product_id_fkey"})

	_, err := s.CreateModule(context.Background(), models.Module{Title: "Intro", UniqueName: "intro", ProductID: 99})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestStorage_ResourceProductIDsByPath(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`SELECT DISTINCT m.product_id\s+FROM resources r`).
		WithArgs("/static/a.mp4").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(int64(3)).AddRow(int64(7)))

	ids, err := s.ResourceProductIDsByPath(context.Background(), "/static/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListResourcesByModule(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`JOIN module_resources mr ON mr.resource_id = r.id\s+WHERE mr.module_id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "original_name", "name", "display_name", "path", "file_type"}).
			AddRow(int64(1), "intro.mp4", "abc.mp4", "Intro", "/static/abc.mp4", "VIDEO"))

	resources, err := s.ListResourcesByModule(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, models.FileTypeVideo, resources[0].FileType)
	assert.Equal(t, "/static/abc.mp4", resources[0].Path)
}

func TestStorage_LinkAndUnlinkModuleResource(t *testing.T) {
	link := models.ModuleResource{ModuleID: 1, ResourceID: 2}

	t.Run("link is idempotent", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO module_resources (.+) ON CONFLICT \(module_id, resource_id\) DO NOTHING`).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, s.LinkModuleResource(context.Background(), link))
	})

	t.Run("link to unknown module", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO module_resources`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

		assert.ErrorIs(t, s.LinkModuleResource(context.Background(), link), ErrInvalidReference)
	})

	t.Run("unlink missing", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(`DELETE FROM module_resources WHERE module_id = \$1 AND resource_id = \$2`).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.UnlinkModuleResource(context.Background(), link), ErrNotFound)
	})

	t.Run("unlink", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(`DELETE FROM module_resources`).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.UnlinkModuleResource(context.Background(), link))
	})
}

func TestStorage_DeleteSubscription_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectExec(`DELETE FROM subscriptions WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(int64(1), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteSubscription(context.Background(), 1, 9), ErrNotFound)
}

func TestStorage_UpdateSubscriptionExpiration(t *testing.T) {
	s, mock := newMockStorage(t)
	exp := time.Date(2030, time.May, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE subscriptions SET expiration_date = \$1::date`).
		WithArgs("2030-05-01", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "product_id", "expiration_date"}).
			AddRow(int64(3), int64(1), int64(7), exp))

	sub, err := s.UpdateSubscriptionExpiration(context.Background(), 3, exp)
	require.NoError(t, err)
	assert.Equal(t, "2030-05-01", sub.View().ExpirationDate)
}

func TestStorage_CreateUser_DuplicateEmail(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@b.c", "hash", "Ann", "Lee", "USER", true).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := s.CreateUser(context.Background(), models.User{
		Email: "a@b.c", PasswordHash: "hash", FirstName: "Ann", LastName: "Lee", Type: models.RoleUser, Active: true,
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("admin@dotpoint.local").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "first_name", "last_name", "type", "active"}).
			AddRow(int64(1), "admin@dotpoint.local", "hash", "Admin", "Admin", "ADMIN", true))

	u, err := s.GetUserByEmail(context.Background(), "admin@dotpoint.local")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Type)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestStorage_UpdateSiteConfig(t *testing.T) {
	s, mock := newMockStorage(t)
	cfg := models.SiteConfig{ClientName: "Acme", PrimaryColor: "#fff"}

	mock.ExpectExec(`UPDATE config`).
		WithArgs("Acme", "", 0, 0, "#fff", "", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.UpdateSiteConfig(context.Background(), cfg))
	require.NoError(t, mock.ExpectationsWereMet())
}
