package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

var accountCols = []string{"id", "handle", "password_hash", "display_name", "email", "role", "unit",
	"is_active", "last_login_at", "created_at", "updated_at"}

func accountRow(a *types.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountCols).AddRow(a.ID, a.Handle, a.PasswordHash, a.DisplayName, a.Email,
		a.Role, a.Unit, a.IsActive, a.LastLoginAt, a.CreatedAt, a.UpdatedAt)
}

func newMockRepo(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewPostgresAuthRepo(pool, discardLogger()), pool
}

func TestPostgresAuthRepo_FindAccountByID(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT ` + types.AccountColumns + ` FROM accounts WHERE id = $1`)

	t.Run("found", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		want := testAccount(types.RoleAdmin, true)
		want.PasswordHash = "$2a$hash"
		pool.ExpectQuery(query).WithArgs(want.ID).WillReturnRows(accountRow(want))

		got, err := repo.FindAccountByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := testAccount(types.RoleAdmin, true).ID
		pool.ExpectQuery(query).WithArgs(id).WillReturnRows(pgxmock.NewRows(accountCols))

		_, err := repo.FindAccountByID(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := testAccount(types.RoleAdmin, true).ID
		pool.ExpectQuery(query).WithArgs(id).WillReturnError(errors.New("connection reset"))

		_, err := repo.FindAccountByID(ctx, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresAuthRepo_FindAccountByHandle(t *testing.T) {
	repo, pool := newMockRepo(t)
	want := testAccount(types.RoleUser, true)
	pool.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(handle) = LOWER($1)`)).WithArgs("JDoe").WillReturnRows(accountRow(want))

	got, err := repo.FindAccountByHandle(context.Background(), "JDoe")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAuthRepo_Updates(t *testing.T) {
	ctx := context.Background()
	id := testAccount(types.RoleUser, true).ID

	t.Run("last login", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET last_login_at = $2 WHERE id = $1`)).
			WithArgs(id, testNow).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateLastLogin(ctx, id, testNow))
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("password of a missing account", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectExec(regexp.QuoteMeta(`UPDATE accounts SET password_hash = $2`)).
			WithArgs(id, "new-hash").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdatePassword(ctx, id, "new-hash")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}
