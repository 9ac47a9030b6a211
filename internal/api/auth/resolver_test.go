package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

func TestResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("active account", func(t *testing.T) {
		repo := new(MockAuthRepo)
		account := testAccount(types.RoleUser, true)
		repo.On("FindAccountByID", mock.Anything, account.ID).Return(account, nil).Once()

		got, err := NewResolver(repo, discardLogger()).Resolve(ctx, &Claims{AccountID: account.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, account, got)
		repo.AssertExpectations(t)
	})

	t.Run("deactivated account", func(t *testing.T) {
		repo := new(MockAuthRepo)
		account := testAccount(types.RoleUser, false)
		repo.On("FindAccountByID", mock.Anything, account.ID).Return(account, nil).Twice()
		r := NewResolver(repo, discardLogger())

		_, err := r.Resolve(ctx, &Claims{AccountID: account.ID.String()})
		assert.ErrorIs(t, err, ErrPrincipalDeactivated)

		got, err := r.Lookup(ctx, &Claims{AccountID: account.ID.String()})
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		repo := new(MockAuthRepo)
		account := testAccount(types.RoleUser, true)
		repo.On("FindAccountByID", mock.Anything, account.ID).
			Return(nil, fmt.Errorf("account %s: %w", account.ID, types.ErrNotFound)).Once()

		_, err := NewResolver(repo, discardLogger()).Resolve(ctx, &Claims{AccountID: account.ID.String()})
		assert.ErrorIs(t, err, ErrPrincipalNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockAuthRepo)
		account := testAccount(types.RoleUser, true)
		repo.On("FindAccountByID", mock.Anything, account.ID).Return(nil, errors.New("connection refused")).Once()

		_, err := NewResolver(repo, discardLogger()).Resolve(ctx, &Claims{AccountID: account.ID.String()})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("deadline elapsed", func(t *testing.T) {
		repo := new(MockAuthRepo)
		account := testAccount(types.RoleUser, true)
		repo.On("FindAccountByID", mock.Anything, account.ID).Return(nil, context.DeadlineExceeded).Once()

		_, err := NewResolver(repo, discardLogger()).Resolve(ctx, &Claims{AccountID: account.ID.String()})
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("bad account id claim", func(t *testing.T) {
		repo := new(MockAuthRepo)
		_, err := NewResolver(repo, discardLogger()).Resolve(ctx, &Claims{AccountID: "not-a-uuid"})
		assert.ErrorIs(t, err, ErrMalformed)
		repo.AssertNotCalled(t, "FindAccountByID", mock.Anything, mock.Anything)
	})
}
