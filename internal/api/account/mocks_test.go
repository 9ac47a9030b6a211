package account

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountRepo) List(ctx context.Context, filter types.AccountFilter) ([]types.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Account), args.Error(1)
}

func (m *MockAccountRepo) Count(ctx context.Context, filter types.AccountFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepo) Create(ctx context.Context, params types.CreateAccountParams) (*types.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountRepo) SetRole(ctx context.Context, id uuid.UUID, role types.Role) (*types.Account, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.Account, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountRepo) AdminExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) List(ctx context.Context, filter types.AccountFilter) ([]types.Account, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.Account), args.Int(1), args.Error(2)
}

func (m *MockAccountService) Get(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountService) Create(ctx context.Context, input CreateAccountInput) (*types.Account, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountService) ChangeRole(ctx context.Context, actorID, id uuid.UUID, role types.Role) (*types.Account, error) {
	args := m.Called(ctx, actorID, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAccountService) SetActivation(ctx context.Context, actorID, id uuid.UUID, active bool) (*types.Account, error) {
	args := m.Called(ctx, actorID, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testAccount(handle string, role types.Role) *types.Account {
	return &types.Account{
		ID:           uuid.New(),
		Handle:       handle,
		PasswordHash: "$2a$04$hash",
		DisplayName:  handle,
		Email:        handle + "@example.com",
		Role:         role,
		Unit:         "operations",
		IsActive:     true,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}
