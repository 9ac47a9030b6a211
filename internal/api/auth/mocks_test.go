package auth

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// MockAuthRepo is a mock implementation of AuthRepo
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAuthRepo) FindAccountByHandle(ctx context.Context, handle string) (*types.Account, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAuthRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, handle, password, clientIP string) (*LoginResult, error) {
	args := m.Called(ctx, handle, password, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, accountID uuid.UUID) (*types.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Account), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	args := m.Called(ctx, accountID, currentPassword, newPassword)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testAccount(role types.Role, active bool) *types.Account {
	return &types.Account{
		ID:          uuid.New(),
		Handle:      "jdoe",
		DisplayName: "John Doe",
		Email:       "jdoe@example.com",
		Role:        role,
		Unit:        "operations",
		IsActive:    active,
		CreatedAt:   testNow.Add(-48 * time.Hour),
		UpdatedAt:   testNow.Add(-48 * time.Hour),
	}
}
