package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/flowdesk-api/internal/api/auth"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

var _ AccountService = (*AccountServiceImpl)(nil)

// ErrSelfModification is returned when an administrator targets their own role or activation.
var ErrSelfModification = errors.New("administrators cannot change their own role or activation")

type AccountService interface {
	List(ctx context.Context, filter types.AccountFilter) ([]types.Account, int, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Account, error)
	Create(ctx context.Context, input CreateAccountInput) (*types.Account, error)
	ChangeRole(ctx context.Context, actorID, id uuid.UUID, role types.Role) (*types.Account, error)
	SetActivation(ctx context.Context, actorID, id uuid.UUID, active bool) (*types.Account, error)
}

// CreateAccountInput is a new account with its plaintext password.
type CreateAccountInput struct {
	Handle      string
	Password    string
	DisplayName string
	Email       string
	Role        types.Role
	Unit        string
	IsActive    bool
}

type AccountServiceImpl struct {
	repo       AccountRepo
	logger     *slog.Logger
	bcryptCost int
}

func NewAccountService(repo AccountRepo, logger *slog.Logger, bcryptCost int) *AccountServiceImpl {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountServiceImpl{repo: repo, logger: logger, bcryptCost: bcryptCost}
}

func (s *AccountServiceImpl) List(ctx context.Context, filter types.AccountFilter) ([]types.Account, int, error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "List")
	defer span.End()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 || filter.Offset >= total {
		return []types.Account{}, total, nil
	}

	accounts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	span.SetAttributes(attribute.Int("accounts.total", total))
	return accounts, total, nil
}

func (s *AccountServiceImpl) Get(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "Get")
	defer span.End()
	return s.repo.FindAccountByID(ctx, id)
}

func (s *AccountServiceImpl) Create(ctx context.Context, input CreateAccountInput) (*types.Account, error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "Create")
	defer span.End()

	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrBadRequest, input.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most %d bytes long", types.ErrBadRequest, auth.MaxPasswordLength)
	}
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	return s.repo.Create(ctx, types.CreateAccountParams{
		Handle:       strings.TrimSpace(input.Handle),
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Role:         input.Role,
		Unit:         strings.TrimSpace(input.Unit),
		IsActive:     input.IsActive,
	})
}

// ChangeRole takes effect for tokens issued afterwards; tokens already issued keep their role claim.
func (s *AccountServiceImpl) ChangeRole(ctx context.Context, actorID, id uuid.UUID, role types.Role) (*types.Account, error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "ChangeRole")
	defer span.End()

	if actorID == id {
		return nil, ErrSelfModification
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", types.ErrBadRequest, role)
	}
	account, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Account role changed",
		slog.String("method", "ChangeRole"),
		slog.String("actor_id", actorID.String()),
		slog.String("account_id", id.String()),
		slog.String("role", string(role)),
	)
	return account, nil
}

func (s *AccountServiceImpl) SetActivation(ctx context.Context, actorID, id uuid.UUID, active bool) (*types.Account, error) {
	ctx, span := otel.Tracer("AccountService").Start(ctx, "SetActivation")
	defer span.End()

	if actorID == id {
		return nil, ErrSelfModification
	}
	account, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Account activation changed",
		slog.String("method", "SetActivation"),
		slog.String("actor_id", actorID.String()),
		slog.String("account_id", id.String()),
		slog.Bool("active", active),
	)
	return account, nil
}
