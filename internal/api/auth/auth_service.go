package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/flowdesk-api/app/observability/metrics"
	"github.com/FACorreiaa/flowdesk-api/config"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Login(ctx context.Context, handle, password, clientIP string) (*LoginResult, error)
	Me(ctx context.Context, accountID uuid.UUID) (*types.Account, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error
}

// Issuer signs access tokens.
type Issuer interface {
	Issue(account *types.Account) (string, time.Time, error)
}

// LoginResult is a freshly issued access token and the account it was issued for.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
	Account     *types.Account
}

// ThrottledError tells the caller how long to wait before the next login attempt.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrTooManyAttempts, e.RetryAfter.Round(time.Second))
}

func (e *ThrottledError) Unwrap() error { return ErrTooManyAttempts }

// compared against when the handle is unknown so both paths cost one bcrypt comparison
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("flowdesk-dummy-password"), bcrypt.MinCost)

type AuthServiceImpl struct {
	repo       AuthRepo
	issuer     Issuer
	logger     *slog.Logger
	metrics    *metrics.AppMetrics
	attempts   *cache.Cache
	maxTries   int
	window     time.Duration
	bcryptCost int
	now        func() time.Time
}

type ServiceOption func(*AuthServiceImpl)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) ServiceOption {
	return func(s *AuthServiceImpl) { s.bcryptCost = cost }
}

func WithServiceMetrics(m *metrics.AppMetrics) ServiceOption {
	return func(s *AuthServiceImpl) { s.metrics = m }
}

// WithAttemptCache replaces the login attempt store.
func WithAttemptCache(c *cache.Cache) ServiceOption {
	return func(s *AuthServiceImpl) { s.attempts = c }
}

func NewAuthService(repo AuthRepo, issuer Issuer, limits config.RateLimitConfig, logger *slog.Logger, opts ...ServiceOption) *AuthServiceImpl {
	s := &AuthServiceImpl{
		repo:       repo,
		issuer:     issuer,
		logger:     logger,
		metrics:    metrics.Noop(),
		maxTries:   limits.LoginAttempts,
		window:     limits.LoginWindow,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	if s.window <= 0 {
		s.window = 15 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.attempts == nil {
		s.attempts = cache.New(s.window, 2*s.window)
	}
	return s
}

func (s *AuthServiceImpl) Login(ctx context.Context, handle, password, clientIP string) (*LoginResult, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()
	start := s.now()
	l := s.logger.With(slog.String("method", "Login"), slog.String("handle", handle))

	outcome := "failure"
	defer func() {
		s.metrics.LoginAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		s.metrics.LoginDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	key := strings.ToLower(strings.TrimSpace(handle)) + "|" + clientIP
	if err := s.throttled(key); err != nil {
		outcome = "throttled"
		l.WarnContext(ctx, "Login throttled", slog.String("client_ip", clientIP))
		span.SetStatus(codes.Error, "throttled")
		return nil, err
	}

	account, err := s.repo.FindAccountByHandle(ctx, handle)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "account lookup failed")
			return nil, fmt.Errorf("error fetching account: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.recordFailure(key)
		l.InfoContext(ctx, "Login with unknown handle")
		return nil, ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(key)
		l.InfoContext(ctx, "Login with wrong password", slog.String("account_id", account.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		l.InfoContext(ctx, "Login for deactivated account", slog.String("account_id", account.ID.String()))
		return nil, ErrPrincipalDeactivated
	}

	token, expiresAt, err := s.issuer.Issue(account)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "token issue failed")
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	now := s.now().UTC()
	if err = s.repo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		// login still succeeds without the timestamp
		l.WarnContext(ctx, "Failed to stamp last login", slog.Any("error", err))
	} else {
		account.LastLoginAt = &now
	}

	s.attempts.Delete(key)
	outcome = "success"
	l.InfoContext(ctx, "Login successful", slog.String("account_id", account.ID.String()))
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, ExpiresIn: expiresAt.Sub(now), Account: account}, nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, accountID uuid.UUID) (*types.Account, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Me")
	defer span.End()

	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error fetching current account: %w", err)
	}
	return account, nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ChangePassword")
	defer span.End()
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("account_id", accountID.String()))

	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error fetching account: %w", err)
	}
	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		l.InfoContext(ctx, "Password change with wrong current password")
		return ErrInvalidCredentials
	}
	if currentPassword == newPassword {
		return fmt.Errorf("%w: new password must differ from the current one", types.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return fmt.Errorf("%w: password must be at most %d bytes long", types.ErrBadRequest, MaxPasswordLength)
	}
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err = s.repo.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error updating password: %w", err)
	}
	l.InfoContext(ctx, "Password changed")
	return nil
}

func (s *AuthServiceImpl) throttled(key string) error {
	if s.maxTries <= 0 {
		return nil
	}
	v, expiresAt, found := s.attempts.GetWithExpiration(key)
	if !found {
		return nil
	}
	if n, ok := v.(int); ok && n >= s.maxTries {
		retry := time.Until(expiresAt)
		if retry < time.Second {
			retry = time.Second
		}
		return &ThrottledError{RetryAfter: retry}
	}
	return nil
}

func (s *AuthServiceImpl) recordFailure(key string) {
	if s.maxTries <= 0 {
		return
	}
	if err := s.attempts.Add(key, 1, s.window); err != nil {
		_, _ = s.attempts.IncrementInt(key, 1)
	}
}
