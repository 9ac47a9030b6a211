package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/flowdesk-api/config"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

const (
	MinTokenTTL = time.Hour
	MaxTokenTTL = 24 * time.Hour
)

// Claims is the signed payload of an access token.
type Claims struct {
	AccountID string     `json:"uid"`
	Handle    string     `json:"usr"`
	Role      types.Role `json:"rol"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(cfg config.JWTConfig, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.AccessTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check reports a configuration the service refuses to run with.
func (s *TokenService) Check() error {
	switch {
	case len(s.secret) == 0:
		return fmt.Errorf("%w: signing secret is empty", ErrConfiguration)
	case s.issuer == "":
		return fmt.Errorf("%w: issuer is empty", ErrConfiguration)
	case s.ttl < MinTokenTTL || s.ttl > MaxTokenTTL:
		return fmt.Errorf("%w: token ttl %s outside [%s, %s]", ErrConfiguration, s.ttl, MinTokenTTL, MaxTokenTTL)
	}
	return nil
}

// Issue signs a token for account. The embedded role is the account's role right now.
func (s *TokenService) Issue(account *types.Account) (string, time.Time, error) {
	if err := s.Check(); err != nil {
		return "", time.Time{}, err
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)
	claims := Claims{
		AccountID: account.ID.String(),
		Handle:    account.Handle,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks shape, expiry, then signature and origin of tokenString.
// Expiry is decided before the signature so an expired token always reports ErrExpired.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	if !wellFormed(tokenString) {
		return nil, ErrMalformed
	}

	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, unverified); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if unverified.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}
	if !s.now().Before(unverified.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if _, err := uuid.Parse(claims.AccountID); err != nil || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: bad identity claims", ErrMalformed)
	}
	return claims, nil
}

func wellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		// bad signature, unexpected algorithm, foreign issuer or audience, iat in the future
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}
