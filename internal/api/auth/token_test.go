package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/flowdesk-api/config"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:      "test-secret-with-enough-entropy",
		Issuer:         "flowdesk-api",
		Audience:       "flowdesk-clients",
		AccessTokenTTL: 24 * time.Hour,
		TrustWindow:    true,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testJWTConfig(), WithClock(fixedClock(testNow)))
	account := testAccount(types.RoleManager, true)

	token, expiresAt, err := svc.Issue(account)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(24*time.Hour), expiresAt)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.AccountID)
	assert.Equal(t, account.ID.String(), claims.Subject)
	assert.Equal(t, "jdoe", claims.Handle)
	assert.Equal(t, types.RoleManager, claims.Role)
	assert.Equal(t, "flowdesk-api", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"flowdesk-clients"}, claims.Audience)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, testNow, claims.IssuedAt.Time.UTC())
	assert.Equal(t, expiresAt, claims.ExpiresAt.Time.UTC())

	other, _, err := svc.Issue(account)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "jti makes every token unique")
}

func TestTokenService_Verify(t *testing.T) {
	cfg := testJWTConfig()
	svc := NewTokenService(cfg, WithClock(fixedClock(testNow)))
	token, _, err := svc.Issue(testAccount(types.RoleUser, true))
	require.NoError(t, err)

	t.Run("expired token", func(t *testing.T) {
		later := NewTokenService(cfg, WithClock(fixedClock(testNow.Add(24*time.Hour+time.Second))))
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("expiry wins over a bad signature", func(t *testing.T) {
		foreign := cfg
		foreign.SecretKey = "some-other-secret"
		later := NewTokenService(foreign, WithClock(fixedClock(testNow.Add(48*time.Hour))))
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		foreign := cfg
		foreign.SecretKey = "some-other-secret"
		_, err := NewTokenService(foreign, WithClock(fixedClock(testNow))).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		forged, _, err := NewTokenService(cfg, WithClock(fixedClock(testNow))).Issue(testAccount(types.RoleAdmin, true))
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]
		_, err = svc.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		foreign := cfg
		foreign.Issuer = "someone-else"
		other, _, err := NewTokenService(foreign, WithClock(fixedClock(testNow))).Issue(testAccount(types.RoleUser, true))
		require.NoError(t, err)
		_, err = svc.Verify(other)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("foreign audience", func(t *testing.T) {
		foreign := cfg
		foreign.Audience = "another-app"
		other, _, err := NewTokenService(foreign, WithClock(fixedClock(testNow))).Issue(testAccount(types.RoleUser, true))
		require.NoError(t, err)
		_, err = svc.Verify(other)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		claims := Claims{
			AccountID: testAccount(types.RoleUser, true).ID.String(),
			Role:      types.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    cfg.Issuer,
				Audience:  jwt.ClaimStrings{cfg.Audience},
				IssuedAt:  jwt.NewNumericDate(testNow),
				ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
			},
		}
		hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.SecretKey))
		require.NoError(t, err)
		_, err = svc.Verify(hs512)
		assert.ErrorIs(t, err, ErrInvalidSignature)

		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Verify(none)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("malformed shapes", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "a.b", "a..c", ".b.c", "a.b.c.d", "!!!.@@@.###"} {
			_, err := svc.Verify(raw)
			assert.ErrorIs(t, err, ErrMalformed, "token %q", raw)
		}
	})
}

func TestTokenService_Check(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.JWTConfig)
		wantErr bool
	}{
		{"valid", func(*config.JWTConfig) {}, false},
		{"empty secret", func(c *config.JWTConfig) { c.SecretKey = "" }, true},
		{"empty issuer", func(c *config.JWTConfig) { c.Issuer = "" }, true},
		{"ttl too short", func(c *config.JWTConfig) { c.AccessTokenTTL = 30 * time.Minute }, true},
		{"ttl too long", func(c *config.JWTConfig) { c.AccessTokenTTL = 25 * time.Hour }, true},
		{"ttl lower bound", func(c *config.JWTConfig) { c.AccessTokenTTL = time.Hour }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testJWTConfig()
			tt.mutate(&cfg)
			svc := NewTokenService(cfg)

			err := svc.Check()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrConfiguration)

			_, _, err = svc.Issue(testAccount(types.RoleUser, true))
			assert.ErrorIs(t, err, ErrConfiguration)
			_, err = svc.Verify("a.b.c")
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
