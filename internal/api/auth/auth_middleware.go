package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/flowdesk-api/app/observability/metrics"
	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// PrincipalResolver loads the account behind verified claims.
type PrincipalResolver interface {
	Resolve(ctx context.Context, claims *Claims) (*types.Account, error)
	Lookup(ctx context.Context, claims *Claims) (*types.Account, error)
}

var (
	_ Verifier          = (*TokenService)(nil)
	_ PrincipalResolver = (*Resolver)(nil)
)

// Gate admits or rejects requests based on a bearer token and role membership.
type Gate struct {
	verifier  Verifier
	resolver  PrincipalResolver
	responder *api.Responder
	metrics   *metrics.AppMetrics
	logger    *slog.Logger
	// trustWindow keeps a token authoritative until expiry: activation is not
	// re-checked and the role claim wins over the stored role.
	trustWindow bool
}

type GateOption func(*Gate)

func WithTrustWindow(enabled bool) GateOption {
	return func(g *Gate) { g.trustWindow = enabled }
}

func WithMetrics(m *metrics.AppMetrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

func NewGate(verifier Verifier, resolver PrincipalResolver, responder *api.Responder, logger *slog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		verifier:    verifier,
		resolver:    resolver,
		responder:   responder,
		logger:      logger,
		metrics:     metrics.Noop(),
		trustWindow: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Admit runs the gate on a raw Authorization header value. roles empty means any
// authenticated principal is admitted.
func (g *Gate) Admit(ctx context.Context, authorization string, roles ...types.Role) (Principal, error) {
	stage := StageStart
	reject := func(err error) (Principal, error) {
		return Principal{}, &Rejection{Stage: stage, Err: err}
	}

	token, ok := bearerToken(authorization)
	if !ok {
		return reject(ErrMissingCredential)
	}
	stage = StageCredentialExtracted

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return reject(err)
	}
	stage = StageTokenVerified

	var account *types.Account
	if g.trustWindow {
		account, err = g.resolver.Lookup(ctx, claims)
	} else {
		account, err = g.resolver.Resolve(ctx, claims)
	}
	if err != nil {
		return reject(err)
	}
	stage = StagePrincipalResolved

	effective := claims.Role
	if !g.trustWindow {
		effective = account.Role
	}
	if len(roles) > 0 && !hasRole(roles, effective) {
		return reject(ErrForbidden)
	}
	return Principal{Account: account, Claims: claims, Role: effective}, nil
}

// Require wraps next so it only runs for principals holding one of roles.
func (g *Gate) Require(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p, err := g.Admit(ctx, r.Header.Get("Authorization"), roles...)
			if err != nil {
				g.reject(w, r, err)
				return
			}
			g.record(ctx, "admitted", StageAdmitted)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

// Authenticated admits any principal.
func (g *Gate) Authenticated(next http.Handler) http.Handler {
	return g.Require()(next)
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	stage := StageStart
	var rej *Rejection
	if errors.As(err, &rej) {
		stage = rej.Stage
	}
	g.record(ctx, "rejected", stage)

	status := StatusFor(err)
	l := g.logger.With(
		slog.String("middleware", "Gate"),
		slog.String("stage", string(stage)),
		slog.String("path", r.URL.Path),
	)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(ctx, "Access gate failure", slog.Any("error", err))
	} else {
		l.WarnContext(ctx, "Access denied", slog.Any("error", err))
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="flowdesk"`)
	}
	g.responder.Error(w, r, status, clientMessage(err))
}

func (g *Gate) record(ctx context.Context, outcome string, stage Stage) {
	g.metrics.GateDecisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("stage", string(stage)),
	))
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func hasRole(roles []types.Role, role types.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
