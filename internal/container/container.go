package container

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	database "github.com/FACorreiaa/flowdesk-api/app/db"
	"github.com/FACorreiaa/flowdesk-api/app/observability/metrics"
	"github.com/FACorreiaa/flowdesk-api/config"
	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/api/account"
	"github.com/FACorreiaa/flowdesk-api/internal/api/auth"
	"github.com/FACorreiaa/flowdesk-api/internal/router"
)

// Store is what the container needs from the database: queries for the repositories, pings for readiness.
type Store interface {
	database.Querier
	database.Pinger
}

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        Store
	Metrics   *metrics.AppMetrics
	Responder *api.Responder

	Tokens         *auth.TokenService
	Gate           *auth.Gate
	AuthHandler    *auth.AuthHandler
	AccountRepo    account.AccountRepo
	AccountService account.AccountService
	AccountHandler *account.AccountHandler
}

type Option func(*options)

type options struct {
	bcryptCost int
	tokenOpts  []auth.TokenOption
}

// WithBcryptCost lowers hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

// WithTokenOptions forwards options to the token service (e.g. a fixed clock).
func WithTokenOptions(opts ...auth.TokenOption) Option {
	return func(o *options) { o.tokenOpts = append(o.tokenOpts, opts...) }
}

// NewContainer wires repositories, services, the access gate and handlers over db.
// A nil m records nothing.
func NewContainer(cfg *config.Config, db Store, logger *slog.Logger, m *metrics.AppMetrics, opts ...Option) *Container {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil {
		m = metrics.Noop()
	}

	responder := api.NewResponder(cfg.IsProduction(), logger)
	tokens := auth.NewTokenService(cfg.JWT, o.tokenOpts...)

	authRepo := auth.NewPostgresAuthRepo(db, logger)
	resolver := auth.NewResolver(authRepo, logger)
	gate := auth.NewGate(tokens, resolver, responder, logger,
		auth.WithTrustWindow(cfg.JWT.TrustWindow),
		auth.WithMetrics(m),
	)

	serviceOpts := []auth.ServiceOption{auth.WithServiceMetrics(m)}
	if o.bcryptCost > 0 {
		serviceOpts = append(serviceOpts, auth.WithBcryptCost(o.bcryptCost))
	}
	authService := auth.NewAuthService(authRepo, tokens, cfg.RateLimit, logger, serviceOpts...)
	authHandler := auth.NewAuthHandler(authService, responder, logger)

	accountRepo := account.NewPostgresAccountRepo(db, logger, m)
	accountService := account.NewAccountService(accountRepo, logger, o.bcryptCost)
	accountHandler := account.NewAccountHandler(accountService, responder, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Metrics:        m,
		Responder:      responder,
		Tokens:         tokens,
		Gate:           gate,
		AuthHandler:    authHandler,
		AccountRepo:    accountRepo,
		AccountService: accountService,
		AccountHandler: accountHandler,
	}
}

// Router builds the HTTP handler for the API server.
func (c *Container) Router() chi.Router {
	return router.SetupRouter(&router.Config{
		AuthHandler:    c.AuthHandler,
		AccountHandler: c.AccountHandler,
		Gate:           c.Gate,
		Responder:      c.Responder,
		DB:             c.DB,
		Logger:         c.Logger,
		AllowedOrigins: c.Config.CORS.AllowedOrigins,
		RateLimit:      c.Config.RateLimit,
		Timeout:        c.Config.Server.Timeout,
	})
}

// Bootstrap creates the configured administrator when none exists.
func (c *Container) Bootstrap(ctx context.Context) error {
	return account.EnsureAdmin(ctx, c.AccountRepo, c.AccountService, c.Config.Bootstrap.Admin, c.Logger)
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.DB, c.Logger)
}
