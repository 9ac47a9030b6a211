package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	database "github.com/FACorreiaa/flowdesk-api/app/db"
	appLogger "github.com/FACorreiaa/flowdesk-api/app/logger"
	appMiddleware "github.com/FACorreiaa/flowdesk-api/app/middleware"
	"github.com/FACorreiaa/flowdesk-api/config"
	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/api/account"
	"github.com/FACorreiaa/flowdesk-api/internal/api/auth"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

const (
	defaultTimeout = 30 * time.Second
	readyTimeout   = 2 * time.Second
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler    *auth.AuthHandler
	AccountHandler *account.AccountHandler
	Gate           *auth.Gate
	Responder      *api.Responder
	DB             database.Pinger
	Logger         *slog.Logger

	AllowedOrigins []string
	RateLimit      config.RateLimitConfig
	Timeout        time.Duration
}

// SetupRouter builds the full HTTP surface: server-wide middleware, health endpoints and /api/v1.
func SetupRouter(cfg *Config) chi.Router {
	rs := cfg.Responder
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(appMiddleware.Recoverer(rs))
	r.Use(appMiddleware.SecurityHeaders)
	r.Use(middleware.StripSlashes)
	r.Use(appMiddleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(timeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rs.Error(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rs.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		rs.Success(w, r, map[string]string{"status": "ok"}, "Service is healthy")
	})
	r.Get("/readyz", readiness(cfg.DB, rs))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, rs))

		// public
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Gate.Authenticated)
			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/password", cfg.AuthHandler.ChangePassword)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(cfg.Gate.Require(types.RoleAdmin, types.RoleManager))
				r.Get("/", cfg.AccountHandler.ListAccounts)
				r.Get("/{id}", cfg.AccountHandler.GetAccount)
			})
			r.Group(func(r chi.Router) {
				r.Use(cfg.Gate.Require(types.RoleAdmin))
				r.Post("/", cfg.AccountHandler.CreateAccount)
				r.Patch("/{id}/role", cfg.AccountHandler.ChangeRole)
				r.Patch("/{id}/activation", cfg.AccountHandler.SetActivation)
				r.Delete("/{id}", cfg.AccountHandler.DeleteAccount)
			})
		})
	})

	return r
}

func readiness(db database.Pinger, rs *api.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			rs.Error(w, r, http.StatusServiceUnavailable, "Database is not configured")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			rs.Diagnostic(w, r, http.StatusServiceUnavailable, "Database is not reachable", err, nil)
			return
		}
		rs.Success(w, r, map[string]string{"status": "ready"}, "Service is ready")
	}
}
