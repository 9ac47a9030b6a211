package auth

import (
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/api/validation"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	responder   *api.Responder
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, responder *api.Responder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		responder:   responder,
		logger:      logger,
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a handle and password for a bearer access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Credentials"
// @Success      200 {object} api.SuccessBody{data=LoginResponse} "Access token"
// @Failure      400 {object} api.ErrorBody "Bad Request"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      422 {object} api.ErrorBody{details=[]validation.ErrorEntry} "Validation Error"
// @Failure      429 {object} api.ErrorBody "Too Many Requests"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/login"),
	))
	defer span.End()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := validation.DecodeAndValidate(w, r, loginRules, &req); err != nil {
		l.InfoContext(ctx, "Rejected login request", slog.Any("error", err))
		validation.Respond(h.responder, w, r, err)
		return
	}

	result, err := h.authService.Login(ctx, req.Handle, req.Password, clientIP(r))
	if err != nil {
		var throttled *ThrottledError
		switch {
		case errors.As(err, &throttled):
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(throttled.RetryAfter.Seconds()))))
			h.responder.Error(w, r, http.StatusTooManyRequests, "Too many login attempts, try again later")
		case errors.Is(err, ErrInvalidCredentials):
			h.responder.Error(w, r, http.StatusUnauthorized, "Invalid handle or password")
		case errors.Is(err, ErrPrincipalDeactivated):
			h.responder.Error(w, r, http.StatusUnauthorized, "Account is deactivated")
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "login failed")
			h.responder.InternalError(w, r, err, "Failed to log in")
		}
		return
	}

	h.responder.Success(w, r, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		ExpiresIn:   int64(result.ExpiresIn.Round(time.Second).Seconds()),
		Account:     result.Account,
	}, "Login successful")
}

// Me godoc
// @Summary      Current principal
// @Description  Returns the authenticated account and the role the gate admitted it with
// @Tags         Auth
// @Produce      json
// @Success      200 {object} api.SuccessBody{data=PrincipalResponse} "Principal"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Me", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/me"),
	))
	defer span.End()

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.Error(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	account, err := h.authService.Me(ctx, p.Account.ID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			h.responder.Error(w, r, http.StatusUnauthorized, "Account is not available")
			return
		}
		span.RecordError(err)
		h.responder.InternalError(w, r, err, "Failed to load current account")
		return
	}

	resp := PrincipalResponse{Account: account, EffectiveRole: p.Role}
	if p.Claims != nil && p.Claims.ExpiresAt != nil {
		resp.TokenExpires = p.Claims.ExpiresAt.Time
	}
	h.responder.Success(w, r, resp, "Current account retrieved")
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} api.SuccessBody "Password changed"
// @Failure      400 {object} api.ErrorBody "Bad Request"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      422 {object} api.ErrorBody{details=[]validation.ErrorEntry} "Validation Error"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "ChangePassword", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/password"),
	))
	defer span.End()

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.Error(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := validation.DecodeAndValidate(w, r, changePasswordRules, &req); err != nil {
		validation.Respond(h.responder, w, r, err)
		return
	}

	err := h.authService.ChangePassword(ctx, p.Account.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		h.responder.Updated(w, r, nil, "Password changed")
	case errors.Is(err, ErrInvalidCredentials):
		h.responder.Error(w, r, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, types.ErrBadRequest):
		h.responder.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		h.responder.Error(w, r, http.StatusUnauthorized, "Account is not available")
	default:
		span.RecordError(err)
		h.responder.InternalError(w, r, err, "Failed to change password")
	}
}

// clientIP relies on chi's RealIP middleware having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
