package account

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/api/auth"
	"github.com/FACorreiaa/flowdesk-api/internal/api/validation"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

type AccountHandler struct {
	service   AccountService
	responder *api.Responder
	logger    *slog.Logger
}

func NewAccountHandler(service AccountService, responder *api.Responder, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{service: service, responder: responder, logger: logger}
}

func (h *AccountHandler) startSpan(r *http.Request, name, route string) (*http.Request, trace.Span) {
	ctx, span := otel.Tracer("AccountHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return r.WithContext(ctx), span
}

// accountID parses the {id} path parameter, writing a 422 when it is not a UUID.
func (h *AccountHandler) accountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.responder.ValidationError(w, r, "Validation failed", []validation.ErrorEntry{{
			Field:    "id",
			Message:  "id must be a valid UUID",
			Value:    raw,
			Location: validation.InParam,
		}})
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors onto envelopes.
func (h *AccountHandler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error, action string) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		h.responder.Error(w, r, http.StatusNotFound, "Account not found")
	case errors.Is(err, types.ErrConflict):
		h.responder.Error(w, r, http.StatusConflict, "An account with this handle or email already exists")
	case errors.Is(err, ErrSelfModification):
		h.responder.Error(w, r, http.StatusConflict, "You cannot change your own role or activation")
	case errors.Is(err, types.ErrBadRequest):
		h.responder.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, action)
		h.responder.InternalError(w, r, err, action)
	}
}

// ListAccounts godoc
// @Summary      List accounts
// @Description  Paginated account listing with optional role, activation and unit filters
// @Tags         Accounts
// @Produce      json
// @Param        page   query int    false "Page number" default(1) minimum(1)
// @Param        limit  query int    false "Page size" default(10) minimum(1) maximum(100)
// @Param        role   query string false "Role filter" Enums(viewer, user, manager, admin)
// @Param        active query bool   false "Activation filter"
// @Param        unit   query string false "Organizational unit filter"
// @Success      200 {object} api.SuccessBody{data=[]types.Account,pagination=api.Pagination} "Accounts"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      403 {object} api.ErrorBody "Forbidden"
// @Failure      422 {object} api.ErrorBody{details=[]validation.ErrorEntry} "Validation Error"
// @Failure      500 {object} api.ErrorBody "Internal Server Error"
// @Security     BearerAuth
// @Router       /accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "ListAccounts", "/accounts")
	defer span.End()

	q := r.URL.Query()
	page, entries := validation.ParsePagination(q)
	filters := validation.ValidateQuery(listQueryRules, q)
	entries = append(entries, filters.Errors...)
	if len(entries) > 0 {
		h.responder.ValidationError(w, r, "Validation failed", entries)
		return
	}

	filter := types.AccountFilter{Limit: page.Limit, Offset: page.Offset()}
	if v := strings.TrimSpace(q.Get("role")); v != "" {
		role := types.Role(v)
		filter.Role = &role
	}
	if v := strings.TrimSpace(q.Get("active")); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	if v := strings.TrimSpace(q.Get("unit")); v != "" {
		filter.Unit = &v
	}

	accounts, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, span, err, "Failed to list accounts")
		return
	}
	h.responder.Paginated(w, r, accounts, api.NewPagination(page.Page, page.Limit, total), "Accounts retrieved")
}

// GetAccount godoc
// @Summary      Get account
// @Tags         Accounts
// @Produce      json
// @Param        id path string true "Account ID"
// @Success      200 {object} api.SuccessBody{data=types.Account} "Account"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      403 {object} api.ErrorBody "Forbidden"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      422 {object} api.ErrorBody "Validation Error"
// @Security     BearerAuth
// @Router       /accounts/{id} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "GetAccount", "/accounts/{id}")
	defer span.End()

	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, span, err, "Failed to fetch account")
		return
	}
	h.responder.Success(w, r, account, "Account retrieved")
}

// CreateAccount godoc
// @Summary      Create account
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        account body CreateAccountRequest true "New account"
// @Success      201 {object} api.SuccessBody{data=types.Account} "Created"
// @Failure      400 {object} api.ErrorBody "Bad Request"
// @Failure      401 {object} api.ErrorBody "Unauthorized"
// @Failure      403 {object} api.ErrorBody "Forbidden"
// @Failure      409 {object} api.ErrorBody "Conflict"
// @Failure      422 {object} api.ErrorBody{details=[]validation.ErrorEntry} "Validation Error"
// @Security     BearerAuth
// @Router       /accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "CreateAccount", "/accounts")
	defer span.End()

	var req CreateAccountRequest
	if err := validation.DecodeAndValidate(w, r, createAccountRules, &req); err != nil {
		validation.Respond(h.responder, w, r, err)
		return
	}

	account, err := h.service.Create(r.Context(), CreateAccountInput{
		Handle:      req.Handle,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
		Unit:        req.Unit,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.fail(w, r, span, err, "Failed to create account")
		return
	}
	h.responder.Created(w, r, account, "Account created")
}

// ChangeRole godoc
// @Summary      Change account role
// @Description  Applies to tokens issued after the change
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        id   path string            true "Account ID"
// @Param        body body ChangeRoleRequest true "New role"
// @Success      200 {object} api.SuccessBody{data=types.Account} "Updated"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      409 {object} api.ErrorBody "Conflict"
// @Failure      422 {object} api.ErrorBody{details=[]validation.ErrorEntry} "Validation Error"
// @Security     BearerAuth
// @Router       /accounts/{id}/role [patch]
func (h *AccountHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "ChangeRole", "/accounts/{id}/role")
	defer span.End()

	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := validation.DecodeAndValidate(w, r, changeRoleRules, &req); err != nil {
		validation.Respond(h.responder, w, r, err)
		return
	}

	account, err := h.service.ChangeRole(r.Context(), actorID(r), id, req.Role)
	if err != nil {
		h.fail(w, r, span, err, "Failed to change role")
		return
	}
	h.responder.Updated(w, r, account, "Role updated")
}

// SetActivation godoc
// @Summary      Activate or deactivate account
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        id   path string            true "Account ID"
// @Param        body body ActivationRequest true "Activation state"
// @Success      200 {object} api.SuccessBody{data=types.Account} "Updated"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      409 {object} api.ErrorBody "Conflict"
// @Failure      422 {object} api.ErrorBody{details=[]validation.ErrorEntry} "Validation Error"
// @Security     BearerAuth
// @Router       /accounts/{id}/activation [patch]
func (h *AccountHandler) SetActivation(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "SetActivation", "/accounts/{id}/activation")
	defer span.End()

	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req ActivationRequest
	if err := validation.DecodeAndValidate(w, r, activationRules, &req); err != nil {
		validation.Respond(h.responder, w, r, err)
		return
	}

	account, err := h.service.SetActivation(r.Context(), actorID(r), id, req.IsActive)
	if err != nil {
		h.fail(w, r, span, err, "Failed to change activation")
		return
	}
	h.responder.Updated(w, r, account, "Activation updated")
}

// DeleteAccount godoc
// @Summary      Deactivate account
// @Description  Soft delete; the record is kept and can be re-activated
// @Tags         Accounts
// @Param        id path string true "Account ID"
// @Success      204 "No Content"
// @Failure      404 {object} api.ErrorBody "Not Found"
// @Failure      409 {object} api.ErrorBody "Conflict"
// @Security     BearerAuth
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	r, span := h.startSpan(r, "DeleteAccount", "/accounts/{id}")
	defer span.End()

	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	if _, err := h.service.SetActivation(r.Context(), actorID(r), id, false); err != nil {
		h.fail(w, r, span, err, "Failed to deactivate account")
		return
	}
	h.responder.Deleted(w, r)
}

func actorID(r *http.Request) uuid.UUID {
	if p, ok := auth.PrincipalFromContext(r.Context()); ok && p.Account != nil {
		return p.Account.ID
	}
	return uuid.Nil
}
