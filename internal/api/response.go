package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Error codes derived from HTTP status codes.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeUnknown            = "UNKNOWN_ERROR"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:          CodeBadRequest,
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusForbidden:           CodeForbidden,
	http.StatusNotFound:            CodeNotFound,
	http.StatusMethodNotAllowed:    CodeMethodNotAllowed,
	http.StatusConflict:            CodeConflict,
	http.StatusUnprocessableEntity: CodeValidation,
	http.StatusTooManyRequests:     CodeRateLimitExceeded,
	http.StatusInternalServerError: CodeInternal,
	http.StatusServiceUnavailable:  CodeServiceUnavailable,
}

// CodeForStatus maps an HTTP status to its error code, UNKNOWN_ERROR when unmapped.
func CodeForStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return CodeUnknown
}

// SuccessBody is the shape of every successful response carrying a body.
type SuccessBody struct {
	Success    bool        `json:"success" example:"true"`
	Data       any         `json:"data"`
	Message    string      `json:"message" example:"Operation successful"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Success   bool      `json:"success" example:"false"`
	Error     string    `json:"error" example:"Resource not found"`
	Code      string    `json:"code" example:"NOT_FOUND"`
	Details   any       `json:"details,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int  `json:"page" example:"1"`
	Limit      int  `json:"limit" example:"10"`
	Total      int  `json:"total" example:"95"`
	TotalPages int  `json:"totalPages" example:"10"`
	HasNext    bool `json:"hasNext" example:"true"`
	HasPrev    bool `json:"hasPrev" example:"false"`
}

// NewPagination computes page metadata. A non-positive limit yields zero pages.
func NewPagination(page, limit, total int) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 && total > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	return p
}

// NewErrorBody builds an error envelope with the code looked up from status.
func NewErrorBody(status int, message string, details any, ts time.Time) ErrorBody {
	return ErrorBody{
		Success:   false,
		Error:     message,
		Code:      CodeForStatus(status),
		Details:   details,
		Timestamp: ts.UTC(),
	}
}

// Responder writes envelopes. In production mode internal diagnostics never reach the client.
type Responder struct {
	production bool
	logger     *slog.Logger
	now        func() time.Time
}

func NewResponder(production bool, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{production: production, logger: logger, now: time.Now}
}

func (rs *Responder) success(w http.ResponseWriter, r *http.Request, status int, data any, message string, p *Pagination) {
	WriteJSONResponse(w, r, status, SuccessBody{
		Success:    true,
		Data:       data,
		Message:    message,
		Pagination: p,
		Timestamp:  rs.now().UTC(),
	})
}

// Success writes a 200 envelope.
func (rs *Responder) Success(w http.ResponseWriter, r *http.Request, data any, message string) {
	rs.success(w, r, http.StatusOK, data, message, nil)
}

// Created writes a 201 envelope.
func (rs *Responder) Created(w http.ResponseWriter, r *http.Request, data any, message string) {
	rs.success(w, r, http.StatusCreated, data, message, nil)
}

// Updated writes a 200 envelope for a modified resource.
func (rs *Responder) Updated(w http.ResponseWriter, r *http.Request, data any, message string) {
	rs.success(w, r, http.StatusOK, data, message, nil)
}

// Deleted writes a bare 204.
func (rs *Responder) Deleted(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// Paginated writes a 200 envelope with pagination metadata.
func (rs *Responder) Paginated(w http.ResponseWriter, r *http.Request, data any, p Pagination, message string) {
	rs.success(w, r, http.StatusOK, data, message, &p)
}

// Error writes an error envelope without details.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rs.write(w, r, status, message, nil)
}

// ValidationError writes a 422 envelope whose details are the offending entries.
func (rs *Responder) ValidationError(w http.ResponseWriter, r *http.Request, message string, entries any) {
	rs.write(w, r, http.StatusUnprocessableEntity, message, entries)
}

// InternalError logs err and writes a 500. The error text is only exposed outside production.
func (rs *Responder) InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	rs.Diagnostic(w, r, http.StatusInternalServerError, message, err, nil)
}

// Diagnostic writes a server-side failure with optional extra diagnostics (stack traces, etc.).
func (rs *Responder) Diagnostic(w http.ResponseWriter, r *http.Request, status int, message string, err error, extra map[string]any) {
	rs.logger.ErrorContext(r.Context(), message,
		slog.Any("error", err),
		slog.Int("status", status),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	var details any
	if !rs.production {
		diag := make(map[string]any, len(extra)+1)
		if err != nil {
			diag["error"] = err.Error()
		}
		for k, v := range extra {
			diag[k] = v
		}
		if len(diag) > 0 {
			details = diag
		}
	}
	rs.write(w, r, status, message, details)
}

func (rs *Responder) write(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	body := NewErrorBody(status, message, details, rs.now())
	body.RequestID = middleware.GetReqID(r.Context())
	WriteJSONResponse(w, r, status, body)
}
