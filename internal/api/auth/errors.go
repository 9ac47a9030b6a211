package auth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingCredential    = errors.New("missing or malformed authorization header")
	ErrMalformed            = errors.New("malformed token")
	ErrInvalidSignature     = errors.New("invalid token signature")
	ErrExpired              = errors.New("token has expired")
	ErrPrincipalNotFound    = errors.New("principal not found")
	ErrPrincipalDeactivated = errors.New("principal is deactivated")
	ErrForbidden            = errors.New("insufficient role")
	ErrConfiguration        = errors.New("authentication is misconfigured")
	ErrUnavailable          = errors.New("principal store unavailable")

	ErrInvalidCredentials = errors.New("invalid handle or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Stage is the last step the gate completed for a request.
type Stage string

const (
	StageStart               Stage = "start"
	StageCredentialExtracted Stage = "credential_extracted"
	StageTokenVerified       Stage = "token_verified"
	StagePrincipalResolved   Stage = "principal_resolved"
	StageRoleChecked         Stage = "role_checked"
	StageAdmitted            Stage = "admitted"
)

// Rejection is returned by Gate.Admit for every refused request.
type Rejection struct {
	Stage Stage
	Err   error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected after %s: %v", r.Stage, r.Err)
}

func (r *Rejection) Unwrap() error { return r.Err }

// StatusFor maps a gate error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

// clientMessage is the error text exposed to callers. Unknown accounts and deactivated
// accounts share one message so the gate does not reveal which accounts exist.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "Authorization header format must be Bearer {token}"
	case errors.Is(err, ErrMalformed):
		return "Malformed token"
	case errors.Is(err, ErrExpired):
		return "Token has expired"
	case errors.Is(err, ErrInvalidSignature):
		return "Invalid token"
	case errors.Is(err, ErrPrincipalNotFound), errors.Is(err, ErrPrincipalDeactivated):
		return "Account is not available"
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to access this resource"
	case errors.Is(err, ErrUnavailable):
		return "Authentication service temporarily unavailable"
	default:
		return "Authentication failed"
	}
}
