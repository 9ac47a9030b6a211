package auth

import (
	"regexp"
	"time"

	"github.com/FACorreiaa/flowdesk-api/internal/api/validation"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Handle   string `json:"handle" example:"jdoe"`
	Password string `json:"password" example:"s3cret-pass"`
}

// LoginResponse represents the login response data
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time      `json:"expires_at"`
	ExpiresIn   int64          `json:"expires_in" example:"86400"`
	Account     *types.Account `json:"account"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PrincipalResponse is the caller as seen by the gate.
type PrincipalResponse struct {
	Account       *types.Account `json:"account"`
	EffectiveRole types.Role     `json:"effective_role" example:"manager"`
	TokenExpires  time.Time      `json:"token_expires_at"`
}

// HandlePattern is shared with account creation.
var HandlePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bytes, bcrypt refuses longer input
)

// PasswordRule bounds a plaintext password: runes from below, UTF-8 bytes from above.
func PasswordRule(min int) validation.String {
	return validation.String{Min: min, MaxBytes: MaxPasswordLength}
}

var loginRules = validation.RuleSet{
	{Name: "handle", Required: true, Rule: validation.String{Max: 64}},
	{Name: "password", Required: true, Sensitive: true, Rule: PasswordRule(0)},
}

var changePasswordRules = validation.RuleSet{
	{Name: "current_password", Required: true, Sensitive: true, Rule: PasswordRule(0)},
	{Name: "new_password", Required: true, Sensitive: true, Rule: PasswordRule(MinPasswordLength)},
}
