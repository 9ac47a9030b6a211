package account

import (
	"regexp"

	"github.com/FACorreiaa/flowdesk-api/internal/api/auth"
	"github.com/FACorreiaa/flowdesk-api/internal/api/validation"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Handle      string     `json:"handle" example:"jdoe"`
	Password    string     `json:"password" example:"s3cret-pass"`
	DisplayName string     `json:"display_name" example:"John Doe"`
	Email       string     `json:"email" example:"john.doe@example.com"`
	Role        types.Role `json:"role" example:"user"`
	Unit        string     `json:"unit" example:"operations"`
	IsActive    bool       `json:"is_active" example:"true"`
}

// ChangeRoleRequest represents the change role request body
type ChangeRoleRequest struct {
	Role types.Role `json:"role" example:"manager"`
}

// ActivationRequest represents the activation toggle request body
type ActivationRequest struct {
	IsActive bool `json:"is_active" example:"false"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var createAccountRules = validation.RuleSet{
	{Name: "handle", Required: true, Rule: validation.String{
		Min: 3, Max: 32, Pattern: auth.HandlePattern,
		PatternMessage: "handle may only contain letters, digits, dots, dashes and underscores",
	}},
	{Name: "password", Required: true, Sensitive: true, Rule: auth.PasswordRule(auth.MinPasswordLength)},
	{Name: "display_name", Required: true, Rule: validation.String{Max: 100}},
	{Name: "email", Required: true, Rule: validation.String{Max: 254, Pattern: emailPattern, PatternMessage: "email must be a valid email address"}},
	{Name: "role", Default: string(types.RoleUser), Rule: validation.Enum{Values: types.RoleValues()}},
	{Name: "unit", Default: "", Rule: validation.String{Max: 64}},
	{Name: "is_active", Default: true, Rule: validation.Bool{}},
}

var changeRoleRules = validation.RuleSet{
	{Name: "role", Required: true, Rule: validation.Enum{Values: types.RoleValues()}},
}

var activationRules = validation.RuleSet{
	{Name: "is_active", Required: true, Rule: validation.Bool{}},
}

var listQueryRules = validation.RuleSet{
	{Name: "role", Rule: validation.Enum{Values: types.RoleValues()}},
	{Name: "active", Rule: validation.Enum{Values: []string{"true", "false"}}},
	{Name: "unit", Rule: validation.String{Max: 64}},
}
