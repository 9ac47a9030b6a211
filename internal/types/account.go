package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role represents the DB ENUM 'account_role'.
type Role string

const (
	RoleAdmin   Role = "admin"   // Elevated administrator
	RoleManager Role = "manager" // Elevated manager
	RoleUser    Role = "user"    // Standard user
	RoleViewer  Role = "viewer"  // Read-only
)

// Roles lists every role in ascending order of privilege.
var Roles = []Role{RoleViewer, RoleUser, RoleManager, RoleAdmin}

// RoleValues returns the role set as plain strings, handy for enum validation rules.
func RoleValues() []string {
	out := make([]string, len(Roles))
	for i, r := range Roles {
		out[i] = string(r)
	}
	return out
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser, RoleViewer:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for Role.
func (r *Role) Scan(value interface{}) error {
	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case Role:
		strVal = string(v)
	default:
		return fmt.Errorf("failed to scan Role: expected string or []byte, got %T", value)
	}
	if !Role(strVal).Valid() {
		return fmt.Errorf("unknown Role value: %s", strVal)
	}
	*r = Role(strVal)
	return nil
}

// Value implements the driver.Valuer interface for Role.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid Role value: %s", r)
	}
	return string(r), nil
}

// Account is a stored identity with credentials, role and activation state.
type Account struct {
	ID           uuid.UUID  `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Handle       string     `json:"handle" example:"jdoe"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name" example:"John Doe"`
	Email        string     `json:"email" example:"john.doe@example.com"`
	Role         Role       `json:"role" example:"user"`
	Unit         string     `json:"unit,omitempty" example:"operations"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateAccountParams holds the fields needed to persist a new account.
type CreateAccountParams struct {
	Handle       string
	PasswordHash string
	DisplayName  string
	Email        string
	Role         Role
	Unit         string
	IsActive     bool
}

// AccountFilter narrows account listings. Nil fields are not applied.
type AccountFilter struct {
	Role     *Role
	IsActive *bool
	Unit     *string
	Limit    int
	Offset   int
}

// AccountColumns is the select list matching ScanAccount.
const AccountColumns = `id, handle, password_hash, display_name, email, role, unit, is_active, last_login_at, created_at, updated_at`

// RowScanner is satisfied by pgx.Row and pgx.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanAccount reads one row selected with AccountColumns.
func ScanAccount(row RowScanner) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Handle, &a.PasswordHash, &a.DisplayName, &a.Email, &a.Role,
		&a.Unit, &a.IsActive, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
