package auth

import (
	"context"

	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the admitted caller of a request.
type Principal struct {
	Account *types.Account
	Claims  *Claims
	// Role is the role used for the membership decision.
	Role types.Role
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
