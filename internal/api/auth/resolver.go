package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// AccountFinder loads an account by id, returning types.ErrNotFound when there is none.
type AccountFinder interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error)
}

// Resolver turns verified claims into the current account record. It never writes.
type Resolver struct {
	finder AccountFinder
	logger *slog.Logger
}

func NewResolver(finder AccountFinder, logger *slog.Logger) *Resolver {
	return &Resolver{finder: finder, logger: logger}
}

// Resolve returns the account behind claims, failing if it is missing or deactivated.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (*types.Account, error) {
	account, err := r.Lookup(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrPrincipalDeactivated
	}
	return account, nil
}

// Lookup returns the account behind claims without checking activation.
func (r *Resolver) Lookup(ctx context.Context, claims *Claims) (*types.Account, error) {
	ctx, span := otel.Tracer("Resolver").Start(ctx, "Lookup")
	defer span.End()

	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	span.SetAttributes(attribute.String("account.id", id.String()))

	account, err := r.finder.FindAccountByID(ctx, id)
	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, types.ErrNotFound):
		span.SetStatus(codes.Error, "principal not found")
		return nil, ErrPrincipalNotFound
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "principal lookup failed")
		r.logger.ErrorContext(ctx, "Principal lookup failed",
			slog.String("method", "Lookup"),
			slog.String("account_id", id.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
