package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	database "github.com/FACorreiaa/flowdesk-api/app/db"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the account storage the login and self-service flows need.
type AuthRepo interface {
	AccountFinder
	FindAccountByHandle(ctx context.Context, handle string) (*types.Account, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.Querier
}

func NewPostgresAuthRepo(pgpool database.Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{logger: logger, pgpool: pgpool}
}

func (r *PostgresAuthRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "FindAccountByID")
	defer span.End()
	span.SetAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("account.id", id.String()),
	)

	account, err := types.ScanAccount(r.pgpool.QueryRow(ctx,
		`SELECT `+types.AccountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("error fetching account by id: %w", err)
	}
	return account, nil
}

func (r *PostgresAuthRepo) FindAccountByHandle(ctx context.Context, handle string) (*types.Account, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "FindAccountByHandle")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("db.operation", "SELECT"))

	account, err := types.ScanAccount(r.pgpool.QueryRow(ctx,
		`SELECT `+types.AccountColumns+` FROM accounts WHERE LOWER(handle) = LOWER($1)`, handle))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", handle, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("error fetching account by handle: %w", err)
	}
	return account, nil
}

func (r *PostgresAuthRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdateLastLogin")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("db.operation", "UPDATE"))

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE accounts SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("error updating last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "UpdatePassword")
	defer span.End()
	span.SetAttributes(semconv.DBSystemPostgreSQL, attribute.String("db.operation", "UPDATE"))

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, types.ErrNotFound)
	}
	r.logger.InfoContext(ctx, "Password updated", slog.String("account_id", id.String()))
	return nil
}
