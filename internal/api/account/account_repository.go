package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/flowdesk-api/app/db"
	"github.com/FACorreiaa/flowdesk-api/app/observability/metrics"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

var _ AccountRepo = (*PostgresAccountRepo)(nil)

// AccountRepo defines the contract for account persistence.
type AccountRepo interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error)
	// List returns one page of accounts ordered by creation time, oldest first.
	List(ctx context.Context, filter types.AccountFilter) ([]types.Account, error)
	// Count returns the number of accounts matching filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter types.AccountFilter) (int, error)
	// Create returns types.ErrConflict when the handle or email is taken.
	Create(ctx context.Context, params types.CreateAccountParams) (*types.Account, error)
	SetRole(ctx context.Context, id uuid.UUID, role types.Role) (*types.Account, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.Account, error)
	AdminExists(ctx context.Context) (bool, error)
}

type PostgresAccountRepo struct {
	logger  *slog.Logger
	pgpool  database.Querier
	metrics *metrics.AppMetrics
}

func NewPostgresAccountRepo(pgpool database.Querier, logger *slog.Logger, m *metrics.AppMetrics) *PostgresAccountRepo {
	if m == nil {
		m = metrics.Noop()
	}
	return &PostgresAccountRepo{logger: logger, pgpool: pgpool, metrics: m}
}

func (r *PostgresAccountRepo) startSpan(ctx context.Context, name, operation string) (context.Context, trace.Span) {
	return otel.Tracer("AccountRepo").Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", "accounts"),
	))
}

func (r *PostgresAccountRepo) observe(ctx context.Context, query string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("query", query))
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.metrics.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *PostgresAccountRepo) FindAccountByID(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	ctx, span := r.startSpan(ctx, "FindAccountByID", "SELECT")
	defer span.End()
	start := time.Now()

	account, err := types.ScanAccount(r.pgpool.QueryRow(ctx,
		`SELECT `+types.AccountColumns+` FROM accounts WHERE id = $1`, id))
	r.observe(ctx, "find_account_by_id", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return account, nil
}

// whereClause builds the filter conditions with $n placeholders starting at 1.
func whereClause(filter types.AccountFilter) (string, []any) {
	var conds []string
	var args []any
	argID := 1

	if filter.Role != nil {
		conds = append(conds, fmt.Sprintf("role = $%d", argID))
		args = append(args, *filter.Role)
		argID++
	}
	if filter.IsActive != nil {
		conds = append(conds, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *filter.IsActive)
		argID++
	}
	if filter.Unit != nil {
		conds = append(conds, fmt.Sprintf("unit = $%d", argID))
		args = append(args, *filter.Unit)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresAccountRepo) List(ctx context.Context, filter types.AccountFilter) ([]types.Account, error) {
	ctx, span := r.startSpan(ctx, "List", "SELECT")
	defer span.End()
	l := r.logger.With(slog.String("method", "List"))
	start := time.Now()

	where, args := whereClause(filter)
	query := fmt.Sprintf(`SELECT %s FROM accounts%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		types.AccountColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.observe(ctx, "list_accounts", start, err)
		l.ErrorContext(ctx, "Failed to query accounts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]types.Account, 0, filter.Limit)
	for rows.Next() {
		a, err := types.ScanAccount(rows)
		if err != nil {
			r.observe(ctx, "list_accounts", start, err)
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		accounts = append(accounts, *a)
	}
	err = rows.Err()
	r.observe(ctx, "list_accounts", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(accounts)))
	return accounts, nil
}

func (r *PostgresAccountRepo) Count(ctx context.Context, filter types.AccountFilter) (int, error) {
	ctx, span := r.startSpan(ctx, "Count", "SELECT")
	defer span.End()
	start := time.Now()

	where, args := whereClause(filter)
	var total int
	err := r.pgpool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+where, args...).Scan(&total)
	r.observe(ctx, "count_accounts", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return 0, fmt.Errorf("error counting accounts: %w", err)
	}
	return total, nil
}

func (r *PostgresAccountRepo) Create(ctx context.Context, params types.CreateAccountParams) (*types.Account, error) {
	ctx, span := r.startSpan(ctx, "Create", "INSERT")
	defer span.End()
	l := r.logger.With(slog.String("method", "Create"), slog.String("handle", params.Handle))
	start := time.Now()

	account, err := types.ScanAccount(r.pgpool.QueryRow(ctx, `
		INSERT INTO accounts (handle, password_hash, display_name, email, role, unit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+types.AccountColumns,
		params.Handle, params.PasswordHash, params.DisplayName, params.Email, params.Role, params.Unit, params.IsActive))
	r.observe(ctx, "create_account", start, err)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			l.WarnContext(ctx, "Attempted to create account with duplicate handle or email", slog.String("constraint", pgErr.ConstraintName))
			span.SetStatus(codes.Error, "duplicate account")
			return nil, fmt.Errorf("account %q already exists: %w", params.Handle, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert account", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	l.InfoContext(ctx, "Account created", slog.String("account_id", account.ID.String()))
	return account, nil
}

func (r *PostgresAccountRepo) SetRole(ctx context.Context, id uuid.UUID, role types.Role) (*types.Account, error) {
	ctx, span := r.startSpan(ctx, "SetRole", "UPDATE")
	defer span.End()
	span.SetAttributes(attribute.String("account.role", string(role)))
	start := time.Now()

	account, err := types.ScanAccount(r.pgpool.QueryRow(ctx,
		`UPDATE accounts SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING `+types.AccountColumns, id, role))
	r.observe(ctx, "set_account_role", start, err)
	return r.updated(span, id, account, err)
}

func (r *PostgresAccountRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*types.Account, error) {
	ctx, span := r.startSpan(ctx, "SetActive", "UPDATE")
	defer span.End()
	span.SetAttributes(attribute.Bool("account.active", active))
	start := time.Now()

	account, err := types.ScanAccount(r.pgpool.QueryRow(ctx,
		`UPDATE accounts SET is_active = $2, updated_at = NOW() WHERE id = $1 RETURNING `+types.AccountColumns, id, active))
	r.observe(ctx, "set_account_active", start, err)
	return r.updated(span, id, account, err)
}

func (r *PostgresAccountRepo) updated(span trace.Span, id uuid.UUID, account *types.Account, err error) (*types.Account, error) {
	if err == nil {
		return account, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, types.ErrNotFound)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "update failed")
	return nil, fmt.Errorf("error updating account: %w", err)
}

func (r *PostgresAccountRepo) AdminExists(ctx context.Context) (bool, error) {
	ctx, span := r.startSpan(ctx, "AdminExists", "SELECT")
	defer span.End()
	start := time.Now()

	var exists bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE role = 'admin')`).Scan(&exists)
	r.observe(ctx, "admin_exists", start, err)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("error checking for admin account: %w", err)
	}
	return exists, nil
}
