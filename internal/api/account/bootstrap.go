package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/flowdesk-api/config"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// EnsureAdmin creates the configured administrator when no admin account exists yet.
// Running it again, or concurrently from several instances, leaves a single admin.
func EnsureAdmin(ctx context.Context, repo AccountRepo, svc AccountService, admin config.BootstrapAdmin, logger *slog.Logger) error {
	l := logger.With(slog.String("method", "EnsureAdmin"), slog.String("handle", admin.Handle))

	exists, err := repo.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if exists {
		l.DebugContext(ctx, "Admin account present, skipping bootstrap")
		return nil
	}
	if admin.Password == "" {
		l.WarnContext(ctx, "No admin account exists and no bootstrap password is configured")
		return nil
	}

	displayName := admin.DisplayName
	if displayName == "" {
		displayName = admin.Handle
	}
	account, err := svc.Create(ctx, CreateAccountInput{
		Handle:      admin.Handle,
		Password:    admin.Password,
		DisplayName: displayName,
		Email:       admin.Email,
		Role:        types.RoleAdmin,
		Unit:        admin.Unit,
		IsActive:    true,
	})
	if err != nil {
		if errors.Is(err, types.ErrConflict) {
			l.InfoContext(ctx, "Bootstrap admin created concurrently, skipping")
			return nil
		}
		return fmt.Errorf("bootstrap: %w", err)
	}

	l.InfoContext(ctx, "Bootstrap admin created", slog.String("account_id", account.ID.String()))
	return nil
}
