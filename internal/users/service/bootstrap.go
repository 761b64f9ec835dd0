package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
)

// BootstrapService prepares the database on startup: schema migrations and
// the administrator account.
type BootstrapService struct {
	Store store.Store
	Users *UserService
	Data  domain.BootstrapData
}

// Run migrates the schema and then calls EnsureAdmin.
func (s *BootstrapService) Run(ctx context.Context) (bool, error) {
	if err := s.Store.ApplyMigrations(); err != nil {
		return false, fmt.Errorf("apply migrations: %w", err)
	}
	return s.EnsureAdmin(ctx)
}

// EnsureAdmin creates the administrator if no user holds the configured
// email and reports whether it did. Running it again, or concurrently from
// another replica, is harmless.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	sess, err := s.Store.Session(ctx)
	if err != nil {
		return false, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			l.Warn("failed to release bootstrap session", slog.Any("error", err))
		}
	}()
	ctx = store.WithSession(ctx, sess)

	existing, found, err := s.Users.GetByEmail(ctx, s.Data.AdminEmail)
	if err != nil {
		return false, fmt.Errorf("look up admin: %w", err)
	}
	if found {
		l.Debug("admin already present", slog.String("admin_user_id", existing.ID))
		return false, nil
	}

	admin, err := s.Users.Create(ctx, s.Data.Draft())
	switch {
	case errors.Is(err, ErrEmailTaken):
		l.Info("admin created concurrently by another instance")
		return false, nil
	case err != nil:
		return false, fmt.Errorf("create admin: %w", err)
	}

	l.Info("created admin user",
		slog.String("admin_user_id", admin.ID),
		slog.String("admin_email", admin.Email),
	)
	return true, nil
}
