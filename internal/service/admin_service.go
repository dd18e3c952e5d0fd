package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrCurrentPasswordMismatch is returned when the supplied current password is wrong.
var ErrCurrentPasswordMismatch = fmt.Errorf("%w: current password does not match", ErrForbidden)

// AdminService handles admin account management.
type AdminService struct {
	admins   CredentialStore
	sessions SessionStore
	hasher   *PasswordHasher
	auth     *AuthService
	log      zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	admins CredentialStore,
	sessions SessionStore,
	hasher *PasswordHasher,
	auth *AuthService,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		admins:   admins,
		sessions: sessions,
		hasher:   hasher,
		auth:     auth,
		log:      logger.Component(log, "admin_service"),
	}
}

// List returns every admin except the superadmin.
func (s *AdminService) List(ctx context.Context, actor *model.Identity) ([]model.Admin, error) {
	if err := s.auth.RequireSuperadmin(actor); err != nil {
		return nil, err
	}
	return s.admins.ListAllExceptSuperadmin(ctx, s.auth.SuperadminUsername())
}

// Create adds an ordinary admin. Only the superadmin may do this.
func (s *AdminService) Create(ctx context.Context, actor *model.Identity, username, password string) (*model.Admin, error) {
	if err := s.auth.RequireSuperadmin(actor); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.admins.Insert(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	s.log.Info().Str("actor", actor.Username).Str("username", username).Msg("Admin created")
	return admin, nil
}

// Delete removes an admin and ends their sessions. The superadmin can never be deleted.
func (s *AdminService) Delete(ctx context.Context, actor *model.Identity, username string) error {
	if s.auth.IsSuperadmin(username) {
		return ErrProtectedAccount
	}
	if err := s.auth.RequireSuperadmin(actor); err != nil {
		return err
	}

	if err := s.admins.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("delete admin: %w", err)
	}

	if err := s.sessions.DeleteByUsername(ctx, username); err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("Failed to end sessions of deleted admin")
	}

	s.log.Info().Str("actor", actor.Username).Str("username", username).Msg("Admin deleted")
	return nil
}

// ChangeOwnPassword lets any admin, the superadmin included, replace their own
// password after proving the current one. Wrong guesses count towards the same
// lockout as Login for (clientAddress, actor).
func (s *AdminService) ChangeOwnPassword(ctx context.Context, clientAddress string, actor *model.Identity, current, next string) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	admin, err := s.admins.FindByUsername(ctx, actor.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("lookup admin: %w", err)
	}

	if err := s.auth.checkPassword(clientAddress, actor.Username, admin.PasswordHash, current); err != nil {
		return err
	}

	if err := s.setPassword(ctx, actor.Username, next); err != nil {
		return err
	}

	s.log.Info().Str("username", actor.Username).Msg("Admin changed own password")
	return nil
}

// ResetPassword changes the password of target through the admin-management path.
//
// The superadmin may skip the current password. Anyone else must supply the
// target's current password, and wrong guesses lock (clientAddress, target) the
// same way failed logins do. The superadmin account is never a valid target here;
// it changes its password with ChangeOwnPassword.
func (s *AdminService) ResetPassword(ctx context.Context, clientAddress string, actor *model.Identity, target, current, next string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if s.auth.IsSuperadmin(target) {
		return ErrProtectedAccount
	}

	admin, err := s.admins.FindByUsername(ctx, target)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("lookup admin: %w", err)
	}

	if s.auth.RequireSuperadmin(actor) != nil {
		if current == "" {
			return ErrForbidden
		}
		if err := s.auth.checkPassword(clientAddress, target, admin.PasswordHash, current); err != nil {
			return err
		}
	}

	if err := s.setPassword(ctx, target, next); err != nil {
		return err
	}

	if actor.Username != target {
		if err := s.sessions.DeleteByUsername(ctx, target); err != nil {
			s.log.Error().Err(err).Str("username", target).Msg("Failed to end sessions after password reset")
		}
	}

	s.log.Info().Str("actor", actor.Username).Str("username", target).Msg("Admin password reset")
	return nil
}

func (s *AdminService) setPassword(ctx context.Context, username, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.UpdatePasswordHash(ctx, username, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
