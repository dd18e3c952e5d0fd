package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/logger"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CredentialStore persists admin accounts. Implementations return
// repository.ErrNotFound and repository.ErrDuplicate.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	Insert(ctx context.Context, username, passwordHash string) (*model.Admin, error)
	Delete(ctx context.Context, username string) error
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	ListAllExceptSuperadmin(ctx context.Context, superadmin string) ([]model.Admin, error)
}

// AuthService handles login throttling, credential checks and session gating.
type AuthService struct {
	admins     CredentialStore
	attempts   *AttemptTracker
	sessions   SessionStore
	hasher     *PasswordHasher
	superadmin string
	seedPass   string
	log        zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	cfg *config.Config,
	admins CredentialStore,
	attempts *AttemptTracker,
	sessions SessionStore,
	hasher *PasswordHasher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		admins:     admins,
		attempts:   attempts,
		sessions:   sessions,
		hasher:     hasher,
		superadmin: cfg.SuperadminUsername,
		seedPass:   cfg.SuperadminPassword,
		log:        logger.Component(log, "auth_service"),
	}
}

// SuperadminUsername returns the reserved superadmin account name.
func (s *AuthService) SuperadminUsername() string {
	return s.superadmin
}

// IsSuperadmin reports whether username is the reserved superadmin account.
func (s *AuthService) IsSuperadmin(username string) bool {
	return username == s.superadmin
}

// EnsureSuperadmin inserts the superadmin with the seed password when the row is missing.
// It reports whether a row was created.
func (s *AuthService) EnsureSuperadmin(ctx context.Context) (bool, error) {
	_, err := s.admins.FindByUsername(ctx, s.superadmin)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("lookup superadmin: %w", err)
	}

	hash, err := s.hasher.Hash(s.seedPass)
	if err != nil {
		return false, fmt.Errorf("hash seed password: %w", err)
	}
	if _, err := s.admins.Insert(ctx, s.superadmin, hash); err != nil {
		// Another process seeded it first.
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("insert superadmin: %w", err)
	}

	s.log.Warn().Str("username", s.superadmin).Msg("Superadmin seeded with default password, change it")
	return true, nil
}

// Login verifies credentials for username coming from clientAddress and opens a session.
//
// A locked pair is rejected before any lookup so a locked-out client learns nothing
// about the account. Unknown usernames and wrong passwords each count as a failure.
func (s *AuthService) Login(ctx context.Context, clientAddress, username, password string) (*model.Session, error) {
	if s.attempts.IsLocked(clientAddress, username) {
		return nil, ErrTooManyAttempts
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordFailure(clientAddress, username)
			return nil, ErrInvalidUsername
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if !s.hasher.Verify(admin.PasswordHash, password) {
		s.recordFailure(clientAddress, username)
		return nil, ErrInvalidPassword
	}

	s.attempts.Reset(clientAddress, username)

	sess, err := s.sessions.Create(ctx, admin.Username)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info().
		Str("username", admin.Username).
		Str("client", clientAddress).
		Msg("Admin logged in")
	return sess, nil
}

func (s *AuthService) recordFailure(clientAddress, username string) {
	rec := s.attempts.RecordFailure(clientAddress, username)
	if rec.Locked && rec.Failures == s.attempts.MaxAttempts() {
		s.log.Warn().
			Str("username", username).
			Str("client", clientAddress).
			Int("failures", rec.Failures).
			Msg("Login locked after repeated failures")
	}
}

// checkPassword verifies a current password under the same lockout as Login.
func (s *AuthService) checkPassword(clientAddress, username, hash, password string) error {
	if s.attempts.IsLocked(clientAddress, username) {
		return ErrTooManyAttempts
	}
	if !s.hasher.Verify(hash, password) {
		s.recordFailure(clientAddress, username)
		return ErrCurrentPasswordMismatch
	}
	s.attempts.Reset(clientAddress, username)
	return nil
}

// Logout destroys the session for token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RequireSession resolves token to the calling identity.
func (s *AuthService) RequireSession(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	return &model.Identity{
		Username:     sess.Username,
		IsSuperadmin: s.IsSuperadmin(sess.Username),
	}, nil
}

// RequireSuperadmin fails with ErrForbidden unless identity is the superadmin.
func (s *AuthService) RequireSuperadmin(identity *model.Identity) error {
	if identity == nil || !s.IsSuperadmin(identity.Username) {
		return ErrForbidden
	}
	return nil
}
