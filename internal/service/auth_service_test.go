package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/fonsecars/fonsecars-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSuperadmin     = "Fonsecars"
	testSuperadminPass = "8725"
	clientA            = "203.0.113.10"
	clientB            = "203.0.113.20"
)

type authFixture struct {
	cfg      *config.Config
	repo     *repository.MemoryAdminRepository
	attempts *AttemptTracker
	sessions *MemorySessionStore
	hasher   *PasswordHasher
	auth     *AuthService
	admins   *AdminService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := &config.Config{
		SuperadminUsername: testSuperadmin,
		SuperadminPassword: testSuperadminPass,
	}
	f := &authFixture{
		cfg:      cfg,
		repo:     repository.NewMemoryAdminRepository(),
		attempts: NewAttemptTracker(5, 100, 0),
		sessions: NewMemorySessionStore(time.Hour),
		hasher:   NewPasswordHasher(bcrypt.MinCost),
	}
	f.auth = NewAuthService(cfg, f.repo, f.attempts, f.sessions, f.hasher, zerolog.Nop())
	f.admins = NewAdminService(f.repo, f.sessions, f.hasher, f.auth, zerolog.Nop())

	created, err := f.auth.EnsureSuperadmin(context.Background())
	require.NoError(t, err)
	require.True(t, created)
	return f
}

func (f *authFixture) superadmin() *model.Identity {
	return &model.Identity{Username: testSuperadmin, IsSuperadmin: true}
}

func (f *authFixture) addAdmin(t *testing.T, username, password string) {
	t.Helper()
	_, err := f.admins.Create(context.Background(), f.superadmin(), username, password)
	require.NoError(t, err)
}

func TestEnsureSuperadmin_Idempotent(t *testing.T) {
	f := newAuthFixture(t)

	created, err := f.auth.EnsureSuperadmin(context.Background())
	require.NoError(t, err)
	assert.False(t, created)

	_, err = f.auth.Login(context.Background(), clientA, testSuperadmin, testSuperadminPass)
	assert.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.addAdmin(t, "alice", "s3cret")
	ctx := context.Background()

	sess, err := f.auth.Login(ctx, clientA, "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	id, err := f.auth.RequireSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.False(t, id.IsSuperadmin)
}

// The service distinguishes unknown usernames from wrong passwords. Both wrap
// ErrInvalidCredentials, which is what the HTTP layer reports.
func TestLogin_DistinguishesUsernameAndPasswordErrors(t *testing.T) {
	f := newAuthFixture(t)
	f.addAdmin(t, "alice", "s3cret")
	ctx := context.Background()

	_, err := f.auth.Login(ctx, clientA, "mallory", "whatever")
	assert.ErrorIs(t, err, ErrInvalidUsername)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, clientA, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, errors.Is(err, ErrInvalidUsername))
}

func TestLogin_LockoutScenario(t *testing.T) {
	f := newAuthFixture(t)
	f.addAdmin(t, "alice", "s3cret")
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.auth.Login(ctx, clientA, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidPassword)
	}
	assert.False(t, f.attempts.IsLocked(clientA, "alice"))

	_, err := f.auth.Login(ctx, clientA, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)
	assert.True(t, f.attempts.IsLocked(clientA, "alice"))

	// Correct password no longer helps, and the locked attempt records nothing.
	_, err = f.auth.Login(ctx, clientA, "alice", "s3cret")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, 5, f.attempts.Failures(clientA, "alice"))

	// Another client can still log in as alice.
	_, err = f.auth.Login(ctx, clientB, "alice", "s3cret")
	assert.NoError(t, err)
}

func TestLogin_LockHoldsWhileAttackerFloodsTracker(t *testing.T) {
	f := newAuthFixture(t)
	f.addAdmin(t, "alice", "s3cret")
	ctx := context.Background()

	attempts := NewAttemptTracker(5, 10, 0)
	auth := NewAuthService(f.cfg, f.repo, attempts, f.sessions, f.hasher, zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := auth.Login(ctx, clientA, "alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	for i := 0; i < 50; i++ {
		_, err := auth.Login(ctx, clientA, fmt.Sprintf("made-up-%d", i), "x")
		require.ErrorIs(t, err, ErrInvalidUsername)

		_, err = auth.Login(ctx, clientA, "alice", "guess")
		require.ErrorIs(t, err, ErrTooManyAttempts)
	}

	_, err := auth.Login(ctx, clientA, "alice", "s3cret")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestLogin_UnknownUsernameCountsTowardsLockout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.auth.Login(ctx, clientA, "ghost", "x")
		require.ErrorIs(t, err, ErrInvalidUsername)
	}
	_, err := f.auth.Login(ctx, clientA, "ghost", "x")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestLogin_SuccessResetsFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.addAdmin(t, "alice", "s3cret")
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = f.auth.Login(ctx, clientA, "alice", "wrong")
	}
	_, err := f.auth.Login(ctx, clientA, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 0, f.attempts.Failures(clientA, "alice"))
	assert.False(t, f.attempts.IsLocked(clientA, "alice"))

	// A fresh budget of failures is available again.
	for i := 0; i < 4; i++ {
		_, _ = f.auth.Login(ctx, clientA, "alice", "wrong")
	}
	assert.False(t, f.attempts.IsLocked(clientA, "alice"))
}

func TestLogout_EndsSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.auth.Login(ctx, clientA, testSuperadmin, testSuperadminPass)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, sess.Token))
	_, err = f.auth.RequireSession(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.NoError(t, f.auth.Logout(ctx, ""))
}

func TestRequireSession_RejectsMissingOrUnknownToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.RequireSession(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.auth.RequireSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRequireSuperadmin(t *testing.T) {
	f := newAuthFixture(t)
	f.addAdmin(t, "bob", "pass1")
	ctx := context.Background()

	sess, err := f.auth.Login(ctx, clientA, testSuperadmin, testSuperadminPass)
	require.NoError(t, err)
	id, err := f.auth.RequireSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, id.IsSuperadmin)
	assert.NoError(t, f.auth.RequireSuperadmin(id))

	sess, err = f.auth.Login(ctx, clientA, "bob", "pass1")
	require.NoError(t, err)
	id, err = f.auth.RequireSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.ErrorIs(t, f.auth.RequireSuperadmin(id), ErrForbidden)

	// A forged flag does not grant anything; the username decides.
	assert.ErrorIs(t, f.auth.RequireSuperadmin(&model.Identity{Username: "bob", IsSuperadmin: true}), ErrForbidden)
	assert.ErrorIs(t, f.auth.RequireSuperadmin(nil), ErrForbidden)
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash1, err := h.Hash("correct horse")
	require.NoError(t, err)
	hash2, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2, "hashes are salted")
	for i := 0; i < 3; i++ {
		assert.True(t, h.Verify(hash1, "correct horse"))
		assert.True(t, h.Verify(hash2, "correct horse"))
	}
	assert.False(t, h.Verify(hash1, "Correct horse"))
}
