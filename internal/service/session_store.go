package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/model"
)

// DefaultSessionIdle is how long a session survives without requests.
const DefaultSessionIdle = time.Hour

// ErrSessionNotFound is returned by stores for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side sessions keyed by opaque token.
// Get must refresh the idle deadline of the session it returns.
type SessionStore interface {
	Create(ctx context.Context, username string) (*model.Session, error)
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteByUsername(ctx context.Context, username string) error
}

// MemorySessionStore is a process-local SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	idle     time.Duration
	now      func() time.Time
	sessions map[string]model.Session
}

// NewMemorySessionStore creates a store whose sessions expire after idle without use.
func NewMemorySessionStore(idle time.Duration) *MemorySessionStore {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &MemorySessionStore{
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]model.Session),
	}
}

func (s *MemorySessionStore) Create(_ context.Context, username string) (*model.Session, error) {
	token, err := generateToken(32)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := model.Session{
		Token:      token,
		Username:   username,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	return &sess, nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now().UTC()
	if now.Sub(sess.LastSeenAt) > s.idle {
		delete(s.sessions, token)
		return nil, ErrSessionNotFound
	}
	sess.LastSeenAt = now
	s.sessions[token] = sess
	return &sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) DeleteByUsername(_ context.Context, username string) error {
	s.mu.Lock()
	for token, sess := range s.sessions {
		if sess.Username == username {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
	return nil
}

// Sweep drops every idle session and returns how many were removed.
func (s *MemorySessionStore) Sweep(_ context.Context) int {
	now := s.now().UTC()
	removed := 0

	s.mu.Lock()
	for token, sess := range s.sessions {
		if now.Sub(sess.LastSeenAt) > s.idle {
			delete(s.sessions, token)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func generateToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
