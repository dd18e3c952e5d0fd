package service

import (
	"sync"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxLoginAttempts is the failure count that locks a (client, username) pair.
const DefaultMaxLoginAttempts = 5

// AttemptRecord is the failure state for one (client address, username) pair.
type AttemptRecord struct {
	Failures   int
	Locked     bool
	LastFailed time.Time
}

// AttemptTracker counts failed logins per (client address, username) and locks
// a pair once it reaches the threshold. A lock is only lifted by Reset.
//
// Records live in process memory and are lost on restart. The map is bounded by
// an LRU with a time-to-live measured from the last failure, so a flood of
// distinct keys cannot grow it without limit. Checking a locked pair marks it
// recently used without extending its lifetime, so a pair that keeps being
// tried stays locked while other keys churn. A locked pair that goes quiet can
// still be evicted by a large enough flood; capacity is the tradeoff between
// memory and that window.
//
// Keying by address and username means one client cannot lock every account,
// but an attacker with many source addresses is not stopped either.
type AttemptTracker struct {
	mu          sync.Mutex
	maxAttempts int
	records     *expirable.LRU[string, *AttemptRecord]
}

// NewAttemptTracker creates a tracker. capacity bounds the number of tracked keys;
// ttl <= 0 disables time-based eviction.
func NewAttemptTracker(maxAttempts, capacity int, ttl time.Duration) *AttemptTracker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &AttemptTracker{
		maxAttempts: maxAttempts,
		records:     expirable.NewLRU[string, *AttemptRecord](capacity, nil, ttl),
	}
}

// RecordFailure increments the failure count for the pair and locks it at the threshold.
// It returns the updated record.
func (t *AttemptTracker) RecordFailure(clientAddress, username string) AttemptRecord {
	key := config.CacheKey.LoginAttemptKey(clientAddress, username)

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records.Get(key)
	if !ok {
		rec = &AttemptRecord{}
	}
	rec.Failures++
	rec.LastFailed = time.Now()
	if rec.Failures >= t.maxAttempts {
		rec.Locked = true
	}
	// Re-adding refreshes the entry's expiry.
	t.records.Add(key, rec)
	return *rec
}

// IsLocked reports whether the pair is locked out. Unknown pairs are not locked.
func (t *AttemptTracker) IsLocked(clientAddress, username string) bool {
	key := config.CacheKey.LoginAttemptKey(clientAddress, username)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Get marks the pair as recently used, so a locked pair that keeps being
	// tried is not the first to go when the map is full.
	rec, ok := t.records.Get(key)
	return ok && rec.Locked
}

// Failures returns the current failure count for the pair.
func (t *AttemptTracker) Failures(clientAddress, username string) int {
	key := config.CacheKey.LoginAttemptKey(clientAddress, username)

	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records.Peek(key); ok {
		return rec.Failures
	}
	return 0
}

// Reset clears the pair after a successful login.
func (t *AttemptTracker) Reset(clientAddress, username string) {
	key := config.CacheKey.LoginAttemptKey(clientAddress, username)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.records.Remove(key)
}

// Len returns the number of tracked pairs.
func (t *AttemptTracker) Len() int {
	return t.records.Len()
}

// MaxAttempts returns the lockout threshold.
func (t *AttemptTracker) MaxAttempts() int {
	return t.maxAttempts
}
