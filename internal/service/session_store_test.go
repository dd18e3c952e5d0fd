package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemorySessionStore(time.Hour)
	store.now = clock.Now

	sess, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, "alice", sess.Username)

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, store.Delete(ctx, sess.Token))
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStore_IdleExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemorySessionStore(time.Hour)
	store.now = clock.Now

	sess, err := store.Create(ctx, "alice")
	require.NoError(t, err)

	// Activity inside the window keeps the session alive.
	clock.Advance(50 * time.Minute)
	_, err = store.Get(ctx, sess.Token)
	require.NoError(t, err)
	clock.Advance(50 * time.Minute)
	_, err = store.Get(ctx, sess.Token)
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_SweepAndDeleteByUsername(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemorySessionStore(time.Hour)
	store.now = clock.Now

	a1, _ := store.Create(ctx, "alice")
	_, _ = store.Create(ctx, "alice")
	b, _ := store.Create(ctx, "bob")

	require.NoError(t, store.DeleteByUsername(ctx, "alice"))
	_, err := store.Get(ctx, a1.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, b.Token)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 1, store.Sweep(ctx))
	assert.Equal(t, 0, store.Len())
}

func TestMemorySessionStore_TokensAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s, err := store.Create(ctx, "alice")
		require.NoError(t, err)
		require.False(t, seen[s.Token])
		seen[s.Token] = true
	}
}

func newRedisStore(t *testing.T, idle time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessionStore(rdb, idle), mr
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	sess, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+sess.Token))

	got, err := store.Get(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.WithinDuration(t, sess.CreatedAt, got.CreatedAt, time.Second)

	require.NoError(t, store.Delete(ctx, sess.Token))
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx, sess.Token))
}

func TestRedisSessionStore_IdleExpiryRefreshedOnGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	sess, err := store.Create(ctx, "alice")
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, sess.Token)
	require.NoError(t, err)

	mr.FastForward(50 * time.Minute)
	_, err = store.Get(ctx, sess.Token)
	require.NoError(t, err)

	mr.FastForward(61 * time.Minute)
	_, err = store.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_DeleteByUsername(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Hour)

	a1, _ := store.Create(ctx, "alice")
	a2, _ := store.Create(ctx, "alice")
	b, _ := store.Create(ctx, "bob")

	require.NoError(t, store.DeleteByUsername(ctx, "alice"))

	for _, tok := range []string{a1.Token, a2.Token} {
		_, err := store.Get(ctx, tok)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	_, err := store.Get(ctx, b.Token)
	assert.NoError(t, err)
}

func TestRedisSessionStore_IndexExpiresAndIsPruned(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)
	indexKey := "admin:alice:sessions"

	old, err := store.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(indexKey))

	mr.FastForward(40 * time.Minute)
	live, err := store.Create(ctx, "alice")
	require.NoError(t, err)

	// old has now been idle for 70 minutes, live for 30.
	mr.FastForward(30 * time.Minute)
	latest, err := store.Create(ctx, "alice")
	require.NoError(t, err)

	members, err := mr.Members(indexKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{live.Token, latest.Token}, members)
	assert.NotContains(t, members, old.Token)

	// Once every session idles out, the index goes with them.
	mr.FastForward(61 * time.Minute)
	assert.False(t, mr.Exists(indexKey))
}
