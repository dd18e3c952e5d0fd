package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/config"
	"github.com/fonsecars/fonsecars-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps sessions in Redis so they survive restarts of the
// web process. Idle expiry is the key TTL, refreshed on every Get.
type RedisSessionStore struct {
	rdb  *redis.Client
	idle time.Duration
}

// NewRedisSessionStore creates a Redis-backed SessionStore.
func NewRedisSessionStore(rdb *redis.Client, idle time.Duration) *RedisSessionStore {
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &RedisSessionStore{rdb: rdb, idle: idle}
}

type redisSession struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *RedisSessionStore) Create(ctx context.Context, username string) (*model.Session, error) {
	token, err := generateToken(32)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	payload, err := json.Marshal(redisSession{Username: username, CreatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	indexKey := config.CacheKey.AdminSessionsKey(username)
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.SessionKey(token), payload, s.idle)
	pipe.SAdd(ctx, indexKey, token)
	pipe.Expire(ctx, indexKey, s.idle)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s.pruneIndex(ctx, indexKey)

	return &model.Session{
		Token:      token,
		Username:   username,
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	key := config.CacheKey.SessionKey(token)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	// The index outlives its newest session by at most the idle timeout.
	pipe := s.rdb.TxPipeline()
	pipe.Expire(ctx, key, s.idle)
	pipe.Expire(ctx, config.CacheKey.AdminSessionsKey(rs.Username), s.idle)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	return &model.Session{
		Token:      token,
		Username:   rs.Username,
		CreatedAt:  rs.CreatedAt,
		LastSeenAt: time.Now().UTC(),
	}, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	key := config.CacheKey.SessionKey(token)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	var rs redisSession
	if json.Unmarshal(raw, &rs) == nil && rs.Username != "" {
		pipe.SRem(ctx, config.CacheKey.AdminSessionsKey(rs.Username), token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteByUsername(ctx context.Context, username string) error {
	indexKey := config.CacheKey.AdminSessionsKey(username)

	tokens, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, config.CacheKey.SessionKey(token))
	}
	keys = append(keys, indexKey)

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// pruneIndex drops tokens whose session key has already expired. Best effort.
func (s *RedisSessionStore) pruneIndex(ctx context.Context, indexKey string) {
	tokens, err := s.rdb.SMembers(ctx, indexKey).Result()
	if err != nil || len(tokens) == 0 {
		return
	}

	pipe := s.rdb.Pipeline()
	exists := make([]*redis.IntCmd, len(tokens))
	for i, token := range tokens {
		exists[i] = pipe.Exists(ctx, config.CacheKey.SessionKey(token))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return
	}

	var stale []interface{}
	for i, cmd := range exists {
		if cmd.Val() == 0 {
			stale = append(stale, tokens[i])
		}
	}
	if len(stale) > 0 {
		s.rdb.SRem(ctx, indexKey, stale...)
	}
}
