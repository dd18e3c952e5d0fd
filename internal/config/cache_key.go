package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the cache key holding an admin session by token
func (r *CacheKeyStruct) SessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// AdminSessionsKey returns the cache key of the set of tokens issued to an admin
func (r *CacheKeyStruct) AdminSessionsKey(username string) string {
	return fmt.Sprintf("admin:%s:sessions", username)
}

// LoginAttemptKey returns the attempt tracker key for a client address and username
func (r *CacheKeyStruct) LoginAttemptKey(clientAddress, username string) string {
	return fmt.Sprintf("login:%s:%s", clientAddress, username)
}

var CacheKey = NewCacheKeyStruct()
