package model

import "time"

// Session binds an opaque token to an authenticated admin.
type Session struct {
	Token      string    `json:"-"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Identity is the authenticated caller of a request. IsSuperadmin is derived
// from the username each time the session is resolved.
type Identity struct {
	Username     string `json:"username"`
	IsSuperadmin bool   `json:"is_superadmin"`
}
