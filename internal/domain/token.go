package domain

import "time"

// TokenTypeBearer is the token_type reported to clients.
const TokenTypeBearer = "Bearer"

// IssuedToken binds an opaque token value to its owning client.
type IssuedToken struct {
	Token     string
	ClientID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token is unusable at now. A token is invalid
// at and after ExpiresAt.
func (t IssuedToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
