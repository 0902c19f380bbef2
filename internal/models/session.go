package models

import "time"

// Session is the server-side record of an authenticated identity. The fields
// besides Token are a snapshot of the user at login time; they go stale if
// the profile is edited and refresh on the next login.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Birthdate time.Time `json:"birthdate"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
