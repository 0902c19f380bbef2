package models

import "time"

// ProfileImage is the raw uploaded image together with its declared MIME type.
// Either both fields are set or the user has no image at all.
type ProfileImage struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
}

// User is a single account record.
type User struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"` // don’t expose hash
	Birthdate    time.Time     `json:"birthdate"`
	Image        *ProfileImage `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}

// HasImage reports whether a profile image was stored at signup.
func (u *User) HasImage() bool {
	return u.Image != nil && len(u.Image.Data) > 0
}
