// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is the stored account record. PasswordHash is a bcrypt digest and is
// never serialized outward; hand callers an Identity instead.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
}

// Identity is the public view of a User.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
}

// Identity strips the credential material from u.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Session is what a successful registration or login hands back.
type Session struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"user"`
}
