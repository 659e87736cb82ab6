package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt hash and is never serialized to clients.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Author projects the public part of a user for populated references.
func (u *User) Author(withEmail bool) Author {
	a := Author{ID: u.ID, Name: u.Name}
	if withEmail {
		a.Email = u.Email
	}
	return a
}

// Author is the partial user projection that replaces a raw createdBy id
// on read endpoints.
type Author struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NormalizeEmail trims and lower-cases an address; used as the login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
