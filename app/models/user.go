// Package models holds the application's domain records.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record. PasswordHash is a bcrypt digest and never
// serialises into responses.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshSession is one device's long-lived login. Only a SHA-256 hash of
// the refresh token is stored; the raw token exists client-side only.
type RefreshSession struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TokenHash       string
	UserAgent       string
	IPAddress       string
	RotationCounter int
	CreatedAt       time.Time
	LastUsedAt      time.Time
	ExpiresAt       time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *RefreshSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
