// Package model defines domain entities for the application.
package model

import "time"

// User is the sole persisted entity: an account holder identified by a
// surrogate key. Username and email are unique across all users and are
// matched case-sensitively (exact match, no normalization).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
