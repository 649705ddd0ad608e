// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash holds the encoded one-way hash
// and must never leave the server.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
