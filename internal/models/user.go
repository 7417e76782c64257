// Package models defines the persistent entities of the userledger service.
package models

// User represents a stored user account. PasswordHash is never serialized;
// API responses use types.PublicUser instead.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
