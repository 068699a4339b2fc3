// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered identity. At least one of PasswordHash or GoogleID
// is set.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash *string
	GoogleID     *string
	Picture      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with a password.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// ProviderProfile is the identity returned by an external OAuth provider.
type ProviderProfile struct {
	ProviderID string
	Email      string
	Name       string
	Picture    string
}
