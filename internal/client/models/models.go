// Package models holds the client-side view of API payloads.
package models

import "time"

// User is the public account profile.
type User struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

// AuthResult is a session token together with its account.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Entry is one item of the personal capability list.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SaveResult is the server's answer to a save: what was added and the
// notice to display, if any.
type SaveResult struct {
	Added  []Entry `json:"added"`
	Notice string  `json:"notice,omitempty"`
}

// CommunityEntry is a shared category/capability pair.
type CommunityEntry struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Capability string    `json:"capability"`
	CreatedAt  time.Time `json:"createdAt"`
}
