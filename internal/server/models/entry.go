package models

import "time"

// PersonalEntry is a capability label owned by one account.
type PersonalEntry struct {
	ID        string
	OwnerID   string
	Content   string
	CreatedAt time.Time
}

// CommunityEntry is a (category, capability) pair in the shared taxonomy.
type CommunityEntry struct {
	ID         string
	Category   string
	Capability string
	CreatedAt  time.Time
}
