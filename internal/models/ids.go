package models

import "github.com/google/uuid"

// NewID returns a fresh UUID-shaped identifier
func NewID() string {
	return uuid.NewString()
}

// ensureID assigns a new identifier when id is empty
func ensureID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}

// ensureVersion starts optimistic-concurrency counters at 1
func ensureVersion(v *int) {
	if *v == 0 {
		*v = 1
	}
}
