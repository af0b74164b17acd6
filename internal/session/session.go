// Package session maps opaque login tokens to user ids. Tokens expire after
// a fixed lifetime.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teamsync/teamsync/internal/models"
)

// DefaultTTL is the session lifetime when none is configured
const DefaultTTL = 7 * 24 * time.Hour

// ErrNotFound is returned for unknown or expired tokens
var ErrNotFound = fmt.Errorf("%w: session expired or unknown", models.ErrUnauthorized)

// Session is an authenticated login
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Store keeps sessions
type Store interface {
	Create(ctx context.Context, userID string) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}
