// Package session defines the key/value contract interview state is kept
// behind, plus an in-memory implementation.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/soyeahso/adaudit/internal/domain"
)

// DefaultTTL is how long an abandoned interview survives.
const DefaultTTL = 6 * time.Hour

// ErrInvalidKey is returned for an empty conversation key.
var ErrInvalidKey = errors.New("session: empty key")

// Store persists interview sessions by conversation key.
type Store interface {
	// Get returns the session for key, or nil when absent or expired.
	Get(ctx context.Context, key string) (*domain.Session, error)

	// Set stores the session, replacing any previous one, for ttl.
	Set(ctx context.Context, key string, s *domain.Session, ttl time.Duration) error

	// Delete removes the session. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
