// Package session holds each user's most recently computed chart so an age
// lookup can run without recomputing the cycles. Sessions are isolated by a
// random ID and expire after a TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/valens-periods/internal/periods"
)

// ErrNotFound is returned when a session is unknown or has expired.
var ErrNotFound = errors.New("session not found")

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Session is one user's computed chart.
type Session struct {
	ID        string          `json:"id"`
	Cycles    *periods.Cycles `json:"cycles"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// New wraps cycles in a session with a fresh random ID.
func New(cycles *periods.Cycles, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Cycles:    cycles,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions for the lifetime of their TTL.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) error
	Close() error
}

// ValidID reports whether id is shaped like a session ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
