package internal

import (
	"context"
	"time"
)

// Actor is the caller identity every core operation receives explicitly,
// instead of an ambient session lookup.
type Actor struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

func (a Actor) IsHR() bool      { return a.Role == RoleHR }
func (a Actor) IsManager() bool { return a.Role == RoleManager }

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
