package types

import (
	"context"
	"time"
)

// Clock abstracts time for testability. A simulated clock substitutes for
// the real one in tests and in test-wave mode.
type Clock interface {
	Now() time.Time
	// Sleep blocks until the duration elapses or the context is canceled.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Sleep waits for d or until ctx is canceled, whichever comes first.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PositionSource supplies the latest observer position. A missing or stale
// position is reported as ok=false, never substituted with a default
// coordinate.
type PositionSource interface {
	Current(ctx context.Context) (pos Position, ok bool, err error)
}

// StaticPositionSource is a PositionSource pinned to a fixed coordinate.
// Used for tests and for API requests that carry the observer position.
type StaticPositionSource struct {
	Position Position
}

// Current returns the pinned position.
func (s StaticPositionSource) Current(context.Context) (Position, bool, error) {
	return s.Position, true, nil
}
