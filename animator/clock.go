package animator

import (
	"context"
	"time"
)

// Clock paces the animation frames. Abstracting it lets tests drive
// the state machine instantly and deterministically.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is cancelled, returning the
	// context error in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall-clock implementation used in production.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

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
