// Package interrupt carries the cooperative cancellation used by every
// long-running piece of the installer: a zero-argument predicate that is
// polled, never waited on.
package interrupt

import (
	"context"
	"errors"
	"time"
)

// PollInterval bounds how long any sleep runs between two polls of a Check.
const PollInterval = 20 * time.Millisecond

// ErrInterrupted is returned from every operation that observed a positive
// Check. It unwinds the whole installer loop.
var ErrInterrupted = errors.New("installation interrupted by user")

// Check reports whether the user asked to stop. It must not block.
type Check func() bool

// Never is a Check that never fires.
func Never() bool { return false }

// FromContext polls ctx without waiting on it.
func FromContext(ctx context.Context) Check {
	return func() bool {
		return ctx.Err() != nil
	}
}

// Err returns ErrInterrupted if c fires. A nil Check never fires.
func (c Check) Err() error {
	if c != nil && c() {
		return ErrInterrupted
	}
	return nil
}

// Sleep waits for d, polling c at least every PollInterval. It returns
// ErrInterrupted as soon as c fires.
func Sleep(d time.Duration, c Check) error {
	if err := c.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		time.Sleep(min(remaining, PollInterval))
		if err := c.Err(); err != nil {
			return err
		}
	}
}

// Scale multiplies a millisecond figure by a time scale. A scale of zero makes
// every delay instant; negative scales are treated as zero.
func Scale(ms int, scale float64) time.Duration {
	if scale <= 0 || ms <= 0 {
		return 0
	}
	return time.Duration(float64(ms) * scale * float64(time.Millisecond))
}
