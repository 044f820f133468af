package domain

import (
	"math/big"
	"time"
)

// DefaultDeadlineWindow is the grace period added to the current time.
const DefaultDeadlineWindow = 600 * time.Second

// Deadline is a swap expiry in milliseconds since the Unix epoch.
// The SaucerSwap router compares it against a millisecond clock, so a
// seconds value is always already expired.
type Deadline int64

// NewDeadline returns now + window in milliseconds.
func NewDeadline(now time.Time, window time.Duration) Deadline {
	return Deadline(now.UnixMilli() + window.Milliseconds())
}

// Big returns the deadline as a uint256 call argument.
func (d Deadline) Big() *big.Int {
	return big.NewInt(int64(d))
}

// Time converts back to a wall-clock time.
func (d Deadline) Time() time.Time {
	return time.UnixMilli(int64(d))
}
