package livesync

import "time"

// Backoff is a capped exponential reconnection schedule
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoff returns the reconnection schedule used when none is set
func DefaultBackoff() Backoff {
	return Backoff{
		Initial:    500 * time.Millisecond,
		Max:        30 * time.Second,
		Multiplier: 2,
	}
}

// Delay returns the wait before reconnection attempt n (0-based)
func (b Backoff) Delay(attempt int) time.Duration {
	def := DefaultBackoff()
	if b.Initial <= 0 {
		b.Initial = def.Initial
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}
	if b.Multiplier < 1 {
		b.Multiplier = def.Multiplier
	}

	delay := float64(b.Initial)
	for i := 0; i < attempt; i++ {
		delay *= b.Multiplier
		if delay >= float64(b.Max) {
			return b.Max
		}
	}
	return time.Duration(delay)
}
