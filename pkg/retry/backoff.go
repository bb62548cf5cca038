package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff calculates the delay before a retry.
// Implementations must be safe for concurrent use.
type Backoff interface {
	// Delay returns the wait before retry number attempt (1 for the first retry).
	Delay(attempt int) time.Duration
}

// Exponential grows the delay by Multiplier on every retry, with optional
// jitter and an upper bound.
//
//	delay = min(Initial * Multiplier^(attempt-1) * (1 ± Jitter), Max)
//
// Zero fields fall back to 500ms, 10s and 2. Zero jitter is deterministic.
type Exponential struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

func (e Exponential) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.Initial
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	maxDelay := e.Max
	if maxDelay <= 0 {
		maxDelay = 10 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if e.Jitter > 0 {
		interval *= 1 + (rand.Float64()*2-1)*e.Jitter
	}
	if interval > float64(maxDelay) {
		interval = float64(maxDelay)
	}
	return time.Duration(interval)
}

// Constant waits the same Interval before every retry.
type Constant struct {
	Interval time.Duration
}

func (c Constant) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return c.Interval
}

// DefaultBackoff returns exponential backoff starting at 500ms, doubling up
// to 10s, with 10% jitter.
func DefaultBackoff() Backoff {
	return Exponential{
		Initial:    500 * time.Millisecond,
		Max:        10 * time.Second,
		Multiplier: 2,
		Jitter:     0.1,
	}
}
