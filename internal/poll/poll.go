// Package poll implements a timed retry policy for waiting on asynchronous
// server-side jobs.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidPolicy is returned when a policy has a non-positive interval or
// timeout.
var ErrInvalidPolicy = errors.New("poll: interval and timeout must be positive")

// Clock abstracts time so that polling can be tested without waiting.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is a Clock backed by the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is cancelled.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckFunc performs one status fetch and reports whether the job reached a
// terminal state.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Policy describes how often to check and for how long.
type Policy struct {
	Interval time.Duration
	Timeout  time.Duration
	Clock    Clock // nil means RealClock
}

// Result describes how a wait ended.
type Result struct {
	Attempts int
	Done     bool
	TimedOut bool
	Elapsed  time.Duration
}

// MaxAttempts returns the largest number of checks a wait can perform,
// ceil(Timeout / Interval).
func (p Policy) MaxAttempts() int {
	if p.Interval <= 0 || p.Timeout <= 0 {
		return 0
	}
	n := p.Timeout / p.Interval
	if p.Timeout%p.Interval != 0 {
		n++
	}
	return int(n)
}

func (p Policy) clock() Clock {
	if p.Clock == nil {
		return RealClock{}
	}
	return p.Clock
}

// Wait sleeps one interval, then calls check, repeating until check reports
// done, the attempt budget is spent, or the wall-clock timeout passes.
// Exactly one check runs per interval and failed checks are not retried:
// an error from check ends the wait and is returned as is.
func (p Policy) Wait(ctx context.Context, check CheckFunc) (Result, error) {
	maxAttempts := p.MaxAttempts()
	if maxAttempts == 0 {
		return Result{}, ErrInvalidPolicy
	}

	clock := p.clock()
	start := clock.Now()
	var res Result

	for {
		if err := clock.Sleep(ctx, p.Interval); err != nil {
			res.Elapsed = clock.Now().Sub(start)
			return res, err
		}

		res.Attempts++
		done, err := check(ctx)
		res.Elapsed = clock.Now().Sub(start)
		if err != nil {
			return res, err
		}
		if done {
			res.Done = true
			return res, nil
		}
		if res.Attempts >= maxAttempts || res.Elapsed >= p.Timeout {
			res.TimedOut = true
			return res, nil
		}
	}
}
