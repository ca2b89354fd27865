package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances its time by the requested duration on every Sleep.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps++
	c.now = c.now.Add(d)
	return nil
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestMaxAttempts(t *testing.T) {
	tests := []struct {
		interval time.Duration
		timeout  time.Duration
		expected int
	}{
		{10 * time.Second, 30 * time.Minute, 180},
		{10 * time.Second, 25 * time.Second, 3},
		{10 * time.Second, 10 * time.Second, 1},
		{0, time.Minute, 0},
		{time.Second, 0, 0},
	}

	for _, tt := range tests {
		p := Policy{Interval: tt.interval, Timeout: tt.timeout}
		if got := p.MaxAttempts(); got != tt.expected {
			t.Errorf("MaxAttempts(%v, %v) = %d, want %d", tt.interval, tt.timeout, got, tt.expected)
		}
	}
}

func TestWaitDoneOnFirstCheck(t *testing.T) {
	clock := newFakeClock()
	p := Policy{Interval: 10 * time.Second, Timeout: 30 * time.Minute, Clock: clock}

	calls := 0
	res, err := p.Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return true, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 check, got %d", calls)
	}
	if !res.Done || res.TimedOut {
		t.Errorf("expected Done and not TimedOut, got %+v", res)
	}
}

func TestWaitTimesOutAfterBudget(t *testing.T) {
	clock := newFakeClock()
	p := Policy{Interval: 10 * time.Second, Timeout: 30 * time.Minute, Clock: clock}

	calls := 0
	res, err := p.Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 180 {
		t.Errorf("expected 180 checks, got %d", calls)
	}
	if res.Done || !res.TimedOut {
		t.Errorf("expected TimedOut, got %+v", res)
	}
	if res.Attempts != 180 {
		t.Errorf("expected 180 attempts, got %d", res.Attempts)
	}
}

func TestWaitStopsOnWallClock(t *testing.T) {
	clock := newFakeClock()
	p := Policy{Interval: 10 * time.Second, Timeout: time.Minute, Clock: clock}

	calls := 0
	res, err := p.Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		// each check takes far longer than the interval
		clock.now = clock.now.Add(25 * time.Second)
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 checks, got %d", calls)
	}
	if !res.TimedOut {
		t.Errorf("expected TimedOut, got %+v", res)
	}
}

func TestWaitReturnsCheckError(t *testing.T) {
	clock := newFakeClock()
	p := Policy{Interval: time.Second, Timeout: time.Minute, Clock: clock}
	boom := errors.New("boom")

	calls := 0
	_, err := p.Wait(context.Background(), func(context.Context) (bool, error) {
		calls++
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected failed check not to be retried, got %d calls", calls)
	}
}

func TestWaitCancelled(t *testing.T) {
	clock := newFakeClock()
	p := Policy{Interval: time.Second, Timeout: time.Minute, Clock: clock}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx, func(context.Context) (bool, error) {
		t.Fatal("check should not run after cancellation")
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitInvalidPolicy(t *testing.T) {
	_, err := Policy{}.Wait(context.Background(), func(context.Context) (bool, error) {
		return true, nil
	})
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestRealClockSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (RealClock{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
