package catapi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces a minimum interval between consecutive outbound calls.
//
// It is a token bucket with burst 1 refilled every interval. Reservations are
// taken at the injected clock's time instead of time.Now, so tests can drive
// the timeline without real waiting.
type Throttle struct {
	mu       sync.Mutex
	lim      *rate.Limiter
	clock    Clock
	interval time.Duration
	last     time.Time
}

func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Throttle{
		lim:      rate.NewLimiter(rate.Every(interval), 1),
		clock:    clock,
		interval: interval,
	}
}

func (t *Throttle) Interval() time.Duration { return t.interval }

// Last returns the start time of the most recent attempt. It is the zero time
// until the first Wait.
func (t *Throttle) Last() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Wait reserves the next slot and blocks until it arrives. The slot is
// consumed even when ctx is cancelled during the wait.
func (t *Throttle) Wait(ctx context.Context) (time.Time, error) {
	t.mu.Lock()
	now := t.clock.Now()
	r := t.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	slot := now.Add(delay)
	// The bucket works in float tokens and can land a nanosecond early.
	if !t.last.IsZero() {
		if earliest := t.last.Add(t.interval); slot.Before(earliest) {
			slot = earliest
			delay = slot.Sub(now)
		}
	}
	t.last = slot
	t.mu.Unlock()

	if err := t.clock.Sleep(ctx, delay); err != nil {
		return slot, err
	}
	return slot, nil
}
