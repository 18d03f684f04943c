package capture

import (
	"context"
	"sync"
	"time"
)

// clock is the session duration clock: a cancellable periodic ticker.
// It ticks unconditionally at its interval from start until stop -- the
// session decides per tick whether the counter advances. The count is a
// count of observed ticks, not a wall-clock measurement; divergence under
// scheduling delay is accepted.
type clock struct {
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

func newClock(interval time.Duration) *clock {
	return &clock{interval: interval}
}

// start begins ticking, invoking onTick once per interval. No-op if the
// clock is already running.
func (c *clock) start(onTick func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.running = true

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				onTick()
			}
		}
	}()
}

// stop cancels the ticker. Safe to call multiple times and before start.
func (c *clock) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.cancel()
	c.running = false
}
