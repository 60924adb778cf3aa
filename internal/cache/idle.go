package cache

import (
	"time"

	"github.com/glowdocs/paginate/pkg/document"
)

const (
	// DefaultIdleDelay is how long deferred measurement waits on the
	// fallback timer before running.
	DefaultIdleDelay = 50 * time.Millisecond
	// DefaultSyncThreshold is the block count above which off-screen
	// measurement is deferred instead of running on the triggering
	// event.
	DefaultSyncThreshold = 200
)

// Scheduler defers a function until the host is idle. The returned cancel
// function stops the callback if it has not already fired. The default
// implementation is a plain timer; hosts with a real frame loop can
// supply their own.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// timerScheduler is the timer fallback for hosts without an idle
// callback primitive.
type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

type idleState struct {
	scheduler Scheduler
	delay     time.Duration
	threshold int
	cancel    func()
}

func defaultIdleState() idleState {
	return idleState{
		scheduler: timerScheduler{},
		delay:     DefaultIdleDelay,
		threshold: DefaultSyncThreshold,
	}
}

// WithScheduler replaces the idle scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Cache) {
		if s != nil {
			c.idle.scheduler = s
		}
	}
}

// WithIdleDelay sets the delay used by the fallback timer scheduler.
func WithIdleDelay(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.idle.delay = d
		}
	}
}

// WithSyncThreshold sets the block count at which measurement moves off
// the interactive path.
func WithSyncThreshold(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.idle.threshold = n
		}
	}
}

// ScheduleMeasure measures the view immediately when it is small and
// defers the work when it is large. Repeated calls coalesce: a pending
// deferred measurement is replaced, never stacked. Callers that need
// geometry for the visible region call LinePositions directly; deferral
// never sits on that path.
func (c *Cache) ScheduleMeasure(view document.View) {
	if view == nil {
		return
	}
	if len(view.Blocks()) < c.idle.threshold {
		c.LinePositions(view)
		return
	}

	c.mu.Lock()
	c.cancelScheduledLocked()
	sched := c.idle.scheduler
	delay := c.idle.delay
	c.mu.Unlock()

	cancel := sched.Schedule(delay, func() {
		c.mu.Lock()
		c.idle.cancel = nil
		c.mu.Unlock()
		c.LinePositions(view)
	})

	c.mu.Lock()
	c.cancelScheduledLocked()
	c.idle.cancel = cancel
	c.mu.Unlock()
}

// CancelScheduled drops any pending deferred measurement.
func (c *Cache) CancelScheduled() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelScheduledLocked()
}

// cancelScheduledLocked is the lock-held half of CancelScheduled.
func (c *Cache) cancelScheduledLocked() {
	if c.idle.cancel != nil {
		c.idle.cancel()
		c.idle.cancel = nil
	}
}
