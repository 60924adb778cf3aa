package virtual

import (
	"sync"
	"time"
)

const (
	// DefaultDebounce is the delay scroll bursts are coalesced over
	// (one frame at 60Hz).
	DefaultDebounce = 16 * time.Millisecond
	// DefaultVelocityWindow is the rolling window fast-scroll velocity
	// is estimated over.
	DefaultVelocityWindow = 100 * time.Millisecond
	// DefaultFastThreshold is the velocity, in pixels per second, above
	// which scrolling counts as fast.
	DefaultFastThreshold = 200.0
)

// ScrollHandler coalesces high-frequency scroll events into debounced
// state recomputations, invoking the callback only when the computed
// state actually changed.
type ScrollHandler struct {
	mu       sync.Mutex
	renderer *Renderer
	debounce time.Duration
	callback func(State)

	timer    *time.Timer
	pending  bool
	lastTop  float64
	lastVH   float64
	last     State
	hasState bool
}

// NewScrollHandler creates a scroll handler over the renderer. A zero or
// negative debounce uses the default.
func NewScrollHandler(r *Renderer, debounce time.Duration, callback func(State)) *ScrollHandler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ScrollHandler{
		renderer: r,
		debounce: debounce,
		callback: callback,
	}
}

// OnScroll records a scroll position and schedules a debounced state
// recomputation. Calls arriving while one is pending supersede it.
func (h *ScrollHandler) OnScroll(scrollTop, viewportHeight float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastTop = scrollTop
	h.lastVH = viewportHeight
	if h.pending {
		h.timer.Reset(h.debounce)
		return
	}
	h.pending = true
	h.timer = time.AfterFunc(h.debounce, h.fire)
}

// ForceUpdate recomputes immediately, bypassing the debounce and
// cancelling any pending debounced call.
func (h *ScrollHandler) ForceUpdate(scrollTop, viewportHeight float64) {
	h.mu.Lock()
	h.lastTop = scrollTop
	h.lastVH = viewportHeight
	h.stopLocked()
	h.mu.Unlock()
	h.fire()
}

// Cancel clears any pending debounced recomputation.
func (h *ScrollHandler) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopLocked()
}

// stopLocked stops the pending timer. Caller holds the lock.
func (h *ScrollHandler) stopLocked() {
	if h.pending {
		h.timer.Stop()
		h.pending = false
	}
}

// fire computes the current state and invokes the callback when it
// differs from the last delivered one.
func (h *ScrollHandler) fire() {
	h.mu.Lock()
	h.pending = false
	state := h.renderer.State(h.lastTop, h.lastVH)
	changed := !h.hasState || !state.Equal(h.last)
	h.last = state
	h.hasState = true
	cb := h.callback
	h.mu.Unlock()

	if changed && cb != nil {
		cb(state)
	}
}

// FastScrollDetector estimates scroll velocity over a rolling window and
// flags scrolling as fast above a threshold. Renderers use the flag to
// swap full pages for cheap placeholders mid-fling.
type FastScrollDetector struct {
	mu        sync.Mutex
	window    time.Duration
	threshold float64

	lastY    float64
	lastAt   time.Time
	velocity float64
	primed   bool
}

// NewFastScrollDetector creates a detector. Zero or negative arguments
// use the defaults.
func NewFastScrollDetector(window time.Duration, threshold float64) *FastScrollDetector {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	if threshold <= 0 {
		threshold = DefaultFastThreshold
	}
	return &FastScrollDetector{window: window, threshold: threshold}
}

// Update feeds the current scroll position at the current wall clock.
func (d *FastScrollDetector) Update(scrollTop float64) {
	d.UpdateAt(scrollTop, time.Now())
}

// UpdateAt feeds a scroll position observed at an explicit time. Samples
// separated by more than twice the window reset the velocity estimate:
// the document did not move during the gap, the samples are just stale.
func (d *FastScrollDetector) UpdateAt(scrollTop float64, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.primed {
		d.lastY = scrollTop
		d.lastAt = at
		d.primed = true
		return
	}

	dt := at.Sub(d.lastAt)
	if dt <= 0 {
		return
	}
	if dt > 2*d.window {
		d.velocity = 0
		d.lastY = scrollTop
		d.lastAt = at
		return
	}

	dy := scrollTop - d.lastY
	if dy < 0 {
		dy = -dy
	}
	d.velocity = dy / dt.Seconds()
	d.lastY = scrollTop
	d.lastAt = at
}

// IsFast reports whether the last velocity estimate exceeds the
// threshold.
func (d *FastScrollDetector) IsFast() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.velocity > d.threshold
}

// Velocity returns the last velocity estimate in pixels per second.
func (d *FastScrollDetector) Velocity() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.velocity
}

// Reset clears the velocity estimate and sample history.
func (d *FastScrollDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.velocity = 0
	d.primed = false
}
