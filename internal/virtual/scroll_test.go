package virtual

import (
	"sync"
	"testing"
	"time"
)

// collectStates gathers callback invocations behind a lock so the
// debounce timer goroutine can append safely.
type collectStates struct {
	mu     sync.Mutex
	states []State
}

func (c *collectStates) add(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, s)
}

func (c *collectStates) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

func TestScrollHandlerDebouncesBursts(t *testing.T) {
	r := NewRenderer(Config{TotalPages: 20, PageHeight: 1056, PageGap: 32})
	var got collectStates
	h := NewScrollHandler(r, 10*time.Millisecond, got.add)
	defer h.Cancel()

	for i := 0; i < 20; i++ {
		h.OnScroll(float64(i)*500, 1056)
	}
	time.Sleep(50 * time.Millisecond)

	if n := got.count(); n != 1 {
		t.Errorf("expected 1 coalesced callback, got %d", n)
	}
}

func TestScrollHandlerSkipsUnchangedState(t *testing.T) {
	r := NewRenderer(Config{TotalPages: 20, PageHeight: 1056, PageGap: 32})
	var got collectStates
	h := NewScrollHandler(r, 5*time.Millisecond, got.add)
	defer h.Cancel()

	h.OnScroll(100, 1056)
	time.Sleep(30 * time.Millisecond)
	// Same position again: state is identical, callback must not refire.
	h.OnScroll(100, 1056)
	time.Sleep(30 * time.Millisecond)

	if n := got.count(); n != 1 {
		t.Errorf("expected 1 callback for unchanged state, got %d", n)
	}
}

func TestScrollHandlerForceUpdate(t *testing.T) {
	r := NewRenderer(Config{TotalPages: 20, PageHeight: 1056, PageGap: 32})
	var got collectStates
	h := NewScrollHandler(r, time.Hour, got.add)
	defer h.Cancel()

	h.OnScroll(500, 1056)
	h.ForceUpdate(5000, 1056)

	if n := got.count(); n != 1 {
		t.Fatalf("expected 1 immediate callback, got %d", n)
	}
	// The hour-long debounced call must have been cancelled.
	time.Sleep(20 * time.Millisecond)
	if n := got.count(); n != 1 {
		t.Errorf("expected pending debounce cancelled, got %d callbacks", n)
	}
}

func TestScrollHandlerCancel(t *testing.T) {
	r := NewRenderer(Config{TotalPages: 20, PageHeight: 1056, PageGap: 32})
	var got collectStates
	h := NewScrollHandler(r, 10*time.Millisecond, got.add)

	h.OnScroll(500, 1056)
	h.Cancel()
	time.Sleep(40 * time.Millisecond)

	if n := got.count(); n != 0 {
		t.Errorf("expected no callbacks after cancel, got %d", n)
	}
}

func TestFastScrollDetectorVelocity(t *testing.T) {
	d := NewFastScrollDetector(100*time.Millisecond, 200)

	start := time.Now()
	d.UpdateAt(0, start)
	if d.IsFast() {
		t.Error("expected single sample not to count as fast")
	}

	// 50px in 50ms = 1000 px/s, well above the 200 px/s threshold.
	d.UpdateAt(50, start.Add(50*time.Millisecond))
	if !d.IsFast() {
		t.Errorf("expected fast at velocity %v", d.Velocity())
	}

	// 5px in 50ms = 100 px/s, below threshold.
	d.UpdateAt(55, start.Add(100*time.Millisecond))
	if d.IsFast() {
		t.Errorf("expected slow at velocity %v", d.Velocity())
	}
}

func TestFastScrollDetectorUpwardScroll(t *testing.T) {
	d := NewFastScrollDetector(100*time.Millisecond, 200)

	start := time.Now()
	d.UpdateAt(5000, start)
	d.UpdateAt(4950, start.Add(50*time.Millisecond))
	if !d.IsFast() {
		t.Errorf("expected upward scrolling to count, velocity %v", d.Velocity())
	}
}

func TestFastScrollDetectorStaleSamplesReset(t *testing.T) {
	d := NewFastScrollDetector(100*time.Millisecond, 200)

	start := time.Now()
	d.UpdateAt(0, start)
	d.UpdateAt(100, start.Add(50*time.Millisecond))
	if !d.IsFast() {
		t.Fatalf("expected fast before the gap, velocity %v", d.Velocity())
	}

	// A sample after more than twice the window must not produce a huge
	// instantaneous velocity from the stale position.
	d.UpdateAt(10000, start.Add(500*time.Millisecond))
	if d.IsFast() {
		t.Errorf("expected stale gap to reset velocity, got %v", d.Velocity())
	}
}

func TestFastScrollDetectorReset(t *testing.T) {
	d := NewFastScrollDetector(100*time.Millisecond, 200)

	start := time.Now()
	d.UpdateAt(0, start)
	d.UpdateAt(100, start.Add(10*time.Millisecond))
	d.Reset()

	if d.IsFast() {
		t.Error("expected reset to clear fast state")
	}
	if d.Velocity() != 0 {
		t.Errorf("expected zero velocity after reset, got %v", d.Velocity())
	}
}
