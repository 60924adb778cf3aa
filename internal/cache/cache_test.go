package cache

import (
	"testing"
	"time"

	"github.com/glowdocs/paginate/pkg/document"
)

// fakeView is a synthetic layout oracle with a settable version.
type fakeView struct {
	version  uint64
	blocks   []document.Node
	rects    map[int]document.Rect
	measures int
}

func newFakeView(blockCount int) *fakeView {
	v := &fakeView{version: 1, rects: make(map[int]document.Rect)}
	for i := 0; i < blockCount; i++ {
		pos := i * 10
		v.blocks = append(v.blocks, document.Node{
			Pos: pos, Type: document.TypeParagraph, IsBlock: true, LineHeight: 24,
		})
		top := float64(i) * 40
		v.rects[pos] = document.Rect{Top: top, Bottom: top + 24}
	}
	return v
}

func (v *fakeView) Version() uint64         { return v.version }
func (v *fakeView) Blocks() []document.Node { v.measures++; return v.blocks }
func (v *fakeView) CoordsAt(pos int) (document.Rect, bool) {
	r, ok := v.rects[pos]
	return r, ok
}

func TestLinePositionsMissThenHit(t *testing.T) {
	c := New()
	view := newFakeView(3)

	first := c.LinePositions(view)
	second := c.LinePositions(view)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 lines from both calls, got %d and %d", len(first), len(second))
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected stats {hits:1 misses:1}, got {hits:%d misses:%d}", stats.Hits, stats.Misses)
	}
	if stats.Size != 3 {
		t.Errorf("expected size 3, got %d", stats.Size)
	}
}

func TestLinePositionsRecomputesOnVersionChange(t *testing.T) {
	c := New()
	view := newFakeView(2)

	c.LinePositions(view)
	view.version = 2
	c.LinePositions(view)

	stats := c.Stats()
	if stats.Misses != 2 {
		t.Errorf("expected 2 misses across versions, got %d", stats.Misses)
	}
	if stats.Hits != 0 {
		t.Errorf("expected no hits, got %d", stats.Hits)
	}
}

func TestPageBreaksMemo(t *testing.T) {
	c := New()

	first := c.PageBreaks(2500, 828)
	second := c.PageBreaks(2500, 828)
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 breaks, got %d and %d", len(first), len(second))
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected one memo hit and one miss, got {hits:%d misses:%d}", stats.Hits, stats.Misses)
	}

	// Changing either parameter recomputes.
	c.PageBreaks(2500, 600)
	if got := c.Stats().Misses; got != 2 {
		t.Errorf("expected a miss on parameter change, got %d misses", got)
	}
}

func TestSetManualBreaksDropsMemo(t *testing.T) {
	c := New()
	c.PageBreaks(2500, 828)
	c.SetManualBreaks([]float64{400})

	breaks := c.PageBreaks(2500, 828)
	found := false
	for _, b := range breaks {
		if b == 400 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected manual break 400 after memo drop, got %v", breaks)
	}
}

func TestInvalidateRangeForcesRecompute(t *testing.T) {
	c := New()
	view := newFakeView(5) // positions 0, 10, 20, 30, 40

	c.LinePositions(view)
	c.InvalidateRange(10, 20)

	if c.IsCached(10) {
		t.Error("expected position 10 not cached after invalidation")
	}
	if !c.IsCached(40) {
		t.Error("expected position 40 still cached")
	}

	// The snapshot carries dirty ranges, so the same version recomputes.
	c.LinePositions(view)
	stats := c.Stats()
	if stats.Misses != 2 {
		t.Errorf("expected recompute after range invalidation, got %d misses", stats.Misses)
	}
	if !c.IsCached(10) {
		t.Error("expected position 10 cached again after recompute")
	}
}

func TestInvalidateRangeReversedAndNegative(t *testing.T) {
	c := New()
	view := newFakeView(3)
	c.LinePositions(view)

	c.InvalidateRange(20, 0) // reversed covers [0, 20]
	if c.IsCached(10) {
		t.Error("expected reversed range to invalidate position 10")
	}

	// Negative bounds and an empty cache never panic.
	c.InvalidateAll()
	c.InvalidateRange(-5, -1)
	c.InvalidateRange(3, -3)
}

func TestInvalidateAllResetsStats(t *testing.T) {
	c := New()
	view := newFakeView(2)

	c.LinePositions(view)
	c.LinePositions(view)
	c.PageBreaks(2500, 828)
	c.InvalidateAll()

	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Size != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if c.IsCached(0) {
		t.Error("expected nothing cached after InvalidateAll")
	}
}

func TestIsCachedUnknownPosition(t *testing.T) {
	c := New()
	if c.IsCached(123) {
		t.Error("expected unknown position not cached on empty cache")
	}

	view := newFakeView(1)
	c.LinePositions(view)
	if c.IsCached(999) {
		t.Error("expected unknown position not cached")
	}
}

func TestVersionEvictionBound(t *testing.T) {
	c := New(WithMaxVersions(2))
	view := newFakeView(1)

	for v := uint64(1); v <= 4; v++ {
		view.version = v
		c.LinePositions(view)
	}

	stats := c.Stats()
	if stats.Evictions != 2 {
		t.Errorf("expected 2 evictions over the bound, got %d", stats.Evictions)
	}
	if stats.Size != 2 {
		t.Errorf("expected 2 live snapshots worth of lines, got size %d", stats.Size)
	}
}

// fakeScheduler records scheduled work and runs it only when told to.
type fakeScheduler struct {
	fns       []func()
	cancelled int
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) func() {
	s.fns = append(s.fns, fn)
	return func() { s.cancelled++ }
}

func (s *fakeScheduler) runLast() {
	if len(s.fns) > 0 {
		s.fns[len(s.fns)-1]()
	}
}

func TestScheduleMeasureSmallViewRunsSynchronously(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(WithScheduler(sched), WithSyncThreshold(10))
	view := newFakeView(3)

	c.ScheduleMeasure(view)

	if len(sched.fns) != 0 {
		t.Errorf("expected small view measured synchronously, %d deferred", len(sched.fns))
	}
	if got := c.Stats().Misses; got != 1 {
		t.Errorf("expected immediate measurement, got %d misses", got)
	}
}

func TestScheduleMeasureLargeViewDefersAndCoalesces(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(WithScheduler(sched), WithSyncThreshold(2))
	view := newFakeView(5)

	c.ScheduleMeasure(view)
	c.ScheduleMeasure(view)

	if got := c.Stats().Misses; got != 0 {
		t.Fatalf("expected no synchronous measurement, got %d misses", got)
	}
	if len(sched.fns) != 2 || sched.cancelled != 1 {
		t.Errorf("expected the second schedule to cancel the first, got %d scheduled %d cancelled",
			len(sched.fns), sched.cancelled)
	}

	sched.runLast()
	if got := c.Stats().Misses; got != 1 {
		t.Errorf("expected deferred measurement to run, got %d misses", got)
	}
}

func TestCancelScheduled(t *testing.T) {
	sched := &fakeScheduler{}
	c := New(WithScheduler(sched), WithSyncThreshold(1))
	view := newFakeView(3)

	c.ScheduleMeasure(view)
	c.CancelScheduled()

	if sched.cancelled != 1 {
		t.Errorf("expected 1 cancellation, got %d", sched.cancelled)
	}
}
