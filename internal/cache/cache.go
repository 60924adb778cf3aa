// Package cache memoizes line extraction and break computation keyed by
// the host document's version signal. Snapshots are immutable: a stale or
// partially invalidated snapshot is recomputed wholesale, never patched.
package cache

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/glowdocs/paginate/internal/measure"
	"github.com/glowdocs/paginate/internal/pagination"
	"github.com/glowdocs/paginate/pkg/document"
)

// DefaultMaxVersions bounds how many document versions keep their line
// snapshots cached before the least recently used one is evicted.
const DefaultMaxVersions = 16

// Stats represents cache effectiveness counters. Size is the number of
// cached line positions across all live snapshots.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// snapshot is the cached measurement of one document version, threaded
// onto a doubly linked recency list.
type snapshot struct {
	version uint64
	lines   []document.LinePosition
	dirty   []dirtyRange

	prev, next *snapshot
}

// dirtyRange marks a span of node positions whose cached lines are stale.
type dirtyRange struct {
	from, to int
}

func (r dirtyRange) contains(pos int) bool {
	return pos >= r.from && pos <= r.to
}

// Cache memoizes measurement results. All methods are safe for use from
// the idle-measurement timer alongside the interactive path.
type Cache struct {
	mu sync.Mutex

	entries map[uint64]*snapshot
	head    *snapshot // most recently used
	tail    *snapshot
	max     int

	// single-slot memo for break positions
	breakCH    float64
	breakPH    float64
	breaks     []float64
	breakValid bool
	manual     []float64

	hits      uint64
	misses    uint64
	evictions uint64

	idle idleState
	log  zerolog.Logger
}

// Option is a function that modifies a Cache
type Option func(*Cache)

// WithMaxVersions bounds the number of cached version snapshots.
func WithMaxVersions(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.max = n
		}
	}
}

// WithManualBreaks sets the user-requested break positions merged into
// every break computation.
func WithManualBreaks(breaks []float64) Option {
	return func(c *Cache) {
		c.manual = append([]float64(nil), breaks...)
	}
}

// WithLogger sets the logger used for cache tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New creates a new measurement cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[uint64]*snapshot),
		max:     DefaultMaxVersions,
		log:     zerolog.Nop(),
		idle:    defaultIdleState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LinePositions returns the line positions for the view's current
// version, recomputing when the version is not cached or its snapshot
// carries invalidated ranges.
func (c *Cache) LinePositions(view document.View) []document.LinePosition {
	if view == nil {
		return nil
	}
	version := view.Version()

	c.mu.Lock()
	if s, ok := c.entries[version]; ok && len(s.dirty) == 0 {
		c.hits++
		c.moveToFront(s)
		lines := s.lines
		c.mu.Unlock()
		c.log.Debug().Uint64("version", version).Msg("line cache hit")
		return lines
	}
	c.misses++
	c.mu.Unlock()

	// Measure outside the lock; the host view is single-threaded and the
	// walk can be slow on large documents.
	lines := measure.Lines(view)

	c.mu.Lock()
	c.store(version, lines)
	c.mu.Unlock()
	c.log.Debug().Uint64("version", version).Int("lines", len(lines)).Msg("line cache miss")
	return lines
}

// PageBreaks returns the break positions for the given content height and
// per-page height, memoizing the last computed pair.
func (c *Cache) PageBreaks(contentHeight, perPage float64) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.breakValid && c.breakCH == contentHeight && c.breakPH == perPage {
		c.hits++
		return c.breaks
	}
	c.misses++
	c.breaks = pagination.Positions(contentHeight, perPage, c.manual)
	c.breakCH = contentHeight
	c.breakPH = perPage
	c.breakValid = true
	return c.breaks
}

// SetManualBreaks replaces the manual break positions and drops the break
// memo so the next query recomputes.
func (c *Cache) SetManualBreaks(breaks []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manual = append([]float64(nil), breaks...)
	c.breakValid = false
}

// InvalidateRange marks cached lines whose node position falls within
// [from, to] as stale. Reversed ranges are normalized; calling with
// nothing cached is a no-op.
func (c *Cache) InvalidateRange(from, to int) {
	if from > to {
		from, to = to, from
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.entries {
		if snapshotOverlaps(s, from, to) {
			s.dirty = append(s.dirty, dirtyRange{from: from, to: to})
		}
	}
}

// InvalidateAll drops every snapshot, the break memo, any scheduled idle
// measurement, and resets the counters.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[uint64]*snapshot)
	c.head = nil
	c.tail = nil
	c.breakValid = false
	c.breaks = nil
	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.cancelScheduledLocked()
}

// IsCached reports whether the most recent snapshot holds a line for the
// given node position that has not been invalidated.
func (c *Cache) IsCached(pos int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.head
	if s == nil {
		return false
	}
	for _, r := range s.dirty {
		if r.contains(pos) {
			return false
		}
	}
	for _, l := range s.lines {
		if l.NodePos == pos {
			return true
		}
	}
	return false
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := 0
	for _, s := range c.entries {
		size += len(s.lines)
	}
	return Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions, Size: size}
}

// store replaces or inserts the snapshot for a version and evicts the
// least recently used snapshots beyond the bound. Caller holds the lock.
func (c *Cache) store(version uint64, lines []document.LinePosition) {
	if s, ok := c.entries[version]; ok {
		s.lines = lines
		s.dirty = nil
		c.moveToFront(s)
		return
	}

	s := &snapshot{version: version, lines: lines}
	c.entries[version] = s
	c.pushFront(s)

	for len(c.entries) > c.max && c.tail != nil {
		evict := c.tail
		c.unlink(evict)
		delete(c.entries, evict.version)
		c.evictions++
	}
}

func (c *Cache) pushFront(s *snapshot) {
	s.prev = nil
	s.next = c.head
	if c.head != nil {
		c.head.prev = s
	}
	c.head = s
	if c.tail == nil {
		c.tail = s
	}
}

func (c *Cache) unlink(s *snapshot) {
	if s.prev != nil {
		s.prev.next = s.next
	}
	if s.next != nil {
		s.next.prev = s.prev
	}
	if s == c.head {
		c.head = s.next
	}
	if s == c.tail {
		c.tail = s.prev
	}
	s.prev = nil
	s.next = nil
}

func (c *Cache) moveToFront(s *snapshot) {
	if s == c.head {
		return
	}
	c.unlink(s)
	c.pushFront(s)
}

// snapshotOverlaps reports whether any cached line of the snapshot falls
// within the node position range.
func snapshotOverlaps(s *snapshot, from, to int) bool {
	for _, l := range s.lines {
		if l.NodePos >= from && l.NodePos <= to {
			return true
		}
	}
	return false
}
