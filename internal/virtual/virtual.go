// Package virtual decides which pages of a paginated document must be
// mounted for the current viewport. Pages outside the buffered window are
// decorative placeholders; only the window is rendered.
package virtual

import (
	"math"
	"sync"
)

// DefaultBufferSize is the number of extra pages kept rendered on each
// side of the visible range.
const DefaultBufferSize = 2

// Config represents the geometry a renderer operates on.
type Config struct {
	TotalPages int
	PageHeight float64
	PageGap    float64
	BufferSize int
}

// State represents the renderer's answer for one viewport position.
type State struct {
	VisiblePages   []int
	BufferedPages  []int
	TotalPages     int
	ScrollTop      float64
	ViewportHeight float64
}

// Range is an inclusive page-index interval.
type Range struct {
	Start int
	End   int
}

// Renderer computes page visibility from scroll geometry. Methods are
// safe for concurrent use; SetTotalPages takes effect on the next query.
type Renderer struct {
	mu  sync.Mutex
	cfg Config
}

// NewRenderer creates a new virtual renderer. TotalPages is clamped to at
// least 1, BufferSize defaults to 2 when negative or unset.
func NewRenderer(cfg Config) *Renderer {
	if cfg.TotalPages < 1 {
		cfg.TotalPages = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.PageHeight < 0 {
		cfg.PageHeight = 0
	}
	if cfg.PageGap < 0 {
		cfg.PageGap = 0
	}
	return &Renderer{cfg: cfg}
}

// SetTotalPages updates the page count, clamped to at least 1.
func (r *Renderer) SetTotalPages(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 1 {
		n = 1
	}
	r.cfg.TotalPages = n
}

// TotalPages returns the current page count.
func (r *Renderer) TotalPages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.TotalPages
}

// TotalHeight returns the height of the full scroll column: every page
// plus the gaps between them.
func (r *Renderer) TotalHeight() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := float64(r.cfg.TotalPages)
	return n*r.cfg.PageHeight + (n-1)*r.cfg.PageGap
}

// PageTop returns the Y offset of a page's top. Indices beyond the last
// page clamp to the last page's top rather than extrapolating past the
// document.
func (r *Renderer) PageTop(index int) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pageTopLocked(index)
}

func (r *Renderer) pageTopLocked(index int) float64 {
	if index < 0 {
		index = 0
	}
	if index > r.cfg.TotalPages-1 {
		index = r.cfg.TotalPages - 1
	}
	return float64(index) * (r.cfg.PageHeight + r.cfg.PageGap)
}

// ScrollTopFor returns the scroll offset that top-aligns the given page.
func (r *Renderer) ScrollTopFor(index int) float64 {
	return r.PageTop(index)
}

// PageAtY returns the index of the page containing the given Y offset.
// Offsets inside the gap after a page belong to that page.
func (r *Renderer) PageAtY(y float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pageAtYLocked(y)
}

func (r *Renderer) pageAtYLocked(y float64) int {
	pitch := r.cfg.PageHeight + r.cfg.PageGap
	if y <= 0 || pitch <= 0 {
		return 0
	}
	idx := int(math.Floor(y / pitch))
	if idx > r.cfg.TotalPages-1 {
		idx = r.cfg.TotalPages - 1
	}
	return idx
}

// IntersectingPages returns the inclusive index range of pages that
// intersect the viewport, before buffering.
func (r *Renderer) IntersectingPages(scrollTop, viewportHeight float64) Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intersectingLocked(scrollTop, viewportHeight)
}

func (r *Renderer) intersectingLocked(scrollTop, viewportHeight float64) Range {
	if scrollTop < 0 {
		scrollTop = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	start := r.pageAtYLocked(scrollTop)
	end := r.pageAtYLocked(scrollTop + viewportHeight)
	return Range{Start: start, End: end}
}

// VisibleRange returns the buffered page range for the viewport: the
// intersecting pages expanded by BufferSize on each side, clamped to the
// document.
func (r *Renderer) VisibleRange(scrollTop, viewportHeight float64) Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visibleRangeLocked(scrollTop, viewportHeight)
}

func (r *Renderer) visibleRangeLocked(scrollTop, viewportHeight float64) Range {
	v := r.intersectingLocked(scrollTop, viewportHeight)
	start := v.Start - r.cfg.BufferSize
	end := v.End + r.cfg.BufferSize
	if start < 0 {
		start = 0
	}
	if end > r.cfg.TotalPages-1 {
		end = r.cfg.TotalPages - 1
	}
	return Range{Start: start, End: end}
}

// ShouldRender reports whether the page at index must be mounted for the
// given viewport. Out-of-bounds indices are never rendered.
func (r *Renderer) ShouldRender(index int, scrollTop, viewportHeight float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index > r.cfg.TotalPages-1 {
		return false
	}
	rng := r.visibleRangeLocked(scrollTop, viewportHeight)
	return index >= rng.Start && index <= rng.End
}

// BufferedPages returns the buffered page indices in ascending order.
func (r *Renderer) BufferedPages(scrollTop, viewportHeight float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pagesIn(r.visibleRangeLocked(scrollTop, viewportHeight))
}

// VisibleFraction returns how much of a page is inside the viewport, in
// [0, 1]. Pages wholly outside the viewport report 0.
func (r *Renderer) VisibleFraction(index int, scrollTop, viewportHeight float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index > r.cfg.TotalPages-1 || r.cfg.PageHeight <= 0 {
		return 0
	}
	top := r.pageTopLocked(index)
	bottom := top + r.cfg.PageHeight
	visTop := math.Max(top, scrollTop)
	visBottom := math.Min(bottom, scrollTop+viewportHeight)
	if visBottom <= visTop {
		return 0
	}
	return (visBottom - visTop) / r.cfg.PageHeight
}

// State returns the full visibility snapshot for one viewport position.
// VisiblePages is always a subset of BufferedPages.
func (r *Renderer) State(scrollTop, viewportHeight float64) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return State{
		VisiblePages:   pagesIn(r.intersectingLocked(scrollTop, viewportHeight)),
		BufferedPages:  pagesIn(r.visibleRangeLocked(scrollTop, viewportHeight)),
		TotalPages:     r.cfg.TotalPages,
		ScrollTop:      scrollTop,
		ViewportHeight: viewportHeight,
	}
}

// Equal reports whether two states describe the same set of mounted
// pages at the same scroll position.
func (s State) Equal(o State) bool {
	if s.TotalPages != o.TotalPages || s.ScrollTop != o.ScrollTop || s.ViewportHeight != o.ViewportHeight {
		return false
	}
	return intsEqual(s.VisiblePages, o.VisiblePages) && intsEqual(s.BufferedPages, o.BufferedPages)
}

func pagesIn(r Range) []int {
	pages := make([]int, 0, r.End-r.Start+1)
	for i := r.Start; i <= r.End; i++ {
		pages = append(pages, i)
	}
	return pages
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
