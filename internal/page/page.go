// Package page holds the geometric constants of a paginated document and
// the pure index/offset arithmetic derived from them. All values are CSS
// pixels at 96 DPI.
package page

import "math"

// Metrics represents the geometry of a single page.
type Metrics struct {
	Width            float64
	Height           float64
	MarginTop        float64
	MarginBottom     float64
	MarginHorizontal float64
	// Gap is the visual gap between consecutive pages in the scroll
	// column.
	Gap          float64
	HeaderHeight float64
	FooterHeight float64
}

// Standard page geometries in pixels (96 per inch)
var (
	Letter = Metrics{Width: 816, Height: 1056, MarginTop: 96, MarginBottom: 72, MarginHorizontal: 96, Gap: 32, HeaderHeight: 48, FooterHeight: 60}
	A4     = Metrics{Width: 794, Height: 1123, MarginTop: 96, MarginBottom: 72, MarginHorizontal: 96, Gap: 32, HeaderHeight: 48, FooterHeight: 60}
	Legal  = Metrics{Width: 816, Height: 1344, MarginTop: 96, MarginBottom: 72, MarginHorizontal: 96, Gap: 32, HeaderHeight: 48, FooterHeight: 60}
)

// ContentHeight returns the vertical space available to flowed content on
// one page. Derived, never stored.
func (m Metrics) ContentHeight() float64 {
	return m.Height - m.MarginTop - m.MarginBottom - m.FooterHeight
}

// ContentWidth returns the horizontal space available to flowed content.
func (m Metrics) ContentWidth() float64 {
	return m.Width - 2*m.MarginHorizontal
}

// AreaHeight returns the page height between the header and footer bands.
func (m Metrics) AreaHeight() float64 {
	return m.Height - m.HeaderHeight - m.FooterHeight
}

// SpacerHeight returns the height of the visual spacer that stands in for
// a page boundary: the footer band, the inter-page gap, and the next
// page's header band.
func (m Metrics) SpacerHeight() float64 {
	return m.FooterHeight + m.Gap + m.HeaderHeight
}

// Pitch returns the vertical distance between the tops of consecutive
// pages in the scroll column.
func (m Metrics) Pitch() float64 {
	return m.Height + m.Gap
}

// Count returns the number of pages needed to hold contentHeight pixels
// of content at perPage pixels per page. Never less than 1.
func Count(contentHeight, perPage float64) int {
	if contentHeight <= 0 || perPage <= 0 {
		return 1
	}
	n := int(math.Ceil(contentHeight / perPage))
	if n < 1 {
		n = 1
	}
	return n
}

// IndexAt returns the page index containing the given Y offset in the
// scroll column. A Y value inside the gap after a page still belongs to
// that page.
func IndexAt(y, pageHeight, gap float64) int {
	pitch := pageHeight + gap
	if y <= 0 || pitch <= 0 {
		return 0
	}
	return int(math.Floor(y / pitch))
}

// StartY returns the Y offset of the top of the given page in the scroll
// column.
func StartY(index int, pageHeight, gap float64) float64 {
	if index < 0 {
		index = 0
	}
	return float64(index) * (pageHeight + gap)
}

// ContentOffset converts a global Y offset to a position within the given
// page's content area. The result is negative when the offset falls in
// the page's header band.
func ContentOffset(globalY float64, index int, pageHeight, gap, headerHeight float64) float64 {
	return globalY - StartY(index, pageHeight, gap) - headerHeight
}
