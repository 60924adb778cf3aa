package pagination

import (
	"math"
	"sort"

	"github.com/glowdocs/paginate/pkg/document"
)

// breakEpsilon is the distance under which two break positions count as
// the same boundary. Manual breaks arrive from user gestures and carry
// sub-pixel noise.
const breakEpsilon = 0.5

// Positions computes the page-break offsets for a document of the given
// content height, paged at perPage pixels of content per page. Automatic
// breaks fall at every multiple of perPage strictly below contentHeight;
// manual breaks inside the content bounds are merged in. The result is
// sorted ascending with no duplicates. Content that fits a single page
// produces no breaks.
func Positions(contentHeight, perPage float64, manual []float64) []float64 {
	if contentHeight <= 0 || perPage <= 0 || contentHeight <= perPage {
		return []float64{}
	}

	breaks := make([]float64, 0, int(contentHeight/perPage)+len(manual))
	for i := 1; float64(i)*perPage < contentHeight; i++ {
		breaks = append(breaks, float64(i)*perPage)
	}
	for _, b := range manual {
		if b > 0 && b < contentHeight {
			breaks = append(breaks, b)
		}
	}

	sort.Float64s(breaks)
	return dedupeSorted(breaks)
}

// dedupeSorted collapses breaks closer than breakEpsilon. The slice must
// already be sorted.
func dedupeSorted(breaks []float64) []float64 {
	out := breaks[:0]
	for _, b := range breaks {
		if len(out) > 0 && b-out[len(out)-1] < breakEpsilon {
			continue
		}
		out = append(out, b)
	}
	return out
}

// AdjustBreaks applies typographic correction to naive break positions:
// headings are kept with their following content, and lone single-line
// paragraphs are kept off page bottoms (orphans) and page tops (widows).
// Breaks move, content never does. Lines must be ordered by Top ascending
// (document order). The result is strictly ascending; a break that cannot
// be corrected without making the layout worse is returned unchanged.
func AdjustBreaks(breaks []float64, lines []document.LinePosition, pageHeight float64) []float64 {
	if len(breaks) == 0 {
		return []float64{}
	}
	out := make([]float64, 0, len(breaks))
	if len(lines) == 0 || pageHeight <= 0 {
		return append(out, breaks...)
	}

	prev := 0.0
	for i, br := range breaks {
		next := breakOrInf(breaks, i+1)
		nb := adjustOne(br, prev, next, lines, pageHeight)
		if nb <= prev {
			nb = br
		}
		out = append(out, nb)
		prev = nb
	}
	return out
}

// adjustOne applies the three checks in priority order; the first rule
// that fires decides the break.
func adjustOne(br, prev, next float64, lines []document.LinePosition, pageHeight float64) float64 {
	if nb, ok := keepWithNext(br, prev, lines); ok {
		return nb
	}
	if nb, ok := avoidOrphan(br, prev, lines); ok {
		return nb
	}
	if nb, ok := avoidWidow(br, prev, next, lines, pageHeight); ok {
		return nb
	}
	return br
}

// keepWithNext moves a break to a heading's top when fewer than two lines
// of following content would accompany the heading at the page bottom. A
// heading whose text wraps into several lines moves as a whole block: the
// break lands on its first line, never between its lines.
func keepWithNext(br, prev float64, lines []document.LinePosition) (float64, bool) {
	trailing := 0
	for i := lastLineBefore(lines, br); i >= 0 && lines[i].Top >= prev; i-- {
		if lines[i].Heading {
			if trailing < 2 {
				first := i
				for first > 0 && lines[first-1].Heading && lines[first-1].NodePos == lines[i].NodePos {
					first--
				}
				nb := lines[first].Top
				if nb > prev && nb < br {
					return nb, true
				}
			}
			return 0, false
		}
		trailing++
		if trailing >= 2 {
			return 0, false
		}
	}
	return 0, false
}

// avoidOrphan moves a break above a lone single-line paragraph stranded
// at the page bottom. The move is skipped when the line above would be
// left in an equally bad position.
func avoidOrphan(br, prev float64, lines []document.LinePosition) (float64, bool) {
	i := lastLineBefore(lines, br)
	if i < 0 {
		return 0, false
	}
	l := lines[i]
	if !loneParagraphLine(l) {
		return 0, false
	}
	if l.Top <= prev {
		// First line of its page; there is nothing to leave behind.
		return 0, false
	}
	if i > 0 && lines[i-1].Top >= prev {
		above := lines[i-1]
		// Pushing l down would strand a heading or another lone line.
		if above.Heading || loneParagraphLine(above) {
			return 0, false
		}
	}
	return l.Top, true
}

// avoidWidow pulls a lone single-line paragraph from the page top back
// onto the previous page by shifting the break past it, when the previous
// page has room for the line and the pull does not hand the defect to the
// next line.
func avoidWidow(br, prev, next float64, lines []document.LinePosition, pageHeight float64) (float64, bool) {
	wi := firstLineAtOrAfter(lines, br)
	if wi < 0 {
		return 0, false
	}
	w := lines[wi]
	if !loneParagraphLine(w) {
		return 0, false
	}
	li := lastLineBefore(lines, br)
	if li < 0 {
		return 0, false
	}
	used := lines[li].Top + lines[li].Height - prev
	if pageHeight-used < w.Height {
		return 0, false
	}
	if wi+1 < len(lines) && lines[wi+1].Top < next && loneParagraphLine(lines[wi+1]) {
		return 0, false
	}
	nb := w.Top + w.Height
	if nb <= br || nb >= next {
		return 0, false
	}
	return nb, true
}

// loneParagraphLine reports whether a line is a complete single-line
// paragraph, the shape both the orphan and widow rules act on.
func loneParagraphLine(l document.LinePosition) bool {
	return l.ParagraphStart && l.ParagraphEnd && !l.Heading
}

// lastLineBefore returns the index of the last line whose top sits above
// the given offset, or -1.
func lastLineBefore(lines []document.LinePosition, y float64) int {
	return sort.Search(len(lines), func(i int) bool { return lines[i].Top >= y }) - 1
}

// firstLineAtOrAfter returns the index of the first line whose top sits
// at or below the given offset, or -1.
func firstLineAtOrAfter(lines []document.LinePosition, y float64) int {
	i := sort.Search(len(lines), func(i int) bool { return lines[i].Top >= y })
	if i == len(lines) {
		return -1
	}
	return i
}

// breakOrInf returns the break at i, or +Inf past the end so range
// comparisons against "no following break" always pass.
func breakOrInf(breaks []float64, i int) float64 {
	if i < len(breaks) {
		return breaks[i]
	}
	return math.Inf(1)
}
