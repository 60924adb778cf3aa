// Package measure extracts the geometric substrate pagination operates
// on: the rendered content height and the ordered list of visual lines.
package measure

import (
	"math"

	"github.com/glowdocs/paginate/pkg/document"
)

// DefaultLineHeight is assumed for blocks that do not report their own
// line height (16px text at 1.5 leading).
const DefaultLineHeight = 24.0

// ContentHeight returns the rendered height of the content container.
// Scroll height and offset height can disagree around collapsed margins
// and overflow; the larger of the two is the one pagination must cover.
func ContentHeight(c document.Container) float64 {
	if c == nil {
		return 0
	}
	h := math.Max(c.ScrollHeight(), c.OffsetHeight())
	if h < 0 {
		return 0
	}
	return h
}

// Lines walks the view's block nodes in document order and produces one
// LinePosition per visual line. A multi-line block contributes several
// entries; only its first carries ParagraphStart and only its last
// ParagraphEnd. Blocks whose coordinate lookup fails are skipped.
func Lines(v document.View) []document.LinePosition {
	if v == nil {
		return nil
	}

	lines := make([]document.LinePosition, 0, len(v.Blocks()))
	for _, n := range v.Blocks() {
		if !n.IsBlock {
			continue
		}
		rect, ok := v.CoordsAt(n.Pos)
		if !ok {
			continue
		}

		lineHeight := n.LineHeight
		if lineHeight <= 0 {
			lineHeight = DefaultLineHeight
		}
		count := lineCount(rect.Height(), lineHeight)
		heading := isHeading(n)

		for i := 0; i < count; i++ {
			lines = append(lines, document.LinePosition{
				Top:            rect.Top + float64(i)*lineHeight,
				Height:         lineHeight,
				NodePos:        n.Pos,
				ParagraphStart: i == 0,
				ParagraphEnd:   i == count-1,
				Heading:        heading,
			})
		}
	}
	return lines
}

// lineCount splits a block's rendered height into whole lines. Rounding
// absorbs sub-pixel drift from the host's geometry.
func lineCount(height, lineHeight float64) int {
	if height <= 0 || lineHeight <= 0 {
		return 1
	}
	n := int(math.Round(height / lineHeight))
	if n < 1 {
		n = 1
	}
	return n
}

// isHeading reports whether a node is a heading variant the keep-with-next
// rule applies to. Levels beyond 3 flow like body text.
func isHeading(n document.Node) bool {
	return n.Type == document.TypeHeading && n.Level >= 1 && n.Level <= 3
}
