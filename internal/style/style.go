// Package style holds the text defaults the layout oracle assigns per
// node type. The host editor owns real formatting; these defaults exist
// so headless layout produces geometry comparable to a browser rendering
// the same document with a plain stylesheet.
package style

import "github.com/glowdocs/paginate/pkg/document"

// BaseFontSize is the body text size in pixels.
const BaseFontSize = 16.0

// Text represents the resolved text style of one block.
type Text struct {
	FontSize   float64
	LineHeight float64
	// Family and Style name a core PDF font for width measurement:
	// Helvetica/Times/Courier and ""/"B"/"I"/"BI".
	Family string
	Style  string
	// SpaceBefore and SpaceAfter are the vertical margins around the
	// block.
	SpaceBefore float64
	SpaceAfter  float64
}

// headingScale maps heading level to its font-size multiple of the base.
var headingScale = map[int]float64{
	1: 2.0,
	2: 1.5,
	3: 1.17,
	4: 1.0,
	5: 0.83,
	6: 0.75,
}

// headingSpace maps heading level to its vertical margin in em of its
// own font size.
var headingSpace = map[int]float64{
	1: 0.67,
	2: 0.75,
	3: 0.83,
	4: 1.12,
	5: 1.5,
	6: 1.67,
}

// Resolve returns the text style for a node type. Unknown types fall
// back to paragraph defaults.
func Resolve(nodeType string, level int) Text {
	switch nodeType {
	case document.TypeHeading:
		scale, ok := headingScale[level]
		if !ok {
			scale = 1.0
		}
		space, ok := headingSpace[level]
		if !ok {
			space = 1.0
		}
		size := BaseFontSize * scale
		return Text{
			FontSize:    size,
			LineHeight:  size * 1.25,
			Family:      "Helvetica",
			Style:       "B",
			SpaceBefore: size * space,
			SpaceAfter:  size * space,
		}
	case document.TypeCodeBlock:
		return Text{
			FontSize:    BaseFontSize * 0.875,
			LineHeight:  BaseFontSize * 0.875 * 1.5,
			Family:      "Courier",
			SpaceBefore: BaseFontSize,
			SpaceAfter:  BaseFontSize,
		}
	case document.TypeBlockquote:
		return Text{
			FontSize:    BaseFontSize,
			LineHeight:  BaseFontSize * 1.5,
			Family:      "Times",
			Style:       "I",
			SpaceBefore: BaseFontSize,
			SpaceAfter:  BaseFontSize,
		}
	case document.TypeListItem:
		return Text{
			FontSize:   BaseFontSize,
			LineHeight: BaseFontSize * 1.5,
			Family:     "Times",
		}
	case document.TypeHorizontalRule:
		return Text{
			FontSize:    BaseFontSize,
			LineHeight:  2,
			Family:      "Times",
			SpaceBefore: BaseFontSize * 0.5,
			SpaceAfter:  BaseFontSize * 0.5,
		}
	case document.TypeFigure:
		// Figures flow as fixed atomic blocks; the placeholder height
		// stands in for the embedded content.
		return Text{
			FontSize:    BaseFontSize,
			LineHeight:  240,
			Family:      "Times",
			SpaceBefore: BaseFontSize,
			SpaceAfter:  BaseFontSize,
		}
	default:
		return Text{
			FontSize:    BaseFontSize,
			LineHeight:  BaseFontSize * 1.5,
			Family:      "Times",
			SpaceBefore: BaseFontSize,
			SpaceAfter:  BaseFontSize,
		}
	}
}
