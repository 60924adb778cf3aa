// Package document defines the capability surface the pagination engine
// requires from a host editor. The engine never owns document content; it
// queries a View for structure and geometry and recomputes its own
// derived state when the view's version changes.
package document

// Node type names reported by host editors.
const (
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBlockquote     = "blockquote"
	TypeListItem       = "list_item"
	TypeCodeBlock      = "code_block"
	TypeHorizontalRule = "horizontal_rule"
	TypeFigure         = "figure"
)

// Rect represents a bounding rectangle in content coordinates, with the
// origin at the top-left of the content area.
type Rect struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Height returns the rectangle height.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Width returns the rectangle width.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Node represents one block-level node exposed by the host editor.
type Node struct {
	// Pos is the node's position in the host document tree. It is an
	// opaque back-reference; the engine compares and caches it but never
	// interprets it.
	Pos int
	// Type is the node type name, e.g. "paragraph" or "heading".
	Type string
	// Level is the heading level when Type is "heading", zero otherwise.
	Level int
	// IsBlock reports whether the node participates in block flow.
	IsBlock bool
	// LineHeight is the node's line height in pixels. Zero means the
	// engine should fall back to its default.
	LineHeight float64
}

// View is the read-only window onto a host document that measurement
// operates on. Implementations are queried, never written to.
type View interface {
	// Version returns a value that changes whenever document structure
	// or content changes. It is the cache invalidation key.
	Version() uint64
	// Blocks returns the block-level nodes in document order.
	Blocks() []Node
	// CoordsAt maps a node position to its on-screen bounding rectangle.
	// The second result is false when the position cannot currently be
	// resolved (for example, the node is not mounted).
	CoordsAt(pos int) (Rect, bool)
}

// Container reports the rendered size of the scrollable content element.
type Container interface {
	ScrollHeight() float64
	OffsetHeight() float64
}

// LinePosition represents one visual line of laid-out text.
type LinePosition struct {
	Top     float64
	Height  float64
	NodePos int
	// ParagraphStart and ParagraphEnd are set on the first and last
	// visual line of a block. A single-line paragraph carries both.
	ParagraphStart bool
	ParagraphEnd   bool
	// Heading is set on every line of a level 1-3 heading block.
	Heading bool
}

// Measurement represents one complete pagination pass. It is an immutable
// snapshot, superseded entirely on re-measurement.
type Measurement struct {
	TotalHeight float64
	PageBreaks  []float64
	Lines       []LinePosition
	PageCount   int
	Version     uint64
}
