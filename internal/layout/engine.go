package layout

import (
	"strings"

	"github.com/rs/zerolog"
	xhtml "golang.org/x/net/html"

	"github.com/glowdocs/paginate/internal/style"
	"github.com/glowdocs/paginate/internal/text"
	"github.com/glowdocs/paginate/pkg/document"
)

// Options represents options for the layout engine.
type Options struct {
	// ContentWidth is the horizontal space text wraps into, in pixels.
	ContentWidth float64
}

// DefaultContentWidth matches a US Letter page with one-inch side
// margins at 96 DPI.
const DefaultContentWidth = 624.0

// Engine flows parsed HTML into vertically stacked measured blocks.
type Engine struct {
	options Options
	log     zerolog.Logger
}

// NewEngine creates a new layout engine with default options.
func NewEngine() *Engine {
	return &Engine{
		options: Options{ContentWidth: DefaultContentWidth},
		log:     zerolog.Nop(),
	}
}

// SetOptions sets the options for the layout engine.
func (e *Engine) SetOptions(options Options) {
	if options.ContentWidth <= 0 {
		options.ContentWidth = DefaultContentWidth
	}
	e.options = options
}

// SetLogger sets the logger used for layout tracing.
func (e *Engine) SetLogger(log zerolog.Logger) {
	e.log = log
}

// nodeTypeForTag maps an HTML tag to the host node-type convention.
// The second result is the heading level, zero for non-headings.
func nodeTypeForTag(tag string) (string, int, bool) {
	switch tag {
	case "p":
		return document.TypeParagraph, 0, true
	case "h1":
		return document.TypeHeading, 1, true
	case "h2":
		return document.TypeHeading, 2, true
	case "h3":
		return document.TypeHeading, 3, true
	case "h4":
		return document.TypeHeading, 4, true
	case "h5":
		return document.TypeHeading, 5, true
	case "h6":
		return document.TypeHeading, 6, true
	case "blockquote":
		return document.TypeBlockquote, 0, true
	case "li":
		return document.TypeListItem, 0, true
	case "pre":
		return document.TypeCodeBlock, 0, true
	case "hr":
		return document.TypeHorizontalRule, 0, true
	case "figure", "img":
		return document.TypeFigure, 0, true
	default:
		return "", 0, false
	}
}

// flow walks the parsed tree in document order and stacks block elements
// vertically. It returns the laid-out blocks, the manual break offsets
// collected from page-break markers, and the total content height.
func (e *Engine) flow(root *xhtml.Node) ([]Block, []float64, float64) {
	var blocks []Block
	var manual []float64
	y := 0.0
	pos := 0

	// Iterative traversal; editor documents nest deeply enough that
	// recursion depth matters.
	stack := []*xhtml.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type != xhtml.ElementNode && n.Type != xhtml.DocumentNode {
			continue
		}
		tag := strings.ToLower(n.Data)
		if n.Type == xhtml.ElementNode {
			if tag == "head" || tag == "script" || tag == "style" {
				continue
			}
			if hasPageBreakClass(n) {
				manual = append(manual, y)
				continue
			}
			nodeType, level, ok := nodeTypeForTag(tag)
			if !ok && tag == "div" && !hasBlockChildren(n) {
				// A leaf div is a paragraph; divs wrapping other blocks
				// are plain containers.
				nodeType, ok = document.TypeParagraph, true
			}
			if ok {
				b, span, bottom := e.layoutBlock(n, nodeType, level, pos, y)
				blocks = append(blocks, b)
				pos += span
				y = bottom
				continue
			}
		}

		// Push children in reverse so they pop in document order.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}

	return blocks, manual, y
}

// layoutBlock measures one block element and places it at the current
// flow position. It returns the block, the node-position span it
// occupies, and the Y offset flow resumes at.
func (e *Engine) layoutBlock(n *xhtml.Node, nodeType string, level, pos int, y float64) (Block, int, float64) {
	st := style.Resolve(nodeType, level)
	content := collectText(n)

	var lines []string
	switch nodeType {
	case document.TypeHorizontalRule, document.TypeFigure:
		// Atomic blocks: fixed height, no text lines.
	default:
		lines = text.Wrap(content, st.FontSize, st.Family, st.Style, e.options.ContentWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
	}

	height := st.LineHeight
	if len(lines) > 0 {
		height = float64(len(lines)) * st.LineHeight
	}

	top := y + st.SpaceBefore
	b := Block{
		Node: document.Node{
			Pos:        pos,
			Type:       nodeType,
			Level:      level,
			IsBlock:    true,
			LineHeight: st.LineHeight,
		},
		Rect: document.Rect{
			Top:    top,
			Left:   0,
			Bottom: top + height,
			Right:  e.options.ContentWidth,
		},
		Style: st,
		Lines: lines,
	}

	e.log.Debug().
		Str("type", nodeType).
		Int("pos", pos).
		Float64("top", top).
		Int("lines", len(lines)).
		Msg("layout block")

	// A block occupies its text length plus an open and close token,
	// mirroring the host editor's position scheme.
	span := len([]rune(content)) + 2
	return b, span, b.Rect.Bottom + st.SpaceAfter
}

// hasBlockChildren reports whether any direct child is itself a flowed
// block element.
func hasBlockChildren(n *xhtml.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xhtml.ElementNode {
			continue
		}
		tag := strings.ToLower(c.Data)
		if _, _, ok := nodeTypeForTag(tag); ok || tag == "div" {
			return true
		}
	}
	return false
}

// collectText concatenates the text content beneath a node, whitespace
// normalized.
func collectText(n *xhtml.Node) string {
	var sb strings.Builder
	stack := []*xhtml.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == xhtml.TextNode {
			sb.WriteString(cur.Data)
			continue
		}
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return strings.TrimSpace(text.NormalizeWhitespace(sb.String()))
}
