// Package layout flows an HTML document into measured line geometry
// without a browser. It implements the view and container capabilities
// the pagination engine normally obtains from a host editor, which makes
// it both the CLI's document source and the engine's test bed.
package layout

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	xhtml "golang.org/x/net/html"

	"github.com/glowdocs/paginate/internal/style"
	"github.com/glowdocs/paginate/pkg/document"
)

// Block represents one laid-out block element.
type Block struct {
	Node  document.Node
	Rect  document.Rect
	Style style.Text
	// Lines holds the wrapped text, one entry per visual line. Empty for
	// non-text blocks such as rules and figures.
	Lines []string
}

// Document is a headless rendering of an HTML document. It satisfies
// document.View and document.Container, with a uuid identity and a
// version counter that advances on every reparse.
type Document struct {
	mu      sync.Mutex
	id      uuid.UUID
	version uint64
	engine  *Engine

	blocks []Block
	manual []float64
	height float64
}

// Parse lays out an HTML document read from r using default engine
// options.
func Parse(r io.Reader) (*Document, error) {
	return NewEngine().Parse(r)
}

// Parse lays out an HTML document read from r.
func (e *Engine) Parse(r io.Reader) (*Document, error) {
	d := &Document{
		id:      uuid.New(),
		version: 1,
		engine:  e,
	}
	if err := d.layout(r); err != nil {
		return nil, err
	}
	return d, nil
}

// ID returns the document's identity.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Version returns the current document version. It changes on every
// successful reparse and is the pagination cache's invalidation key.
func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Reparse replaces the document content from r and bumps the version.
// On parse failure the previous content and version are kept.
func (d *Document) Reparse(r io.Reader) error {
	if err := d.layout(r); err != nil {
		return err
	}
	d.mu.Lock()
	d.version++
	d.mu.Unlock()
	return nil
}

// Blocks returns the block-level nodes in document order.
func (d *Document) Blocks() []document.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes := make([]document.Node, len(d.blocks))
	for i, b := range d.blocks {
		nodes[i] = b.Node
	}
	return nodes
}

// CoordsAt maps a node position to its bounding rectangle.
func (d *Document) CoordsAt(pos int) (document.Rect, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range d.blocks {
		if b.Node.Pos == pos {
			return b.Rect, true
		}
	}
	return document.Rect{}, false
}

// ScrollHeight returns the total flowed content height.
func (d *Document) ScrollHeight() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.height
}

// OffsetHeight returns the container height; for headless layout it
// equals the scroll height.
func (d *Document) OffsetHeight() float64 {
	return d.ScrollHeight()
}

// ManualBreaks returns the break positions requested by page-break
// markers in the document.
func (d *Document) ManualBreaks() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]float64(nil), d.manual...)
}

// Flow returns the laid-out blocks with their wrapped text, for preview
// rendering.
func (d *Document) Flow() []Block {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Block(nil), d.blocks...)
}

// layout parses and flows the document, replacing its content wholesale.
func (d *Document) layout(r io.Reader) error {
	root, err := xhtml.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	blocks, manual, height := d.engine.flow(root)

	d.mu.Lock()
	d.blocks = blocks
	d.manual = manual
	d.height = height
	d.mu.Unlock()

	d.engine.log.Debug().
		Str("document", d.id.String()).
		Int("blocks", len(blocks)).
		Float64("height", height).
		Msg("layout pass")
	return nil
}

// pageBreakClass marks an element as a user-requested page break.
const pageBreakClass = "page-break"

// hasPageBreakClass reports whether an element carries the page-break
// marker class.
func hasPageBreakClass(n *xhtml.Node) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "class") {
			for _, cls := range strings.Fields(a.Val) {
				if cls == pageBreakClass {
					return true
				}
			}
		}
	}
	return false
}
