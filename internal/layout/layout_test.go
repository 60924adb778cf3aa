package layout

import (
	"strings"
	"testing"

	"github.com/glowdocs/paginate/pkg/document"
)

const sampleHTML = `<html><body>
<h1>Quarterly Report</h1>
<p>Revenue grew in the third quarter across all regions.</p>
<h2>Details</h2>
<p>Costs stayed flat.</p>
<hr>
<p>Appendix follows.</p>
</body></html>`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	return doc
}

func TestParseBlockSequence(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	blocks := doc.Blocks()
	wantTypes := []string{
		document.TypeHeading,
		document.TypeParagraph,
		document.TypeHeading,
		document.TypeParagraph,
		document.TypeHorizontalRule,
		document.TypeParagraph,
	}
	if len(blocks) != len(wantTypes) {
		t.Fatalf("expected %d blocks, got %d", len(wantTypes), len(blocks))
	}
	for i, want := range wantTypes {
		if blocks[i].Type != want {
			t.Errorf("block %d: expected type %q, got %q", i, want, blocks[i].Type)
		}
		if !blocks[i].IsBlock {
			t.Errorf("block %d: expected IsBlock", i)
		}
	}
	if blocks[0].Level != 1 || blocks[2].Level != 2 {
		t.Errorf("expected heading levels 1 and 2, got %d and %d", blocks[0].Level, blocks[2].Level)
	}
}

func TestParseGeometryFlowsDownward(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	blocks := doc.Blocks()
	prevBottom := -1.0
	for i, n := range blocks {
		rect, ok := doc.CoordsAt(n.Pos)
		if !ok {
			t.Fatalf("block %d: expected coordinates at pos %d", i, n.Pos)
		}
		if rect.Top <= prevBottom {
			t.Errorf("block %d: expected top %v below previous bottom %v", i, rect.Top, prevBottom)
		}
		if rect.Height() <= 0 {
			t.Errorf("block %d: expected positive height, got %v", i, rect.Height())
		}
		if n.LineHeight <= 0 {
			t.Errorf("block %d: expected positive line height", i)
		}
		prevBottom = rect.Bottom
	}

	if doc.ScrollHeight() < prevBottom {
		t.Errorf("expected scroll height >= last bottom %v, got %v", prevBottom, doc.ScrollHeight())
	}
	if doc.OffsetHeight() != doc.ScrollHeight() {
		t.Errorf("expected offset height to equal scroll height")
	}
}

func TestParseNodePositionsAscend(t *testing.T) {
	doc := mustParse(t, sampleHTML)

	blocks := doc.Blocks()
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Pos <= blocks[i-1].Pos {
			t.Fatalf("expected ascending node positions, got %d then %d",
				blocks[i-1].Pos, blocks[i].Pos)
		}
	}
}

func TestParseLongParagraphWraps(t *testing.T) {
	long := "<p>" + strings.Repeat("pagination engines measure flowed text ", 40) + "</p>"
	doc := mustParse(t, "<html><body>"+long+"</body></html>")

	flow := doc.Flow()
	if len(flow) != 1 {
		t.Fatalf("expected 1 block, got %d", len(flow))
	}
	if len(flow[0].Lines) < 2 {
		t.Errorf("expected the paragraph to wrap into multiple lines, got %d", len(flow[0].Lines))
	}
	wantHeight := float64(len(flow[0].Lines)) * flow[0].Node.LineHeight
	if got := flow[0].Rect.Height(); got != wantHeight {
		t.Errorf("expected block height %v for %d lines, got %v", wantHeight, len(flow[0].Lines), got)
	}
}

func TestParsePageBreakMarkers(t *testing.T) {
	doc := mustParse(t, `<html><body>
<p>before</p>
<div class="page-break"></div>
<p>after</p>
</body></html>`)

	if len(doc.Blocks()) != 2 {
		t.Fatalf("expected the marker not to flow as a block, got %d blocks", len(doc.Blocks()))
	}
	manual := doc.ManualBreaks()
	if len(manual) != 1 {
		t.Fatalf("expected 1 manual break, got %v", manual)
	}
	first, _ := doc.CoordsAt(doc.Blocks()[0].Pos)
	if manual[0] < first.Bottom {
		t.Errorf("expected manual break below the first paragraph bottom %v, got %v", first.Bottom, manual[0])
	}
}

func TestParseEmptyDocument(t *testing.T) {
	doc := mustParse(t, "<html><body></body></html>")
	if len(doc.Blocks()) != 0 {
		t.Errorf("expected no blocks, got %d", len(doc.Blocks()))
	}
	if doc.ScrollHeight() != 0 {
		t.Errorf("expected zero height, got %v", doc.ScrollHeight())
	}
}

func TestReparseBumpsVersion(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	id := doc.ID()
	v1 := doc.Version()

	if err := doc.Reparse(strings.NewReader("<html><body><p>rewritten</p></body></html>")); err != nil {
		t.Fatalf("expected reparse to succeed, got %v", err)
	}
	if doc.Version() != v1+1 {
		t.Errorf("expected version %d after reparse, got %d", v1+1, doc.Version())
	}
	if doc.ID() != id {
		t.Error("expected identity to survive reparse")
	}
	if len(doc.Blocks()) != 1 {
		t.Errorf("expected reparsed content, got %d blocks", len(doc.Blocks()))
	}
}

func TestCoordsAtUnknownPosition(t *testing.T) {
	doc := mustParse(t, sampleHTML)
	if _, ok := doc.CoordsAt(999999); ok {
		t.Error("expected lookup failure for unknown position")
	}
}
