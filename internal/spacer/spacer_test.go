package spacer

import "testing"

// fakeElement is a child of the fake container. Top is live: it reflects
// the heights of elements above it, spacers included.
type fakeElement struct {
	parent *fakeContainer
	height float64
	spacer bool
}

func (e *fakeElement) Top() float64 {
	top := 0.0
	for _, el := range e.parent.children {
		if el == e {
			break
		}
		top += el.height
	}
	return top
}

func (e *fakeElement) IsSpacer() bool { return e.spacer }

type fakeContainer struct {
	children []*fakeElement
}

func newFakeContainer(blockHeights ...float64) *fakeContainer {
	c := &fakeContainer{}
	for _, h := range blockHeights {
		c.children = append(c.children, &fakeElement{parent: c, height: h})
	}
	return c
}

func (c *fakeContainer) Children() []Element {
	out := make([]Element, len(c.children))
	for i, el := range c.children {
		out[i] = el
	}
	return out
}

func (c *fakeContainer) InsertSpacerBefore(el Element, height float64) {
	target := el.(*fakeElement)
	for i, cur := range c.children {
		if cur == target {
			sp := &fakeElement{parent: c, height: height, spacer: true}
			c.children = append(c.children[:i], append([]*fakeElement{sp}, c.children[i:]...)...)
			return
		}
	}
}

func (c *fakeContainer) RemoveSpacer(el Element) {
	target := el.(*fakeElement)
	for i, cur := range c.children {
		if cur == target {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

func (c *fakeContainer) spacerCount() int {
	n := 0
	for _, el := range c.children {
		if el.spacer {
			n++
		}
	}
	return n
}

// spacerIndices returns the child indices occupied by spacers.
func (c *fakeContainer) spacerIndices() []int {
	var out []int
	for i, el := range c.children {
		if el.spacer {
			out = append(out, i)
		}
	}
	return out
}

func TestReconcileInsertsSpacersAtBoundaries(t *testing.T) {
	// Four 500px blocks paged at 800px of content per page. The break at
	// 800 lands a spacer before the block starting at 1000. The break at
	// 1600 finds no block starting at or past it (the last block spans
	// 1500..2000) and is skipped.
	c := newFakeContainer(500, 500, 500, 500)

	Reconcile(c, 2, 800, 140)

	idx := c.spacerIndices()
	if len(idx) != 1 {
		t.Fatalf("expected 1 spacer, got %d at %v", len(idx), idx)
	}
	if idx[0] != 2 {
		t.Errorf("expected spacer at child index 2, got %d", idx[0])
	}
}

func TestReconcileMeasuresInContentCoordinates(t *testing.T) {
	// Without the inserted-height adjustment the second spacer would be
	// placed one block too early.
	c := newFakeContainer(300, 300, 300, 300, 300, 300)

	Reconcile(c, 2, 500, 100)

	idx := c.spacerIndices()
	if len(idx) != 2 {
		t.Fatalf("expected 2 spacers, got %v", idx)
	}
	// Break 1 at 500: first block top reaching 500 is block 2 (top 600).
	// Break 2 at 1000: block 4 (content top 1200).
	if idx[0] != 2 {
		t.Errorf("expected first spacer before block 2, got index %d", idx[0])
	}
	if idx[1] != 5 {
		t.Errorf("expected second spacer at index 5, got %d", idx[1])
	}
}

func TestReconcileRebuildsFromScratch(t *testing.T) {
	c := newFakeContainer(500, 500, 500, 500)

	Reconcile(c, 2, 800, 140)
	first := c.spacerIndices()

	// Re-running with identical inputs must produce the identical layout,
	// not accumulate spacers.
	Reconcile(c, 2, 800, 140)
	second := c.spacerIndices()

	if len(second) != len(first) {
		t.Fatalf("expected %d spacers after re-run, got %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("expected stable spacer layout %v, got %v", first, second)
		}
	}
}

func TestReconcileZeroBreaksClearsStaleSpacers(t *testing.T) {
	c := newFakeContainer(500, 500, 500)
	Reconcile(c, 1, 800, 140)
	if c.spacerCount() == 0 {
		t.Fatal("expected setup pass to insert a spacer")
	}

	Reconcile(c, 0, 800, 140)
	if n := c.spacerCount(); n != 0 {
		t.Errorf("expected stale spacers removed, %d remain", n)
	}

	Reconcile(c, -3, 800, 140)
	if n := c.spacerCount(); n != 0 {
		t.Errorf("expected negative break count to be a no-op, %d spacers", n)
	}
}

func TestReconcileNilAndEmpty(t *testing.T) {
	Reconcile(nil, 3, 800, 140)

	c := newFakeContainer()
	Reconcile(c, 3, 800, 140)
	if n := c.spacerCount(); n != 0 {
		t.Errorf("expected no spacers in an empty container, got %d", n)
	}
}
