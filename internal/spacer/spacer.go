// Package spacer reconciles abstract page-break positions against the
// rendered children of a content container, inserting fixed-height spacer
// nodes so that overlays drawn atop the content align with page
// boundaries.
package spacer

// Element is one rendered child of the content container.
type Element interface {
	// Top returns the element's offset from the top of the container,
	// including the height of any spacers inserted above it.
	Top() float64
	// IsSpacer reports whether the element is a spacer from a previous
	// reconcile pass.
	IsSpacer() bool
}

// Container is the host surface spacers are inserted into.
type Container interface {
	// Children returns the container's elements in document order.
	Children() []Element
	// InsertSpacerBefore inserts a spacer of the given height immediately
	// before the element.
	InsertSpacerBefore(el Element, height float64)
	// RemoveSpacer removes a previously inserted spacer.
	RemoveSpacer(el Element)
}

// Reconcile removes every existing spacer and re-inserts one per page
// boundary. For break k the spacer lands before the first non-spacer
// child whose content-coordinate top reaches k*contentPerPage. Spacers
// are always rebuilt from scratch; patching them incrementally compounds
// measurement drift. A non-positive break count only clears stale
// spacers.
func Reconcile(c Container, breakCount int, contentPerPage, spacerHeight float64) {
	if c == nil {
		return
	}
	for _, el := range c.Children() {
		if el.IsSpacer() {
			c.RemoveSpacer(el)
		}
	}
	if breakCount <= 0 || contentPerPage <= 0 {
		return
	}

	children := c.Children()
	// Inserting a spacer shifts every later child down; subtracting the
	// accumulated spacer height keeps comparisons in content-only
	// coordinates.
	inserted := 0.0
	child := 0
	for k := 1; k <= breakCount; k++ {
		target := float64(k) * contentPerPage
		for child < len(children) && children[child].Top()-inserted < target {
			child++
		}
		if child >= len(children) {
			break
		}
		c.InsertSpacerBefore(children[child], spacerHeight)
		inserted += spacerHeight
	}
}
