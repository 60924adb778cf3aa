package pagination

import (
	"github.com/rs/zerolog"

	"github.com/glowdocs/paginate/internal/measure"
	"github.com/glowdocs/paginate/internal/page"
	"github.com/glowdocs/paginate/pkg/document"
)

// Options represents options for the pagination engine
type Options struct {
	Metrics      page.Metrics
	ManualBreaks []float64
}

// Engine runs a full pagination pass over a document view
type Engine struct {
	options Options
	log     zerolog.Logger
}

// NewEngine creates a new pagination engine
func NewEngine() *Engine {
	return &Engine{
		options: Options{Metrics: page.Letter},
		log:     zerolog.Nop(),
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// SetLogger sets the logger used for pagination tracing
func (e *Engine) SetLogger(log zerolog.Logger) {
	e.log = log
}

// Paginate measures the view, computes adjusted break positions and
// returns the complete measurement snapshot
func (e *Engine) Paginate(view document.View, container document.Container) document.Measurement {
	m := e.options.Metrics
	perPage := m.ContentHeight()

	contentHeight := measure.ContentHeight(container)
	breaks := Positions(contentHeight, perPage, e.options.ManualBreaks)

	var lines []document.LinePosition
	var version uint64
	if view != nil {
		lines = measure.Lines(view)
		version = view.Version()
	}
	adjusted := AdjustBreaks(breaks, lines, perPage)

	meas := document.Measurement{
		TotalHeight: contentHeight,
		PageBreaks:  adjusted,
		Lines:       lines,
		PageCount:   page.Count(contentHeight, perPage),
		Version:     version,
	}

	e.log.Debug().
		Float64("content_height", contentHeight).
		Int("pages", meas.PageCount).
		Int("breaks", len(adjusted)).
		Int("lines", len(lines)).
		Msg("pagination pass")

	return meas
}
