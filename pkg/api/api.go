// Package api assembles the pagination engine into one consumer-facing
// surface: measurement, caching, virtual rendering and telemetry behind
// a single Paginator.
package api

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/glowdocs/paginate/internal/cache"
	"github.com/glowdocs/paginate/internal/layout"
	"github.com/glowdocs/paginate/internal/measure"
	"github.com/glowdocs/paginate/internal/page"
	"github.com/glowdocs/paginate/internal/pagination"
	"github.com/glowdocs/paginate/internal/spacer"
	"github.com/glowdocs/paginate/internal/telemetry"
	"github.com/glowdocs/paginate/internal/virtual"
	"github.com/glowdocs/paginate/pkg/document"
)

// Stats re-exports the measurement cache counters.
type Stats = cache.Stats

// Aliases making the engine's types nameable by consumers outside the
// module.
type (
	PageMetrics        = page.Metrics
	Renderer           = virtual.Renderer
	RenderState        = virtual.State
	PageRange          = virtual.Range
	ScrollHandler      = virtual.ScrollHandler
	FastScrollDetector = virtual.FastScrollDetector
	Scheduler          = cache.Scheduler
	SpacerContainer    = spacer.Container
	SpacerElement      = spacer.Element
)

// Engine is the one-shot pagination pass for hosts that re-measure from
// scratch every time and don't need the snapshot cache.
type Engine = pagination.Engine

// EngineOptions configures a one-shot Engine.
type EngineOptions = pagination.Options

// NewEngine creates a one-shot pagination engine.
func NewEngine() *Engine {
	return pagination.NewEngine()
}

// Standard page geometries.
var (
	Letter = page.Letter
	A4     = page.A4
	Legal  = page.Legal
)

// Paginator is the main API for paginating a document view.
type Paginator struct {
	options  Options
	cache    *cache.Cache
	renderer *virtual.Renderer

	mu   sync.Mutex
	last document.Measurement
}

// New creates a paginator with default options.
func New(opts ...Option) *Paginator {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a paginator with the specified options.
func NewWithOptions(options Options) *Paginator {
	cacheOpts := []cache.Option{
		cache.WithMaxVersions(options.MaxCachedVersions),
		cache.WithManualBreaks(options.ManualBreaks),
		cache.WithSyncThreshold(options.SyncThreshold),
		cache.WithLogger(options.Logger),
	}
	if options.Scheduler != nil {
		cacheOpts = append(cacheOpts, cache.WithScheduler(options.Scheduler))
	}

	return &Paginator{
		options: options,
		cache:   cache.New(cacheOpts...),
		renderer: virtual.NewRenderer(virtual.Config{
			TotalPages: 1,
			PageHeight: options.Metrics.Height,
			PageGap:    options.Metrics.Gap,
			BufferSize: options.BufferSize,
		}),
	}
}

// Metrics returns the page geometry the paginator targets.
func (p *Paginator) Metrics() page.Metrics {
	return p.options.Metrics
}

// Measure runs a full pagination pass: content height, cached line
// extraction, break computation and typographic adjustment. The returned
// snapshot supersedes any previous one, and the virtual renderer's page
// count is updated to match.
func (p *Paginator) Measure(view document.View, container document.Container) document.Measurement {
	perPage := p.options.Metrics.ContentHeight()
	contentHeight := measure.ContentHeight(container)

	breaks := p.cache.PageBreaks(contentHeight, perPage)
	lines := p.cache.LinePositions(view)
	adjusted := pagination.AdjustBreaks(breaks, lines, perPage)

	var version uint64
	if view != nil {
		version = view.Version()
	}
	meas := document.Measurement{
		TotalHeight: contentHeight,
		PageBreaks:  adjusted,
		Lines:       lines,
		PageCount:   page.Count(contentHeight, perPage),
		Version:     version,
	}

	p.renderer.SetTotalPages(meas.PageCount)
	p.mu.Lock()
	p.last = meas
	p.mu.Unlock()

	p.options.Logger.Debug().
		Float64("content_height", contentHeight).
		Int("pages", meas.PageCount).
		Int("breaks", len(adjusted)).
		Msg("measure")
	return meas
}

// MeasureHTML lays out an HTML document headlessly and measures it. Page
// break markers in the document merge with the configured manual breaks.
func (p *Paginator) MeasureHTML(r io.Reader) (document.Measurement, error) {
	eng := layout.NewEngine()
	eng.SetOptions(layout.Options{ContentWidth: p.options.Metrics.ContentWidth()})
	eng.SetLogger(p.options.Logger)

	doc, err := eng.Parse(r)
	if err != nil {
		return document.Measurement{}, fmt.Errorf("failed to lay out HTML: %w", err)
	}
	// Merge into a fresh slice; appending to the options slice directly
	// could write into its spare capacity and corrupt the caller's data.
	docBreaks := doc.ManualBreaks()
	merged := make([]float64, 0, len(p.options.ManualBreaks)+len(docBreaks))
	merged = append(merged, p.options.ManualBreaks...)
	merged = append(merged, docBreaks...)
	p.SetManualBreaks(merged)
	return p.Measure(doc, doc), nil
}

// Last returns the most recent measurement snapshot.
func (p *Paginator) Last() document.Measurement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// PageCount returns the page count of the most recent measurement, at
// least 1.
func (p *Paginator) PageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last.PageCount < 1 {
		return 1
	}
	return p.last.PageCount
}

// Renderer returns the virtual renderer bound to this paginator's page
// count.
func (p *Paginator) Renderer() *virtual.Renderer {
	return p.renderer
}

// ScrollHandler returns a debounced scroll handler invoking callback on
// visibility changes.
func (p *Paginator) ScrollHandler(callback func(virtual.State)) *virtual.ScrollHandler {
	return virtual.NewScrollHandler(p.renderer, p.options.ScrollDebounce, callback)
}

// FastScrollDetector returns a detector with the configured tuning.
func (p *Paginator) FastScrollDetector() *virtual.FastScrollDetector {
	return virtual.NewFastScrollDetector(p.options.FastScrollWindow, p.options.FastScrollThreshold)
}

// SetManualBreaks replaces the user-requested break positions.
func (p *Paginator) SetManualBreaks(breaks []float64) {
	p.cache.SetManualBreaks(breaks)
}

// ScheduleMeasure requests measurement of a large view off the
// interactive path.
func (p *Paginator) ScheduleMeasure(view document.View) {
	p.cache.ScheduleMeasure(view)
}

// InvalidateRange marks cached lines in a node-position range stale.
func (p *Paginator) InvalidateRange(from, to int) {
	p.cache.InvalidateRange(from, to)
}

// InvalidateAll drops all cached measurement state.
func (p *Paginator) InvalidateAll() {
	p.cache.InvalidateAll()
}

// IsCached reports whether a node position is covered by the live
// snapshot.
func (p *Paginator) IsCached(pos int) bool {
	return p.cache.IsCached(pos)
}

// Stats returns the measurement cache counters.
func (p *Paginator) Stats() Stats {
	return p.cache.Stats()
}

// ReconcileSpacers rebuilds the page-boundary spacers in a host
// container to match the most recent measurement, so overlays drawn
// atop the content align with page breaks.
func (p *Paginator) ReconcileSpacers(c SpacerContainer) {
	m := p.options.Metrics
	p.mu.Lock()
	breaks := len(p.last.PageBreaks)
	p.mu.Unlock()
	spacer.Reconcile(c, breaks, m.ContentHeight(), m.SpacerHeight())
}

// MetricsCollector returns a prometheus collector over the paginator's
// cache and page count.
func (p *Paginator) MetricsCollector() prometheus.Collector {
	return telemetry.NewCollector(p.cache.Stats, p.PageCount)
}
