package paginate

import (
	"github.com/glowdocs/paginate/pkg/api"
)

type Paginator = api.Paginator
type Options = api.Options
type Option = api.Option
type Stats = api.Stats
type PageMetrics = api.PageMetrics
type Renderer = api.Renderer
type RenderState = api.RenderState
type PageRange = api.PageRange
type ScrollHandler = api.ScrollHandler
type FastScrollDetector = api.FastScrollDetector
type Scheduler = api.Scheduler
type SpacerContainer = api.SpacerContainer
type SpacerElement = api.SpacerElement
type Engine = api.Engine
type EngineOptions = api.EngineOptions

func New(opts ...Option) *Paginator             { return api.New(opts...) }
func NewEngine() *Engine                        { return api.NewEngine() }
func NewWithOptions(options Options) *Paginator { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithMetrics           = api.WithMetrics
	WithPageSizeLetter    = api.WithPageSizeLetter
	WithPageSizeA4        = api.WithPageSizeA4
	WithPageSizeLegal     = api.WithPageSizeLegal
	WithManualBreaks      = api.WithManualBreaks
	WithBufferSize        = api.WithBufferSize
	WithScrollDebounce    = api.WithScrollDebounce
	WithFastScroll        = api.WithFastScroll
	WithMaxCachedVersions = api.WithMaxCachedVersions
	WithSyncThreshold     = api.WithSyncThreshold
	WithScheduler         = api.WithScheduler
	WithLogger            = api.WithLogger
)

var (
	Letter = api.Letter
	A4     = api.A4
	Legal  = api.Legal
)
