package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/glowdocs/paginate/internal/cache"
	"github.com/glowdocs/paginate/internal/page"
	"github.com/glowdocs/paginate/internal/virtual"
)

// Options represents configuration options for the paginator.
type Options struct {
	// Metrics is the page geometry pagination targets.
	Metrics page.Metrics

	// ManualBreaks are user-requested break positions merged into every
	// break computation.
	ManualBreaks []float64

	// BufferSize is how many pages stay rendered on each side of the
	// viewport.
	BufferSize int
	// ScrollDebounce coalesces scroll-event bursts.
	ScrollDebounce time.Duration
	// FastScrollWindow and FastScrollThreshold tune fast-scroll
	// detection.
	FastScrollWindow    time.Duration
	FastScrollThreshold float64

	// MaxCachedVersions bounds the measurement cache.
	MaxCachedVersions int
	// SyncThreshold is the block count above which off-screen
	// measurement defers to idle time.
	SyncThreshold int
	// Scheduler replaces the idle scheduler; nil keeps the timer
	// fallback.
	Scheduler cache.Scheduler

	// Logger receives debug tracing. The default is disabled.
	Logger zerolog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// DefaultOptions returns the default options: US Letter geometry and the
// stock renderer tuning.
func DefaultOptions() Options {
	return Options{
		Metrics:             page.Letter,
		BufferSize:          virtual.DefaultBufferSize,
		ScrollDebounce:      virtual.DefaultDebounce,
		FastScrollWindow:    virtual.DefaultVelocityWindow,
		FastScrollThreshold: virtual.DefaultFastThreshold,
		MaxCachedVersions:   cache.DefaultMaxVersions,
		SyncThreshold:       cache.DefaultSyncThreshold,
		Logger:              zerolog.Nop(),
	}
}

// WithMetrics sets the page geometry.
func WithMetrics(m page.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithPageSizeLetter sets US Letter page geometry.
func WithPageSizeLetter() Option {
	return WithMetrics(page.Letter)
}

// WithPageSizeA4 sets A4 page geometry.
func WithPageSizeA4() Option {
	return WithMetrics(page.A4)
}

// WithPageSizeLegal sets US Legal page geometry.
func WithPageSizeLegal() Option {
	return WithMetrics(page.Legal)
}

// WithManualBreaks sets user-requested break positions.
func WithManualBreaks(breaks []float64) Option {
	return func(o *Options) {
		o.ManualBreaks = append([]float64(nil), breaks...)
	}
}

// WithBufferSize sets how many pages stay rendered around the viewport.
func WithBufferSize(n int) Option {
	return func(o *Options) {
		o.BufferSize = n
	}
}

// WithScrollDebounce sets the scroll debounce interval.
func WithScrollDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.ScrollDebounce = d
	}
}

// WithFastScroll tunes fast-scroll detection.
func WithFastScroll(window time.Duration, threshold float64) Option {
	return func(o *Options) {
		o.FastScrollWindow = window
		o.FastScrollThreshold = threshold
	}
}

// WithMaxCachedVersions bounds the measurement cache.
func WithMaxCachedVersions(n int) Option {
	return func(o *Options) {
		o.MaxCachedVersions = n
	}
}

// WithSyncThreshold sets the block count at which measurement moves off
// the interactive path.
func WithSyncThreshold(n int) Option {
	return func(o *Options) {
		o.SyncThreshold = n
	}
}

// WithScheduler replaces the idle scheduler.
func WithScheduler(s cache.Scheduler) Option {
	return func(o *Options) {
		o.Scheduler = s
	}
}

// WithLogger sets the logger used for engine tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}
