package view

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/geo"
	"github.com/homeeconomics/PriceMaps/internal/observability"
)

// Controller coalesces viewport and boundary events into debounced
// recomputations. Rapid events within the debounce interval trigger exactly
// one recomputation, using the final state only (last-writer-wins); each
// recomputation publishes a fresh Snapshot through an atomic pointer.
type Controller struct {
	results   []domain.ComparisonResult // immutable after construction
	global    domain.Breakpoints
	threshold int
	debounce  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	onUpdate  func(Snapshot)

	mu       sync.Mutex
	timer    clockwork.Timer
	viewport geo.Bounds
	boundary geo.Polygon // nil when no boundary is drawn

	snapshot atomic.Pointer[Snapshot]
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock substitutes the time source, letting tests drive the debounce
// window with a fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithOnUpdate registers a callback invoked after each recomputation with the
// freshly published Snapshot.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(ctl *Controller) { ctl.onUpdate = fn }
}

// NewController builds a controller over an immutable comparison set. The
// initial snapshot covers the full dataset with the global breakpoints.
func NewController(results []domain.ComparisonResult, smallSampleThreshold int, debounce time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Controller {
	ctl := &Controller{
		results:   results,
		global:    domain.GlobalBreakpoints(results, smallSampleThreshold),
		threshold: smallSampleThreshold,
		debounce:  debounce,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(ctl)
	}

	initial := Summarize(ModeGlobal, results, ctl.global, smallSampleThreshold, ctl.clock.Now())
	ctl.snapshot.Store(&initial)
	return ctl
}

// GlobalBreakpoints returns the cached full-dataset breakpoints.
func (c *Controller) GlobalBreakpoints() domain.Breakpoints {
	return c.global
}

// Snapshot returns the most recently published snapshot.
func (c *Controller) Snapshot() Snapshot {
	return *c.snapshot.Load()
}

// SetViewport records a pan/zoom settle event. The stored viewport always
// updates, but while a boundary is drawn it does not change the selection.
func (c *Controller) SetViewport(b geo.Bounds) {
	c.mu.Lock()
	c.viewport = b
	c.scheduleLocked()
	c.mu.Unlock()
}

// SetBoundary records a drawn polygon. At most one boundary is active at a
// time; drawing a new one discards the prior one.
func (c *Controller) SetBoundary(p geo.Polygon) {
	c.mu.Lock()
	c.boundary = p
	c.scheduleLocked()
	c.mu.Unlock()
}

// ClearBoundary discards the drawn boundary and restores viewport selection.
func (c *Controller) ClearBoundary() {
	c.mu.Lock()
	c.boundary = nil
	c.scheduleLocked()
	c.mu.Unlock()
}

// Flush forces an immediate recomputation, cancelling any pending debounce.
func (c *Controller) Flush() Snapshot {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.recompute()
	return c.Snapshot()
}

// scheduleLocked (re)arms the debounce timer. Callers hold c.mu.
func (c *Controller) scheduleLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.clock.AfterFunc(c.debounce, c.recompute)
}

func (c *Controller) recompute() {
	c.mu.Lock()
	viewport := c.viewport
	boundary := c.boundary
	c.timer = nil
	c.mu.Unlock()

	var (
		mode     Mode
		selected []domain.ComparisonResult
	)
	switch {
	case boundary != nil:
		mode = ModeBoundary
		selected = SelectBoundary(c.results, boundary)
	case viewport.Valid() && viewport != (geo.Bounds{}):
		mode = ModeViewport
		selected = SelectViewport(c.results, viewport)
	default:
		mode = ModeGlobal
		selected = c.results
	}

	snap := Summarize(mode, selected, c.global, c.threshold, c.clock.Now())
	c.snapshot.Store(&snap)

	c.metrics.SelectionRecomputes.WithLabelValues(string(mode)).Inc()
	c.metrics.SelectionSize.Observe(float64(snap.Count))
	c.logger.Debug("selection recomputed",
		"mode", mode,
		"count", snap.Count,
		"small_sample", snap.SmallSample,
		"used_global", snap.UsedGlobal,
	)

	if c.onUpdate != nil {
		c.onUpdate(snap)
	}
}
