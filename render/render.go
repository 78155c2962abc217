// Package render owns the per-page raster lifecycle: mounting and
// unmounting pages as the visible range moves, re-rendering on zoom, and
// discarding results that were superseded while in flight. Correctness does
// not depend on the underlying renderer honoring cancellation promptly; a
// per-page generation counter decides whether a completed render is still
// wanted.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"pdfview/observability"
	"pdfview/recovery"
	"pdfview/viewport"
)

// ErrCancelled marks a render that was superseded or whose page was
// unmounted before it finished. Renderer implementations may return it to
// report an aborted render; the scheduler treats it like a context
// cancellation. Never user-visible.
var ErrCancelled = errors.New("render: cancelled")

// PageState is the lifecycle state of one page slot.
type PageState int

const (
	Unmounted PageState = iota
	Mounting
	Active
)

func (s PageState) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Active:
		return "active"
	}
	return "unknown"
}

// Renderer produces a page raster at a zoom factor. Implementations should
// honor ctx cancellation but the scheduler stays correct even if they
// finish anyway.
type Renderer interface {
	RenderPage(ctx context.Context, pageIndex int, zoom float64) (image.Image, error)
}

// Result is a completed, still-current render delivered to the embedder.
type Result struct {
	Page       int
	Generation uint64
	Zoom       float64
	Image      image.Image
}

// Config configures a Scheduler.
type Config struct {
	Renderer Renderer
	// Concurrency bounds simultaneous page renders. Default 4.
	Concurrency int64
	// OnResult receives current-generation completions. Called from
	// scheduler goroutines; implementations must be safe for that.
	OnResult func(Result)
	Logger   observability.Logger
	Tracer   observability.Tracer
	// Strategy decides what a failed (non-cancelled) render does.
	// Default is lenient.
	Strategy recovery.Strategy
}

func (c *Config) setDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Logger == nil {
		c.Logger = observability.NopLogger{}
	}
	if c.Tracer == nil {
		c.Tracer = observability.NopTracer()
	}
	if c.Strategy == nil {
		c.Strategy = recovery.NewLenientStrategy()
	}
}

// pageSlot is the scheduler's state for one mounted page.
type pageSlot struct {
	state      PageState
	generation uint64
	zoom       float64 // zoom of the latest request
	cancel     context.CancelFunc
	img        image.Image // last raster that was applied
	imgZoom    float64     // zoom the applied raster was rendered at
}

// Scheduler keeps one cancellable render task per mounted page.
type Scheduler struct {
	cfg Config
	sem *semaphore.Weighted

	mu    sync.Mutex
	pages map[int]*pageSlot
	wg    sync.WaitGroup
}

// NewScheduler returns a scheduler with no pages mounted.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("render: renderer is required")
	}
	cfg.setDefaults()
	return &Scheduler{
		cfg:   cfg,
		sem:   semaphore.NewWeighted(cfg.Concurrency),
		pages: make(map[int]*pageSlot),
	}, nil
}

// Apply reconciles the mounted set against the given range and zoom. Pages
// leaving the range are unmounted and their in-flight renders cancelled;
// pages entering it are mounted and rendered; mounted pages whose zoom
// changed get a new generation, which invalidates whatever was in flight.
func (s *Scheduler) Apply(ctx context.Context, rng viewport.Range, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, slot := range s.pages {
		if !rng.Contains(idx) {
			s.unmountLocked(idx, slot)
		}
	}

	for idx := rng.Start; idx <= rng.End; idx++ {
		slot, mounted := s.pages[idx]
		if !mounted {
			slot = &pageSlot{state: Mounting}
			s.pages[idx] = slot
			s.startLocked(ctx, idx, slot, zoom)
			continue
		}
		if slot.zoom != zoom {
			s.startLocked(ctx, idx, slot, zoom)
		}
	}

	s.cfg.Logger.Debug("range applied",
		observability.Int("start", rng.Start),
		observability.Int("end", rng.End),
		observability.Int(observability.MetricPagesMounted, len(s.pages)),
		observability.Float64("zoom", zoom),
	)
}

// startLocked bumps the page's generation, cancels any in-flight task, and
// launches the replacement. Caller holds s.mu.
func (s *Scheduler) startLocked(ctx context.Context, idx int, slot *pageSlot, zoom float64) {
	if slot.cancel != nil {
		slot.cancel()
	}
	slot.generation++
	slot.zoom = zoom
	gen := slot.generation

	taskCtx, cancel := context.WithCancel(ctx)
	slot.cancel = cancel

	s.wg.Add(1)
	go s.run(taskCtx, idx, gen, zoom)
}

func (s *Scheduler) run(ctx context.Context, idx int, gen uint64, zoom float64) {
	defer s.wg.Done()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return // unmounted or superseded while queued
	}
	defer s.sem.Release(1)

	ctx, span := s.cfg.Tracer.StartSpan(ctx, "render.page")
	span.SetTag("page", idx)
	defer span.Finish()

	started := time.Now()
	img, err := s.cfg.Renderer.RenderPage(ctx, idx, zoom)
	if err != nil {
		s.renderFailed(ctx, idx, err, span)
		return
	}

	s.mu.Lock()
	slot, mounted := s.pages[idx]
	if !mounted || slot.generation != gen {
		s.mu.Unlock()
		// A newer request won while this one was rasterizing.
		s.cfg.Logger.Debug(observability.MetricRenderStale,
			observability.Int("page", idx),
			observability.Uint64("generation", gen),
		)
		return
	}
	slot.state = Active
	slot.img = img
	slot.imgZoom = zoom
	s.mu.Unlock()

	s.cfg.Logger.Debug(observability.MetricRenderTime,
		observability.Int("page", idx),
		observability.Duration("elapsed", time.Since(started)),
	)
	if s.cfg.OnResult != nil {
		s.cfg.OnResult(Result{Page: idx, Generation: gen, Zoom: zoom, Image: img})
	}
}

func (s *Scheduler) renderFailed(ctx context.Context, idx int, err error, span observability.Span) {
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return // expected under scroll/zoom churn
	}
	span.SetError(err)
	loc := recovery.Location{Page: idx, Component: "render"}
	switch s.cfg.Strategy.OnError(ctx, err, loc) {
	case recovery.ActionFail, recovery.ActionWarn:
		s.cfg.Logger.Warn("page render failed",
			observability.Int("page", idx),
			observability.Error("err", err),
		)
	case recovery.ActionSkip:
		s.cfg.Logger.Debug("page render skipped",
			observability.Int("page", idx),
			observability.Error("err", err),
		)
	}
}

func (s *Scheduler) unmountLocked(idx int, slot *pageSlot) {
	if slot.cancel != nil {
		slot.cancel()
	}
	delete(s.pages, idx)
}

// State returns the lifecycle state of a page.
func (s *Scheduler) State(idx int) PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.pages[idx]
	if !ok {
		return Unmounted
	}
	return slot.state
}

// Generation returns the page's current render generation, or 0 when the
// page is not mounted.
func (s *Scheduler) Generation(idx int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.pages[idx]; ok {
		return slot.generation
	}
	return 0
}

// Close cancels all in-flight renders and waits for their goroutines.
func (s *Scheduler) Close() {
	s.mu.Lock()
	for idx, slot := range s.pages {
		s.unmountLocked(idx, slot)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("render.Scheduler{mounted: %d}", len(s.pages))
}
