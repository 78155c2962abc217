// Package session ties the viewer core together. A Session owns all mutable
// viewing state for one open document: zoom, scroll position, the mount
// range, the in-progress selection gesture, and the open action menu. It is
// created when a document opens and torn down when it closes; nothing in
// the core lives in package-level variables.
//
// Session methods are intended to be called from a single UI goroutine.
// Render completions arrive on scheduler goroutines and are serialized
// through the session's mutex; per-page render generations remain the only
// ordering discipline for raster results.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pdfview/annotate"
	"pdfview/menu"
	"pdfview/observability"
	"pdfview/page"
	"pdfview/recovery"
	"pdfview/render"
	"pdfview/selection"
	"pdfview/viewport"
)

// Persister stores finished annotations. Supplied by the embedding
// application; invoked only from the apply-label action.
type Persister interface {
	CreateAnnotation(ctx context.Context, a annotate.Annotation) error
}

// PermissionSource supplies the current permission state, read fresh on
// every menu open.
type PermissionSource interface {
	Permissions() menu.Permissions
}

// LabelSource supplies the labelset state, read fresh on every menu open.
type LabelSource interface {
	Labels() menu.LabelContext
}

// ForcedPageSource names pages that must stay mounted regardless of scroll
// position: the active search hit, the active chat-source highlight. A
// source with a multi-page highlight must return every page it touches.
type ForcedPageSource interface {
	ForcedPages() []int
}

// Config assembles a session. Pages and Renderer are required.
type Config struct {
	Pages    []page.Page
	Renderer render.Renderer

	Persister   Persister
	Permissions PermissionSource
	Labels      LabelSource
	Forced      []ForcedPageSource

	// Zoom is the initial zoom factor. Default 1.0.
	Zoom float64
	// Overscan is the number of extra pages mounted above and below the
	// strictly visible span. Default 2.
	Overscan int
	// ViewportWidth/ViewportHeight are the initial viewport dimensions in
	// pixels; Resize updates them.
	ViewportWidth  int
	ViewportHeight int

	Selection selection.Config
	Menu      menu.Config

	// Concurrency bounds simultaneous page renders. Default 4.
	Concurrency int64
	// Strategy decides how render faults are handled. Default lenient.
	Strategy recovery.Strategy

	Clock   Clock
	Haptics Haptics
	Logger  observability.Logger
	Tracer  observability.Tracer

	// EventBuffer sizes the event channel. Default 64. When the UI falls
	// behind, further events are dropped rather than blocking the core.
	EventBuffer int
}

func (c *Config) setDefaults() {
	if c.Zoom <= 0 {
		c.Zoom = 1.0
	}
	if c.Overscan <= 0 {
		c.Overscan = 2
	}
	if c.Clock == nil {
		c.Clock = SystemClock()
	}
	if c.Haptics == nil {
		c.Haptics = NopHaptics{}
	}
	if c.Logger == nil {
		c.Logger = observability.NopLogger{}
	}
	if c.Tracer == nil {
		c.Tracer = observability.NopTracer()
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 64
	}
}

// Session is the per-document state owner.
type Session struct {
	cfg Config

	ctx    context.Context
	cancel context.CancelFunc

	// guards everything below
	mu sync.Mutex

	pages []page.Page
	zoom  float64

	scrollTop      int
	viewportWidth  int
	viewportHeight int

	index *viewport.HeightIndex
	virt  *viewport.Virtualizer
	rng   viewport.Range
	sched *render.Scheduler

	engine   *selection.Engine
	selState selection.State
	timers   map[int]Timer

	menuCtrl *menu.Controller
	openMenu *menu.Menu

	// focused is the annotation highlighted after apply-label (or selected
	// by the embedder); every page it spans is force-mounted.
	focused *annotate.Annotation

	events chan Event
	closed bool
}

// New opens a session over the given pages.
func New(cfg Config) (*Session, error) {
	if len(cfg.Pages) == 0 {
		return nil, errors.New("session: at least one page is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("session: renderer is required")
	}
	cfg.setDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:            cfg,
		ctx:            ctx,
		cancel:         cancel,
		pages:          cfg.Pages,
		zoom:           cfg.Zoom,
		viewportWidth:  cfg.ViewportWidth,
		viewportHeight: cfg.ViewportHeight,
		engine:         selection.NewEngine(cfg.Selection),
		selState:       selection.NewState(),
		timers:         make(map[int]Timer),
		menuCtrl:       menu.NewController(cfg.Menu),
		events:         make(chan Event, cfg.EventBuffer),
	}

	sched, err := render.NewScheduler(render.Config{
		Renderer:    cfg.Renderer,
		Concurrency: cfg.Concurrency,
		Logger:      cfg.Logger,
		Tracer:      cfg.Tracer,
		Strategy:    cfg.Strategy,
		OnResult: func(r render.Result) {
			s.emit(PageRenderedEvent{Page: r.Page, Generation: r.Generation, Zoom: r.Zoom})
		},
	})
	if err != nil {
		cancel()
		return nil, err
	}
	s.sched = sched

	s.index = viewport.NewHeightIndex(s.pages, s.zoom)
	s.virt = viewport.NewVirtualizer(s.index)

	s.mu.Lock()
	s.recomputeLocked(true)
	s.mu.Unlock()
	return s, nil
}

// Events returns the notification channel. It is closed by Close.
func (s *Session) Events() <-chan Event { return s.events }

// Close tears the session down: cancels renders, stops timers, closes the
// event channel. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for seq, t := range s.timers {
		t.Stop()
		delete(s.timers, seq)
	}
	s.mu.Unlock()

	s.cancel()
	s.sched.Close()
	close(s.events)
}

// Page returns the page at the given index. Pages are immutable, so this
// needs no locking and satisfies annotate.PageSet.
func (s *Session) Page(index int) (page.Page, bool) {
	if index < 0 || index >= len(s.pages) {
		return page.Page{}, false
	}
	return s.pages[index], true
}

// PageCount returns the number of pages in the document.
func (s *Session) PageCount() int { return len(s.pages) }

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// Range returns the current mount range.
func (s *Session) Range() viewport.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng
}

// TotalHeight returns the document's scroll height in pixels at the current
// zoom.
func (s *Session) TotalHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.TotalHeight()
}

// PageTop returns the pixel top of the given page at the current zoom.
func (s *Session) PageTop(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Top(index)
}

// Scroll updates the scroll offset and recomputes the mount range.
func (s *Session) Scroll(top int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if top < 0 {
		top = 0
	}
	s.scrollTop = top
	s.recomputeLocked(false)
}

// Resize updates the viewport dimensions and recomputes the mount range.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportWidth = width
	s.viewportHeight = height
	s.recomputeLocked(false)
}

// SetZoom changes the zoom factor. The height index is rebuilt from page
// heights (rounded once per page at the new zoom) and every mounted page is
// re-rendered under a new generation; renders still in flight for the old
// zoom are cancelled and their late results discarded.
func (s *Session) SetZoom(zoom float64) error {
	if zoom <= 0 {
		return fmt.Errorf("session: invalid zoom %v", zoom)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoom == s.zoom {
		return nil
	}
	// Keep the document position under the viewport top stable across the
	// zoom change.
	anchor := float64(s.scrollTop) / s.zoom
	s.zoom = zoom
	s.scrollTop = int(anchor * zoom)
	s.index = viewport.NewHeightIndex(s.pages, zoom)
	s.virt = viewport.NewVirtualizer(s.index)
	s.recomputeLocked(true)
	return nil
}

// SetFocused replaces the focused annotation highlight. Pass nil to clear.
// Every page the annotation spans is force-mounted.
func (s *Session) SetFocused(a *annotate.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = a
	s.recomputeLocked(false)
}

// Refresh recomputes the mount range, picking up changes in the forced-page
// sources (a new search hit, a chat source highlight).
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked(false)
}

// recomputeLocked recalculates the mount range and reconciles the render
// scheduler. force applies the scheduler even when the range is unchanged
// (zoom changes need that). Caller holds s.mu.
func (s *Session) recomputeLocked(force bool) {
	forced := s.forcedPagesLocked()
	rng := s.virt.Range(s.scrollTop, s.viewportHeight, s.cfg.Overscan, forced)
	changed := rng != s.rng
	s.rng = rng
	if changed || force {
		s.sched.Apply(s.ctx, rng, s.zoom)
	}
	if changed {
		s.emit(RangeChangedEvent{Range: rng})
	}
}

// forcedPagesLocked gathers every page that must stay mounted: pages
// holding pending selection boxes, pages spanned by the focused annotation,
// and whatever the external sources (search, chat) report.
func (s *Session) forcedPagesLocked() []int {
	var forced []int
	forced = append(forced, s.selState.Pending.Pages()...)
	if s.focused != nil {
		forced = append(forced, s.focused.PagesSpanned()...)
	}
	for _, src := range s.cfg.Forced {
		forced = append(forced, src.ForcedPages()...)
	}
	return forced
}

// emit delivers an event without ever blocking the core. Events are dropped
// when the UI stops draining the channel.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.cfg.Logger.Debug("event dropped", observability.Int("type", int(ev.Type())))
	}
}
