package render_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"pdfview/recovery"
	"pdfview/render"
	"pdfview/viewport"
)

func rng(start, end int) viewport.Range { return viewport.Range{Start: start, End: end} }

func waitResult(t *testing.T, ch <-chan render.Result) render.Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a render result")
		return render.Result{}
	}
}

// instantRenderer produces a fixed-size raster scaled by zoom.
type instantRenderer struct{}

func (instantRenderer) RenderPage(_ context.Context, _ int, zoom float64) (image.Image, error) {
	side := int(100 * zoom)
	return image.NewRGBA(image.Rect(0, 0, side, side)), nil
}

// gatedRenderer blocks renders at the gated zoom until the gate closes,
// and ignores context cancellation on purpose: the scheduler must stay
// correct even when the backend cannot stop mid-render.
type gatedRenderer struct {
	gateZoom float64
	gate     chan struct{}
}

func (r *gatedRenderer) RenderPage(_ context.Context, _ int, zoom float64) (image.Image, error) {
	if zoom == r.gateZoom {
		<-r.gate
	}
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

// blockingRenderer renders nothing until its context is cancelled.
type blockingRenderer struct{}

func (blockingRenderer) RenderPage(ctx context.Context, _ int, _ float64) (image.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRenderDeliversResults(t *testing.T) {
	results := make(chan render.Result, 16)
	s, err := render.NewScheduler(render.Config{
		Renderer: instantRenderer{},
		OnResult: func(r render.Result) { results <- r },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Apply(context.Background(), rng(0, 2), 1.0)

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		r := waitResult(t, results)
		seen[r.Page] = true
		if r.Generation != 1 {
			t.Fatalf("page %d generation %d, want 1", r.Page, r.Generation)
		}
	}
	for idx := 0; idx <= 2; idx++ {
		if !seen[idx] {
			t.Fatalf("no result for page %d", idx)
		}
		if got := s.State(idx); got != render.Active {
			t.Fatalf("page %d state %v, want active", idx, got)
		}
	}
	if got := s.State(7); got != render.Unmounted {
		t.Fatalf("unmounted page state %v", got)
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	gate := make(chan struct{})
	r := &gatedRenderer{gateZoom: 1.0, gate: gate}
	results := make(chan render.Result, 16)
	s, err := render.NewScheduler(render.Config{
		Renderer: r,
		OnResult: func(res render.Result) { results <- res },
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s.Apply(ctx, rng(0, 0), 1.0) // generation 1, stuck on the gate
	s.Apply(ctx, rng(0, 0), 2.0) // generation 2 supersedes it

	got := waitResult(t, results)
	if got.Generation != 2 || got.Zoom != 2.0 {
		t.Fatalf("got generation %d zoom %v, want generation 2 zoom 2.0", got.Generation, got.Zoom)
	}

	// Let the superseded render finish late; its result must be dropped.
	close(gate)
	s.Close()

	select {
	case extra := <-results:
		t.Fatalf("stale render leaked: %+v", extra)
	default:
	}
	if got := s.Generation(0); got != 0 {
		t.Fatalf("generation after close = %d, want 0", got)
	}
}

func TestUnmountCancelsInFlight(t *testing.T) {
	s, err := render.NewScheduler(render.Config{Renderer: blockingRenderer{}})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s.Apply(ctx, rng(0, 1), 1.0)
	if got := s.State(0); got != render.Mounting {
		t.Fatalf("state %v, want mounting", got)
	}

	// Page 0 leaves the range: its render context is cancelled and the
	// slot released.
	s.Apply(ctx, rng(1, 1), 1.0)
	if got := s.State(0); got != render.Unmounted {
		t.Fatalf("state %v, want unmounted", got)
	}
	if got := s.State(1); got != render.Mounting {
		t.Fatalf("state %v, want mounting", got)
	}

	// Close cancels the remaining render and waits for it.
	s.Close()
}

type failingRenderer struct {
	failPage int
}

func (r failingRenderer) RenderPage(_ context.Context, idx int, zoom float64) (image.Image, error) {
	if idx == r.failPage {
		return nil, fmt.Errorf("decode error on page %d", idx)
	}
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

func TestRenderFailureIsContained(t *testing.T) {
	strategy := recovery.NewLenientStrategy()
	results := make(chan render.Result, 16)
	s, err := render.NewScheduler(render.Config{
		Renderer: failingRenderer{failPage: 1},
		Strategy: strategy,
		OnResult: func(r render.Result) { results <- r },
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Apply(context.Background(), rng(0, 2), 1.0)

	// The healthy pages still render.
	seen := map[int]bool{}
	for i := 0; i < 2; i++ {
		seen[waitResult(t, results).Page] = true
	}
	if !seen[0] || !seen[2] {
		t.Fatalf("healthy pages missing: %v", seen)
	}

	s.Close()
	if got := strategy.Errors(); len(got) != 1 {
		t.Fatalf("strategy recorded %d errors, want 1", len(got))
	}
}

// gatedFailingRenderer fails every render, holding all of them at a gate so
// they report their failures at the same time.
type gatedFailingRenderer struct {
	gate chan struct{}
}

func (r *gatedFailingRenderer) RenderPage(_ context.Context, idx int, _ float64) (image.Image, error) {
	<-r.gate
	return nil, fmt.Errorf("decode error on page %d", idx)
}

func TestSimultaneousFailuresAllRecorded(t *testing.T) {
	strategy := recovery.NewLenientStrategy()
	gate := make(chan struct{})
	s, err := render.NewScheduler(render.Config{
		Renderer:    &gatedFailingRenderer{gate: gate},
		Strategy:    strategy,
		Concurrency: 8,
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Apply(context.Background(), rng(0, 7), 1.0)
	close(gate) // all eight renders fail at once
	s.Close()

	if got := strategy.Errors(); len(got) != 8 {
		t.Fatalf("strategy recorded %d errors, want 8", len(got))
	}
}

func TestPlaceholderRescales(t *testing.T) {
	results := make(chan render.Result, 1)
	s, err := render.NewScheduler(render.Config{
		Renderer: instantRenderer{},
		OnResult: func(r render.Result) { results <- r },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.Apply(context.Background(), rng(0, 0), 1.0)
	waitResult(t, results)

	img, ok := s.Placeholder(0, 2.0)
	if !ok {
		t.Fatal("expected a placeholder after the first render")
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("placeholder %dx%d, want 200x200", b.Dx(), b.Dy())
	}

	// Same zoom returns the applied raster untouched.
	img, ok = s.Placeholder(0, 1.0)
	if !ok || img.Bounds().Dx() != 100 {
		t.Fatalf("same-zoom placeholder %v %v", img, ok)
	}

	if _, ok := s.Placeholder(42, 1.0); ok {
		t.Fatal("unmounted page must not produce a placeholder")
	}
}

func TestSchedulerRequiresRenderer(t *testing.T) {
	if _, err := render.NewScheduler(render.Config{}); err == nil {
		t.Fatal("expected error for missing renderer")
	}
}

// raceProbe checks OnResult is never invoked after Close returns.
func TestCloseWaitsForGoroutines(t *testing.T) {
	var mu sync.Mutex
	late := false
	closed := false

	s, err := render.NewScheduler(render.Config{
		Renderer: instantRenderer{},
		OnResult: func(render.Result) {
			mu.Lock()
			if closed {
				late = true
			}
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Apply(context.Background(), rng(0, 5), 1.0)
	s.Close()
	mu.Lock()
	closed = true
	mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if late {
		t.Fatal("OnResult fired after Close returned")
	}
}

func TestCancelledErrorIdentity(t *testing.T) {
	if errors.Is(render.ErrCancelled, context.Canceled) {
		t.Fatal("ErrCancelled must be its own sentinel")
	}
}

type abortingRenderer struct{}

func (abortingRenderer) RenderPage(context.Context, int, float64) (image.Image, error) {
	return nil, render.ErrCancelled
}

func TestRendererCancelledIsNotAFault(t *testing.T) {
	strategy := recovery.NewLenientStrategy()
	s, err := render.NewScheduler(render.Config{
		Renderer: abortingRenderer{},
		Strategy: strategy,
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Apply(context.Background(), rng(0, 1), 1.0)
	s.Close()

	if got := strategy.Errors(); len(got) != 0 {
		t.Fatalf("aborted renders reached the strategy: %v", got)
	}
}
