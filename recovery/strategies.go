package recovery

import (
	"context"
	"fmt"
	"sync"
)

// StrictStrategy fails on every fault. Useful in tests and batch tools
// where a broken page should stop the run.
type StrictStrategy struct{}

// NewStrictStrategy returns a fail-fast strategy.
func NewStrictStrategy() *StrictStrategy { return &StrictStrategy{} }

func (*StrictStrategy) OnError(_ context.Context, _ error, _ Location) Action {
	return ActionFail
}

// LenientStrategy keeps the session alive on any fault, accumulating the
// errors it saw so the embedder can inspect or display them later. Safe for
// concurrent use; the render scheduler reports faults from several
// goroutines at once.
type LenientStrategy struct {
	mu   sync.Mutex
	errs []error
}

// NewLenientStrategy returns a keep-going strategy.
func NewLenientStrategy() *LenientStrategy { return &LenientStrategy{} }

func (s *LenientStrategy) OnError(_ context.Context, err error, loc Location) Action {
	s.mu.Lock()
	s.errs = append(s.errs, fmt.Errorf("[%s] page %d: %w", loc.Component, loc.Page, err))
	s.mu.Unlock()
	return ActionWarn
}

// Errors returns a copy of the accumulated errors.
func (s *LenientStrategy) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}
