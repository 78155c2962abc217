// Package selection implements the pointer- and touch-driven span selection
// state machine. The machine is a pure reducer: it consumes discrete input
// events and returns the next state plus a list of effects (arm a timer,
// open the action menu, fire haptics) for the caller to execute. Nothing in
// here touches a real timer or DOM, which keeps every transition unit
// testable.
//
// Mouse path: IDLE -> DRAGGING -> FINALIZED. Touch path adds a long-press
// gate: IDLE -> LONG_PRESS_PENDING -> DRAGGING -> FINALIZED, where the
// long-press timer is cancelled if the finger moves too far before it fires.
package selection

import (
	"math"
	"time"

	"pdfview/geom"
)

// Kind enumerates the machine's states.
type Kind int

const (
	Idle Kind = iota
	LongPressPending
	Dragging
	Finalized
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case LongPressPending:
		return "long-press-pending"
	case Dragging:
		return "dragging"
	case Finalized:
		return "finalized"
	}
	return "unknown"
}

// Config tunes the gesture thresholds.
type Config struct {
	// LongPress is the touch hold duration before a drag starts.
	LongPress time.Duration
	// MoveCancel is the pixel distance a touch may travel before the
	// long-press timer fires without cancelling the gesture.
	MoveCancel float64
}

func (c *Config) setDefaults() {
	if c.LongPress <= 0 {
		c.LongPress = 500 * time.Millisecond
	}
	if c.MoveCancel <= 0 {
		c.MoveCancel = 10
	}
}

// State is the complete gesture state. Points are in pixel space relative
// to the owning page's canvas origin; Pending accumulates finalized boxes
// per page across a shift-extended gesture.
type State struct {
	Kind    Kind
	Page    int        // page owning the in-progress box
	Origin  geom.Point // pointer-down position
	Current geom.Point // latest pointer position
	Pending PendingSet

	// timerSeq increments every time a long-press timer is armed so that a
	// late TimerFired from a cancelled timer is ignored.
	timerSeq int
}

// NewState returns the initial state with an empty pending set.
func NewState() State {
	return State{Kind: Idle, Pending: NewPendingSet()}
}

// Box returns the in-progress selection box, normalized. Meaningful only
// while dragging.
func (s State) Box() geom.Rect {
	return geom.FromCorners(s.Origin, s.Current)
}

// Engine reduces gesture events into states and effects.
type Engine struct {
	cfg Config
}

// NewEngine returns an engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	cfg.setDefaults()
	return &Engine{cfg: cfg}
}

// Reduce applies one event and returns the next state plus the effects the
// caller must carry out. The input state is not mutated.
func (e *Engine) Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case PointerDown:
		return e.beginDrag(s, ev.Page, ev.At)

	case PointerMove:
		return e.trackDrag(s, ev.Page, ev.At), nil

	case PointerUp:
		return e.finalize(s, ev.At, ev.Shift)

	case TouchStart:
		if s.Kind != Idle && s.Kind != Finalized {
			return s, nil
		}
		next := s
		var fx []Effect
		if s.Kind == Finalized {
			next.Pending = NewPendingSet()
			fx = append(fx, CloseMenu{})
		}
		next.Kind = LongPressPending
		next.Page = ev.Page
		next.Origin = ev.At
		next.Current = ev.At
		next.timerSeq++
		return next, append(fx, ArmTimer{Seq: next.timerSeq, Delay: e.cfg.LongPress})

	case TouchMove:
		if s.Kind == LongPressPending {
			if dist(s.Origin, ev.At) > e.cfg.MoveCancel {
				// Finger is scrolling, not selecting.
				next := s
				next.Kind = Idle
				return next, []Effect{CancelTimer{Seq: s.timerSeq}}
			}
			next := s
			next.Current = ev.At
			return next, nil
		}
		return e.trackDrag(s, ev.Page, ev.At), nil

	case TimerFired:
		if s.Kind != LongPressPending || ev.Seq != s.timerSeq {
			return s, nil // stale timer
		}
		next := s
		next.Kind = Dragging
		return next, []Effect{Haptic{}, ClearFocus{}}

	case TouchEnd:
		if s.Kind == LongPressPending {
			// Released before the hold completed: treat as a tap.
			next := s
			next.Kind = Idle
			return next, []Effect{CancelTimer{Seq: s.timerSeq}}
		}
		return e.finalize(s, ev.At, false)

	case Cancel:
		return e.cancel(s)
	}
	return s, nil
}

func (e *Engine) beginDrag(s State, pg int, at geom.Point) (State, []Effect) {
	switch s.Kind {
	case Idle, Finalized:
	default:
		return s, nil
	}
	next := s
	fx := []Effect{ClearFocus{}}
	if s.Kind == Finalized {
		// A fresh gesture after a consumed or abandoned menu starts over,
		// dismissing whatever menu that earlier gesture opened.
		next.Pending = NewPendingSet()
		fx = append(fx, CloseMenu{})
	}
	next.Kind = Dragging
	next.Page = pg
	next.Origin = at
	next.Current = at
	return next, fx
}

func (e *Engine) trackDrag(s State, pg int, at geom.Point) State {
	if s.Kind != Dragging || pg != s.Page {
		return s
	}
	next := s
	next.Current = at
	return next
}

// finalize pushes the current box into the pending set. A zero-area box is
// pushed too; downstream token lookup decides whether any text was hit.
// With shift held the gesture stays open for more pages and no menu opens.
func (e *Engine) finalize(s State, at geom.Point, shift bool) (State, []Effect) {
	if s.Kind != Dragging {
		return s, nil
	}
	next := s
	next.Current = at
	next.Pending = s.Pending.With(s.Page, geom.FromCorners(s.Origin, at))
	if shift {
		next.Kind = Idle
		return next, nil
	}
	next.Kind = Finalized
	return next, []Effect{OpenMenu{Page: s.Page, At: at}}
}

// cancel discards the in-progress box and the entire pending set, covering
// every page the gesture touched.
func (e *Engine) cancel(s State) (State, []Effect) {
	var fx []Effect
	if s.Kind == LongPressPending {
		fx = append(fx, CancelTimer{Seq: s.timerSeq})
	}
	next := s
	next.Kind = Idle
	next.Pending = NewPendingSet()
	if s.Kind == Finalized || !s.Pending.IsEmpty() {
		fx = append(fx, CloseMenu{})
	}
	return next, fx
}

func dist(a, b geom.Point) float64 {
	d := b.Sub(a)
	return math.Hypot(d.X, d.Y)
}
