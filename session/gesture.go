package session

import (
	"pdfview/menu"
	"pdfview/page"
	"pdfview/selection"
)

// Gesture feeds one pointer/touch event into the selection state machine
// and carries out the effects it requests: arming long-press timers,
// firing haptics, opening the action menu.
func (s *Session) Gesture(ev selection.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	// Starting a gesture on a page with no token data cannot select
	// anything; warn immediately instead of failing silently later.
	switch ev := ev.(type) {
	case selection.PointerDown:
		s.warnIfNoTokensLocked(ev.Page)
	case selection.TouchStart:
		s.warnIfNoTokensLocked(ev.Page)
	case selection.TimerFired:
		// Fired or stale, the timer is spent; stop tracking it.
		delete(s.timers, ev.Seq)
	}

	prev := s.selState
	next, effects := s.engine.Reduce(prev, ev)
	s.selState = next

	pendingChanged := len(next.Pending) != len(prev.Pending) ||
		countBoxes(next.Pending) != countBoxes(prev.Pending)
	if pendingChanged {
		s.emit(SelectionChangedEvent{Pages: next.Pending.Pages()})
		// Pages holding selection boxes are force-mounted.
		s.recomputeLocked(false)
	}

	for _, fx := range effects {
		s.applyEffectLocked(fx)
	}
	s.mu.Unlock()
}

func (s *Session) applyEffectLocked(fx selection.Effect) {
	switch fx := fx.(type) {
	case selection.ArmTimer:
		seq := fx.Seq
		s.timers[seq] = s.cfg.Clock.AfterFunc(fx.Delay, func() {
			s.Gesture(selection.TimerFired{Seq: seq})
		})

	case selection.CancelTimer:
		if t, ok := s.timers[fx.Seq]; ok {
			t.Stop()
			delete(s.timers, fx.Seq)
		}

	case selection.Haptic:
		s.cfg.Haptics.Pulse()

	case selection.ClearFocus:
		if s.focused != nil {
			s.focused = nil
			s.recomputeLocked(false)
		}

	case selection.OpenMenu:
		s.openMenuLocked(fx)

	case selection.CloseMenu:
		s.closeMenuLocked()
	}
}

// openMenuLocked reads the permission and label collaborators, builds the
// gated menu, and positions it. The release point is page-local; it is
// translated into viewport space using the page's current scroll-relative
// top.
func (s *Session) openMenuLocked(fx selection.OpenMenu) {
	perms := menu.Permissions{}
	if s.cfg.Permissions != nil {
		perms = s.cfg.Permissions.Permissions()
	}
	labels := menu.LabelContext{}
	if s.cfg.Labels != nil {
		labels = s.cfg.Labels.Labels()
	}

	anchor := fx.At
	anchor.Y += float64(s.index.Top(fx.Page) - s.scrollTop)

	m := s.menuCtrl.Open(
		anchor,
		float64(s.viewportWidth), float64(s.viewportHeight),
		perms, labels,
		s.selectionUnavailableLocked(),
	)
	s.openMenu = &m
	s.emit(MenuOpenedEvent{Menu: m})
}

func (s *Session) closeMenuLocked() {
	if s.openMenu == nil {
		return
	}
	s.openMenu = nil
	s.emit(MenuClosedEvent{})
}

// selectionUnavailableLocked reports whether any page touched by the
// pending selection lacks token data.
func (s *Session) selectionUnavailableLocked() bool {
	for _, idx := range s.selState.Pending.Pages() {
		if pg, ok := s.Page(idx); ok && !pg.HasTokens() {
			return true
		}
	}
	return false
}

func (s *Session) warnIfNoTokensLocked(idx int) {
	if pg, ok := s.Page(idx); ok && !pg.HasTokens() {
		s.emit(WarningEvent{Page: idx, Err: page.ErrMissingTokenData})
	}
}

func countBoxes(p selection.PendingSet) int {
	n := 0
	for _, boxes := range p {
		n += len(boxes)
	}
	return n
}
