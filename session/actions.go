package session

import (
	"context"
	"errors"
	"fmt"

	"pdfview/annotate"
	"pdfview/menu"
	"pdfview/observability"
	"pdfview/selection"
)

// Menu returns the currently open action menu, if any.
func (s *Session) Menu() (menu.Menu, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openMenu == nil {
		return menu.Menu{}, false
	}
	return *s.openMenu, true
}

// Key dispatches a keyboard shortcut. While a menu is open C/A/Escape map
// to its actions; with no menu open, Escape cancels the in-progress
// gesture.
func (s *Session) Key(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	open := s.openMenu
	s.mu.Unlock()

	if open == nil {
		if key == "Escape" {
			s.Gesture(selection.Cancel{})
		}
		return "", nil
	}
	action, ok := open.HandleKey(key)
	if !ok {
		return "", nil
	}
	return s.Act(ctx, action)
}

// ClickOutside reports a click outside both the pages and the menu; it
// cancels the gesture and dismisses the menu, discarding the pending
// selection on every page it touched.
func (s *Session) ClickOutside() {
	s.Gesture(selection.Cancel{})
}

// Act performs a menu action. Copy returns the selection's raw text.
// ApplyLabel assembles the annotation under the active label and hands it
// to the persistence collaborator. Cancel discards the selection.
func (s *Session) Act(ctx context.Context, action menu.Action) (string, error) {
	switch action {
	case menu.ActionCopy:
		return s.copySelection()
	case menu.ActionApplyLabel:
		return "", s.applyLabel(ctx)
	case menu.ActionCancel:
		s.Gesture(selection.Cancel{})
		return "", nil
	}
	return "", fmt.Errorf("session: unknown action %d", action)
}

// copySelection joins the selected text across pages. The selection stays
// pending so the user can follow up with apply-label.
func (s *Session) copySelection() (string, error) {
	s.mu.Lock()
	pending := s.selState.Pending
	zoom := s.zoom
	s.mu.Unlock()

	anno, err := annotate.Assemble(s, pending, zoom, annotate.Label{})
	if errors.Is(err, annotate.ErrEmptySelection) {
		s.emit(WarningEvent{Page: -1, Err: err})
		return "", err
	}
	if err != nil {
		return "", err
	}
	return anno.RawText, nil
}

// applyLabel assembles and persists the annotation. An empty selection is a
// warned no-op, never a silent one. On success the pending selection is
// consumed, the menu closes, and the new annotation becomes the focused
// highlight so all its pages stay mounted.
func (s *Session) applyLabel(ctx context.Context) error {
	s.mu.Lock()
	pending := s.selState.Pending
	zoom := s.zoom
	labels := menu.LabelContext{}
	if s.cfg.Labels != nil {
		labels = s.cfg.Labels.Labels()
	}
	s.mu.Unlock()

	if labels.Active == nil {
		return errors.New("session: no active label")
	}

	anno, err := annotate.Assemble(s, pending, zoom, *labels.Active)
	if errors.Is(err, annotate.ErrEmptySelection) {
		s.emit(WarningEvent{Page: -1, Err: err})
		return nil
	}
	if err != nil {
		return err
	}

	if s.cfg.Persister != nil {
		if err := s.cfg.Persister.CreateAnnotation(ctx, anno); err != nil {
			s.emit(WarningEvent{Page: anno.AnchorPage, Err: err})
			return fmt.Errorf("session: create annotation: %w", err)
		}
	}

	s.cfg.Logger.Info("annotation created",
		observability.Int("anchor", anno.AnchorPage),
		observability.Int("pages", len(anno.Pages)),
		observability.String("label", anno.Label.ID),
	)

	s.mu.Lock()
	s.selState = selection.NewState()
	s.focused = &anno
	s.closeMenuLocked()
	s.recomputeLocked(false)
	s.mu.Unlock()

	s.emit(AnnotationCreatedEvent{Annotation: anno})
	return nil
}
