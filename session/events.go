package session

import (
	"pdfview/annotate"
	"pdfview/menu"
	"pdfview/viewport"
)

// EventType discriminates session events.
type EventType int

const (
	EventRangeChanged EventType = iota
	EventSelectionChanged
	EventMenuOpened
	EventMenuClosed
	EventAnnotationCreated
	EventPageRendered
	EventWarning
)

// Event is a notification the session pushes to the embedding UI layer.
type Event interface {
	Type() EventType
}

// RangeChangedEvent reports a new mount range; the UI should mount pages
// entering the range and release pages leaving it.
type RangeChangedEvent struct {
	Range viewport.Range
}

func (RangeChangedEvent) Type() EventType { return EventRangeChanged }

// SelectionChangedEvent reports that the pending selection gained or lost
// boxes; Pages lists the touched page indices, ascending.
type SelectionChangedEvent struct {
	Pages []int
}

func (SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// MenuOpenedEvent carries a ready-to-draw action menu.
type MenuOpenedEvent struct {
	Menu menu.Menu
}

func (MenuOpenedEvent) Type() EventType { return EventMenuOpened }

// MenuClosedEvent reports that an open menu was consumed or dismissed.
type MenuClosedEvent struct{}

func (MenuClosedEvent) Type() EventType { return EventMenuClosed }

// AnnotationCreatedEvent reports a successful apply-label.
type AnnotationCreatedEvent struct {
	Annotation annotate.Annotation
}

func (AnnotationCreatedEvent) Type() EventType { return EventAnnotationCreated }

// PageRenderedEvent reports a completed, current-generation page raster.
type PageRenderedEvent struct {
	Page       int
	Generation uint64
	Zoom       float64
}

func (PageRenderedEvent) Type() EventType { return EventPageRendered }

// WarningEvent surfaces a non-fatal, user-relevant condition, such as a
// page without token data or a persistence failure.
type WarningEvent struct {
	Page int // -1 when not page-scoped
	Err  error
}

func (WarningEvent) Type() EventType { return EventWarning }
