package selection

import (
	"time"

	"pdfview/geom"
)

// Event is a discrete gesture input. Coordinates are pixels relative to the
// event's page canvas origin.
type Event interface{ isEvent() }

// PointerDown starts a mouse drag on a page.
type PointerDown struct {
	Page int
	At   geom.Point
}

// PointerMove extends a mouse drag.
type PointerMove struct {
	Page int
	At   geom.Point
}

// PointerUp finalizes a mouse drag. Shift keeps the gesture open so more
// boxes on other pages can join the same pending set.
type PointerUp struct {
	Page  int
	At    geom.Point
	Shift bool
}

// TouchStart begins the long-press hold on a page.
type TouchStart struct {
	Page int
	At   geom.Point
}

// TouchMove moves a touch, either cancelling a pending long press or
// extending an active drag.
type TouchMove struct {
	Page int
	At   geom.Point
}

// TouchEnd lifts the finger, finalizing an active drag.
type TouchEnd struct {
	Page int
	At   geom.Point
}

// TimerFired reports that the long-press timer armed with the given
// sequence number elapsed. Stale sequence numbers are ignored.
type TimerFired struct {
	Seq int
}

// Cancel aborts the gesture: Escape, a click outside any page, or the menu
// being dismissed. It discards the in-progress box and the whole pending
// set.
type Cancel struct{}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (TouchStart) isEvent()  {}
func (TouchMove) isEvent()   {}
func (TouchEnd) isEvent()    {}
func (TimerFired) isEvent()  {}
func (Cancel) isEvent()      {}

// Effect is an action the reducer asks its caller to perform.
type Effect interface{ isEffect() }

// ArmTimer schedules a long-press timer; the caller must feed back a
// TimerFired carrying the same sequence number when it elapses.
type ArmTimer struct {
	Seq   int
	Delay time.Duration
}

// CancelTimer stops a previously armed long-press timer.
type CancelTimer struct {
	Seq int
}

// Haptic requests a short vibration where the platform supports one.
type Haptic struct{}

// ClearFocus asks the session to drop any previously selected annotation
// highlight before the new gesture takes over.
type ClearFocus struct{}

// OpenMenu asks the session to open the action menu at the release point on
// the given page.
type OpenMenu struct {
	Page int
	At   geom.Point
}

// CloseMenu asks the session to dismiss an open action menu.
type CloseMenu struct{}

func (ArmTimer) isEffect()    {}
func (CancelTimer) isEffect() {}
func (Haptic) isEffect()      {}
func (ClearFocus) isEffect()  {}
func (OpenMenu) isEffect()    {}
func (CloseMenu) isEffect()   {}
