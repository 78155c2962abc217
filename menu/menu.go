// Package menu decides which actions a finalized selection offers and where
// the action menu sits on screen. The controller is headless: it produces a
// Menu description for the UI layer to draw and interprets keyboard
// shortcuts while one is open.
package menu

import (
	"pdfview/annotate"
	"pdfview/geom"
)

// Action is one of the fixed menu entries.
type Action int

const (
	ActionCopy Action = iota
	ActionApplyLabel
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionApplyLabel:
		return "apply-label"
	case ActionCancel:
		return "cancel"
	}
	return "unknown"
}

// Guidance messages shown in place of a disabled apply-label action,
// ordered by which precondition is missing first.
const (
	GuidanceNoLabelset           = "No labelset configured"
	GuidanceNoLabels             = "No labels available"
	GuidanceNoActiveLabel        = "Select a label to annotate"
	GuidanceReadOnly             = "This document is read-only"
	GuidanceSelectionUnavailable = "Text selection is unavailable on this page"
)

// Permissions is the slice of the permission collaborator's state the menu
// cares about, supplied fresh on every open.
type Permissions struct {
	ReadOnly        bool
	CanUpdateCorpus bool
}

// LabelContext is the label collaborator's state at open time.
type LabelContext struct {
	Active      *annotate.Label
	HasLabelset bool
	HasLabels   bool
}

// Config carries the estimated menu dimensions used for clamping. The real
// menu is drawn by the UI layer; estimates only need to be close enough
// that the clamped anchor keeps it on screen.
type Config struct {
	Width  float64 // estimated menu width, default 200
	Height float64 // estimated menu height, default 120
	Margin float64 // minimum distance from viewport edges, default 10
	Offset float64 // preferred offset from the anchor point, default 10
}

func (c *Config) setDefaults() {
	if c.Width <= 0 {
		c.Width = 200
	}
	if c.Height <= 0 {
		c.Height = 120
	}
	if c.Margin <= 0 {
		c.Margin = 10
	}
	if c.Offset <= 0 {
		c.Offset = 10
	}
}

// Menu describes one open action menu.
type Menu struct {
	// At is the clamped top-left position of the menu in viewport pixels.
	At geom.Point
	// CopyEnabled is true regardless of permission state.
	CopyEnabled bool
	// ApplyEnabled gates the apply-label action.
	ApplyEnabled bool
	// Guidance lists the messages explaining disabled actions.
	Guidance []string
}

// Controller builds menus from collaborator state.
type Controller struct {
	cfg Config
}

// NewController returns a controller with the given dimension estimates.
func NewController(cfg Config) *Controller {
	cfg.setDefaults()
	return &Controller{cfg: cfg}
}

// Open positions and gates a menu for a selection released at anchor.
// selectionUnavailable flags that a touched page had no token data, which
// adds guidance without changing the gating.
func (c *Controller) Open(
	anchor geom.Point,
	viewportW, viewportH float64,
	perms Permissions,
	labels LabelContext,
	selectionUnavailable bool,
) Menu {
	m := Menu{
		At:          c.clamp(anchor, viewportW, viewportH),
		CopyEnabled: true,
	}

	switch {
	case perms.ReadOnly:
		m.Guidance = append(m.Guidance, GuidanceReadOnly)
	case !perms.CanUpdateCorpus:
		m.Guidance = append(m.Guidance, GuidanceReadOnly)
	case !labels.HasLabelset:
		m.Guidance = append(m.Guidance, GuidanceNoLabelset)
	case !labels.HasLabels:
		m.Guidance = append(m.Guidance, GuidanceNoLabels)
	case labels.Active == nil:
		m.Guidance = append(m.Guidance, GuidanceNoActiveLabel)
	default:
		m.ApplyEnabled = true
	}

	if selectionUnavailable {
		m.Guidance = append(m.Guidance, GuidanceSelectionUnavailable)
	}
	return m
}

// clamp keeps the whole estimated menu inside the viewport margins,
// shifting left/up from the naive anchor+offset placement when it would
// overflow.
func (c *Controller) clamp(anchor geom.Point, vw, vh float64) geom.Point {
	p := geom.Point{X: anchor.X + c.cfg.Offset, Y: anchor.Y + c.cfg.Offset}
	if p.X+c.cfg.Width > vw-c.cfg.Margin {
		p.X = vw - c.cfg.Margin - c.cfg.Width
	}
	if p.Y+c.cfg.Height > vh-c.cfg.Margin {
		p.Y = vh - c.cfg.Margin - c.cfg.Height
	}
	if p.X < c.cfg.Margin {
		p.X = c.cfg.Margin
	}
	if p.Y < c.cfg.Margin {
		p.Y = c.cfg.Margin
	}
	return p
}

// HandleKey maps a keyboard shortcut to an action while the menu is open.
// Apply-label only fires when enabled; unknown keys return false.
func (m Menu) HandleKey(key string) (Action, bool) {
	switch key {
	case "c", "C":
		return ActionCopy, true
	case "a", "A":
		if m.ApplyEnabled {
			return ActionApplyLabel, true
		}
		return 0, false
	case "Escape":
		return ActionCancel, true
	}
	return 0, false
}
