// Package annotate turns a finalized selection into the annotation value
// object handed to the persistence layer. Labels arrive read-only from the
// label collaborator; the core never creates or mutates them.
package annotate

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// LabelType mirrors the label taxonomy of the annotation store.
type LabelType string

const (
	TokenLabel        LabelType = "TOKEN_LABEL"
	DocumentLabel     LabelType = "DOC_TYPE_LABEL"
	RelationshipLabel LabelType = "RELATIONSHIP_LABEL"
)

// Label identifies what an annotation means. Color is a CSS hex string.
type Label struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	Color string    `json:"color"`
	Type  LabelType `json:"type"`
}

// ColorCategory buckets the label color into a coarse human-readable
// category, used by the UI to group swatches. Unparseable colors return "".
func (l Label) ColorCategory() string {
	c, err := colorful.Hex(l.Color)
	if err != nil {
		return ""
	}
	h, s, lum := c.Hsl()

	switch {
	case lum < 0.12:
		return "Black"
	case lum > 0.98:
		return "White"
	case s < 0.2:
		return "Gray"
	case h < 15:
		return "Red"
	case h < 45:
		return "Orange"
	case h < 65:
		return "Yellow"
	case h < 170:
		return "Green"
	case h < 190:
		return "Cyan"
	case h < 263:
		return "Blue"
	case h < 280:
		return "Purple"
	case h < 335:
		return "Magenta"
	}
	return "Red"
}
