package selection

import (
	"sort"

	"pdfview/geom"
)

// PendingSet accumulates finalized selection boxes per page over the course
// of one gesture. It is owned exclusively by that gesture: it is created
// empty on the first pointer-down and is either consumed by a menu action
// or discarded on cancel, never persisted.
//
// Methods return new sets; the reducer never mutates a state it was handed.
type PendingSet map[int][]geom.Rect

// NewPendingSet returns an empty set.
func NewPendingSet() PendingSet { return PendingSet{} }

// With returns a copy of the set with the box appended to the given page.
// The box is stored normalized.
func (p PendingSet) With(page int, box geom.Rect) PendingSet {
	out := make(PendingSet, len(p)+1)
	for k, v := range p {
		boxes := make([]geom.Rect, len(v))
		copy(boxes, v)
		out[k] = boxes
	}
	out[page] = append(out[page], box.Normalize())
	return out
}

// IsEmpty reports whether no boxes have been finalized yet.
func (p PendingSet) IsEmpty() bool { return len(p) == 0 }

// Pages returns the touched page indices in ascending order.
func (p PendingSet) Pages() []int {
	out := make([]int, 0, len(p))
	for idx := range p {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Boxes returns the finalized boxes for one page.
func (p PendingSet) Boxes(page int) []geom.Rect { return p[page] }
