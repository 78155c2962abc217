// Package viewport decides which pages of a document are mounted. A
// HeightIndex keeps the cumulative pixel offset of every page at the current
// zoom; a Virtualizer turns a scroll position and viewport height into the
// contiguous range of pages to keep alive, including overscan and any pages
// that must stay mounted regardless of scroll position.
package viewport

import (
	"sort"

	"pdfview/coords"
	"pdfview/page"
)

// Range is an inclusive span of page indices. The zero value with End < 0
// is the empty range.
type Range struct {
	Start int
	End   int
}

// EmptyRange is the range covering no pages.
var EmptyRange = Range{Start: 0, End: -1}

// Len returns the number of pages in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether the page index lies in the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i <= r.End }

// HeightIndex maintains the cumulative pixel tops of a document's pages at a
// fixed zoom. Each page height is rounded to whole pixels exactly once, and
// cumulative offsets are sums of those rounded values; re-rounding an
// accumulated value would let sub-pixel error drift across hundreds of
// pages.
type HeightIndex struct {
	zoom float64
	// cum has one entry per page plus a final total; cum[i] is the pixel
	// top of page i and cum[len] is the total document height.
	cum []int
}

// NewHeightIndex builds the cumulative height array for the given pages at
// the given zoom.
func NewHeightIndex(pages []page.Page, zoom float64) *HeightIndex {
	cum := make([]int, len(pages)+1)
	for i, p := range pages {
		cum[i+1] = cum[i] + coords.RoundedHeight(p.HeightPts(), zoom)
	}
	return &HeightIndex{zoom: zoom, cum: cum}
}

// Len returns the number of pages indexed.
func (h *HeightIndex) Len() int { return len(h.cum) - 1 }

// Zoom returns the zoom factor the index was built for.
func (h *HeightIndex) Zoom() float64 { return h.zoom }

// Top returns the pixel offset of the page's top edge.
func (h *HeightIndex) Top(i int) int { return h.cum[i] }

// Height returns the page's rounded pixel height.
func (h *HeightIndex) Height(i int) int { return h.cum[i+1] - h.cum[i] }

// TotalHeight returns the pixel height of the whole document, used to size
// the scroll container.
func (h *HeightIndex) TotalHeight() int { return h.cum[len(h.cum)-1] }

// Offsets returns the pixel top of every page, for absolutely positioning
// mounted pages. The returned slice is a copy.
func (h *HeightIndex) Offsets() []int {
	out := make([]int, h.Len())
	copy(out, h.cum[:h.Len()])
	return out
}

// PageAt returns the index of the page occupying scroll offset y. Offsets
// before the first page clamp to 0 and offsets past the end clamp to the
// last page.
func (h *HeightIndex) PageAt(y int) int {
	n := h.Len()
	if n == 0 {
		return 0
	}
	if y < 0 {
		return 0
	}
	if y >= h.TotalHeight() {
		return n - 1
	}
	// First page whose bottom edge is past y.
	i := sort.Search(n, func(i int) bool { return h.cum[i+1] > y })
	if i >= n {
		return n - 1
	}
	return i
}
