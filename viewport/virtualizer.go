package viewport

// Virtualizer computes the contiguous mount range for a scroll position.
// Pages outside the range are unmounted and their render resources
// released; forced pages (active selection, search hit, chat-source
// highlight) widen the range so they stay mounted wherever the user has
// scrolled. A highlight spanning several pages must force every page it
// touches, not just its anchor, or the off-screen parts of the highlight
// disappear.
type Virtualizer struct {
	index *HeightIndex
}

// NewVirtualizer returns a virtualizer over the given height index.
func NewVirtualizer(index *HeightIndex) *Virtualizer {
	return &Virtualizer{index: index}
}

// Range computes the inclusive mount range for the given scroll offset and
// viewport height. Overscan pages are added on both ends, then the range is
// widened to include every in-bounds forced index; out-of-range forced
// indices are dropped. The call is pure: identical arguments always produce
// an identical range.
func (v *Virtualizer) Range(scrollTop, viewportHeight, overscan int, forced []int) Range {
	n := v.index.Len()
	if n == 0 {
		return EmptyRange
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	start := v.index.PageAt(scrollTop)
	end := start
	if viewportHeight > 0 {
		end = v.index.PageAt(scrollTop + viewportHeight - 1)
	}

	start -= overscan
	end += overscan
	if start < 0 {
		start = 0
	}
	if end > n-1 {
		end = n - 1
	}

	for _, idx := range forced {
		if idx < 0 || idx >= n {
			continue // caller configuration error, not a fault
		}
		if idx < start {
			start = idx
		}
		if idx > end {
			end = idx
		}
	}

	return Range{Start: start, End: end}
}
