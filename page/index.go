package page

import (
	"math"
	"sort"

	"pdfview/geom"
)

// coverThreshold is the fraction of a token's area that must fall inside a
// query rect for the token to count as selected. Half-covered tokens are in,
// grazed tokens are out.
const coverThreshold = 0.5

// cellSize is the spatial grid pitch in PDF points. Most word tokens are
// well under 100pt wide, so a token lands in a handful of cells.
const cellSize = 64.0

type cellKey struct{ col, row int }

// tokenIndex is a uniform-grid spatial index over token bounding boxes.
// Built once per page load, read-only afterwards, safe for concurrent
// queries.
type tokenIndex struct {
	tokens []Token
	cells  map[cellKey][]int
}

func newTokenIndex(tokens []Token) *tokenIndex {
	ix := &tokenIndex{
		tokens: tokens,
		cells:  make(map[cellKey][]int),
	}
	for i, tok := range tokens {
		forEachCell(tok.BBox, func(k cellKey) {
			ix.cells[k] = append(ix.cells[k], i)
		})
	}
	return ix
}

// search returns tokens sufficiently covered by r, in token ID order.
func (ix *tokenIndex) search(r geom.Rect) []Token {
	seen := make(map[int]struct{})
	var ids []int
	forEachCell(r, func(k cellKey) {
		for _, i := range ix.cells[k] {
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			tok := ix.tokens[i]
			if !r.Intersects(tok.BBox) {
				continue
			}
			if geom.OverlapRatio(r, tok.BBox) >= coverThreshold {
				ids = append(ids, i)
			}
		}
	})
	sort.Ints(ids)
	out := make([]Token, 0, len(ids))
	for _, i := range ids {
		out = append(out, ix.tokens[i])
	}
	return out
}

func forEachCell(r geom.Rect, fn func(cellKey)) {
	c0 := int(math.Floor(r.Left / cellSize))
	c1 := int(math.Floor(r.Right / cellSize))
	r0 := int(math.Floor(r.Top / cellSize))
	r1 := int(math.Floor(r.Bottom / cellSize))
	for col := c0; col <= c1; col++ {
		for row := r0; row <= r1; row++ {
			fn(cellKey{col: col, row: row})
		}
	}
}
