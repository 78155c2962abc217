// Package page holds the immutable per-page model: page geometry in PDF
// points and the positioned text tokens produced by the upstream parser.
// Tokens are the atomic unit of selection; lookups by region go through a
// spatial index built once when the page is constructed.
package page

import (
	"errors"

	"pdfview/geom"
)

// ErrMissingTokenData reports that a page has no token list, either because
// parsing failed or the document has not been processed yet. Selection is
// disabled for such pages and the condition must be surfaced to the user.
var ErrMissingTokenData = errors.New("page: no token data")

// Token is a word-level text unit with its bounding box in PDF-point space,
// page-local, origin top-left. The ID is the token's position in the page's
// token list and identifies it in persisted annotations.
type Token struct {
	ID   int
	Text string
	BBox geom.Rect
}

// Page is the immutable geometry and token content of one document page.
type Page struct {
	index     int
	widthPts  float64
	heightPts float64
	tokens    []Token
	spatial   *tokenIndex
}

// New constructs a page. Token IDs are assigned from the slice order, which
// callers should keep in reading order. A nil or empty token slice is legal
// and produces a page on which selection is unavailable.
func New(index int, widthPts, heightPts float64, tokens []Token) Page {
	owned := make([]Token, len(tokens))
	copy(owned, tokens)
	for i := range owned {
		owned[i].ID = i
		owned[i].BBox = owned[i].BBox.Normalize()
	}
	p := Page{
		index:     index,
		widthPts:  widthPts,
		heightPts: heightPts,
		tokens:    owned,
	}
	if len(owned) > 0 {
		p.spatial = newTokenIndex(owned)
	}
	return p
}

// Index returns the page's zero-based position in the document.
func (p Page) Index() int { return p.index }

// WidthPts returns the page width in PDF points.
func (p Page) WidthPts() float64 { return p.widthPts }

// HeightPts returns the page height in PDF points.
func (p Page) HeightPts() float64 { return p.heightPts }

// Tokens returns the page's token list. Callers must not mutate it.
func (p Page) Tokens() []Token { return p.tokens }

// HasTokens reports whether the page carries token data.
func (p Page) HasTokens() bool { return len(p.tokens) > 0 }

// Token returns the token with the given ID.
func (p Page) Token(id int) (Token, bool) {
	if id < 0 || id >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[id], true
}

// TokensIn returns the tokens covered by the given PDF-point rect, in token
// ID order. A token counts as covered when at least half its area lies
// inside the rect. Returns ErrMissingTokenData when the page has no tokens.
func (p Page) TokensIn(r geom.Rect) ([]Token, error) {
	if p.spatial == nil {
		return nil, ErrMissingTokenData
	}
	return p.spatial.search(r.Normalize()), nil
}
