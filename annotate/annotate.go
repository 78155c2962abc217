package annotate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pdfview/coords"
	"pdfview/geom"
	"pdfview/page"
	"pdfview/selection"
)

// ErrEmptySelection reports that no token on any touched page fell inside
// the selection. Apply-label treats this as a no-op but the condition must
// reach the UI as guidance rather than vanish.
var ErrEmptySelection = errors.New("annotate: selection contains no tokens")

// PageAnnotation is one page's contribution to a multi-page annotation:
// the IDs of the tokens it covers, that page's text, and the selection
// boxes in PDF-point space that produced it.
type PageAnnotation struct {
	TokenIDs []int       `json:"tokenIds"`
	RawText  string      `json:"rawText"`
	Bounds   []geom.Rect `json:"bounds"`
}

// Annotation is the finished value object handed to the persistence
// collaborator. AnchorPage is the lowest page index with a non-empty
// contribution and is what sorting and scroll-to-annotation key off.
type Annotation struct {
	AnchorPage int                    `json:"page"`
	Label      Label                  `json:"label"`
	RawText    string                 `json:"rawText"`
	Pages      map[int]PageAnnotation `json:"annotationJson"`
}

// PagesSpanned returns every page the annotation touches, ascending. A
// multi-page annotation must keep all of these mounted, not just the
// anchor.
func (a Annotation) PagesSpanned() []int {
	out := make([]int, 0, len(a.Pages))
	for idx := range a.Pages {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// PageSet resolves page indices to loaded pages.
type PageSet interface {
	Page(index int) (page.Page, bool)
}

// Assemble builds one annotation from a gesture's pending boxes. Boxes are
// pixel-space at the given zoom; each is converted to PDF points and run
// through the owning page's token index. Pages contribute in ascending
// order; page texts join with a single space. Pages without token data
// contribute nothing here (the session surfaces the warning when the box is
// drawn). Returns ErrEmptySelection when every page comes up empty.
func Assemble(doc PageSet, pending selection.PendingSet, zoom float64, label Label) (Annotation, error) {
	mapper, err := coords.NewMapper(zoom)
	if err != nil {
		return Annotation{}, fmt.Errorf("annotate: %w", err)
	}

	anno := Annotation{
		AnchorPage: -1,
		Label:      label,
		Pages:      make(map[int]PageAnnotation),
	}
	var parts []string

	for _, idx := range pending.Pages() {
		pg, ok := doc.Page(idx)
		if !ok {
			continue
		}
		contrib, ok := assemblePage(pg, pending.Boxes(idx), mapper)
		if !ok {
			continue
		}
		anno.Pages[idx] = contrib
		parts = append(parts, contrib.RawText)
		if anno.AnchorPage < 0 {
			anno.AnchorPage = idx
		}
	}

	if anno.AnchorPage < 0 {
		return Annotation{}, ErrEmptySelection
	}
	anno.RawText = strings.TrimSpace(strings.Join(parts, " "))
	return anno, nil
}

// assemblePage collects the tokens under one page's boxes, deduplicating
// tokens shared by overlapping boxes, in token ID order.
func assemblePage(pg page.Page, boxes []geom.Rect, mapper coords.Mapper) (PageAnnotation, bool) {
	seen := make(map[int]struct{})
	var ids []int
	var bounds []geom.Rect

	for _, box := range boxes {
		pdfBox := mapper.PixelToPDF(box)
		bounds = append(bounds, pdfBox)
		toks, err := pg.TokensIn(pdfBox)
		if err != nil {
			// No token data on this page; other pages may still contribute.
			return PageAnnotation{}, false
		}
		for _, tok := range toks {
			if _, dup := seen[tok.ID]; dup {
				continue
			}
			seen[tok.ID] = struct{}{}
			ids = append(ids, tok.ID)
		}
	}
	if len(ids) == 0 {
		return PageAnnotation{}, false
	}
	sort.Ints(ids)

	words := make([]string, 0, len(ids))
	for _, id := range ids {
		tok, _ := pg.Token(id)
		words = append(words, tok.Text)
	}
	return PageAnnotation{
		TokenIDs: ids,
		RawText:  strings.Join(words, " "),
		Bounds:   bounds,
	}, true
}
