package annotate_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdfview/annotate"
	"pdfview/geom"
	"pdfview/page"
	"pdfview/selection"
)

func box(l, t, r, b float64) geom.Rect {
	return geom.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

type doc map[int]page.Page

func (d doc) Page(index int) (page.Page, bool) {
	p, ok := d[index]
	return p, ok
}

func twoPageDoc() doc {
	return doc{
		2: page.New(2, 612, 792, []page.Token{
			{Text: "Hello", BBox: box(10, 10, 60, 22)},
			{Text: "world", BBox: box(66, 10, 112, 22)},
		}),
		4: page.New(4, 612, 792, []page.Token{
			{Text: "foo", BBox: box(10, 10, 40, 22)},
			{Text: "bar", BBox: box(46, 10, 76, 22)},
		}),
	}
}

func TestAssembleTwoPages(t *testing.T) {
	pending := selection.NewPendingSet().
		With(2, box(0, 0, 200, 30)).
		With(4, box(0, 0, 200, 30))
	label := annotate.Label{ID: "l1", Text: "Party", Color: "#00ff00", Type: annotate.TokenLabel}

	anno, err := annotate.Assemble(twoPageDoc(), pending, 1.0, label)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if anno.AnchorPage != 2 {
		t.Fatalf("anchor page %d, want 2", anno.AnchorPage)
	}
	if anno.RawText != "Hello world foo bar" {
		t.Fatalf("raw text %q", anno.RawText)
	}
	if diff := cmp.Diff([]int{2, 4}, anno.PagesSpanned()); diff != "" {
		t.Fatalf("pages spanned (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, anno.Pages[2].TokenIDs); diff != "" {
		t.Fatalf("page 2 token IDs (-want +got):\n%s", diff)
	}
	if anno.Pages[4].RawText != "foo bar" {
		t.Fatalf("page 4 text %q", anno.Pages[4].RawText)
	}
	if anno.Label != label {
		t.Fatalf("label %v, want %v", anno.Label, label)
	}
}

func TestAssembleAtZoom(t *testing.T) {
	// Boxes arrive in pixel space: at zoom 2 the same selection covers
	// twice the pixel extent but the same PDF region.
	pending := selection.NewPendingSet().With(2, box(0, 0, 400, 60))
	anno, err := annotate.Assemble(twoPageDoc(), pending, 2.0, annotate.Label{})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if anno.RawText != "Hello world" {
		t.Fatalf("raw text %q", anno.RawText)
	}
}

func TestAssembleEmptySelection(t *testing.T) {
	// A zero-area click and a box over blank space select nothing.
	pending := selection.NewPendingSet().
		With(2, box(300, 300, 300, 300)).
		With(4, box(500, 500, 600, 600))
	_, err := annotate.Assemble(twoPageDoc(), pending, 1.0, annotate.Label{})
	if !errors.Is(err, annotate.ErrEmptySelection) {
		t.Fatalf("got %v, want ErrEmptySelection", err)
	}
}

func TestAssembleSkipsTokenlessPage(t *testing.T) {
	d := twoPageDoc()
	d[3] = page.New(3, 612, 792, nil)

	pending := selection.NewPendingSet().
		With(3, box(0, 0, 200, 30)).
		With(4, box(0, 0, 200, 30))
	anno, err := annotate.Assemble(d, pending, 1.0, annotate.Label{})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if anno.AnchorPage != 4 {
		t.Fatalf("anchor %d, want 4 (tokenless page contributes nothing)", anno.AnchorPage)
	}
	if _, ok := anno.Pages[3]; ok {
		t.Fatal("tokenless page must not appear in the annotation")
	}
}

func TestAssembleDeduplicatesOverlappingBoxes(t *testing.T) {
	pending := selection.NewPendingSet().
		With(2, box(0, 0, 200, 30)).
		With(2, box(5, 5, 120, 28)) // overlaps the same tokens
	anno, err := annotate.Assemble(twoPageDoc(), pending, 1.0, annotate.Label{})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diff := cmp.Diff([]int{0, 1}, anno.Pages[2].TokenIDs); diff != "" {
		t.Fatalf("token IDs (-want +got):\n%s", diff)
	}
	if anno.RawText != "Hello world" {
		t.Fatalf("raw text %q", anno.RawText)
	}
}

func TestColorCategory(t *testing.T) {
	cases := []struct {
		hex  string
		want string
	}{
		{"#ff0000", "Red"},
		{"#ffa500", "Orange"},
		{"#00ff00", "Green"},
		{"#0000ff", "Blue"},
		{"#808080", "Gray"},
		{"#000000", "Black"},
		{"#ffffff", "White"},
		{"not-a-color", ""},
	}
	for _, tc := range cases {
		t.Run(tc.hex, func(t *testing.T) {
			l := annotate.Label{Color: tc.hex}
			if got := l.ColorCategory(); got != tc.want {
				t.Fatalf("ColorCategory(%q) = %q, want %q", tc.hex, got, tc.want)
			}
		})
	}
}
