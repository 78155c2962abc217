// Command pdfview exercises the viewer core against a real PDF from the
// terminal: inspect page geometry, query tokens in a region, compute mount
// ranges, and assemble multi-page annotations the way an interactive
// session would.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"pdfview/annotate"
	"pdfview/geom"
	"pdfview/page"
	"pdfview/selection"
	"pdfview/source"
	"pdfview/viewport"
)

var cli struct {
	Pages  PagesCmd  `cmd:"" help:"List page geometry and token counts."`
	Tokens TokensCmd `cmd:"" help:"Print the tokens inside a pixel region of a page."`
	Range  RangeCmd  `cmd:"" help:"Compute the mounted page range for a scroll position."`
	Select SelectCmd `cmd:"" help:"Assemble an annotation from one or more selection boxes."`
}

func main() {
	ctx := kong.Parse(&cli)
	ctx.FatalIfErrorf(ctx.Run())
}

func loadPages(path string) ([]page.Page, error) {
	doc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.Pages(context.Background())
}

// PagesCmd lists the document's pages.
type PagesCmd struct {
	Input string  `arg:"" type:"path" help:"Path to input PDF."`
	Zoom  float64 `default:"1.0" help:"Zoom factor for pixel heights."`
}

func (c *PagesCmd) Run() error {
	pages, err := loadPages(c.Input)
	if err != nil {
		return err
	}
	index := viewport.NewHeightIndex(pages, c.Zoom)
	for _, p := range pages {
		fmt.Printf("page %3d  %7.2f x %7.2f pts  top %6dpx  %d tokens\n",
			p.Index(), p.WidthPts(), p.HeightPts(), index.Top(p.Index()), len(p.Tokens()))
	}
	fmt.Printf("total height at zoom %.2f: %dpx\n", c.Zoom, index.TotalHeight())
	return nil
}

// TokensCmd prints tokens inside a pixel-space rect on one page.
type TokensCmd struct {
	Input string  `arg:"" type:"path" help:"Path to input PDF."`
	Page  int     `required:"" help:"Zero-based page index."`
	Rect  string  `required:"" help:"Pixel rect as left,top,right,bottom."`
	Zoom  float64 `default:"1.0" help:"Zoom factor the rect is given at."`
}

func (c *TokensCmd) Run() error {
	pages, err := loadPages(c.Input)
	if err != nil {
		return err
	}
	if c.Page < 0 || c.Page >= len(pages) {
		return fmt.Errorf("page %d out of range (document has %d pages)", c.Page, len(pages))
	}
	box, err := parseRect(c.Rect)
	if err != nil {
		return err
	}

	pending := selection.NewPendingSet().With(c.Page, box)
	anno, err := annotate.Assemble(pageLookup(pages), pending, c.Zoom, annotate.Label{})
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(anno.Pages[c.Page])
}

// RangeCmd computes the mount range for a scroll position.
type RangeCmd struct {
	Input    string  `arg:"" type:"path" help:"Path to input PDF."`
	Scroll   int     `default:"0" help:"Scroll offset in pixels."`
	Viewport int     `default:"800" help:"Viewport height in pixels."`
	Overscan int     `default:"2" help:"Overscan pages on each side."`
	Zoom     float64 `default:"1.0" help:"Zoom factor."`
	Forced   []int   `help:"Page indices forced to stay mounted."`
}

func (c *RangeCmd) Run() error {
	pages, err := loadPages(c.Input)
	if err != nil {
		return err
	}
	index := viewport.NewHeightIndex(pages, c.Zoom)
	rng := viewport.NewVirtualizer(index).Range(c.Scroll, c.Viewport, c.Overscan, c.Forced)
	fmt.Printf("mounted pages [%d, %d] of %d\n", rng.Start, rng.End, len(pages))
	return nil
}

// SelectCmd assembles an annotation from selection boxes, possibly across
// several pages, and prints the value object that would be persisted.
type SelectCmd struct {
	Input string   `arg:"" type:"path" help:"Path to input PDF."`
	Box   []string `required:"" help:"Selection box as page:left,top,right,bottom. Repeatable."`
	Zoom  float64  `default:"1.0" help:"Zoom factor the boxes are given at."`
	Label string   `default:"" help:"Label text to attach."`
}

func (c *SelectCmd) Run() error {
	pages, err := loadPages(c.Input)
	if err != nil {
		return err
	}

	pending := selection.NewPendingSet()
	for _, raw := range c.Box {
		pg, box, err := parsePageRect(raw)
		if err != nil {
			return err
		}
		pending = pending.With(pg, box)
	}

	label := annotate.Label{Text: c.Label}
	anno, err := annotate.Assemble(pageLookup(pages), pending, c.Zoom, label)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(anno)
}

type pageLookup []page.Page

func (ps pageLookup) Page(index int) (page.Page, bool) {
	if index < 0 || index >= len(ps) {
		return page.Page{}, false
	}
	return ps[index], true
}

func parseRect(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("rect %q: want left,top,right,bottom", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return geom.Rect{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}.Normalize(), nil
}

func parsePageRect(s string) (int, geom.Rect, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return 0, geom.Rect{}, fmt.Errorf("box %q: want page:left,top,right,bottom", s)
	}
	pg, err := strconv.Atoi(s[:idx])
	if err != nil {
		return 0, geom.Rect{}, fmt.Errorf("box %q: %w", s, err)
	}
	box, err := parseRect(s[idx+1:])
	if err != nil {
		return 0, geom.Rect{}, err
	}
	return pg, box, nil
}
