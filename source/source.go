// Package source adapts an existing PDF decoder to the viewer core's page
// and raster interfaces. The core itself never parses PDFs; this package is
// the seam where a real backend (unipdf for token extraction, MuPDF via
// go-fitz for rasterization) plugs in.
package source

import (
	"context"
	"image"

	"pdfview/page"
)

// PageSource supplies the document's pages with their token lists. A page
// may legitimately arrive without tokens (parsing failed or the document is
// still being processed); the core degrades selection on such pages and
// warns the user.
type PageSource interface {
	Pages(ctx context.Context) ([]page.Page, error)
}

// RasterSource rasterizes one page at a zoom factor, where zoom 1.0 means
// one pixel per PDF point. It matches the render scheduler's Renderer
// interface.
type RasterSource interface {
	RenderPage(ctx context.Context, pageIndex int, zoom float64) (image.Image, error)
}
