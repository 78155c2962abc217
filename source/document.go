package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/mgmeyers/unipdf/v3/extractor"
	"github.com/mgmeyers/unipdf/v3/model"

	"pdfview/geom"
	"pdfview/page"
)

// Document is a PDF opened for viewing: unipdf supplies the word-level text
// marks that become selection tokens, go-fitz supplies page rasters.
// Raster rendering is serialized because MuPDF contexts are not safe for
// concurrent use.
type Document struct {
	path   string
	reader *model.PdfReader
	file   *os.File

	mu   sync.Mutex
	fitz *fitz.Document
}

// Open opens a PDF from disk.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	reader, err := model.NewPdfReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	img, err := fitz.New(path)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("source: open raster backend for %s: %w", path, err)
	}
	return &Document{path: path, reader: reader, file: f, fitz: img}, nil
}

// Close releases the underlying decoder resources.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fitz != nil {
		d.fitz.Close()
		d.fitz = nil
	}
	return d.file.Close()
}

// Pages extracts every page's geometry and tokens. A page whose text
// extraction fails is returned without tokens rather than aborting the
// whole document.
func (d *Document) Pages(ctx context.Context) ([]page.Page, error) {
	numPages, err := d.reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("source: page count: %w", err)
	}

	pages := make([]page.Page, 0, numPages)
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := d.reader.GetPage(i + 1)
		if err != nil {
			return nil, fmt.Errorf("source: page %d: %w", i, err)
		}
		box, err := src.GetMediaBox()
		if err != nil {
			return nil, fmt.Errorf("source: page %d media box: %w", i, err)
		}
		width := box.Urx - box.Llx
		height := box.Ury - box.Lly

		tokens, err := extractTokens(src, height)
		if err != nil {
			// Token extraction failing on one page should not take the
			// document down; the page just loses selection.
			tokens = nil
		}
		pages = append(pages, page.New(i, width, height, tokens))
	}
	return pages, nil
}

// extractTokens pulls unipdf's word-level text marks and converts their
// boxes from PDF's bottom-left origin to the viewer's top-left origin.
func extractTokens(src *model.PdfPage, pageHeight float64) ([]page.Token, error) {
	ext, err := extractor.New(src)
	if err != nil {
		return nil, err
	}
	txt, _, _, err := ext.ExtractPageText()
	if err != nil {
		return nil, err
	}

	marks := txt.Marks().Elements()
	tokens := make([]page.Token, 0, len(marks))
	for _, mark := range marks {
		if mark.Text == "" {
			continue
		}
		tokens = append(tokens, page.Token{
			Text: mark.Text,
			BBox: geom.Rect{
				Left:   mark.BBox.Llx,
				Top:    pageHeight - mark.BBox.Ury,
				Right:  mark.BBox.Urx,
				Bottom: pageHeight - mark.BBox.Lly,
			},
		})
	}
	return tokens, nil
}

// RenderPage rasterizes a page at the given zoom. Zoom 1.0 renders at 72
// DPI, one pixel per PDF point, matching the coordinate mapper.
func (d *Document) RenderPage(ctx context.Context, pageIndex int, zoom float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fitz == nil {
		return nil, fmt.Errorf("source: document closed")
	}
	img, err := d.fitz.ImageDPI(pageIndex, 72*zoom)
	if err != nil {
		return nil, fmt.Errorf("source: render page %d: %w", pageIndex, err)
	}
	return img, nil
}
