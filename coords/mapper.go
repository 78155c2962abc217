package coords

import (
	"fmt"
	"math"

	"pdfview/geom"
)

// Mapper converts bounding boxes between PDF-point space and pixel space at
// one fixed zoom factor. A zoom of 1.0 maps one PDF point to one pixel.
// Mappers are cheap value types; build a new one whenever zoom changes.
type Mapper struct {
	zoom    float64
	forward Matrix
	inverse Matrix
}

// NewMapper returns a mapper for the given zoom factor.
func NewMapper(zoom float64) (Mapper, error) {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return Mapper{}, fmt.Errorf("coords: invalid zoom %v", zoom)
	}
	fwd := Scale(zoom, zoom)
	inv, err := fwd.Inverse()
	if err != nil {
		return Mapper{}, err
	}
	return Mapper{zoom: zoom, forward: fwd, inverse: inv}, nil
}

// Zoom returns the zoom factor the mapper was built for.
func (m Mapper) Zoom() float64 { return m.zoom }

// PDFToPixel converts a PDF-point rect to a normalized pixel rect.
func (m Mapper) PDFToPixel(r geom.Rect) geom.Rect {
	return m.forward.TransformRect(r)
}

// PixelToPDF converts a pixel rect back to a normalized PDF-point rect.
func (m Mapper) PixelToPDF(r geom.Rect) geom.Rect {
	return m.inverse.TransformRect(r)
}

// PixelToPDFPoint converts a single pixel coordinate to PDF-point space.
func (m Mapper) PixelToPDFPoint(p geom.Point) geom.Point {
	return m.inverse.Transform(p)
}

// RoundedHeight converts a page height in PDF points to whole pixels at the
// given zoom. Rounding happens here, exactly once per page; cumulative page
// offsets are sums of these already-rounded values and are never re-rounded.
func RoundedHeight(heightPts, zoom float64) int {
	return int(math.Round(heightPts * zoom))
}

// RoundedWidth is the horizontal counterpart of RoundedHeight.
func RoundedWidth(widthPts, zoom float64) int {
	return int(math.Round(widthPts * zoom))
}
