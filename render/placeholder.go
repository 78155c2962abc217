package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Placeholder returns the page's last applied raster rescaled to the target
// zoom, for display while the real render at that zoom is still in flight.
// The scale is approximate on purpose; placeholder output never feeds back
// into coordinate math. Returns false when the page has no applied raster.
func (s *Scheduler) Placeholder(idx int, zoom float64) (image.Image, bool) {
	s.mu.Lock()
	slot, ok := s.pages[idx]
	if !ok || slot.img == nil {
		s.mu.Unlock()
		return nil, false
	}
	src := slot.img
	srcZoom := slot.imgZoom
	s.mu.Unlock()

	if srcZoom == zoom {
		return src, true
	}

	ratio := zoom / srcZoom
	b := src.Bounds()
	w := int(math.Round(float64(b.Dx()) * ratio))
	h := int(math.Round(float64(b.Dy()) * ratio))
	if w < 1 || h < 1 {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, true
}
