// Package geom provides the point and rectangle primitives shared by the
// viewer core. Rectangles live either in PDF-point space or in screen-pixel
// space; both use a top-left origin, and callers are expected to normalize a
// rect before handing it to anything that assumes Left <= Right.
package geom

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Point is a location in either PDF-point or pixel space.
type Point struct {
	X float64
	Y float64
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// FromCorners builds a normalized rect from two opposite corners.
func FromCorners(a, b Point) Rect {
	return Rect{Left: a.X, Top: a.Y, Right: b.X, Bottom: b.Y}.Normalize()
}

// Normalize swaps edges as needed so that Left <= Right and Top <= Bottom.
func (r Rect) Normalize() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Width returns the horizontal extent. Negative for non-normalized rects.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent. Negative for non-normalized rects.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Area returns the rect's area. Zero for empty or degenerate rects.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty reports whether the rect covers no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether the point lies inside or on the rect's boundary.
func (r Rect) Contains(p Point) bool {
	return r.R2().ContainsPoint(r2.Point{X: p.X, Y: p.Y})
}

// Intersects reports whether two normalized rects overlap. Rects that only
// share an edge intersect with zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.R2().Intersects(o.R2())
}

// Intersection returns the overlapping region of two normalized rects, or a
// zero Rect when they do not intersect.
func (r Rect) Intersection(o Rect) Rect {
	in := r.R2().Intersection(o.R2())
	if in.IsEmpty() {
		return Rect{}
	}
	return FromR2(in)
}

// Union returns the smallest rect covering both inputs.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return FromR2(r.R2().Union(o.R2()))
}

// R2 converts the rect to an r2.Rect for interval math.
func (r Rect) R2() r2.Rect {
	return r2.RectFromPoints(
		r2.Point{X: r.Left, Y: r.Top},
		r2.Point{X: r.Right, Y: r.Bottom},
	)
}

// FromR2 converts an r2.Rect back into a Rect.
func FromR2(r r2.Rect) Rect {
	return Rect{Left: r.X.Lo, Top: r.Y.Lo, Right: r.X.Hi, Bottom: r.Y.Hi}
}

// OverlapRatio returns the fraction of target's area covered by sel.
// Returns 0 when target has no area.
func OverlapRatio(sel, target Rect) float64 {
	ta := target.Area()
	if ta == 0 {
		return 0
	}
	return sel.Intersection(target).Area() / ta
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g %g %g %g]", r.Left, r.Top, r.Right, r.Bottom)
}
