// Package hover decides which of a caller-supplied list of elements the
// pointer is over, and reports where a hover player overlay for that
// element belongs.
//
// All geometry is resolved on demand from the window; nothing here caches
// layout across events.
package hover

import (
	"hoverplayer/pkg/html"
	"hoverplayer/pkg/layout"
)

// Geometry is the read-only layout view a window provides.
type Geometry interface {
	// ClientRect returns the element's border box relative to the viewport.
	ClientRect(el *html.Node) layout.Rect
	ScrollX() float64
	ScrollY() float64
}

// Rect is a page-absolute rectangle. X equals Left and Y equals Top.
type Rect struct {
	X, Y      float64
	Top, Left float64
	Width     float64
	Height    float64
}

// Point is a position in page-absolute coordinates.
type Point struct {
	X, Y float64
}

// ResolveBounds returns el's bounding rectangle in page-absolute
// coordinates: the client rectangle translated by the current scroll offset.
// Detached elements yield the window's zero rectangle, shifted the same way.
func ResolveBounds(win Geometry, el *html.Node) Rect {
	r := win.ClientRect(el)
	left := r.X + win.ScrollX()
	top := r.Y + win.ScrollY()
	return Rect{
		X:      left,
		Y:      top,
		Top:    top,
		Left:   left,
		Width:  max(r.Width, 0),
		Height: max(r.Height, 0),
	}
}

// Contains reports whether p lies within r, edges included. A zero-size
// rectangle contains only its origin.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Left+r.Width &&
		p.Y >= r.Top && p.Y <= r.Top+r.Height
}
