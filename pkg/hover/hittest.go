package hover

import "hoverplayer/pkg/html"

// PagePoint converts viewport-relative pointer coordinates to page-absolute
// ones so they can be compared with ResolveBounds.
func PagePoint(clientX, clientY float64, win Geometry) Point {
	return Point{X: clientX + win.ScrollX(), Y: clientY + win.ScrollY()}
}

// Contains reports whether the page-absolute point p is inside el.
func Contains(p Point, el *html.Node, win Geometry) bool {
	return ResolveBounds(win, el).Contains(p)
}

// FirstHit returns the first candidate, in list order, containing p, or nil.
func FirstHit(p Point, candidates []*html.Node, win Geometry) *html.Node {
	for _, el := range candidates {
		if el != nil && Contains(p, el, win) {
			return el
		}
	}
	return nil
}
