package layout

import (
	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

// Rect is an axis-aligned rectangle. Layout produces page-absolute rects.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{X: x, Y: y, Width: max(r.Right(), o.Right()) - x, Height: max(r.Bottom(), o.Bottom()) - y}
}

type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64 // border-box left, page-absolute
	Y        float64 // border-box top, page-absolute
	Width    float64 // content width
	Height   float64 // content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box
	Position css.PositionType
	Inline   bool // generated by an inline element inside a line run

	// Line boxes for block containers with inline content
	LineBoxes []*LineBox
}

// BorderBox returns the page-absolute border-box rectangle.
func (b *Box) BorderBox() Rect {
	return Rect{
		X:      b.X,
		Y:      b.Y,
		Width:  b.Border.Left + b.Padding.Left + b.Width + b.Padding.Right + b.Border.Right,
		Height: b.Border.Top + b.Padding.Top + b.Height + b.Padding.Bottom + b.Border.Bottom,
	}
}

// ContentBox returns the page-absolute content rectangle.
func (b *Box) ContentBox() Rect {
	return Rect{
		X:      b.X + b.Border.Left + b.Padding.Left,
		Y:      b.Y + b.Border.Top + b.Padding.Top,
		Width:  b.Width,
		Height: b.Height,
	}
}

// LineBox is one line of wrapped inline content.
type LineBox struct {
	Y         float64
	Height    float64
	Fragments []TextFragment
}

// TextFragment is a run of words from one text node placed on a line.
type TextFragment struct {
	Node     *html.Node // the text node
	Text     string
	X        float64
	Width    float64
	FontSize float64
	Baseline float64 // page-absolute y of the baseline
}
