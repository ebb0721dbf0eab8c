// Package render paints a laid-out page and the hover player overlay into
// an image with gg.
package render

import (
	"image"
	"io"
	"sort"

	"github.com/fogleman/gg"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/hover"
	"hoverplayer/pkg/layout"
	"hoverplayer/pkg/page"
)

// baseFaceHeight matches the height of gg's built-in face.
const baseFaceHeight = 13.0

// DefaultMinPlayerSize is the smallest side the player square is drawn at.
const DefaultMinPlayerSize = 12.0

// playerGap separates the player from the element it belongs to.
const playerGap = 4.0

var (
	playerFill  = css.Color{R: 32, G: 32, B: 32}
	playerGlyph = css.Color{R: 255, G: 255, B: 255}
)

type Renderer struct {
	dc            *gg.Context
	fontPath      string
	loadedSize    float64
	minPlayerSize float64
}

type Option func(*Renderer)

// WithFontPath draws text with a TrueType font instead of the built-in face.
func WithFontPath(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

// WithMinPlayerSize sets the lower bound on the player square's side.
func WithMinPlayerSize(px float64) Option {
	return func(r *Renderer) { r.minPlayerSize = px }
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{dc: gg.NewContext(width, height), minPlayerSize: DefaultMinPlayerSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frame paints win at its current scroll offset and, when info is not nil,
// the hover player beside the hovered element.
func (r *Renderer) Frame(win *page.Window, info *hover.HoveredElementInfo) {
	r.Render(win)
	if info != nil {
		r.DrawPlayer(info, win.ScrollX(), win.ScrollY())
	}
}

// Render paints the page. In-flow boxes paint first, then positioned ones,
// each group in document order.
func (r *Renderer) Render(win *page.Window) {
	r.dc.SetRGB(1, 1, 1)
	r.dc.Clear()

	tree := win.Layout()
	var boxes []*layout.Box
	tree.Walk(func(b *layout.Box) { boxes = append(boxes, b) })
	sort.SliceStable(boxes, func(i, j int) bool {
		return paintLevel(boxes[i]) < paintLevel(boxes[j])
	})

	r.dc.Push()
	r.dc.Translate(-win.ScrollX(), -win.ScrollY())
	for _, box := range boxes {
		r.drawBox(tree, box)
	}
	r.dc.Pop()
}

func paintLevel(box *layout.Box) int {
	if box.Position == css.PositionAbsolute || box.Position == css.PositionFixed {
		return 1
	}
	return 0
}

func (r *Renderer) drawBox(tree *layout.Tree, box *layout.Box) {
	if box.Style != nil {
		r.drawBackground(box)
		r.drawBorder(box)
	}
	for _, line := range box.LineBoxes {
		for _, frag := range line.Fragments {
			r.drawFragment(tree, frag)
		}
	}
}

func (r *Renderer) drawBackground(box *layout.Box) {
	color, ok := box.Style.GetBackgroundColor()
	if !ok {
		return
	}
	b := box.BorderBox()
	x := b.X + box.Border.Left
	y := b.Y + box.Border.Top
	w := b.Width - box.Border.Left - box.Border.Right
	h := b.Height - box.Border.Top - box.Border.Bottom
	if w <= 0 || h <= 0 {
		return
	}
	setColor(r.dc, color)
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

func (r *Renderer) drawBorder(box *layout.Box) {
	if style, _ := box.Style.Get("border-style"); style == "none" {
		return
	}
	b := box.BorderBox()
	sides := []struct {
		name       string
		width      float64
		x, y, w, h float64
	}{
		{"top", box.Border.Top, b.X, b.Y, b.Width, box.Border.Top},
		{"right", box.Border.Right, b.Right() - box.Border.Right, b.Y, box.Border.Right, b.Height},
		{"bottom", box.Border.Bottom, b.X, b.Bottom() - box.Border.Bottom, b.Width, box.Border.Bottom},
		{"left", box.Border.Left, b.X, b.Y, box.Border.Left, b.Height},
	}
	for _, side := range sides {
		if side.width <= 0 {
			continue
		}
		setColor(r.dc, borderColor(box.Style, side.name))
		r.dc.DrawRectangle(side.x, side.y, side.w, side.h)
		r.dc.Fill()
	}
}

// borderColor falls back from the per-side color to border-color to the
// element's color, as currentColor would.
func borderColor(style *css.Style, side string) css.Color {
	for _, prop := range []string{"border-" + side + "-color", "border-color"} {
		if v, ok := style.Get(prop); ok {
			if c, ok := css.ParseColor(v); ok {
				return c
			}
		}
	}
	return style.GetColor()
}

func (r *Renderer) drawFragment(tree *layout.Tree, frag layout.TextFragment) {
	color := css.Color{}
	if parent := frag.Node.Parent; parent != nil {
		if style, ok := tree.Style(parent); ok {
			color = style.GetColor()
		}
	}
	setColor(r.dc, color)

	if r.useFontFile(frag.FontSize) {
		r.dc.DrawString(frag.Text, frag.X, frag.Baseline)
		return
	}
	scale := frag.FontSize / baseFaceHeight
	r.dc.Push()
	r.dc.ScaleAbout(scale, scale, frag.X, frag.Baseline)
	r.dc.DrawString(frag.Text, frag.X, frag.Baseline)
	r.dc.Pop()
}

func (r *Renderer) useFontFile(size float64) bool {
	if r.fontPath == "" {
		return false
	}
	if r.loadedSize == size {
		return true
	}
	if err := r.dc.LoadFontFace(r.fontPath, size); err != nil {
		r.fontPath = ""
		return false
	}
	r.loadedSize = size
	return true
}

// PlayerRect returns the page-absolute square the player occupies: its side
// is the first line height, at least minSize, and it sits to the left of
// the element, top-aligned with it.
func PlayerRect(info *hover.HoveredElementInfo, minSize float64) layout.Rect {
	side := max(float64(info.HeightOfFirstLine), minSize)
	return layout.Rect{
		X:      info.Left - playerGap - side,
		Y:      info.Top,
		Width:  side,
		Height: side,
	}
}

// DrawPlayer paints the player square and its play triangle.
func (r *Renderer) DrawPlayer(info *hover.HoveredElementInfo, scrollX, scrollY float64) {
	rect := PlayerRect(info, r.minPlayerSize).Translate(-scrollX, -scrollY)

	setColor(r.dc, playerFill)
	r.dc.DrawRoundedRectangle(rect.X, rect.Y, rect.Width, rect.Height, rect.Width/6)
	r.dc.Fill()

	inset := rect.Width / 4
	setColor(r.dc, playerGlyph)
	r.dc.MoveTo(rect.X+inset, rect.Y+inset)
	r.dc.LineTo(rect.Right()-inset, rect.Y+rect.Height/2)
	r.dc.LineTo(rect.X+inset, rect.Bottom()-inset)
	r.dc.ClosePath()
	r.dc.Fill()
}

func (r *Renderer) Image() image.Image {
	return r.dc.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.dc.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func setColor(dc *gg.Context, c css.Color) {
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
}
