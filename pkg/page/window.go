// Package page models a browser window over a laid-out document: viewport,
// scroll offset, geometry and computed-style queries, and the global event
// target that pointer input is dispatched to.
package page

import (
	"log/slog"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/event"
	"hoverplayer/pkg/html"
	"hoverplayer/pkg/layout"
	"hoverplayer/pkg/text"
)

type Window struct {
	doc      *html.Document
	cascade  *css.Cascade
	tree     *layout.Tree
	measurer *text.Measurer
	target   *event.Target
	logger   *slog.Logger

	width, height    float64
	scrollX, scrollY float64
}

type Option func(*Window)

// WithLogger sets the logger used for reflow and scroll diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(w *Window) { w.logger = l }
}

// WithMeasurer sets the text measurer used by layout.
func WithMeasurer(m *text.Measurer) Option {
	return func(w *Window) { w.measurer = m }
}

// New lays out doc in a viewport of the given size.
func New(doc *html.Document, width, height float64, opts ...Option) *Window {
	w := newWindow(width, height, opts)
	w.doc = doc
	w.Reflow()
	return w
}

// newWindow applies opts to a window that has no document yet.
func newWindow(width, height float64, opts []Option) *Window {
	w := &Window{
		target: event.NewTarget(),
		logger: slog.Default(),
		width:  width,
		height: height,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Window) Document() *html.Document { return w.doc }

// Layout returns the current layout tree.
func (w *Window) Layout() *layout.Tree { return w.tree }

// Reflow recomputes styles and geometry, e.g. after DOM mutation. The
// scroll offset is re-clamped to the new document extent.
func (w *Window) Reflow() {
	engine := layout.NewLayoutEngine(w.width, w.height)
	if w.measurer != nil {
		engine.SetMeasurer(w.measurer)
	}
	w.cascade = css.NewCascade(w.doc)
	w.tree = engine.Layout(w.doc)
	docW, docH := w.tree.DocumentSize()
	w.logger.Debug("reflow", "viewport_width", w.width, "viewport_height", w.height, "document_width", docW, "document_height", docH)
	w.ScrollTo(w.scrollX, w.scrollY)
}

// ViewportSize returns the visible area's size.
func (w *Window) ViewportSize() (width, height float64) { return w.width, w.height }

// Resize changes the viewport, reflows, and dispatches a resize event.
func (w *Window) Resize(width, height float64) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.Reflow()
	w.target.Dispatch(event.ResizeEvent{Width: width, Height: height})
}

func (w *Window) ScrollX() float64 { return w.scrollX }
func (w *Window) ScrollY() float64 { return w.scrollY }

// ScrollTo moves the viewport, clamped to the document extent. A scroll
// event is dispatched only when the offset actually changes.
func (w *Window) ScrollTo(x, y float64) {
	docW, docH := w.tree.DocumentSize()
	x = clamp(x, 0, max(docW-w.width, 0))
	y = clamp(y, 0, max(docH-w.height, 0))
	if x == w.scrollX && y == w.scrollY {
		return
	}
	w.scrollX, w.scrollY = x, y
	w.logger.Debug("scroll", "x", x, "y", y)
	w.target.Dispatch(event.ScrollEvent{ScrollX: x, ScrollY: y})
}

// ScrollBy scrolls relative to the current offset.
func (w *Window) ScrollBy(dx, dy float64) {
	w.ScrollTo(w.scrollX+dx, w.scrollY+dy)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// ClientRect returns node's border box relative to the viewport, like
// getBoundingClientRect. Detached or box-less nodes get the zero rect.
func (w *Window) ClientRect(node *html.Node) layout.Rect {
	if node == nil || !node.IsConnected() {
		return layout.Rect{}
	}
	if _, ok := w.tree.Box(node); !ok {
		return layout.Rect{}
	}
	return w.tree.Rect(node).Translate(-w.scrollX, -w.scrollY)
}

// ComputedStyle resolves node's style against the current DOM. Detached
// nodes and text nodes yield an empty style, as getComputedStyle does.
func (w *Window) ComputedStyle(node *html.Node) *css.Style {
	if node == nil || node.Type != html.ElementNode || node.IsDocumentRoot() || !node.IsConnected() {
		return css.NewStyle()
	}
	var chain []*html.Node
	for cur := node; cur != nil && !cur.IsDocumentRoot(); cur = cur.Parent {
		chain = append(chain, cur)
	}
	var style *css.Style
	for i := len(chain) - 1; i >= 0; i-- {
		style = w.cascade.ComputeStyle(chain[i], style)
	}
	return style
}

// Listen implements event.Source on the window's global event target.
func (w *Window) Listen(eventType string, fn event.Listener) *event.Subscription {
	return w.target.Listen(eventType, fn)
}

// AddEventListener is Listen under its DOM name.
func (w *Window) AddEventListener(eventType string, fn event.Listener) *event.Subscription {
	return w.Listen(eventType, fn)
}

// ListenerCount returns the number of live listeners for eventType.
func (w *Window) ListenerCount(eventType string) int {
	return w.target.Count(eventType)
}

// DispatchEvent delivers ev to the window's listeners synchronously.
func (w *Window) DispatchEvent(ev event.Event) {
	w.target.Dispatch(ev)
}

// MoveMouse dispatches a mousemove at viewport-relative (x, y).
func (w *Window) MoveMouse(x, y float64) {
	w.target.Dispatch(event.MouseEvent{ClientX: x, ClientY: y})
}

// QuerySelectorAll runs a selector list against the document.
func (w *Window) QuerySelectorAll(selectors string) ([]*html.Node, error) {
	return css.QuerySelectorAll(w.doc.Root, selectors)
}
