package hover

import (
	"log/slog"
	"sync"

	"hoverplayer/pkg/event"
	"hoverplayer/pkg/html"
)

// Window is everything a Coordinator needs from its host page.
type Window interface {
	Geometry
	StyleResolver
	event.Source
}

// HoveredElementInfo is where the overlay for the hovered element goes.
type HoveredElementInfo struct {
	Element           *html.Node
	Top               float64
	Left              float64
	HeightOfFirstLine int
}

type Option func(*Coordinator)

// WithOnChange registers fn to run after every hover transition, with the
// previous and new element (either may be nil). It is not called when a move
// keeps the pointer over the same element.
func WithOnChange(fn func(prev, next *html.Node)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator tracks which candidate element the pointer is over. It holds
// exactly one mousemove subscription on its window until Close.
type Coordinator struct {
	win      Window
	onChange func(prev, next *html.Node)
	logger   *slog.Logger

	mu         sync.Mutex
	candidates []*html.Node
	sub        *event.Subscription
	hovered    *html.Node
	closed     bool
}

// NewCoordinator subscribes to win's pointer moves and hit tests each one
// against candidates, in order.
func NewCoordinator(win Window, candidates []*html.Node, opts ...Option) *Coordinator {
	c := &Coordinator{win: win, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.mu.Lock()
	c.candidates = cloneNodes(candidates)
	c.subscribeLocked()
	c.mu.Unlock()
	return c
}

// subscribeLocked binds a new listener to the current candidate list. Any
// previous subscription must already be cancelled.
func (c *Coordinator) subscribeLocked() {
	list := c.candidates
	c.sub = c.win.Listen(event.TypeMouseMove, func(ev event.Event) {
		if mouse, ok := ev.(event.MouseEvent); ok {
			c.handleMove(list, mouse)
		}
	})
	c.logger.Debug("hover subscription established", "candidates", len(list))
}

func (c *Coordinator) handleMove(list []*html.Node, mouse event.MouseEvent) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	p := PagePoint(mouse.ClientX, mouse.ClientY, c.win)
	next := FirstHit(p, list, c.win)
	prev := c.hovered
	if next == prev {
		c.mu.Unlock()
		return
	}
	c.hovered = next
	onChange := c.onChange
	c.mu.Unlock()

	c.logger.Debug("hover transition", "from", describe(prev), "to", describe(next), "x", p.X, "y", p.Y)
	if onChange != nil {
		onChange(prev, next)
	}
}

// SetCandidates replaces the candidate list. When it differs from the
// current one, by length or by any element, the old subscription is
// released before a new one is made. An identical list changes nothing.
// It has no effect after Close.
func (c *Coordinator) SetCandidates(candidates []*html.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || sameNodes(c.candidates, candidates) {
		return
	}
	c.sub.Cancel()
	c.sub = nil
	c.candidates = cloneNodes(candidates)
	c.subscribeLocked()
}

// Candidates returns a copy of the current candidate list.
func (c *Coordinator) Candidates() []*html.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneNodes(c.candidates)
}

// Hovered returns the element the pointer is over, or nil.
func (c *Coordinator) Hovered() *html.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

// Info returns the overlay placement for the hovered element, or nil when
// nothing is hovered. Geometry and line height are read from the window at
// call time, so they follow scrolling and reflow without a new pointer move.
func (c *Coordinator) Info() *HoveredElementInfo {
	el := c.Hovered()
	if el == nil {
		return nil
	}
	bounds := ResolveBounds(c.win, el)
	return &HoveredElementInfo{
		Element:           el,
		Top:               bounds.Top,
		Left:              bounds.Left,
		HeightOfFirstLine: FirstLineHeight(el, c.win),
	}
}

// Close releases the subscription and clears the hover state. Calling it
// again is a no-op.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.sub.Cancel()
	c.sub = nil
	c.hovered = nil
	c.candidates = nil
	c.logger.Debug("hover coordinator closed")
}

func sameNodes(a, b []*html.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneNodes(nodes []*html.Node) []*html.Node {
	return append([]*html.Node(nil), nodes...)
}

func describe(n *html.Node) string {
	if n == nil {
		return "none"
	}
	if id := n.ID(); id != "" {
		return n.TagName + "#" + id
	}
	return n.TagName
}
