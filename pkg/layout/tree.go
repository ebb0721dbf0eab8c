package layout

import (
	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

// Tree is the result of one layout pass: boxes indexed by the element that
// generated them, plus the computed styles the pass used.
type Tree struct {
	Root   *Box // synthetic box for the document root; never indexed
	boxes  map[*html.Node]*Box
	styles map[*html.Node]*css.Style
	extent Rect
}

func newTree(styles map[*html.Node]*css.Style, viewportWidth, viewportHeight float64) *Tree {
	return &Tree{
		boxes:  make(map[*html.Node]*Box),
		styles: styles,
		extent: Rect{Width: viewportWidth, Height: viewportHeight},
	}
}

func (t *Tree) add(node *html.Node, box *Box) {
	t.boxes[node] = box
}

func (t *Tree) extendTo(r Rect) {
	t.extent = t.extent.Union(Rect{Width: max(r.Right(), 0), Height: max(r.Bottom(), 0)})
}

// Box returns the box generated by node, if any.
func (t *Tree) Box(node *html.Node) (*Box, bool) {
	b, ok := t.boxes[node]
	return b, ok
}

// Rect returns the page-absolute border box of node. Nodes without a box
// (detached, display:none, text) get the zero rect.
func (t *Tree) Rect(node *html.Node) Rect {
	if b, ok := t.boxes[node]; ok {
		return b.BorderBox()
	}
	return Rect{}
}

// Style returns the computed style recorded for node during layout.
func (t *Tree) Style(node *html.Node) (*css.Style, bool) {
	s, ok := t.styles[node]
	return s, ok
}

// DocumentSize is the scrollable extent: the union of every box and the
// viewport.
func (t *Tree) DocumentSize() (width, height float64) {
	return t.extent.Right(), t.extent.Bottom()
}

// Walk visits the root box and every descendant, parents before children.
func (t *Tree) Walk(fn func(*Box)) {
	var visit func(*Box)
	visit = func(b *Box) {
		fn(b)
		for _, c := range b.Children {
			visit(c)
		}
	}
	if t.Root != nil {
		visit(t.Root)
	}
}
