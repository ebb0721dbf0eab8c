package layout

import (
	"strings"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
	"hoverplayer/pkg/text"
)

type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	measurer *text.Measurer
	styles   map[*html.Node]*css.Style
	tree     *Tree
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{measurer: text.NewMeasurer("")}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// SetMeasurer replaces the text measurer, e.g. one backed by a font file.
func (le *LayoutEngine) SetMeasurer(m *text.Measurer) {
	le.measurer = m
}

// Layout computes styles and geometry for the whole document.
func (le *LayoutEngine) Layout(doc *html.Document) *Tree {
	le.styles = css.ApplyStylesToDocument(doc)
	le.tree = newTree(le.styles, le.viewport.width, le.viewport.height)

	root := &Box{Node: doc.Root, Style: css.NewStyle(), Width: le.viewport.width}
	root.Height = le.layoutChildren(root, doc.Root.Children)
	le.tree.Root = root
	le.tree.extendTo(Rect{Width: le.viewport.width, Height: root.Height})
	return le.tree
}

// layoutChildren lays out nodes inside parent's content box and returns the
// height consumed by in-flow content.
func (le *LayoutEngine) layoutChildren(parent *Box, nodes []*html.Node) float64 {
	content := parent.ContentBox()
	y := content.Y
	var run []*html.Node

	flush := func() {
		if len(run) == 0 {
			return
		}
		y += le.layoutInlineRun(parent, run, content.X, y, content.Width)
		run = run[:0]
	}

	for _, node := range nodes {
		if node.Type == html.TextNode || le.isInlineLevel(node) {
			run = append(run, node)
			continue
		}
		style := le.styles[node]
		if style == nil || style.GetDisplay() == css.DisplayNone {
			continue
		}
		flush()
		box := le.layoutBlock(node, style, content.X, y, content.Width)
		box.Parent = parent
		parent.Children = append(parent.Children, box)
		if box.Position != css.PositionAbsolute && box.Position != css.PositionFixed {
			y = box.Y + box.BorderBox().Height + box.Margin.Bottom
		}
	}
	flush()
	return y - content.Y
}

// isInlineLevel reports whether an element participates in a line run: it
// is display inline and holds no block-level descendants.
func (le *LayoutEngine) isInlineLevel(node *html.Node) bool {
	style := le.styles[node]
	if style == nil || style.GetDisplay() != css.DisplayInline {
		return false
	}
	if pos := style.GetPosition(); pos == css.PositionAbsolute || pos == css.PositionFixed {
		return false
	}
	for _, c := range node.Children {
		if c.Type == html.ElementNode && !le.isInlineLevel(c) {
			if cs := le.styles[c]; cs != nil && cs.GetDisplay() == css.DisplayNone {
				continue
			}
			return false
		}
	}
	return true
}

func (le *LayoutEngine) layoutBlock(node *html.Node, style *css.Style, x, y, containingWidth float64) *Box {
	box := &Box{
		Node:     node,
		Style:    style,
		Margin:   style.GetMargin(),
		Padding:  style.GetPadding(),
		Border:   style.GetBorderWidth(),
		Position: style.GetPosition(),
	}
	le.tree.add(node, box)

	if box.Position == css.PositionAbsolute || box.Position == css.PositionFixed {
		// Positioned against the initial containing block; missing offsets
		// keep the static position.
		if left, ok := style.GetLength("left"); ok {
			x = left
		}
		if top, ok := style.GetLength("top"); ok {
			y = top
		}
	}
	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top

	horizontal := box.Margin.Left + box.Margin.Right + box.Border.Left + box.Border.Right + box.Padding.Left + box.Padding.Right
	if w, ok := lengthOrPercent(style, "width", containingWidth); ok {
		box.Width = w
	} else {
		box.Width = max(containingWidth-horizontal, 0)
	}

	contentHeight := le.layoutChildren(box, node.Children)
	if h, ok := style.GetLength("height"); ok {
		box.Height = max(h, 0)
	} else {
		box.Height = contentHeight
	}
	le.tree.extendTo(box.BorderBox())
	return box
}

func lengthOrPercent(style *css.Style, property string, basis float64) (float64, bool) {
	v, ok := style.Get(property)
	if !ok {
		return 0, false
	}
	if pct, isPct := strings.CutSuffix(strings.TrimSpace(v), "%"); isPct {
		if n, ok := css.ParseLength(pct); ok {
			return max(n/100*basis, 0), true
		}
		return 0, false
	}
	n, ok := css.ParseLength(v)
	return max(n, 0), ok
}
