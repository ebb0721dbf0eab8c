package layout

import (
	"strings"
	"unicode"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

// inlineWord is one word of a line run, tagged with its source text node.
type inlineWord struct {
	text        string
	node        *html.Node
	style       *css.Style
	spaceBefore bool
}

// layoutInlineRun wraps a run of text nodes and inline elements into line
// boxes on parent and returns the height the lines occupy.
func (le *LayoutEngine) layoutInlineRun(parent *Box, run []*html.Node, x, y, width float64) float64 {
	var words []inlineWord
	var inlines []*html.Node
	pendingSpace := false
	le.collectWords(run, parent.Style, &words, &inlines, &pendingSpace)

	strut := parent.Style.GetLineHeight()
	var lines []*LineBox
	var cur *LineBox
	lineX := 0.0
	for _, w := range words {
		fontSize := w.style.GetFontSize()
		wordWidth := le.measurer.Width(w.text, fontSize)
		space := 0.0
		if cur != nil && len(cur.Fragments) > 0 && w.spaceBefore {
			space = le.measurer.Width(" ", fontSize)
		}
		if cur != nil && len(cur.Fragments) > 0 && lineX+space+wordWidth > width {
			cur = nil
		}
		if cur == nil {
			cur = &LineBox{Height: strut}
			lines = append(lines, cur)
			lineX, space = 0, 0
		}

		if n := len(cur.Fragments); n > 0 && cur.Fragments[n-1].Node == w.node {
			last := &cur.Fragments[n-1]
			if space > 0 {
				last.Text += " "
			}
			last.Text += w.text
			last.Width += space + wordWidth
		} else {
			cur.Fragments = append(cur.Fragments, TextFragment{
				Node:     w.node,
				Text:     w.text,
				X:        x + lineX + space,
				Width:    wordWidth,
				FontSize: fontSize,
			})
		}
		lineX += space + wordWidth
		cur.Height = max(cur.Height, w.style.GetLineHeight())
	}

	lineY := y
	for _, line := range lines {
		line.Y = lineY
		for i := range line.Fragments {
			f := &line.Fragments[i]
			// Center the em box in the line and sit the baseline at 80% of it.
			f.Baseline = lineY + (line.Height-f.FontSize)/2 + f.FontSize*0.8
		}
		lineY += line.Height
		le.tree.extendTo(Rect{X: x, Y: line.Y, Width: width, Height: line.Height})
	}
	parent.LineBoxes = append(parent.LineBoxes, lines...)

	for _, node := range inlines {
		box := &Box{Node: node, Style: le.styles[node], Parent: parent, Inline: true, Position: css.PositionStatic}
		r, found := fragmentBounds(node, lines)
		if !found {
			r = Rect{X: x, Y: y}
		}
		box.X, box.Y, box.Width, box.Height = r.X, r.Y, r.Width, r.Height
		le.tree.add(node, box)
		parent.Children = append(parent.Children, box)
	}
	return lineY - y
}

func (le *LayoutEngine) collectWords(nodes []*html.Node, owner *css.Style, words *[]inlineWord, inlines *[]*html.Node, pendingSpace *bool) {
	for _, node := range nodes {
		if node.Type == html.TextNode {
			style := owner
			if s := le.styles[node.Parent]; s != nil {
				style = s
			}
			if node.Text != "" && unicode.IsSpace(rune(node.Text[0])) {
				*pendingSpace = true
			}
			fields := strings.Fields(node.Text)
			for _, field := range fields {
				*words = append(*words, inlineWord{text: field, node: node, style: style, spaceBefore: *pendingSpace})
				*pendingSpace = true
			}
			if len(fields) > 0 {
				*pendingSpace = strings.TrimRightFunc(node.Text, unicode.IsSpace) != node.Text
			}
			continue
		}
		style := le.styles[node]
		if style == nil || style.GetDisplay() == css.DisplayNone {
			continue
		}
		*inlines = append(*inlines, node)
		le.collectWords(node.Children, style, words, inlines, pendingSpace)
	}
}

// fragmentBounds unions the fragments whose text node lies inside node.
func fragmentBounds(node *html.Node, lines []*LineBox) (Rect, bool) {
	var r Rect
	found := false
	for _, line := range lines {
		for _, f := range line.Fragments {
			if !node.Contains(f.Node) {
				continue
			}
			fr := Rect{X: f.X, Y: line.Y, Width: f.Width, Height: line.Height}
			if !found {
				r, found = fr, true
			} else {
				r = r.Union(fr)
			}
		}
	}
	return r, found
}
