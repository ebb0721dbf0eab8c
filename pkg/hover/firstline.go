package hover

import (
	"strings"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

// StyleResolver computes an element's style against the live document.
type StyleResolver interface {
	ComputedStyle(el *html.Node) *css.Style
}

// FirstTextNode returns the first text node under el, in document order,
// whose trimmed content is non-empty. el itself is considered.
func FirstTextNode(el *html.Node) *html.Node {
	if el == nil {
		return nil
	}
	stack := []*html.Node{el}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Text) != "" {
				return n
			}
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}

// FirstLineHeight returns the computed line-height, in whole pixels, of the
// element holding el's first visible text. It returns 0 when there is no
// such text or the value is not numeric (e.g. "normal").
func FirstLineHeight(el *html.Node, styles StyleResolver) int {
	textNode := FirstTextNode(el)
	if textNode == nil {
		return 0
	}
	parent := textNode.ParentElement()
	if parent == nil {
		return 0
	}
	style := styles.ComputedStyle(parent)
	if style == nil {
		return 0
	}
	v, ok := style.Get("line-height")
	if !ok {
		return 0
	}
	n, ok := css.ParseLeadingInt(v)
	if !ok {
		return 0
	}
	return n
}
