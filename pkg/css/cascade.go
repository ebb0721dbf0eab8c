package css

import (
	"sort"
	"strconv"
	"strings"

	"hoverplayer/pkg/html"
)

// inheritedProperties are copied from the parent's computed style when an
// element does not declare them.
var inheritedProperties = []string{
	"color", "font-weight", "font-style", "text-align", "white-space", "visibility",
}

// lengthProperties get em/rem resolved to pixels at compute time.
// Percentages are left for layout to resolve against the container.
var lengthProperties = []string{
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
	"width", "height", "top", "left",
}

const rootFontSize = 16.0

var fontSizeKeywords = map[string]float64{
	"xx-small": 9, "x-small": 10, "small": 13, "medium": 16,
	"large": 18, "x-large": 24, "xx-large": 32,
}

// applyUserAgentStyles applies default browser styles based on element type
func applyUserAgentStyles(node *html.Node, style *Style) {
	switch node.TagName {
	case "head", "title", "meta", "link", "script", "style":
		style.Set("display", "none")
		return
	case "html", "body", "div", "section", "article", "header", "footer", "main",
		"nav", "aside", "ul", "ol", "blockquote", "pre", "figure", "form":
		style.Set("display", "block")
	case "li":
		style.Set("display", "list-item")
	case "p":
		style.Set("display", "block")
		style.Set("margin-top", "1em")
		style.Set("margin-bottom", "1em")
	case "h1", "h2", "h3", "h4", "h5", "h6":
		sizes := map[string]string{"h1": "2em", "h2": "1.5em", "h3": "1.17em", "h4": "1em", "h5": "0.83em", "h6": "0.67em"}
		style.Set("display", "block")
		style.Set("font-size", sizes[node.TagName])
		style.Set("font-weight", "bold")
		style.Set("margin-top", "0.67em")
		style.Set("margin-bottom", "0.67em")
	case "a":
		style.Set("color", "#0645ad")
	case "b", "strong":
		style.Set("font-weight", "bold")
	}
	if node.TagName == "body" {
		expandBoxProperty(style, "margin", "", "8px")
	}
}

// Cascade computes styles for the elements of one document.
type Cascade struct {
	stylesheets []*Stylesheet
}

// NewCascade parses the document's stylesheets in document order.
// Unparseable sheets are skipped. Rule order runs across sheets, so a rule
// in a later sheet wins a specificity tie against any earlier sheet.
func NewCascade(doc *html.Document) *Cascade {
	c := &Cascade{}
	order := 0
	for _, cssText := range doc.Stylesheets {
		sheet, err := ParseStylesheet(cssText)
		if err != nil {
			continue
		}
		for i := range sheet.Rules {
			sheet.Rules[i].Order = order
			order++
		}
		c.stylesheets = append(c.stylesheets, sheet)
	}
	return c
}

// ComputeStyle computes the final style for a node given its parent's
// computed style (nil for a root element).
func (c *Cascade) ComputeStyle(node *html.Node, parent *Style) *Style {
	specified := NewStyle()
	applyUserAgentStyles(node, specified)

	allRules := make([]Rule, 0)
	for _, sheet := range c.stylesheets {
		allRules = append(allRules, FindMatchingRules(node, sheet)...)
	}
	sort.SliceStable(allRules, func(i, j int) bool {
		if allRules[i].Selector.Specificity != allRules[j].Selector.Specificity {
			return allRules[i].Selector.Specificity < allRules[j].Selector.Specificity
		}
		return allRules[i].Order < allRules[j].Order
	})
	for _, rule := range allRules {
		for property, value := range rule.Declarations {
			specified.Set(property, value)
		}
	}
	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			specified.Set(property, value)
		}
	}

	return resolve(specified, parent)
}

// resolve turns specified values into computed ones: inheritance, font
// size, line height, and relative lengths.
func resolve(specified, parent *Style) *Style {
	if parent == nil {
		parent = NewStyle()
		parent.Set("font-size", FormatPx(rootFontSize))
		parent.Set("line-height", "normal")
	}
	computed := NewStyle()
	for k, v := range specified.Properties {
		computed.Set(k, v)
	}
	for _, prop := range inheritedProperties {
		if _, ok := computed.Get(prop); ok {
			continue
		}
		if v, ok := parent.Get(prop); ok {
			computed.Set(prop, v)
		}
	}

	parentSize := parent.GetFontSize()
	fontSize := parentSize
	if v, ok := specified.Get("font-size"); ok {
		if kw, ok := fontSizeKeywords[v]; ok {
			fontSize = kw
		} else if px, ok := resolveLength(v, parentSize); ok {
			fontSize = px
		}
	}
	computed.Set("font-size", FormatPx(fontSize))

	resolveLineHeight(computed, specified, parent, fontSize)

	for _, prop := range lengthProperties {
		if v, ok := specified.Get(prop); ok && !strings.HasSuffix(v, "%") {
			if px, ok := resolveLength(v, fontSize); ok {
				computed.Set(prop, FormatPx(px))
			}
		}
	}
	return computed
}

// resolveLineHeight stores the computed line-height: "normal" or a pixel
// length. Unitless numbers keep their factor for inheritance.
func resolveLineHeight(computed, specified, parent *Style, fontSize float64) {
	v, ok := specified.Get("line-height")
	if ok {
		v = strings.TrimSpace(v)
		if v == "normal" {
			computed.Set("line-height", "normal")
			return
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 {
			computed.lineHeightFactor = n
			computed.Set("line-height", FormatPx(n*fontSize))
			return
		}
		if px, ok := resolveLength(v, fontSize); ok && px >= 0 {
			computed.Set("line-height", FormatPx(px))
			return
		}
		// Invalid declarations are dropped; fall through to inheritance.
	}
	if parent.lineHeightFactor > 0 {
		computed.lineHeightFactor = parent.lineHeightFactor
		computed.Set("line-height", FormatPx(parent.lineHeightFactor*fontSize))
		return
	}
	if pv, ok := parent.Get("line-height"); ok {
		computed.Set("line-height", pv)
		return
	}
	computed.Set("line-height", "normal")
}

// resolveLength converts px, em, rem and % lengths to pixels; % is taken
// against the font size, which is right for font-size and line-height.
func resolveLength(v string, fontSize float64) (float64, bool) {
	v = strings.TrimSpace(v)
	var unit string
	for _, u := range []string{"rem", "em", "px", "%"} {
		if strings.HasSuffix(v, u) {
			unit = u
			v = strings.TrimSuffix(v, u)
			break
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	switch unit {
	case "em":
		return n * fontSize, true
	case "rem":
		return n * rootFontSize, true
	case "%":
		return n / 100 * fontSize, true
	}
	return n, true
}

// Apply computes styles for every element of the document.
func (c *Cascade) Apply(doc *html.Document) map[*html.Node]*Style {
	styles := make(map[*html.Node]*Style)
	for _, child := range doc.Root.Children {
		c.applyToNode(child, nil, styles)
	}
	return styles
}

func (c *Cascade) applyToNode(node *html.Node, parent *Style, styles map[*html.Node]*Style) {
	if node.Type != html.ElementNode {
		return
	}
	style := c.ComputeStyle(node, parent)
	styles[node] = style
	for _, child := range node.Children {
		c.applyToNode(child, style, styles)
	}
}

// ApplyStylesToDocument applies the document's stylesheets to all nodes.
func ApplyStylesToDocument(doc *html.Document) map[*html.Node]*Style {
	return NewCascade(doc).Apply(doc)
}
