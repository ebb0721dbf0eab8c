package css

import (
	"strings"

	"hoverplayer/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node.Type != html.ElementNode || node.IsDocumentRoot() || len(selector.Parts) == 0 {
		return false
	}
	// Match from the rightmost part (the subject) leftwards.
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

func matchesFrom(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	switch selector.Combinators[partIndex-1] {
	case ChildCombinator:
		parent := node.ParentElement()
		return parent != nil && matchesFrom(parent, selector, partIndex-1)
	default:
		for ancestor := node.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if matchesFrom(ancestor, selector, partIndex-1) {
				return true
			}
		}
		return false
	}
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}
	if part.ID != "" && node.ID() != part.ID {
		return false
	}
	for _, cls := range part.Classes {
		if !node.HasClass(cls) {
			return false
		}
	}
	return true
}

// QuerySelectorAll returns the descendants of root matching any selector
// in the comma-separated list, in document order.
func QuerySelectorAll(root *html.Node, selectorList string) ([]*html.Node, error) {
	selectors, err := parseSelectorList(selectorList)
	if err != nil {
		return nil, err
	}
	var result []*html.Node
	for _, node := range root.GetElementsByTagName("*") {
		for _, sel := range selectors {
			if MatchesSelector(node, sel) {
				result = append(result, node)
				break
			}
		}
	}
	return result, nil
}

// QuerySelector returns the first match of QuerySelectorAll, or nil.
func QuerySelector(root *html.Node, selectorList string) (*html.Node, error) {
	all, err := QuerySelectorAll(root, selectorList)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func parseSelectorList(selectorList string) ([]Selector, error) {
	var selectors []Selector
	for _, raw := range strings.Split(selectorList, ",") {
		sel, err := ParseSelector(raw)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

// FindMatchingRules returns all rules that match the given node
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet) []Rule {
	matches := make([]Rule, 0)
	for _, rule := range stylesheet.Rules {
		if MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}
