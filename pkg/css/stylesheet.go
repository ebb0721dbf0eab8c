package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator Combinator = iota // "div p"
	ChildCombinator                        // "div > p"
)

// SelectorPart is one compound selector such as p.intro#lead.
type SelectorPart struct {
	Element string
	ID      string
	Classes []string
}

// Selector is a complex selector: Parts joined left to right by Combinators.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	Order        int // source order, breaks specificity ties
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text. Malformed rules are skipped; comma
// groups become one Rule per selector.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{Rules: make([]Rule, 0)}
	css = stripComments(css)

	for _, block := range splitRules(css) {
		open := strings.IndexByte(block, '{')
		if open < 0 {
			continue
		}
		selectorText := strings.TrimSpace(block[:open])
		if strings.HasPrefix(selectorText, "@") {
			continue
		}
		body := strings.TrimSuffix(block[open+1:], "}")
		decls := parseDeclarations(body)
		for _, raw := range strings.Split(selectorText, ",") {
			sel, err := ParseSelector(raw)
			if err != nil {
				continue
			}
			stylesheet.Rules = append(stylesheet.Rules, Rule{
				Selector:     sel,
				Declarations: decls,
				Order:        len(stylesheet.Rules),
			})
		}
	}
	return stylesheet, nil
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level "selector { ... }" blocks.
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	for i, ch := range css {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if rule := strings.TrimSpace(css[start : i+1]); rule != "" {
					rules = append(rules, rule)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}
	return rules
}

// ParseSelector parses a complex selector built from type, class and id
// selectors joined by descendant or child combinators.
func ParseSelector(raw string) (Selector, error) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, fmt.Errorf("empty selector")
	}

	tokens := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	pending := DescendantCombinator
	for _, tok := range tokens {
		if tok == ">" {
			if len(sel.Parts) == 0 {
				return sel, fmt.Errorf("selector %q starts with a combinator", raw)
			}
			pending = ChildCombinator
			continue
		}
		part, err := parseCompound(tok)
		if err != nil {
			return sel, fmt.Errorf("selector %q: %w", raw, err)
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		pending = DescendantCombinator
		sel.Parts = append(sel.Parts, part)
		sel.Specificity += part.specificity()
	}
	if pending == ChildCombinator || len(sel.Parts) == 0 {
		return sel, fmt.Errorf("selector %q ends with a combinator", raw)
	}
	return sel, nil
}

func parseCompound(tok string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	readName := func() string {
		start := i
		for i < len(tok) && tok[i] != '.' && tok[i] != '#' {
			i++
		}
		return tok[start:i]
	}
	if tok[0] != '.' && tok[0] != '#' {
		part.Element = strings.ToLower(readName())
	}
	for i < len(tok) {
		marker := tok[i]
		i++
		name := readName()
		if name == "" {
			return part, fmt.Errorf("missing name after %q", marker)
		}
		if marker == '#' {
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
	}
	return part, nil
}

func (p SelectorPart) specificity() int {
	s := 10 * len(p.Classes)
	if p.ID != "" {
		s += 100
	}
	if p.Element != "" && p.Element != "*" {
		s++
	}
	return s
}
