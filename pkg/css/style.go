package css

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

type Style struct {
	Properties map[string]string

	// lineHeightFactor holds a unitless line-height so descendants can
	// recompute it against their own font size.
	lineHeightFactor float64
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a pixel length ("100px" or "100").
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// ParseLeadingInt reads a base-10 integer prefix: optional whitespace and
// sign, then digits; anything after is ignored. "24px" and "19.2px" yield
// 24 and 19, "normal" fails. Digit runs beyond the int range saturate at
// math.MaxInt or math.MinInt.
func ParseLeadingInt(val string) (int, bool) {
	val = strings.TrimSpace(val)
	end := 0
	if end < len(val) && (val[end] == '-' || val[end] == '+') {
		end++
	}
	digits := end
	for end < len(val) && val[end] >= '0' && val[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(val[:end])
	if errors.Is(err, strconv.ErrRange) {
		if val[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatPx renders a pixel value the way computed styles report it.
func FormatPx(v float64) string {
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func (s *Style) GetMargin() BoxEdge {
	return s.edges("margin-%s")
}

func (s *Style) GetPadding() BoxEdge {
	return s.edges("padding-%s")
}

func (s *Style) GetBorderWidth() BoxEdge {
	return s.edges("border-%s-width")
}

func (s *Style) edges(pattern string) BoxEdge {
	side := func(name string) float64 {
		v, _ := s.GetLength(strings.Replace(pattern, "%s", name, 1))
		return v
	}
	return BoxEdge{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

type PositionType string

const (
	PositionStatic   PositionType = "static"
	PositionRelative PositionType = "relative"
	PositionAbsolute PositionType = "absolute"
	PositionFixed    PositionType = "fixed"
)

// GetPosition returns the position type (default: static)
func (s *Style) GetPosition() PositionType {
	if pos, ok := s.Get("position"); ok {
		switch pos {
		case "relative":
			return PositionRelative
		case "absolute":
			return PositionAbsolute
		case "fixed":
			return PositionFixed
		}
	}
	return PositionStatic
}

type DisplayType string

const (
	DisplayBlock  DisplayType = "block"
	DisplayInline DisplayType = "inline"
	DisplayNone   DisplayType = "none"
)

// GetDisplay returns the display type (default: inline)
func (s *Style) GetDisplay() DisplayType {
	if d, ok := s.Get("display"); ok {
		switch d {
		case "block", "list-item", "flex", "grid", "table":
			return DisplayBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayInline
}

// GetFontSize returns the font-size in pixels (default: 16px)
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok {
		return size
	}
	return 16
}

// GetLineHeight returns the used line height in pixels. The keyword
// "normal" maps to 1.2 times the font size.
func (s *Style) GetLineHeight() float64 {
	if lh, ok := s.GetLength("line-height"); ok {
		return lh
	}
	return s.GetFontSize() * 1.2
}

func (s *Style) GetColor() Color {
	if v, ok := s.Get("color"); ok {
		if c, ok := ParseColor(v); ok {
			return c
		}
	}
	return Color{0, 0, 0}
}

func (s *Style) GetBackgroundColor() (Color, bool) {
	v, ok := s.Get("background-color")
	if !ok {
		return Color{}, false
	}
	return ParseColor(v)
}

func (s *Style) IsBold() bool {
	w, _ := s.Get("font-weight")
	return w == "bold" || w == "bolder" || w == "700" || w == "800" || w == "900"
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for property, value := range parseDeclarations(styleAttr) {
		style.Set(property, value)
	}
	return style
}

// parseDeclarations parses "a: b; c: d" into a property map, expanding
// shorthands.
func parseDeclarations(declStr string) map[string]string {
	style := NewStyle()
	for _, decl := range strings.Split(declStr, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if property == "" || value == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style.Properties
}

func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border":
		expandBorderProperty(style, value)
	case "background":
		style.Set("background-color", value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands one-to-four value box shorthands in t r b l order.
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, top)
	style.Set(prefix+"-right"+suffix, right)
	style.Set(prefix+"-bottom"+suffix, bottom)
	style.Set(prefix+"-left"+suffix, left)
}

// expandBorderProperty expands "1px solid black" style shorthands.
func expandBorderProperty(style *Style, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case strings.HasSuffix(part, "px"):
			expandBoxProperty(style, "border", "-width", part)
		case part == "solid" || part == "dotted" || part == "dashed" || part == "double" || part == "none":
			style.Set("border-style", part)
		default:
			style.Set("border-color", part)
		}
	}
}

type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"white":   {255, 255, 255},
	"black":   {0, 0, 0},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"orange":  {255, 165, 0},
	"purple":  {128, 0, 128},
	"pink":    {255, 192, 203},
	"lime":    {0, 255, 0},
	"navy":    {0, 0, 128},
	"teal":    {0, 128, 128},
	"silver":  {192, 192, 192},
}

// ParseColor accepts named colors and #rgb / #rrggbb hex.
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	hex, ok := strings.CutPrefix(colorStr, "#")
	if !ok {
		return Color{}, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}
