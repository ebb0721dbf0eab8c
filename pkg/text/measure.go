package text

import (
	"strings"

	"github.com/fogleman/gg"
)

// baseFaceHeight is the pixel height of gg's built-in face, used to scale
// measurements to a requested font size when no font file is loaded.
const baseFaceHeight = 13.0

// Measurer measures single-line text widths.
type Measurer struct {
	dc       *gg.Context
	fontPath string
	loaded   float64 // font size the context currently holds, 0 = built-in face
}

// NewMeasurer returns a measurer. An empty fontPath, or one that fails to
// load, measures with gg's built-in face scaled to the font size.
func NewMeasurer(fontPath string) *Measurer {
	return &Measurer{dc: gg.NewContext(1, 1), fontPath: fontPath}
}

// Width returns the advance width of s at fontSize pixels.
func (m *Measurer) Width(s string, fontSize float64) float64 {
	fromFile := m.useFontFile(fontSize)
	w, _ := m.dc.MeasureString(s)
	if fromFile {
		return w
	}
	return w * fontSize / baseFaceHeight
}

func (m *Measurer) useFontFile(fontSize float64) bool {
	if m.fontPath == "" {
		return false
	}
	if m.loaded == fontSize {
		return true
	}
	if err := m.dc.LoadFontFace(m.fontPath, fontSize); err != nil {
		m.fontPath = ""
		return false
	}
	m.loaded = fontSize
	return true
}

// BreakLines greedily wraps text into lines no wider than maxWidth. A word
// wider than maxWidth gets a line of its own. Blank text yields no lines.
func (m *Measurer) BreakLines(text string, fontSize, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 1)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.Width(candidate, fontSize) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
