package text

import "testing"

func TestWidthScalesWithFontSize(t *testing.T) {
	m := NewMeasurer("")
	small := m.Width("hello", 13)
	large := m.Width("hello", 26)
	if small <= 0 {
		t.Fatalf("expected positive width, got %v", small)
	}
	if large != 2*small {
		t.Errorf("expected width to double with font size, got %v and %v", small, large)
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	m := NewMeasurer("/nonexistent/font.ttf")
	if w := m.Width("abc", 13); w <= 0 {
		t.Errorf("expected built-in face fallback, got %v", w)
	}
}

func TestBreakLines(t *testing.T) {
	m := NewMeasurer("")
	word := m.Width("aaaa", 13)
	lines := m.BreakLines("aaaa bbbb cccc", 13, word*2+m.Width(" ", 13))
	if len(lines) != 2 || lines[0] != "aaaa bbbb" || lines[1] != "cccc" {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestBreakLinesBlank(t *testing.T) {
	m := NewMeasurer("")
	if lines := m.BreakLines(" \n ", 16, 100); lines != nil {
		t.Errorf("expected no lines, got %q", lines)
	}
}

func TestBreakLinesLongWord(t *testing.T) {
	m := NewMeasurer("")
	lines := m.BreakLines("extraordinarily long", 16, 10)
	if len(lines) != 2 {
		t.Errorf("expected each word on its own line, got %q", lines)
	}
}
