package layout

import (
	"testing"

	"hoverplayer/pkg/html"
)

func layoutHTML(t *testing.T, src string) (*html.Document, *Tree) {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc, NewLayoutEngine(800, 600).Layout(doc)
}

func rectOf(t *testing.T, doc *html.Document, tree *Tree, id string) Rect {
	t.Helper()
	node := doc.Root.GetElementByID(id)
	if node == nil {
		t.Fatalf("no element #%s", id)
	}
	if _, ok := tree.Box(node); !ok {
		t.Fatalf("#%s has no box", id)
	}
	return tree.Rect(node)
}

func TestLayoutEngine_SingleBox(t *testing.T) {
	doc, tree := layoutHTML(t, `<div id="a" style="width: 200px; height: 100px"></div>`)
	if got := rectOf(t, doc, tree, "a"); got != (Rect{0, 0, 200, 100}) {
		t.Errorf("expected 200x100 at origin, got %+v", got)
	}
}

func TestLayoutEngine_VerticalStacking(t *testing.T) {
	doc, tree := layoutHTML(t, `
		<div id="a" style="height: 50px"></div>
		<div id="b" style="height: 50px"></div>
		<div id="c" style="height: 50px"></div>`)
	for i, id := range []string{"a", "b", "c"} {
		if got := rectOf(t, doc, tree, id); got.Y != float64(i*50) || got.Width != 800 {
			t.Errorf("#%s: expected y=%d width=800, got %+v", id, i*50, got)
		}
	}
}

func TestLayoutEngine_BoxModel(t *testing.T) {
	doc, tree := layoutHTML(t, `
		<div id="outer" style="padding: 10px; border: 2px solid black; margin: 5px">
			<div id="inner" style="height: 20px; margin: 0 4px"></div>
		</div>`)
	outer := rectOf(t, doc, tree, "outer")
	if outer != (Rect{5, 5, 790, 44}) {
		t.Errorf("unexpected outer border box %+v", outer)
	}
	inner := rectOf(t, doc, tree, "inner")
	if inner != (Rect{21, 17, 758, 20}) {
		t.Errorf("unexpected inner border box %+v", inner)
	}
}

func TestLayoutEngine_AbsolutePosition(t *testing.T) {
	doc, tree := layoutHTML(t, `
		<div id="flow" style="height: 30px"></div>
		<div id="abs" style="position: absolute; left: 200px; top: 300px; width: 50px; height: 40px"></div>
		<div id="after" style="height: 10px"></div>`)
	if got := rectOf(t, doc, tree, "abs"); got != (Rect{200, 300, 50, 40}) {
		t.Errorf("unexpected absolute rect %+v", got)
	}
	if got := rectOf(t, doc, tree, "after"); got.Y != 30 {
		t.Errorf("absolute box should not advance flow, got y=%v", got.Y)
	}
}

func TestLayoutEngine_PercentWidth(t *testing.T) {
	doc, tree := layoutHTML(t, `<div id="a" style="width: 25%; height: 1px"></div>`)
	if got := rectOf(t, doc, tree, "a"); got.Width != 200 {
		t.Errorf("expected 25%% of 800 = 200, got %v", got.Width)
	}
}

func TestLayoutEngine_DisplayNone(t *testing.T) {
	doc, tree := layoutHTML(t, `<div id="gone" style="display: none; height: 50px"></div><div id="b" style="height: 5px"></div>`)
	if _, ok := tree.Box(doc.Root.GetElementByID("gone")); ok {
		t.Error("display:none should not generate a box")
	}
	if got := rectOf(t, doc, tree, "b"); got.Y != 0 {
		t.Errorf("expected b at y=0, got %v", got.Y)
	}
	if got := tree.Rect(doc.Root.GetElementByID("gone")); got != (Rect{}) {
		t.Errorf("expected zero rect, got %+v", got)
	}
}

func TestLayoutEngine_TextLinesUseLineHeight(t *testing.T) {
	doc, tree := layoutHTML(t, `<p id="p" style="margin: 0; line-height: 24px">hello world</p>`)
	p := rectOf(t, doc, tree, "p")
	if p.Height != 24 {
		t.Errorf("expected one 24px line, got height %v", p.Height)
	}
	box, _ := tree.Box(doc.Root.GetElementByID("p"))
	if len(box.LineBoxes) != 1 || len(box.LineBoxes[0].Fragments) != 1 {
		t.Fatalf("expected a single line with one fragment")
	}
	if box.LineBoxes[0].Fragments[0].Text != "hello world" {
		t.Errorf("unexpected fragment text %q", box.LineBoxes[0].Fragments[0].Text)
	}
}

func TestLayoutEngine_TextWraps(t *testing.T) {
	doc, tree := layoutHTML(t, `<p id="p" style="margin: 0; width: 60px; line-height: 10px">aaaa bbbb cccc dddd</p>`)
	if got := rectOf(t, doc, tree, "p"); got.Height < 20 {
		t.Errorf("expected wrapped text to take several lines, got height %v", got.Height)
	}
}

func TestLayoutEngine_WhitespaceOnlyTextTakesNoSpace(t *testing.T) {
	doc, tree := layoutHTML(t, `<div id="d" style="line-height: 30px">   </div>`)
	if got := rectOf(t, doc, tree, "d"); got.Height != 0 {
		t.Errorf("expected zero height, got %v", got.Height)
	}
}

func TestLayoutEngine_InlineElementBox(t *testing.T) {
	doc, tree := layoutHTML(t, `<p style="margin: 0; line-height: 20px">see <span id="s">this</span> now</p>`)
	span := rectOf(t, doc, tree, "s")
	if span.Width <= 0 || span.Height != 20 || span.X <= 0 {
		t.Errorf("expected a non-empty inline box after leading text, got %+v", span)
	}
}

func TestLayoutEngine_DocumentSize(t *testing.T) {
	_, tree := layoutHTML(t, `<div style="height: 1500px"></div><div style="position: absolute; left: 900px; top: 0; width: 100px; height: 10px"></div>`)
	w, h := tree.DocumentSize()
	if w != 1000 || h != 1500 {
		t.Errorf("expected 1000x1500, got %vx%v", w, h)
	}
}
