package css

import (
	"testing"

	"hoverplayer/pkg/html"
)

func computeAll(t *testing.T, src string) (*html.Document, map[*html.Node]*Style) {
	t.Helper()
	doc, err := html.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc, ApplyStylesToDocument(doc)
}

func lineHeightOf(t *testing.T, doc *html.Document, styles map[*html.Node]*Style, id string) string {
	t.Helper()
	node := doc.Root.GetElementByID(id)
	if node == nil {
		t.Fatalf("no element #%s", id)
	}
	v, _ := styles[node].Get("line-height")
	return v
}

func TestCascade_LineHeightForms(t *testing.T) {
	doc, styles := computeAll(t, `
		<style>
			.px { line-height: 24px }
			.em { font-size: 10px; line-height: 2em }
			.pct { line-height: 150% }
			.num { font-size: 20px; line-height: 1.5 }
			.bad { line-height: tall }
		</style>
		<div id="default">a</div>
		<div id="px" class="px">a</div>
		<div id="em" class="em">a</div>
		<div id="pct" class="pct">a</div>
		<div id="num" class="num">a</div>
		<div id="bad" class="bad">a</div>
	`)
	want := map[string]string{
		"default": "normal",
		"px":      "24px",
		"em":      "20px",
		"pct":     "24px",
		"num":     "30px",
		"bad":     "normal",
	}
	for id, w := range want {
		if got := lineHeightOf(t, doc, styles, id); got != w {
			t.Errorf("#%s: expected line-height %q, got %q", id, w, got)
		}
	}
}

func TestCascade_LineHeightInheritance(t *testing.T) {
	doc, styles := computeAll(t, `
		<div style="font-size: 10px; line-height: 2">
			<p id="scaled" style="font-size: 20px; margin: 0">x</p>
		</div>
		<div style="font-size: 10px; line-height: 2em">
			<p id="fixed" style="font-size: 20px">x</p>
		</div>
	`)
	if got := lineHeightOf(t, doc, styles, "scaled"); got != "40px" {
		t.Errorf("unitless factor should rescale, got %q", got)
	}
	if got := lineHeightOf(t, doc, styles, "fixed"); got != "20px" {
		t.Errorf("length should inherit as computed, got %q", got)
	}
}

func TestCascade_SpecificityAndOrder(t *testing.T) {
	doc, styles := computeAll(t, `
		<style>
			#t { color: red }
			p { color: blue }
			.c { color: green }
			.c { color: purple }
		</style>
		<p id="t" class="c">x</p>
		<p id="u" class="c">y</p>
	`)
	if v, _ := styles[doc.Root.GetElementByID("t")].Get("color"); v != "red" {
		t.Errorf("id rule should win, got %q", v)
	}
	if v, _ := styles[doc.Root.GetElementByID("u")].Get("color"); v != "purple" {
		t.Errorf("later equal-specificity rule should win, got %q", v)
	}
}

func TestCascade_LaterSheetWinsTie(t *testing.T) {
	doc, styles := computeAll(t, `
		<style>div { color: red } p { line-height: 10px }</style>
		<style>p { line-height: 30px }</style>
		<p id="p">x</p>
	`)
	if got := lineHeightOf(t, doc, styles, "p"); got != "30px" {
		t.Errorf("rule in the later sheet should win, got %q", got)
	}
}

func TestCascade_InlineBeatsSheet(t *testing.T) {
	doc, styles := computeAll(t, `<style>p { line-height: 10px }</style><p id="p" style="line-height: 12px">x</p>`)
	if got := lineHeightOf(t, doc, styles, "p"); got != "12px" {
		t.Errorf("expected inline 12px, got %q", got)
	}
}

func TestCascade_EmMarginsResolved(t *testing.T) {
	doc, styles := computeAll(t, `<p id="p" style="font-size: 20px">x</p>`)
	if v, _ := styles[doc.Root.GetElementByID("p")].Get("margin-top"); v != "20px" {
		t.Errorf("expected 1em margin to resolve to 20px, got %q", v)
	}
}

func TestMatchesSelector_Combinators(t *testing.T) {
	doc, err := html.Parse(`<div class="outer"><section><p id="deep">x</p></section><p id="direct">y</p></div>`)
	if err != nil {
		t.Fatal(err)
	}
	child, _ := ParseSelector(".outer > p")
	desc, _ := ParseSelector(".outer p")
	deep := doc.Root.GetElementByID("deep")
	direct := doc.Root.GetElementByID("direct")
	if MatchesSelector(deep, child) {
		t.Error("child combinator should not match grandchild")
	}
	if !MatchesSelector(direct, child) {
		t.Error("child combinator should match direct child")
	}
	if !MatchesSelector(deep, desc) {
		t.Error("descendant combinator should match grandchild")
	}
}

func TestQuerySelectorAll_DocumentOrder(t *testing.T) {
	doc, err := html.Parse(`<h1 id="a">t</h1><p id="b">x</p><div><h1 id="c">u</h1></div>`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := QuerySelectorAll(doc.Root, "p, h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID() != "a" || got[1].ID() != "b" || got[2].ID() != "c" {
		t.Errorf("expected a, b, c in document order, got %d nodes", len(got))
	}
	if _, err := QuerySelectorAll(doc.Root, "p >"); err == nil {
		t.Error("expected error for malformed selector")
	}
}
