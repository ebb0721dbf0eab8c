package hover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

func TestFirstTextNodeDocumentOrder(t *testing.T) {
	root := html.NewElement("div", nil)
	first := root.AddChild(html.NewElement("section", nil))
	first.AddChild(html.NewElement("span", nil)).AppendText("   ")
	first.AddChild(html.NewElement("img", nil))
	deep := root.AddChild(html.NewElement("div", nil)).
		AddChild(html.NewElement("em", nil)).
		AddChild(html.NewElement("b", nil))
	want := deep.AppendText(" found ")
	root.AppendText("later")

	assert.Same(t, want, FirstTextNode(root))
}

func TestFirstTextNodeNone(t *testing.T) {
	root := html.NewElement("div", nil)
	root.AppendText("\n\t ")
	root.AddChild(html.NewElement("br", nil))

	assert.Nil(t, FirstTextNode(root))
	assert.Nil(t, FirstTextNode(nil))
}

func TestFirstLineHeight(t *testing.T) {
	w := loadPage(t, `
<style>
  p { margin: 0 }
  .fixed { line-height: 24px }
  .fraction { line-height: 19.2px }
  .normal { line-height: normal }
  .factor { font-size: 10px; line-height: 1.5 }
</style>
<div id="fixed" class="fixed"><p>hello</p></div>
<div id="fraction" class="fraction">hello</div>
<div id="normal" class="normal">hello</div>
<div id="factor" class="factor"><span>hello</span></div>
<div id="blank" class="fixed"> <span>  </span> </div>
<div id="empty" class="fixed"><img><br></div>
<div id="deep" class="fixed"><span></span><div><em><b> </b></em><i style="line-height: 31px">deep</i></div></div>`)

	tests := []struct {
		id   string
		want int
	}{
		{"fixed", 24},
		{"fraction", 19},
		{"normal", 0},
		{"factor", 15},
		{"blank", 0},
		{"empty", 0},
		{"deep", 31},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			el := w.Document().Root.GetElementByID(tt.id)
			require.NotNil(t, el)
			assert.Equal(t, tt.want, FirstLineHeight(el, w))
		})
	}
}

type styleMap map[*html.Node]string

func (m styleMap) ComputedStyle(el *html.Node) *css.Style {
	s := css.NewStyle()
	if v, ok := m[el]; ok {
		s.Set("line-height", v)
	}
	return s
}

func TestFirstLineHeightParsesLeadingInteger(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"24px", 24},
		{"19.9px", 19},
		{" 30px", 30},
		{"normal", 0},
		{"inherit", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			el := html.NewElement("p", nil)
			el.AppendText("x")
			assert.Equal(t, tt.want, FirstLineHeight(el, styleMap{el: tt.value}))
		})
	}
}

func TestFirstLineHeightWithoutParentElement(t *testing.T) {
	loose := html.NewText("orphan")
	assert.Zero(t, FirstLineHeight(loose, styleMap{}))
}

func TestFirstLineHeightDetachedElement(t *testing.T) {
	w := loadPage(t, `<p id="p" style="line-height: 40px">text</p>`)
	el := w.Document().Root.GetElementByID("p")
	el.Parent.RemoveChild(el)

	assert.Zero(t, FirstLineHeight(el, w))
}
