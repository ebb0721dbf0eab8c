package js

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoverplayer/pkg/event"
	"hoverplayer/pkg/hover"
	"hoverplayer/pkg/html"
	"hoverplayer/pkg/page"
)

const testPage = `
<style>
  p { margin: 0; line-height: 20px }
  .gap { height: 1000px; margin: 0 }
</style>
<p id="first" class="intro">one</p>
<p id="second">two</p>
<div class="gap"></div>`

func newEngine(t *testing.T, src string, opts ...Option) (*Engine, *page.Window) {
	t.Helper()
	w, err := page.LoadString(src, 800, 600)
	require.NoError(t, err)
	e := New(w, opts...)
	t.Cleanup(e.Close)
	return e, w
}

func eval(t *testing.T, e *Engine, src string) any {
	t.Helper()
	v, err := e.Eval(src)
	require.NoError(t, err)
	return v
}

func TestDocumentQueries(t *testing.T) {
	e, _ := newEngine(t, testPage)

	assert.Equal(t, "P", eval(t, e, `document.getElementById("first").tagName`))
	assert.Nil(t, eval(t, e, `document.getElementById("missing")`))
	assert.EqualValues(t, 2, eval(t, e, `document.getElementsByTagName("p").length`))
	assert.Equal(t, "first", eval(t, e, `document.getElementsByClassName("intro")[0].id`))
	assert.EqualValues(t, 3, eval(t, e, `document.querySelectorAll("p, .gap").length`))
	assert.Equal(t, "two", eval(t, e, `document.querySelector("#second").textContent`))
	assert.Equal(t, true, eval(t, e, `document.getElementById("first") === document.querySelector(".intro")`))
}

func TestInvalidSelectorThrows(t *testing.T) {
	e, _ := newEngine(t, testPage)
	_, err := e.Eval(`document.querySelectorAll("p >")`)
	assert.Error(t, err)
}

func TestTraversal(t *testing.T) {
	e, _ := newEngine(t, `<div id="d"><span>a</span><em>b</em></div>`)

	assert.Equal(t, "SPAN", eval(t, e, `document.getElementById("d").firstChild.tagName`))
	assert.Equal(t, "EM", eval(t, e, `document.getElementById("d").firstChild.nextSibling.nodeName`))
	assert.Equal(t, "d", eval(t, e, `document.querySelector("em").parentElement.id`))
	assert.Nil(t, eval(t, e, `document.getElementById("d").parentElement`))
	assert.EqualValues(t, 2, eval(t, e, `document.getElementById("d").children.length`))
}

func TestBoundingClientRectFollowsScrollAndMutation(t *testing.T) {
	e, w := newEngine(t, testPage)

	assert.EqualValues(t, 20, eval(t, e, `document.getElementById("second").getBoundingClientRect().top`))

	w.ScrollTo(0, 15)
	assert.EqualValues(t, 5, eval(t, e, `document.getElementById("second").getBoundingClientRect().top`))

	assert.EqualValues(t, 35, eval(t, e, `
		document.getElementById("first").style.lineHeight = "50px";
		document.getElementById("second").getBoundingClientRect().top`))
}

func TestMutationReflowsAfterExecute(t *testing.T) {
	e, w := newEngine(t, testPage)
	w.Document().Scripts = []string{`document.getElementById("first").remove()`}

	require.NoError(t, e.Execute())

	second := w.Document().Root.GetElementByID("second")
	assert.Zero(t, w.ClientRect(second).Y)
}

func TestExecuteReportsFailingScript(t *testing.T) {
	e, w := newEngine(t, testPage)
	w.Document().Scripts = []string{`var ok = 1`, `throw new Error("boom")`, `ok = 2`}

	err := e.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script 1")
	assert.EqualValues(t, 1, eval(t, e, `ok`))
}

func TestGetComputedStyle(t *testing.T) {
	e, _ := newEngine(t, testPage+`<div id="n" style="line-height: normal">x</div>`)

	assert.Equal(t, "20px", eval(t, e, `getComputedStyle(document.getElementById("first")).lineHeight`))
	assert.Equal(t, "20px", eval(t, e, `window.getComputedStyle(document.getElementById("first")).getPropertyValue("line-height")`))
	assert.Equal(t, "normal", eval(t, e, `getComputedStyle(document.getElementById("n")).lineHeight`))
}

func TestScrollAPI(t *testing.T) {
	e, w := newEngine(t, testPage)

	eval(t, e, `window.scrollTo(0, 100)`)
	assert.Equal(t, 100.0, w.ScrollY())
	assert.EqualValues(t, 100, eval(t, e, `window.scrollY`))

	eval(t, e, `scrollBy(0, 20)`)
	assert.Equal(t, 120.0, w.ScrollY())

	eval(t, e, `scrollTo({top: 10})`)
	assert.Equal(t, 10.0, w.ScrollY())
	assert.EqualValues(t, 800, eval(t, e, `innerWidth`))
}

func TestMouseMoveListener(t *testing.T) {
	e, w := newEngine(t, testPage)
	eval(t, e, `
		var seen = [];
		function onMove(ev) { seen.push(ev.type + ":" + ev.clientX + "," + ev.pageY); }
		window.addEventListener("mousemove", onMove);
		window.addEventListener("mousemove", onMove);`)
	require.Equal(t, 1, w.ListenerCount(event.TypeMouseMove))

	w.ScrollTo(0, 30)
	w.MoveMouse(4, 5)
	eval(t, e, `removeEventListener("mousemove", onMove)`)
	w.MoveMouse(6, 7)

	assert.Equal(t, []any{"mousemove:4,35"}, eval(t, e, `seen`))
	assert.Zero(t, w.ListenerCount(event.TypeMouseMove))
}

func TestListenerMutationReflows(t *testing.T) {
	w, err := page.LoadString(testPage, 800, 600)
	require.NoError(t, err)
	second := w.Document().Root.GetElementByID("second")
	c := hover.NewCoordinator(w, []*html.Node{second})
	defer c.Close()
	e := New(w)
	defer e.Close()

	eval(t, e, `
		addEventListener("mousemove", function grow() {
			document.getElementById("first").setAttribute("style", "height: 200px");
			removeEventListener("mousemove", grow);
		})`)

	w.MoveMouse(10, 25)

	assert.Equal(t, 200.0, w.ClientRect(second).Y)
	info := c.Info()
	require.NotNil(t, info)
	assert.Equal(t, 200.0, info.Top)
}

func TestAppendChildRejectsCycle(t *testing.T) {
	e, w := newEngine(t, `<div id="outer"><p id="inner">x</p></div>`)

	assert.Equal(t, "HierarchyRequestError", eval(t, e, `
		var outer = document.getElementById("outer");
		try { document.getElementById("inner").appendChild(outer); "none" } catch (err) { err.name }`))
	assert.Equal(t, "HierarchyRequestError", eval(t, e, `
		try { outer.appendChild(outer); "none" } catch (err) { err.name }`))

	root := w.Document().Root
	outer := root.GetElementByID("outer")
	assert.True(t, outer.IsConnected())
	assert.Same(t, outer, root.GetElementByID("inner").ParentElement())
}

func TestCloseRemovesScriptListeners(t *testing.T) {
	e, w := newEngine(t, testPage)
	eval(t, e, `addEventListener("mousemove", function() {}); addEventListener("scroll", function() {})`)

	e.Close()

	assert.Zero(t, w.ListenerCount(event.TypeMouseMove))
	assert.Zero(t, w.ListenerCount(event.TypeScroll))
}

func TestHoverPlayerWatch(t *testing.T) {
	var got [][]*html.Node
	e, w := newEngine(t, testPage, WithWatchHandler(func(nodes []*html.Node) { got = append(got, nodes) }))

	eval(t, e, `hoverPlayer.watch(document.querySelectorAll("p"))`)
	eval(t, e, `hoverPlayer.watch(document.getElementById("second"))`)
	eval(t, e, `hoverPlayer.watch([document.getElementById("first"), 42, null])`)

	root := w.Document().Root
	first, second := root.GetElementByID("first"), root.GetElementByID("second")
	require.Len(t, got, 3)
	assert.Equal(t, []*html.Node{first, second}, got[0])
	assert.Equal(t, []*html.Node{second}, got[1])
	assert.Equal(t, []*html.Node{first}, got[2])
	assert.Equal(t, []*html.Node{first}, e.Watched())
}

func TestWatchDrivesCoordinator(t *testing.T) {
	w, err := page.LoadString(testPage, 800, 600)
	require.NoError(t, err)
	c := hover.NewCoordinator(w, nil)
	defer c.Close()
	e := New(w, WithWatchHandler(c.SetCandidates))
	defer e.Close()

	w.Document().Scripts = []string{`hoverPlayer.watch(document.querySelectorAll("p"))`}
	require.NoError(t, e.Execute())

	w.MoveMouse(10, 25)
	info := c.Info()
	require.NotNil(t, info)
	assert.Equal(t, "second", info.Element.ID())
	assert.Equal(t, 20, info.HeightOfFirstLine)
	assert.Equal(t, 1, w.ListenerCount(event.TypeMouseMove))
}

func TestConsoleLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, _ := newEngine(t, testPage, WithLogger(logger))

	eval(t, e, `console.log("hello", 1 + 1); console.warn("careful")`)

	out := buf.String()
	assert.Contains(t, out, `msg="hello 2"`)
	assert.Contains(t, out, `level=WARN msg=careful`)
}
