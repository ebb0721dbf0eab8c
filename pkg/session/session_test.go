package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hoverplayer/pkg/config"
	"hoverplayer/pkg/event"
	"hoverplayer/pkg/html"
	"hoverplayer/pkg/page"
)

const article = `
<style>
  p { margin: 0; line-height: 20px }
  .tall { height: 1000px }
</style>
<p id="one">first paragraph</p>
<p id="two" class="pick">second paragraph</p>
<div class="tall"></div>`

func testConfig() *config.Config {
	return &config.Config{ViewportWidth: 400, ViewportHeight: 300, Selector: "p", PlayerMinSize: 12}
}

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenUsesSelector(t *testing.T) {
	s, err := Open(context.Background(), writePage(t, article), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, s.Coordinator.Candidates(), 2)
	assert.Equal(t, 1, s.Window.ListenerCount(event.TypeMouseMove))
}

func TestOpenScriptWatchReplacesCandidates(t *testing.T) {
	src := article + `<script>hoverPlayer.watch(document.getElementsByClassName("pick"))</script>`
	s, err := Open(context.Background(), writePage(t, src), testConfig())
	require.NoError(t, err)
	defer s.Close()

	candidates := s.Coordinator.Candidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "two", candidates[0].ID())
	assert.Equal(t, 1, s.Window.ListenerCount(event.TypeMouseMove))
}

func TestOpenToleratesFailingScript(t *testing.T) {
	s, err := Open(context.Background(), writePage(t, article+`<script>undefinedFunction()</script>`), testConfig())
	require.NoError(t, err)
	s.Close()
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.html"), testConfig())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Selector = "> p"
	_, err = Open(context.Background(), writePage(t, article), cfg)
	assert.ErrorContains(t, err, "candidate selector")
}

func TestReplay(t *testing.T) {
	var changes int
	s, err := Open(context.Background(), writePage(t, article), testConfig(), WithOnChange(func(_, _ *html.Node) { changes++ }))
	require.NoError(t, err)
	defer s.Close()

	results := s.Replay([]Step{
		{Move: []float64{10, 5}},
		{Move: []float64{10, 25}},
		{Scroll: []float64{0, 15}},
		{Move: []float64{10, 500}},
	})

	require.Len(t, results, 4)
	assert.Equal(t, "one", results[0].Element.ID())
	assert.Equal(t, 20, results[0].LineHeight)
	assert.Equal(t, "two", results[1].Element.ID())
	assert.Equal(t, 20.0, results[1].Top)
	assert.Equal(t, "scroll", results[2].Action)
	assert.Equal(t, "two", results[2].Element.ID(), "scrolling alone does not change the hovered element")
	assert.Nil(t, results[3].Element)
	assert.Equal(t, 3, changes)
}

func TestFrameAndResize(t *testing.T) {
	w, err := page.LoadString(article, 400, 300)
	require.NoError(t, err)
	s, err := FromWindow(w, testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 400, s.Frame().Bounds().Dx())

	s.Resize(200, 100)
	img := s.Frame()
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestParseScript(t *testing.T) {
	steps, err := ParseScript(strings.NewReader("- move: [10, 20]\n- scroll: [0, 100]\n"))
	require.NoError(t, err)
	assert.Equal(t, []Step{{Move: []float64{10, 20}}, {Scroll: []float64{0, 100}}}, steps)

	steps, err = ParseScript(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParseScriptErrors(t *testing.T) {
	tests := map[string]string{
		"both":      "- move: [1, 2]\n  scroll: [3, 4]\n",
		"neither":   "- {}\n",
		"short":     "- move: [1]\n",
		"long":      "- scroll: [1, 2, 3]\n",
		"malformed": "- move: [1, 2\n",
		"not list":  "move: [1, 2]\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}
