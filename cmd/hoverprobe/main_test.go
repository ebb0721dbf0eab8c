package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probePage = `
<style>p { margin: 0; line-height: 20px }</style>
<p id="one">first</p>
<p id="two" class="lead">second</p>
<div style="height: 900px"></div>`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runRoot(t)
	require.NoError(t, err)
	assert.Contains(t, out, "hoverprobe")
	assert.Contains(t, out, "probe")
	assert.Contains(t, out, "--log-level")
}

func TestProbeReplaysMoves(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	pagePath := writeFile(t, dir, "page.html", probePage)
	moves := writeFile(t, dir, "moves.yaml", "- move: [10, 5]\n- move: [10, 25]\n- scroll: [0, 10]\n- move: [10, 300]\n")
	frame := filepath.Join(dir, "frame.png")

	out, err := runRoot(t, "probe", pagePath, "--moves", moves, "--png", frame, "--log-file", filepath.Join(dir, "probe.log"))
	require.NoError(t, err)

	assert.Contains(t, out, "2 candidates")
	assert.Contains(t, out, "Line height")
	assert.Contains(t, out, "p#one")
	assert.Contains(t, out, "p.lead")
	assert.Contains(t, out, "frame written to")

	lines := strings.Split(out, "\n")
	var last string
	for _, l := range lines {
		if strings.Contains(l, "move") && strings.Contains(l, "300") {
			last = l
		}
	}
	assert.Contains(t, last, "-", "nothing is hovered below the paragraphs")

	f, err := os.Open(frame)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
}

func TestProbeSelectorAndViewportFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	pagePath := writeFile(t, dir, "page.html", probePage)

	out, err := runRoot(t, "probe", pagePath, "-s", "p.lead", "--width", "300", "--log-file", filepath.Join(dir, "probe.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 candidates")
}

func TestProbeConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	pagePath := writeFile(t, dir, "page.html", probePage)
	writeFile(t, dir, "hoverplayer.yaml", "candidates:\n  selector: \"#one\"\nlog:\n  filename: probe.log\n")

	out, err := runRoot(t, "probe", pagePath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 candidates")
	assert.FileExists(t, filepath.Join(dir, "probe.log"))
}

func TestProbeErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	logFile := filepath.Join(dir, "probe.log")
	pagePath := writeFile(t, dir, "page.html", probePage)

	tests := map[string][]string{
		"missing page":   {"probe", filepath.Join(dir, "missing.html"), "--log-file", logFile},
		"no argument":    {"probe"},
		"bad selector":   {"probe", pagePath, "-s", "> p", "--log-file", logFile},
		"missing moves":  {"probe", pagePath, "-m", filepath.Join(dir, "none.yaml"), "--log-file", logFile},
		"invalid moves":  {"probe", pagePath, "-m", writeFile(t, dir, "bad.yaml", "- move: [1]\n"), "--log-file", logFile},
		"missing config": {"probe", pagePath, "--config", filepath.Join(dir, "none.yaml")},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := runRoot(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "version"))
}
