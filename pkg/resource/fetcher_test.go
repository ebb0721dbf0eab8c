package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		base, uri, want string
	}{
		{"", "style.css", "style.css"},
		{"/site/index.html", "style.css", "/site/style.css"},
		{"/site/index.html", "../shared/a.css", "/shared/a.css"},
		{"file:///site/index.html", "style.css", "/site/style.css"},
		{"/site/index.html", "/abs/a.css", "/abs/a.css"},
		{"/site/index.html", "file:///abs/a.css", "/abs/a.css"},
		{"/site/index.html", "https://cdn.example/a.css", "https://cdn.example/a.css"},
		{"https://example.com/docs/page.html", "a.css", "https://example.com/docs/a.css"},
		{"https://example.com/docs/page.html", "/a.css", "https://example.com/a.css"},
		{"/site/index.html", "ftp://example.com/a.css", "ftp://example.com/a.css"},
	}
	for _, tt := range tests {
		t.Run(tt.base+" "+tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFetcher(tt.base).Resolve(tt.uri))
		})
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(page, []byte("<p>hi</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), []byte("p {}"), 0o644))

	f := NewFetcher(page)
	body, _, err := f.Fetch(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(body))

	css, err := f.FetchCSS(context.Background(), "a.css")
	require.NoError(t, err)
	assert.Equal(t, "p {}", css)

	body, _, err = NewFetcher("").Fetch(context.Background(), "file://"+page)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(body))

	_, _, err = f.Fetch(context.Background(), "missing.css")
	assert.Error(t, err)
}

func TestFetchUnsupportedScheme(t *testing.T) {
	_, _, err := NewFetcher("").Fetch(context.Background(), "gopher://example.com/")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestFetchCSSOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/img.png" {
			rw.Header().Set("Content-Type", "image/png")
		} else {
			rw.Header().Set("Content-Type", "text/css")
		}
		rw.Write([]byte("body {}"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL + "/index.html")
	css, err := f.FetchCSS(context.Background(), "site.css")
	require.NoError(t, err)
	assert.Equal(t, "body {}", css)

	_, err = f.FetchCSS(context.Background(), "img.png")
	assert.ErrorContains(t, err, "unexpected content type")
}
