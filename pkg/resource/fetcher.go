// Package resource reads pages and their subresources from the local
// filesystem or over HTTP.
package resource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	stdnet "hoverplayer/std/net"
)

// ErrUnsupportedScheme is returned for locations that are neither local
// files nor http(s) URLs.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads file paths, file:// URLs and http(s) URLs, resolving
// relative URIs against the location of the page that referenced them.
type DefaultFetcher struct {
	base string
}

// NewFetcher creates a DefaultFetcher with the given base location.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base}
}

// Resolve returns uri as an absolute location relative to the base.
func (f *DefaultFetcher) Resolve(uri string) string {
	if f.base == "" || stdnet.IsNetworkURL(uri) {
		return uri
	}
	if stdnet.IsNetworkURL(f.base) {
		return stdnet.ResolveURL(f.base, uri)
	}
	if stdnet.HasScheme(uri) && !strings.HasPrefix(uri, "file://") {
		return uri
	}
	path := strings.TrimPrefix(uri, "file://")
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(strings.TrimPrefix(f.base, "file://")), path)
}

func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := f.Resolve(uri)
	if stdnet.IsNetworkURL(resolved) {
		return stdnet.Fetch(ctx, resolved)
	}
	path := resolved
	if rest, ok := strings.CutPrefix(resolved, "file://"); ok {
		path = rest
	} else if stdnet.HasScheme(resolved) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, resolved)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, "", nil
}

// FetchCSS fetches a stylesheet and returns its text. A content type that
// is neither text/* nor CSS is rejected.
func (f *DefaultFetcher) FetchCSS(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}
