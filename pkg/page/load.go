package page

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hoverplayer/pkg/html"
	"hoverplayer/pkg/resource"
)

// ErrUnsupportedScheme is returned for locations that are neither local
// files nor http(s) URLs.
var ErrUnsupportedScheme = resource.ErrUnsupportedScheme

// Load reads an HTML page from a file path, a file:// URL, or an http(s)
// URL, pulls in its linked stylesheets, and lays it out.
func Load(ctx context.Context, location string, width, height float64, opts ...Option) (*Window, error) {
	fetcher := resource.NewFetcher(location)
	src, _, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", location, err)
	}

	w := newWindow(width, height, opts)
	loadLinkedStylesheets(ctx, doc, fetcher, w.logger)
	w.doc = doc
	w.Reflow()
	return w, nil
}

// LoadString parses and lays out an in-memory page. Linked stylesheets are
// not fetched.
func LoadString(src string, width, height float64, opts ...Option) (*Window, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return New(doc, width, height, opts...), nil
}

// maxStylesheetFetches bounds concurrent stylesheet requests per page.
const maxStylesheetFetches = 4

// loadLinkedStylesheets fills the slots the parser reserved for
// <link rel="stylesheet"> targets. Failures are logged and leave the slot
// empty.
func loadLinkedStylesheets(ctx context.Context, doc *html.Document, fetcher *resource.DefaultFetcher, logger *slog.Logger) {
	var group errgroup.Group
	group.SetLimit(maxStylesheetFetches)
	for _, link := range doc.Links {
		group.Go(func() error {
			sheet, err := fetcher.FetchCSS(ctx, link.Href)
			if err != nil {
				logger.Warn("skipping stylesheet", "href", link.Href, "error", err)
				return nil
			}
			doc.Stylesheets[link.Slot] = sheet
			return nil
		})
	}
	_ = group.Wait()
}
