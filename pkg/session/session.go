// Package session wires a loaded page to its scripts, a hover coordinator
// and a renderer: everything a front end needs to show a page with a hover
// player.
package session

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"hoverplayer/pkg/config"
	"hoverplayer/pkg/hover"
	"hoverplayer/pkg/html"
	"hoverplayer/pkg/js"
	"hoverplayer/pkg/page"
	"hoverplayer/pkg/render"
	"hoverplayer/pkg/text"
)

type Session struct {
	Window      *page.Window
	Engine      *js.Engine
	Coordinator *hover.Coordinator
	Renderer    *render.Renderer

	logger     *slog.Logger
	onChange   func(prev, next *html.Node)
	renderOpts []render.Option
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithOnChange is called after each hover transition, e.g. to repaint.
func WithOnChange(fn func(prev, next *html.Node)) Option {
	return func(s *Session) { s.onChange = fn }
}

// Open loads location, selects the initial candidates with cfg.Selector,
// and runs the page's scripts. A script calling hoverPlayer.watch replaces
// the selector's candidates. Script failures are logged, not returned.
func Open(ctx context.Context, location string, cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	win, err := page.Load(ctx, location, cfg.ViewportWidth, cfg.ViewportHeight,
		page.WithLogger(s.logger),
		page.WithMeasurer(text.NewMeasurer(cfg.FontPath)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", location, err)
	}
	if err := s.attach(win, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// FromWindow builds a session around an already loaded window.
func FromWindow(win *page.Window, cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.attach(win, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) attach(win *page.Window, cfg *config.Config) error {
	candidates, err := win.QuerySelectorAll(cfg.Selector)
	if err != nil {
		return fmt.Errorf("candidate selector %q: %w", cfg.Selector, err)
	}
	s.Window = win
	s.Coordinator = hover.NewCoordinator(win, candidates,
		hover.WithLogger(s.logger),
		hover.WithOnChange(func(prev, next *html.Node) {
			if s.onChange != nil {
				s.onChange(prev, next)
			}
		}),
	)
	s.Engine = js.New(win, js.WithLogger(s.logger), js.WithWatchHandler(s.Coordinator.SetCandidates))
	if err := s.Engine.Execute(); err != nil {
		s.logger.Warn("page script failed", "error", err)
	}
	w, h := win.ViewportSize()
	s.renderOpts = []render.Option{
		render.WithFontPath(cfg.FontPath),
		render.WithMinPlayerSize(cfg.PlayerMinSize),
	}
	s.Renderer = render.NewRenderer(int(w), int(h), s.renderOpts...)
	s.logger.Info("session ready", "candidates", len(s.Coordinator.Candidates()))
	return nil
}

// Frame paints the page at its current scroll offset with the player for
// the hovered element, if any.
func (s *Session) Frame() image.Image {
	s.Renderer.Frame(s.Window, s.Coordinator.Info())
	return s.Renderer.Image()
}

// Resize changes the viewport and replaces the renderer to match.
func (s *Session) Resize(width, height float64) {
	s.Window.Resize(width, height)
	s.Renderer = render.NewRenderer(int(width), int(height), s.renderOpts...)
}

func (s *Session) Close() {
	s.Coordinator.Close()
	s.Engine.Close()
}
