// Package js runs page scripts against a page.Window with goja. Scripts see
// a small DOM: document queries, element geometry, computed line height,
// window scrolling and mousemove listeners, plus hoverPlayer.watch for
// handing a candidate list to the hover coordinator.
package js

import (
	"fmt"
	"log/slog"

	"github.com/dop251/goja"

	"hoverplayer/pkg/html"
	"hoverplayer/pkg/page"
)

// Engine executes JavaScript against one window's document.
type Engine struct {
	vm     *goja.Runtime
	win    *page.Window
	logger *slog.Logger
	dom    *domContext

	onWatch   func([]*html.Node)
	watched   []*html.Node
	listeners []jsListener
	dirty     bool
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWatchHandler registers fn to receive the element list each time a
// script calls hoverPlayer.watch.
func WithWatchHandler(fn func([]*html.Node)) Option {
	return func(e *Engine) { e.onWatch = fn }
}

// New creates an engine bound to win with document, window, console and
// hoverPlayer globals installed.
func New(win *page.Window, opts ...Option) *Engine {
	e := &Engine{vm: goja.New(), win: win, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.dom = newDOMContext(e)

	c := &consoleAPI{logger: e.logger}
	c.register(e.vm)
	e.registerDocument()
	e.registerWindow()
	e.registerHoverPlayer()
	return e
}

// Execute runs the document's scripts in order. The first failing script
// stops execution. DOM changes made by scripts are laid out before return.
func (e *Engine) Execute() error {
	defer e.flush()
	for i, script := range e.win.Document().Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Eval runs src and returns its completion value exported to Go.
func (e *Engine) Eval(src string) (any, error) {
	defer e.flush()
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}

// Watched returns the most recent list passed to hoverPlayer.watch, or nil
// if no script has called it.
func (e *Engine) Watched() []*html.Node {
	return e.watched
}

// Close removes every listener scripts registered on the window.
func (e *Engine) Close() {
	for _, l := range e.listeners {
		l.sub.Cancel()
	}
	e.listeners = nil
}

func (e *Engine) markDirty() { e.dirty = true }

// flush reflows the window if scripts mutated the DOM since the last
// layout.
func (e *Engine) flush() {
	if !e.dirty {
		return
	}
	e.dirty = false
	e.win.Reflow()
}

func (e *Engine) registerHoverPlayer() {
	hp := e.vm.NewObject()
	hp.Set("watch", func(call goja.FunctionCall) goja.Value {
		var nodes []*html.Node
		if len(call.Arguments) > 0 {
			nodes = e.dom.unwrapList(call.Arguments[0])
		}
		e.flush()
		e.watched = nodes
		e.logger.Debug("hoverPlayer.watch", "elements", len(nodes))
		if e.onWatch != nil {
			e.onWatch(nodes)
		}
		return goja.Undefined()
	})
	e.vm.Set("hoverPlayer", hp)
}
