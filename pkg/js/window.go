package js

import (
	"github.com/dop251/goja"

	"hoverplayer/pkg/event"
)

type jsListener struct {
	eventType string
	fn        goja.Value
	sub       *event.Subscription
}

// registerWindow makes the global object double as window, with scroll
// state, viewport size, getComputedStyle and event listener registration.
func (e *Engine) registerWindow() {
	vm := e.vm
	global := vm.GlobalObject()
	vm.Set("window", global)

	accessor := func(name string, fn func() any) {
		global.DefineAccessorProperty(name, vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(fn())
		}), nil, goja.FLAG_TRUE, goja.FLAG_TRUE)
	}
	accessor("scrollX", func() any { return e.win.ScrollX() })
	accessor("scrollY", func() any { return e.win.ScrollY() })
	accessor("pageXOffset", func() any { return e.win.ScrollX() })
	accessor("pageYOffset", func() any { return e.win.ScrollY() })
	accessor("innerWidth", func() any { w, _ := e.win.ViewportSize(); return w })
	accessor("innerHeight", func() any { _, h := e.win.ViewportSize(); return h })

	global.Set("scrollTo", func(call goja.FunctionCall) goja.Value {
		e.flush()
		x, y := e.scrollArgs(call, e.win.ScrollX(), e.win.ScrollY())
		e.win.ScrollTo(x, y)
		return goja.Undefined()
	})
	global.Set("scrollBy", func(call goja.FunctionCall) goja.Value {
		e.flush()
		dx, dy := e.scrollArgs(call, 0, 0)
		e.win.ScrollBy(dx, dy)
		return goja.Undefined()
	})
	global.Set("getComputedStyle", func(call goja.FunctionCall) goja.Value {
		el := e.dom.requireNode(call, "getComputedStyle")
		return vm.NewDynamicObject(&computedStyleAccessor{vm: vm, style: e.win.ComputedStyle(el)})
	})
	global.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		e.addListener(call.Arguments[0].String(), call.Arguments[1])
		return goja.Undefined()
	})
	global.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Undefined()
		}
		e.removeListener(call.Arguments[0].String(), call.Arguments[1])
		return goja.Undefined()
	})
}

// scrollArgs reads either (x, y) or ({left, top}); missing members keep
// the given defaults.
func (e *Engine) scrollArgs(call goja.FunctionCall, x, y float64) (float64, float64) {
	if len(call.Arguments) == 1 {
		if opts, ok := call.Arguments[0].(*goja.Object); ok {
			if v := opts.Get("left"); v != nil && !goja.IsUndefined(v) {
				x = v.ToFloat()
			}
			if v := opts.Get("top"); v != nil && !goja.IsUndefined(v) {
				y = v.ToFloat()
			}
			return x, y
		}
	}
	if len(call.Arguments) >= 2 {
		x, y = call.Arguments[0].ToFloat(), call.Arguments[1].ToFloat()
	}
	return x, y
}

// addListener follows the DOM rule that adding the same function for the
// same type twice registers it once.
func (e *Engine) addListener(eventType string, fn goja.Value) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return
	}
	for _, l := range e.listeners {
		if l.eventType == eventType && l.fn.SameAs(fn) {
			return
		}
	}
	sub := e.win.Listen(eventType, func(ev event.Event) {
		defer e.flush()
		if _, err := callable(goja.Undefined(), e.eventObject(ev)); err != nil {
			e.logger.Warn("event listener failed", "type", eventType, "error", err)
		}
	})
	e.listeners = append(e.listeners, jsListener{eventType: eventType, fn: fn, sub: sub})
}

func (e *Engine) removeListener(eventType string, fn goja.Value) {
	for i, l := range e.listeners {
		if l.eventType == eventType && l.fn.SameAs(fn) {
			l.sub.Cancel()
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *Engine) eventObject(ev event.Event) goja.Value {
	obj := e.vm.NewObject()
	obj.Set("type", ev.Type())
	switch ev := ev.(type) {
	case event.MouseEvent:
		obj.Set("clientX", ev.ClientX)
		obj.Set("clientY", ev.ClientY)
		obj.Set("pageX", ev.ClientX+e.win.ScrollX())
		obj.Set("pageY", ev.ClientY+e.win.ScrollY())
	case event.ScrollEvent:
		obj.Set("scrollX", ev.ScrollX)
		obj.Set("scrollY", ev.ScrollY)
	case event.ResizeEvent:
		obj.Set("width", ev.Width)
		obj.Set("height", ev.Height)
	}
	return obj
}
