package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

// domContext maps DOM nodes to their JS proxies. The same proxy is always
// returned for the same node so === works in scripts.
type domContext struct {
	engine *Engine
	vm     *goja.Runtime
	cache  map[*html.Node]*goja.Object
	nodes  map[*goja.Object]*html.Node
}

func newDOMContext(e *Engine) *domContext {
	return &domContext{
		engine: e,
		vm:     e.vm,
		cache:  make(map[*html.Node]*goja.Object),
		nodes:  make(map[*goja.Object]*html.Node),
	}
}

func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	if obj, ok := ctx.cache[node]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = obj
	ctx.nodes[obj] = node
	return obj
}

func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	values := make([]any, len(nodes))
	for i, n := range nodes {
		values[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(values...)
}

// unwrapNode returns the node behind a proxy, or nil for anything else.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

// unwrapList accepts a single element or any array-like of elements.
// Entries that are not elements are skipped.
func (ctx *domContext) unwrapList(val goja.Value) []*html.Node {
	if n := ctx.unwrapNode(val); n != nil {
		return []*html.Node{n}
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	length := obj.Get("length")
	if length == nil || goja.IsUndefined(length) {
		return nil
	}
	var nodes []*html.Node
	for i := int64(0); i < length.ToInteger(); i++ {
		if n := ctx.unwrapNode(obj.Get(strconv.FormatInt(i, 10))); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (ctx *domContext) argString(call goja.FunctionCall, i int, method string) string {
	if len(call.Arguments) <= i {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': %d argument(s) required", method, i+1))
	}
	return call.Arguments[i].String()
}

func (ctx *domContext) querySelectorAll(root *html.Node, selectors string) []*html.Node {
	nodes, err := css.QuerySelectorAll(root, selectors)
	if err != nil {
		panic(ctx.vm.NewTypeError("'%s' is not a valid selector: %v", selectors, err))
	}
	return nodes
}

func (e *Engine) registerDocument() {
	ctx := e.dom
	doc := e.win.Document()
	obj := e.vm.NewObject()

	obj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return ctx.elementProxy(doc.Root.GetElementByID(ctx.argString(call, 0, "getElementById")))
	})
	obj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(doc.Root.GetElementsByTagName(ctx.argString(call, 0, "getElementsByTagName")))
	})
	obj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(doc.Root.GetElementsByClassName(ctx.argString(call, 0, "getElementsByClassName")))
	})
	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(ctx.querySelectorAll(doc.Root, ctx.argString(call, 0, "querySelectorAll")))
	})
	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		nodes := ctx.querySelectorAll(doc.Root, ctx.argString(call, 0, "querySelector"))
		if len(nodes) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(nodes[0])
	})
	obj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		tag := strings.ToLower(ctx.argString(call, 0, "createElement"))
		return ctx.elementProxy(html.NewElement(tag, nil))
	})
	obj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(html.NewText(text))
	})
	obj.DefineAccessorProperty("body", e.vm.ToValue(func(goja.FunctionCall) goja.Value {
		body := doc.Body()
		if body.IsDocumentRoot() {
			return goja.Null()
		}
		return ctx.elementProxy(body)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	e.vm.Set("document", obj)
}

// elementAccessor implements goja.DynamicObject for element and text node
// proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"nodeType", "nodeName", "tagName", "id", "className", "textContent", "isConnected",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"parentElement", "parentNode", "children", "childNodes", "firstChild", "nextSibling",
	"appendChild", "removeChild", "remove", "contains", "style",
	"querySelector", "querySelectorAll", "getElementsByTagName", "getElementsByClassName",
	"matches", "getBoundingClientRect",
}

func (e *elementAccessor) Get(key string) goja.Value {
	ctx := e.ctx
	vm := ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName":
		if n.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		return vm.ToValue(n.ID())
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "isConnected":
		return vm.ToValue(n.IsConnected())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, ok := n.GetAttribute(ctx.argString(call, 0, "getAttribute"))
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(v)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			name := ctx.argString(call, 0, "setAttribute")
			n.SetAttribute(name, ctx.argString(call, 1, "setAttribute"))
			ctx.engine.markDirty()
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := n.GetAttribute(ctx.argString(call, 0, "hasAttribute"))
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			delete(n.Attributes, ctx.argString(call, 0, "removeAttribute"))
			ctx.engine.markDirty()
			return goja.Undefined()
		})
	case "parentElement":
		return ctx.elementProxy(n.ParentElement())
	case "parentNode":
		if n.Parent == nil || n.Parent.IsDocumentRoot() {
			return goja.Null()
		}
		return ctx.elementProxy(n.Parent)
	case "children":
		var elements []*html.Node
		for _, c := range n.Children {
			if c.Type == html.ElementNode {
				elements = append(elements, c)
			}
		}
		return ctx.elementArray(elements)
	case "childNodes":
		return ctx.elementArray(n.Children)
	case "firstChild":
		return ctx.elementProxy(n.FirstChild())
	case "nextSibling":
		return ctx.elementProxy(n.NextSibling())
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := ctx.requireNode(call, "appendChild")
			if n.AddChild(child) == nil {
				panic(ctx.hierarchyError("Failed to execute 'appendChild': the new child element contains the parent"))
			}
			ctx.engine.markDirty()
			return call.Arguments[0]
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := ctx.requireNode(call, "removeChild")
			if n.RemoveChild(child) == nil {
				panic(vm.NewTypeError("Failed to execute 'removeChild': the node is not a child of this node"))
			}
			ctx.engine.markDirty()
			return call.Arguments[0]
		})
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
				ctx.engine.markDirty()
			}
			return goja.Undefined()
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := ctx.unwrapNode(call.Arguments[0])
			return vm.ToValue(other != nil && n.Contains(other))
		})
	case "style":
		return vm.NewDynamicObject(&inlineStyleAccessor{ctx: ctx, node: n})
	case "querySelectorAll":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return ctx.elementArray(ctx.querySelectorAll(n, ctx.argString(call, 0, "querySelectorAll")))
		})
	case "querySelector":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			nodes := ctx.querySelectorAll(n, ctx.argString(call, 0, "querySelector"))
			if len(nodes) == 0 {
				return goja.Null()
			}
			return ctx.elementProxy(nodes[0])
		})
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return ctx.elementArray(n.GetElementsByTagName(ctx.argString(call, 0, "getElementsByTagName")))
		})
	case "getElementsByClassName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return ctx.elementArray(n.GetElementsByClassName(ctx.argString(call, 0, "getElementsByClassName")))
		})
	case "matches":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			raw := ctx.argString(call, 0, "matches")
			for _, part := range strings.Split(raw, ",") {
				sel, err := css.ParseSelector(part)
				if err != nil {
					panic(vm.NewTypeError("'%s' is not a valid selector: %v", raw, err))
				}
				if css.MatchesSelector(n, sel) {
					return vm.ToValue(true)
				}
			}
			return vm.ToValue(false)
		})
	case "getBoundingClientRect":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			ctx.engine.flush()
			return ctx.rectObject(n)
		})
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
	case "id":
		e.node.SetAttribute("id", val.String())
	case "className":
		e.node.SetAttribute("class", val.String())
	default:
		return false
	}
	e.ctx.engine.markDirty()
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }

// hierarchyError builds the DOMException-like error thrown for tree
// mutations that would create a cycle.
func (ctx *domContext) hierarchyError(msg string) *goja.Object {
	err, newErr := ctx.vm.New(ctx.vm.Get("Error"), ctx.vm.ToValue(msg))
	if newErr != nil {
		return ctx.vm.NewTypeError(msg)
	}
	_ = err.Set("name", "HierarchyRequestError")
	return err
}

func (ctx *domContext) requireNode(call goja.FunctionCall, method string) *html.Node {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': 1 argument required", method))
	}
	n := ctx.unwrapNode(call.Arguments[0])
	if n == nil {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': parameter 1 is not of type 'Node'", method))
	}
	return n
}

// rectObject builds a DOMRect-like object from the window's client rect.
func (ctx *domContext) rectObject(n *html.Node) goja.Value {
	r := ctx.engine.win.ClientRect(n)
	obj := ctx.vm.NewObject()
	obj.Set("x", r.X)
	obj.Set("y", r.Y)
	obj.Set("left", r.X)
	obj.Set("top", r.Y)
	obj.Set("width", r.Width)
	obj.Set("height", r.Height)
	obj.Set("right", r.Right())
	obj.Set("bottom", r.Bottom())
	return obj
}
