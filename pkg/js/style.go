package js

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"hoverplayer/pkg/css"
	"hoverplayer/pkg/html"
)

// inlineStyleAccessor maps element.style.camelCase onto the element's style
// attribute.
type inlineStyleAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (s *inlineStyleAccessor) Get(key string) goja.Value {
	if v, ok := s.declarations()[camelToKebab(key)]; ok {
		return s.ctx.vm.ToValue(v)
	}
	return s.ctx.vm.ToValue("")
}

func (s *inlineStyleAccessor) Set(key string, val goja.Value) bool {
	decls := s.declarations()
	if v := val.String(); v == "" {
		delete(decls, camelToKebab(key))
	} else {
		decls[camelToKebab(key)] = v
	}
	s.store(decls)
	return true
}

func (s *inlineStyleAccessor) Has(string) bool { return true }

func (s *inlineStyleAccessor) Delete(key string) bool {
	decls := s.declarations()
	delete(decls, camelToKebab(key))
	s.store(decls)
	return true
}

func (s *inlineStyleAccessor) Keys() []string {
	decls := s.declarations()
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *inlineStyleAccessor) declarations() map[string]string {
	attr, _ := s.node.GetAttribute("style")
	result := make(map[string]string)
	for _, decl := range strings.Split(attr, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if prop = strings.TrimSpace(prop); prop != "" {
			result[prop] = strings.TrimSpace(val)
		}
	}
	return result
}

func (s *inlineStyleAccessor) store(decls map[string]string) {
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + decls[k]
	}
	s.node.SetAttribute("style", strings.Join(parts, "; "))
	s.ctx.engine.markDirty()
}

// computedStyleAccessor is the read-only result of getComputedStyle.
type computedStyleAccessor struct {
	vm    *goja.Runtime
	style *css.Style
}

func (c *computedStyleAccessor) Get(key string) goja.Value {
	if key == "getPropertyValue" {
		return c.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return c.vm.ToValue("")
			}
			return c.value(strings.ToLower(call.Arguments[0].String()))
		})
	}
	return c.value(camelToKebab(key))
}

func (c *computedStyleAccessor) value(prop string) goja.Value {
	v, _ := c.style.Get(prop)
	return c.vm.ToValue(v)
}

func (c *computedStyleAccessor) Set(string, goja.Value) bool { return false }
func (c *computedStyleAccessor) Has(string) bool             { return true }
func (c *computedStyleAccessor) Delete(string) bool          { return false }

func (c *computedStyleAccessor) Keys() []string {
	keys := make([]string, 0, len(c.style.Properties))
	for k := range c.style.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
