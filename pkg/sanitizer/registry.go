package sanitizer

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrUnknownSanitizer is returned when a chain names an unregistered transform.
var ErrUnknownSanitizer = errors.New("unknown sanitizer")

// Func is a single named transform.
type Func func(string) string

// Registry maps sanitizer names to transforms. The zero value is empty; use
// Default for the built-in set. A Registry is safe for concurrent reads once
// populated.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default returns a registry with every built-in transform.
func Default() *Registry {
	r := NewRegistry()
	r.Register("text", Text)
	r.Register("textarea", Textarea)
	r.Register("line", Line)
	r.Register("email", Email)
	r.Register("url", URL)
	r.Register("int", Int)
	r.Register("float", Float)
	r.Register("name", Name)
	r.Register("varName", VarName)
	r.Register("pageName", PageName)
	r.Register("alpha", Alpha)
	r.Register("alphanumeric", Alphanumeric)
	r.Register("digits", Digits)
	r.Register("trim", Trim)
	r.Register("lower", Lower)
	r.Register("upper", Upper)
	r.Register("entities", Entities)
	r.Register("markupToText", MarkupToText)
	r.Register("purify", Purify)
	return r
}

// Register adds or replaces a transform. Intended for startup wiring only.
func (r *Registry) Register(name string, fn Func) {
	if r.funcs == nil {
		r.funcs = make(map[string]Func)
	}
	r.funcs[name] = fn
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names lists registered transforms in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

// Resolve parses a pipe-delimited chain such as "text|lower" into a Chain.
// Empty segments are ignored.
func (r *Registry) Resolve(chain string) (Chain, error) {
	var out Chain
	for _, name := range strings.Split(chain, "|") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fn, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSanitizer, name)
		}
		out = append(out, fn)
	}
	return out, nil
}

// Chain is an ordered list of transforms.
type Chain []Func

// Apply runs the chain over raw. Empty input is returned untouched. When a
// transform produces "", the next transform (or the final result) falls back
// to the original raw value instead of the emptied one.
func (c Chain) Apply(raw string) string {
	if raw == "" {
		return raw
	}
	v := raw
	for _, fn := range c {
		v = fn(v)
		if v == "" {
			v = raw
		}
	}
	return v
}
