// Package strtpl renders {dotted.path} placeholders against nested data.
//
// It covers header strings such as "{input.name} <{input.email}>" as well as
// whole email bodies. Paths that cannot be resolved render as an empty string.
// Only tokens made of letters, digits, '_', '-' and '.' are placeholders, so
// CSS rules and other braces pass through untouched.
package strtpl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var token = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// Lookuper lets custom values expose sub-keys to templates.
type Lookuper interface {
	Lookup(key string) (any, bool)
}

// Data is the usual template context.
type Data = map[string]any

// Render substitutes every placeholder in text. Inserted values are not
// scanned again.
func Render(text string, data any) string {
	if !strings.Contains(text, "{") {
		return text
	}
	return token.ReplaceAllStringFunc(text, func(m string) string {
		v, ok := Resolve(data, m[1:len(m)-1])
		if !ok {
			return ""
		}
		return Format(v)
	})
}

// Resolve walks a dot-separated path through maps, slices and Lookuper values.
func Resolve(data any, path string) (any, bool) {
	cur := data
	for key := range strings.SplitSeq(path, ".") {
		if key == "" {
			return nil, false
		}
		next, ok := step(cur, key)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(cur any, key string) (any, bool) {
	switch v := cur.(type) {
	case Lookuper:
		return v.Lookup(key)
	case map[string]any:
		val, ok := v[key]
		return val, ok
	case map[string]string:
		val, ok := v[key]
		return val, ok
	case []any:
		return index(v, key)
	case []string:
		return index(v, key)
	}
	return nil, false
}

func index[T any](s []T, key string) (any, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(s) {
		return nil, false
	}
	return s[i], true
}

// Format turns a resolved value into text. Maps render empty; slices are
// joined with ", ".
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, Format(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any, map[string]string, Lookuper:
		return ""
	}
	return fmt.Sprint(v)
}
