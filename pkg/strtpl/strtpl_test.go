package strtpl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/simpleforms/pkg/strtpl"
)

type pair struct{ plain, html string }

func (p pair) String() string { return p.html }

func (p pair) Lookup(key string) (any, bool) {
	switch key {
	case "plain":
		return p.plain, true
	case "html":
		return p.html, true
	}
	return nil, false
}

func TestRender(t *testing.T) {
	t.Parallel()

	data := strtpl.Data{
		"title": "Contact",
		"input": map[string]string{"name": "Ann", "email": "ann@example.com"},
		"info":  map[string]any{"site": map[string]any{"url": "https://example.com"}, "year": 2024},
		"tags":  []string{"a", "b"},
		"list":  []any{"x", 1, true},
		"body":  pair{plain: "l1\nl2", html: "l1<br>l2"},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple path", "Hello {input.name}!", "Hello Ann!"},
		{"header", "{input.name} <{input.email}>", "Ann <ann@example.com>"},
		{"nested map", "{info.site.url}", "https://example.com"},
		{"non string", "(c) {info.year}", "(c) 2024"},
		{"slice index", "{tags.1}", "b"},
		{"slice joined", "{tags} / {list}", "a, b / x, 1, true"},
		{"index out of range", "[{tags.5}]", "[]"},
		{"missing path", "{missing.path}", ""},
		{"missing leaf", "{input.phone}", ""},
		{"map renders empty", "[{input}]", "[]"},
		{"stringer", "{body}", "l1<br>l2"},
		{"lookuper sub-key", "{body.plain}", "l1\nl2"},
		{"css untouched", "p { color: red; } a{margin:0}", "p { color: red; } a{margin:0}"},
		{"empty segment", "{input..name}", ""},
		{"nothing to do", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, strtpl.Render(tt.text, data))
		})
	}
}

func TestRender_NilData(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", strtpl.Render("{missing.path}", nil))
	assert.Equal(t, "", strtpl.Render("{missing.path}", strtpl.Data{}))
}

func TestRender_NoRecursion(t *testing.T) {
	t.Parallel()
	data := strtpl.Data{"a": "{b}", "b": "secret"}
	assert.Equal(t, "{b}", strtpl.Render("{a}", data))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	v, ok := strtpl.Resolve(strtpl.Data{"a": strtpl.Data{"b": 3}}, "a.b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = strtpl.Resolve(strtpl.Data{"a": "x"}, "a.b")
	assert.False(t, ok)
}
