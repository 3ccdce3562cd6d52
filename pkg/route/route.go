// Package route recognizes form submission requests.
//
// A submission is a POST to <prefix>/<slug>, for example
// /module/simple-forms/contact-us. The slug is returned in varName form so it
// can be used safely as a lookup key. Hosts that rewrite every request to a
// front controller may pass the original path in the "it" query parameter.
package route

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/simpleforms/pkg/sanitizer"
)

// DefaultPrefix is the action prefix used when none is configured.
const DefaultPrefix = "module/simple-forms"

// RewriteParam carries the original path on rewritten requests.
const RewriteParam = "it"

// Matcher matches request paths against one action prefix.
type Matcher struct {
	prefix  string
	pattern *regexp.Regexp
}

// New builds a matcher. Leading and trailing slashes of prefix are ignored;
// an empty prefix selects DefaultPrefix.
func New(prefix string) *Matcher {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Matcher{
		prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `/([a-z0-9_-]+)/?$`),
	}
}

// Prefix returns the normalized action prefix.
func (m *Matcher) Prefix() string { return m.prefix }

// Match reports the sanitized form name for a POST to a matching path. Any
// other method or path is not handled.
func (m *Matcher) Match(path, method string) (string, bool) {
	if method != http.MethodPost {
		return "", false
	}
	sm := m.pattern.FindStringSubmatch(strings.Trim(path, "/"))
	if sm == nil {
		return "", false
	}
	return sanitizer.VarName(sm[1]), true
}

// MatchRequest is Match applied to r, preferring the rewrite parameter over
// the URL path when present.
func (m *Matcher) MatchRequest(r *http.Request) (string, bool) {
	path := r.URL.Path
	if it := r.URL.Query().Get(RewriteParam); it != "" {
		path = it
	}
	return m.Match(path, r.Method)
}

// Action returns the submission URL for a form below root, e.g.
// Action("/", "contact-us") gives "/module/simple-forms/contact-us".
func (m *Matcher) Action(root, name string) string {
	return strings.TrimRight(root, "/") + "/" + m.prefix + "/" + name
}
