package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	strict     *bluemonday.Policy
	ugc        *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
		ugc = bluemonday.UGCPolicy()
	})
	return strict, ugc
}

// MarkupToText strips every tag and returns unescaped text.
func MarkupToText(s string) string {
	p, _ := policies()
	return html.UnescapeString(p.Sanitize(s))
}

// Purify keeps the safe subset of user-generated HTML (links, emphasis,
// lists) and drops scripts, styles and event handlers.
func Purify(s string) string {
	_, p := policies()
	return strings.TrimSpace(p.Sanitize(s))
}
