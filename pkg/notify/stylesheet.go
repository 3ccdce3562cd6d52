package notify

import (
	"regexp"
	"strings"
)

var (
	cssComments   = regexp.MustCompile(`/\*(?:[^*]|\*+[^*/])*\*+/|//.*`)
	cssWhitespace = regexp.MustCompile(`\s+`)
	cssCompact    = [][2]string{
		{"; ", ";"}, {": ", ":"}, {" {", "{"}, {"{ ", "{"}, {", ", ","}, {"} ", "}"}, {";}", "}"},
	}
)

// MinifyCSS strips comments, collapses whitespace and removes the spaces
// around separators. The replacements run in order over the whole text.
func MinifyCSS(css string) string {
	css = cssComments.ReplaceAllString(css, "")
	css = cssWhitespace.ReplaceAllString(css, " ")
	for _, r := range cssCompact {
		css = strings.ReplaceAll(css, r[0], r[1])
	}
	return strings.TrimSpace(css)
}

// StyleBlock wraps minified css in a <style> element.
func StyleBlock(css string) string {
	return "<style>" + MinifyCSS(css) + "</style>"
}
