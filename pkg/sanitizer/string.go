package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	textMaxLength     = 255
	textareaMaxLength = 16384
	nameMaxLength     = 128
)

var (
	newlines   = regexp.MustCompile(`\r\n|\r|\n`)
	spaces     = regexp.MustCompile(`[ \t]+`)
	nameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_.\-]+`)
	varUnsafe  = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	pageUnsafe = regexp.MustCompile(`[^a-z0-9_.\-]+`)
	dashes     = regexp.MustCompile(`-{2,}`)
)

// Trim removes leading and trailing whitespace.
func Trim(s string) string { return strings.TrimSpace(s) }

func Lower(s string) string { return strings.ToLower(s) }

func Upper(s string) string { return strings.ToUpper(s) }

// Text produces a single line of plain text: markup removed, line breaks
// folded into spaces, trimmed and capped at 255 characters.
func Text(s string) string {
	s = MarkupToText(s)
	s = newlines.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return truncate(strings.TrimSpace(s), textMaxLength)
}

// Textarea is Text for multiline input: line breaks are normalized to "\n"
// and kept.
func Textarea(s string) string {
	s = newlines.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(MarkupToText(line), unicode.IsSpace)
	}
	return truncate(strings.TrimSpace(strings.Join(lines, "\n")), textareaMaxLength)
}

// Line folds line breaks into spaces without touching markup.
func Line(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(newlines.ReplaceAllString(s, " "), " "))
}

// Name keeps letters, digits, dash, underscore and dot. Runs of anything else
// become a single underscore.
func Name(s string) string {
	s = nameUnsafe.ReplaceAllString(strings.TrimSpace(s), "_")
	return truncate(s, nameMaxLength)
}

// VarName makes s safe to use as an identifier: only ASCII letters, digits and
// underscore survive, everything else collapses to "_". Used for form names
// taken from the request path.
func VarName(s string) string {
	s = varUnsafe.ReplaceAllString(strings.TrimSpace(s), "_")
	return truncate(s, nameMaxLength)
}

// PageName lowercases s and reduces it to a URL segment.
func PageName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = pageUnsafe.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	return truncate(strings.Trim(s, "-"), nameMaxLength)
}

func Alpha(s string) string { return keep(s, unicode.IsLetter) }

func Alphanumeric(s string) string {
	return keep(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
}

func Digits(s string) string { return keep(s, unicode.IsDigit) }

// Entities escapes HTML special characters.
func Entities(s string) string { return html.EscapeString(s) }

func keep(s string, fn func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if fn(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
