// Package plural formats count-driven messages.
//
// A message may contain {count} (the number), {words} (the number spelled out
// in English for values up to twenty) and any number of {singular|plural}
// choices:
//
//	plural.Format("{count} {field needs|fields need} attention.", 2)
//	// "2 fields need attention."
//
// The choice is made with CLDR cardinal rules for the configured language.
package plural

import (
	"regexp"
	"strconv"
	"strings"

	cldr "golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

var choice = regexp.MustCompile(`\{([^{}|]*)\|([^{}|]*)\}`)

var words = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen", "twenty",
}

// Formatter picks plural forms for one language.
type Formatter struct {
	lang language.Tag
}

// New returns a Formatter for lang.
func New(lang language.Tag) Formatter {
	return Formatter{lang: lang}
}

var english = New(language.English)

// Format uses English plural rules.
func Format(message string, count int) string {
	return english.Format(message, count)
}

// IsPlural reports whether count selects a plural form in English.
func IsPlural(count int) bool {
	return english.IsPlural(count)
}

// IsPlural reports whether count selects anything other than the "one" form.
func (f Formatter) IsPlural(count int) bool {
	n := count
	if n < 0 {
		n = -n
	}
	return cldr.Cardinal.MatchPlural(f.lang, n, 0, 0, 0, 0) != cldr.One
}

// Format resolves every choice in message for count and substitutes the
// count placeholders. Messages without placeholders are returned unchanged.
func (f Formatter) Format(message string, count int) string {
	if !strings.Contains(message, "{") {
		return message
	}
	many := f.IsPlural(count)
	message = choice.ReplaceAllStringFunc(message, func(m string) string {
		parts := choice.FindStringSubmatch(m)
		if many {
			return parts[2]
		}
		return parts[1]
	})
	return strings.NewReplacer(
		"{count}", strconv.Itoa(count),
		"{words}", spell(count),
	).Replace(message)
}

// NeedsFormatting reports whether message still carries placeholders.
func NeedsFormatting(message string) bool {
	return strings.Contains(message, "{count}") ||
		strings.Contains(message, "{words}") ||
		choice.MatchString(message)
}

func spell(n int) string {
	if n >= 0 && n < len(words) {
		return words[n]
	}
	return strconv.Itoa(n)
}
