package notify

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\r", "<br>", "\n", "<br>")

// textValue exposes a multiline field to templates. {input.field} renders
// the variant for the body being built, while {input.field.plain} and
// {input.field.html} pick one explicitly.
type textValue struct {
	plain  string
	html   string
	asHTML bool
}

func newTextValue(v string, asHTML bool) textValue {
	return textValue{plain: v, html: lineBreaks.Replace(v), asHTML: asHTML}
}

func (v textValue) String() string {
	if v.asHTML {
		return v.html
	}
	return v.plain
}

func (v textValue) Lookup(key string) (any, bool) {
	switch key {
	case "plain":
		return v.plain, true
	case "html":
		return v.html, true
	}
	return nil, false
}
