package validator

import (
	"errors"
	"math"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Default returns a registry with the built-in rules.
func Default() *Registry {
	r := NewRegistry()
	r.Register("required", Definition{
		Check:   func(v string, _ []string, _ map[string]string) bool { return strings.TrimSpace(v) != "" },
		Message: "{field} is required.",
		OnEmpty: true,
	})
	r.Register("checked", Definition{
		Check:   func(v string, _ []string, _ map[string]string) bool { return isChecked(v) },
		Message: "{field} must be checked.",
		OnEmpty: true,
	})
	r.Register("email", simple(isEmail, "{field} must be a valid email address."))
	r.Register("url", simple(isURL, "{field} must be a valid URL."))
	r.Register("ip", simple(func(v string) bool { return net.ParseIP(v) != nil }, "{field} must be a valid IP address."))
	r.Register("alpha", simple(func(v string) bool { return all(v, unicode.IsLetter) }, "{field} may only contain letters."))
	r.Register("alnum", simple(func(v string) bool { return all(v, isAlnum) }, "{field} may only contain letters and numbers."))
	r.Register("alnumDash", simple(func(v string) bool {
		return all(v, func(c rune) bool { return isAlnum(c) || c == '-' || c == '_' })
	}, "{field} may only contain letters, numbers, dashes and underscores."))
	r.Register("int", simple(isInt, "{field} must be a whole number."))
	r.Register("number", simple(isNumber, "{field} must be a number."))
	r.Register("bool", simple(isBool, "{field} must be true or false."))
	r.Register("date", simple(isDate, "{field} must be a valid date."))
	r.Register("min", Definition{
		Check:       func(v string, a []string, _ map[string]string) bool {
			m, ok := measure(v, a)
			return ok && m >= arg(a, 0)
		},
		Message:     "{field} must be at least {0}.",
		MinArgs:     1,
		MaxArgs:     2,
		NumericArgs: true,
	})
	r.Register("max", Definition{
		Check:       func(v string, a []string, _ map[string]string) bool {
			m, ok := measure(v, a)
			return ok && m <= arg(a, 0)
		},
		Message:     "{field} must be at most {0}.",
		MinArgs:     1,
		MaxArgs:     2,
		NumericArgs: true,
	})
	r.Register("between", Definition{
		Check: func(v string, a []string, _ map[string]string) bool {
			var m float64
			if n, err := parseNumber(v); err == nil {
				m = n
			} else {
				m = float64(utf8.RuneCountInString(v))
			}
			return m >= arg(a, 0) && m <= arg(a, 1)
		},
		Message:     "{field} must be between {0} and {1}.",
		MinArgs:     2,
		MaxArgs:     2,
		NumericArgs: true,
	})
	r.Register("matches", Definition{
		Check:   func(v string, a []string, values map[string]string) bool { return v == values[a[0]] },
		Message: "{field} must match {0}.",
		MinArgs: 1,
		MaxArgs: 1,
	})
	r.Register("regex", Definition{
		Check: func(v string, a []string, _ map[string]string) bool {
			re, err := compilePattern(a[0])
			return err == nil && re.MatchString(v)
		},
		Message: "{field} is not in the correct format.",
		MinArgs: 1,
		MaxArgs: 1,
		RawArgs: true,
	})
	r.Register("in", Definition{
		Check:   func(v string, a []string, _ map[string]string) bool { return slices.Contains(a, v) },
		Message: "{field} must be one of: {args}.",
		MinArgs: 1,
		MaxArgs: -1,
	})
	return r
}

func simple(fn func(string) bool, message string) Definition {
	return Definition{
		Check:   func(v string, _ []string, _ map[string]string) bool { return fn(v) },
		Message: message,
	}
}

// measure returns the character count of v, or its numeric value when the
// rule carries a second "number" argument.
// measure is the numeric value of v when args ask for "number", its length
// in runes otherwise. It reports false when v is not a number.
func measure(v string, args []string) (float64, bool) {
	if len(args) > 1 && args[1] == "number" {
		n, err := parseNumber(v)
		return n, err == nil
	}
	return float64(utf8.RuneCountInString(v)), true
}

func arg(args []string, i int) float64 {
	n, _ := strconv.ParseFloat(args[i], 64)
	return n
}

var errNotDecimal = errors.New("not a finite decimal number")

// parseNumber accepts finite decimal numbers only. Hex floats, underscores,
// NaN and infinities are rejected.
func parseNumber(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, "xX_") {
		return 0, errNotDecimal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotDecimal
	}
	return f, nil
}

func isEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	return err == nil && addr.Address == v && strings.Contains(v[strings.LastIndex(v, "@"):], ".")
}

func isURL(v string) bool {
	u, err := url.ParseRequestURI(v)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isInt(v string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return err == nil
}

func isNumber(v string) bool {
	_, err := parseNumber(v)
	return err == nil
}

func isBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "0", "true", "false", "yes", "no", "on", "off":
		return true
	}
	return false
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func isDate(v string) bool {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func isAlnum(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) }

func all(v string, fn func(rune) bool) bool {
	for _, c := range v {
		if !fn(c) {
			return false
		}
	}
	return true
}

var patterns sync.Map // string -> *regexp.Regexp

// compilePattern accepts Go syntax or a delimited pattern such as /^a+$/i.
func compilePattern(p string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	expr := p
	if len(p) >= 2 && p[0] == '/' {
		if end := strings.LastIndex(p, "/"); end > 0 {
			expr = p[1:end]
			if flags := p[end+1:]; flags != "" {
				expr = "(?" + flags + ")" + expr
			}
		}
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patterns.Store(p, re)
	return re, nil
}
