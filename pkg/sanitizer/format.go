package sanitizer

import (
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
)

// Email trims and lowercases the domain of an address. Anything that does
// not parse as a bare address yields "".
func Email(s string) string {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return ""
	}
	at := strings.LastIndex(s, "@")
	return s[:at] + strings.ToLower(s[at:])
}

// URL returns an absolute http(s) URL or "". Scheme-less hosts get http://.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// Int returns the canonical decimal form of an integer, or "".
func Int(s string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// Float returns the canonical form of a finite decimal number, or "". A
// comma is accepted as the decimal separator.
func Float(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if strings.ContainsAny(s, "xX_") {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
