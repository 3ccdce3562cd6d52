package simpleforms

import (
	"mime"
	"net/http"
	"strings"
)

// Request signals of script clients.
const (
	HeaderRequestedWith = "X-Requested-With"
	HeaderHXRequest     = "HX-Request"
	QueryAJAX           = "ajax"
)

// IsAPI reports whether r expects a JSON response instead of a redirect.
// XMLHttpRequest, htmx and clients that ask for JSON qualify, as does an
// explicit ?ajax=1.
func IsAPI(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get(HeaderRequestedWith), "XMLHttpRequest") {
		return true
	}
	if r.Header.Get(HeaderHXRequest) == "true" {
		return true
	}
	switch r.URL.Query().Get(QueryAJAX) {
	case "1", "true":
		return true
	}
	return acceptsJSON(r.Header.Get("Accept"))
}

func acceptsJSON(accept string) bool {
	for part := range strings.SplitSeq(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}
