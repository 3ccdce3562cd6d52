package handler

import "net/http"

type redirectResponse struct {
	url    string
	status int
}

// Render writes the Location header directly. Unlike http.Redirect it does
// not rewrite relative URLs or add a body.
func (rr redirectResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Location", rr.url)
	w.WriteHeader(rr.status)
	return nil
}

// Redirect responds with 302 Found to url.
func Redirect(url string) Response {
	return redirectResponse{url: url, status: http.StatusFound}
}

// RedirectWithStatus responds with the given status and Location url. The
// status is not checked to be a 3xx code.
func RedirectWithStatus(url string, status int) Response {
	return redirectResponse{url: url, status: status}
}

// RedirectBack redirects to the request's Referer, or to fallback when there
// is none. The Referer is used as sent.
func RedirectBack(fallback string) Response {
	return ResponseFunc(func(w http.ResponseWriter, r *http.Request) error {
		target := r.Referer()
		if target == "" {
			target = fallback
		}
		return redirectResponse{url: target, status: http.StatusFound}.Render(w, r)
	})
}
