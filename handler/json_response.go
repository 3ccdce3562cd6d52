package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status  int
	headers http.Header
	body    any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	data, err := json.Marshal(j.body)
	if err != nil {
		return err
	}

	for key, values := range j.headers {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	_, err = w.Write(data)
	return err
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets the status code. The default is 200.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		if status > 0 {
			r.status = status
		}
	}
}

// WithJSONHeader adds a response header.
func WithJSONHeader(key, value string) JSONOption {
	return func(r *jsonResponse) {
		r.headers.Add(key, value)
	}
}

// WithNoCache marks the response as not cacheable.
func WithNoCache() JSONOption {
	return WithJSONHeader("Cache-Control", "no-cache")
}

// JSON encodes v as the response body. Encoding happens before any header is
// written, so an encoding failure still leaves room for an error response.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status:  http.StatusOK,
		headers: http.Header{},
		body:    v,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
