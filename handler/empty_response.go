package handler

import "net/http"

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty responds with status and no body, e.g. 204 when there is nothing
// to report.
func Empty(status int) Response {
	return emptyResponse{status: status}
}
