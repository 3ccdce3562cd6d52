// Package handler turns functions returning a Response into http.Handlers.
//
// A handler decides what to send and returns it as a value; Wrap renders the
// value as the last step of the request. This keeps each request to exactly
// one response:
//
//	h := handler.Wrap(func(w http.ResponseWriter, r *http.Request) handler.Response {
//		return handler.JSON(map[string]string{"status": "ok"}, handler.WithNoCache())
//	}, handler.WithLogger(log))
//
// Built-in responses cover JSON bodies, redirects (including a redirect back
// to the Referer) and plain text.
package handler
