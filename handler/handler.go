package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/simpleforms/pkg/logger"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ResponseFunc adapts a function to Response.
type ResponseFunc func(w http.ResponseWriter, r *http.Request) error

func (f ResponseFunc) Render(w http.ResponseWriter, r *http.Request) error { return f(w, r) }

// HandlerFunc decides the response for a request.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) Response

// ErrorHandler is called when rendering fails.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Decorator wraps a HandlerFunc. The first decorator given to Wrap is the
// outermost.
type Decorator func(HandlerFunc) HandlerFunc

type wrapConfig struct {
	errorHandler ErrorHandler
	decorators   []Decorator
	log          *slog.Logger
}

type WrapOption func(*wrapConfig)

func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func WithDecorators(decorators ...Decorator) WrapOption {
	return func(c *wrapConfig) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// WithLogger sets the logger used by the default error handler.
func WithLogger(log *slog.Logger) WrapOption {
	return func(c *wrapConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Wrap converts h into an http.HandlerFunc.
func Wrap(h HandlerFunc, opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{log: logger.Discard()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.errorHandler == nil {
		cfg.errorHandler = defaultErrorHandler(cfg.log)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := final(w, r)
		if resp == nil {
			cfg.errorHandler(w, r, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(w, r, err)
		}
	}
}

// defaultErrorHandler logs err and writes a bare 500. Writing may fail
// silently when the response has already started.
func defaultErrorHandler(log *slog.Logger) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		log.ErrorContext(r.Context(), "failed to render response",
			logger.Error(err),
			slog.String("path", r.URL.Path),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
