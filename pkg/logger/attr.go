package logger

import "log/slog"

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// Empty ids produce an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Form records the submitted form name under the key "form".
func Form(name string) slog.Attr {
	return slog.String("form", name)
}

// EmailKey records a configured email entry under the key "email_key".
func EmailKey(key string) slog.Attr {
	return slog.String("email_key", key)
}

// Fields records how many fields were involved, e.g. failing validation.
func Fields(n int) slog.Attr {
	return slog.Int("fields", n)
}

// Status records an HTTP status code under the key "status_code".
func Status(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
