package simpleforms

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/simpleforms/pkg/csrf"
	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/notify"
)

// ForgedMessage is shown for every failed token check.
const ForgedMessage = "Request appears to be forged."

// Kind classifies a failed submission.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindSecurity
	KindValidation
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSecurity:
		return "security"
	case KindValidation:
		return "validation"
	case KindDelivery:
		return "delivery"
	}
	return "unknown"
}

// Status is the HTTP status reported for the kind. Only validation failures
// are the submitter's to fix.
func (k Kind) Status() int {
	if k == KindValidation {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Error is a failed submission as shown to the submitter.
type Error struct {
	Kind    Kind
	Message string
	// Fields maps invalid fields to their messages. Validation only.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// classify turns a pipeline error into an *Error. Messages of configuration
// and delivery errors are already written for display; security failures are
// never detailed.
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, csrf.ErrForged):
		return &Error{Kind: KindSecurity, Message: ForgedMessage, Err: err}
	case errors.Is(err, notify.ErrDelivery):
		return &Error{Kind: KindDelivery, Message: err.Error(), Err: err}
	case errors.Is(err, forms.ErrConfiguration):
		return &Error{Kind: KindConfiguration, Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindConfiguration, Message: http.StatusText(http.StatusInternalServerError), Err: err}
}
