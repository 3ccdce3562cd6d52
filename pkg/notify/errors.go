package notify

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/simpleforms/pkg/forms"
)

// ErrDelivery is matched by errors caused by the mail transport.
var ErrDelivery = errors.New("notify: delivery failed")

// Configuration problems also match forms.ErrConfiguration.
var (
	ErrMissingTemplate      = configError("email template not set")
	ErrMissingPlainTemplate = configError("plain template missing")
	ErrMissingTo            = configError("'to' not set")
	ErrMissingFrom          = configError("'from' not set")
	ErrTemplateUnreadable   = configError("template unreadable")
)

type configError string

func (e configError) Error() string { return string(e) }

func (e configError) Is(target error) bool { return target == forms.ErrConfiguration }

// DispatchError names the email that stopped the dispatch.
type DispatchError struct {
	Key   string
	Err   error
	Cause error
}

func (e *DispatchError) Error() string {
	switch e.Err {
	case ErrMissingTemplate:
		return fmt.Sprintf("[%s] needs a template.", e.Key)
	case ErrMissingPlainTemplate:
		return fmt.Sprintf("Plain template for [%s] does not exist, but is required.", e.Key)
	case ErrMissingTo:
		return fmt.Sprintf("'to' not set for [%s].", e.Key)
	case ErrMissingFrom:
		return fmt.Sprintf("'from' not set for [%s].", e.Key)
	case ErrTemplateUnreadable:
		return fmt.Sprintf("Template for [%s] could not be read.", e.Key)
	}
	return fmt.Sprintf("Could not send [%s].", e.Key)
}

func (e *DispatchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
