package forms

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every error in this package.
var ErrConfiguration = errors.New("forms: configuration error")

var (
	ErrFormsDirMissing  = configError("[forms] directory missing...")
	ErrFormsUnreadable  = configError("[forms] directory could not be read.")
	ErrNoForms          = configError("There are no forms to work with.")
	ErrConfigMissing    = configError("config.json missing")
	ErrConfigUnreadable = configError("config.json unreadable")
	ErrConfigInvalid    = configError("config.json invalid")
	ErrConfigIncomplete = configError("config.json incomplete")
	ErrFormNotDefined   = configError("form not defined")
)

type configError string

func (e configError) Error() string { return string(e) }

func (e configError) Is(target error) bool { return target == ErrConfiguration }

// LoadError identifies the form that could not be loaded or resolved.
// Error returns the message meant for the person who submitted the form;
// Cause carries the underlying detail for logs.
type LoadError struct {
	Form  string
	Err   error
	Cause error
}

func (e *LoadError) Error() string {
	switch e.Err {
	case ErrConfigMissing:
		return fmt.Sprintf("[%s] has no config.json file.", e.Form)
	case ErrConfigUnreadable:
		return fmt.Sprintf("[%s] config.json could not be read.", e.Form)
	case ErrConfigInvalid:
		return fmt.Sprintf("JSON config for [%s] appears to be invalid. Please check syntax.", e.Form)
	case ErrConfigIncomplete:
		return fmt.Sprintf("[%s] config does not meet the minimum requirements.", e.Form)
	case ErrFormNotDefined:
		return fmt.Sprintf("[%s] has not been defined.", e.Form)
	}
	return e.Err.Error()
}

func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Detail returns the cause text, or "" when there is none.
func (e *LoadError) Detail() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

func loadError(form string, err, cause error) *LoadError {
	return &LoadError{Form: form, Err: err, Cause: cause}
}
