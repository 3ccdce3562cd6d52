package simpleforms

import (
	"net/url"

	"github.com/dmitrymomot/simpleforms/pkg/csrf"
)

// Submission is the state of one request as it moves through the pipeline.
type Submission struct {
	Form string
	// Raw is the posted form as received.
	Raw url.Values
	// Values are the sanitized field values, with defaults applied once
	// validation passed.
	Values map[string]string
	Errors map[string]string
	// Sent lists the emails dispatched, in order.
	Sent       []string
	Successful bool

	tokenField func(string) bool
}

// OldInput returns the first raw value of every posted field except request
// tokens, for filling the form in again.
func (s *Submission) OldInput() map[string]string {
	if s == nil || len(s.Raw) == 0 {
		return nil
	}
	isToken := s.tokenField
	if isToken == nil {
		isToken = csrf.IsTokenField
	}
	input := make(map[string]string, len(s.Raw))
	for name, values := range s.Raw {
		if isToken(name) || len(values) == 0 {
			continue
		}
		input[name] = values[0]
	}
	return input
}
