package forms

import (
	"net/url"

	"github.com/dmitrymomot/simpleforms/pkg/plural"
	"github.com/dmitrymomot/simpleforms/pkg/validator"
)

const (
	// NotProvided replaces empty values of fields without a default.
	NotProvided = "Not Provided"

	DefaultValidationMessage = "{count} {field needs|fields need} attention. Please check, and try again."
	DefaultSuccessMessage    = "Email(s) sent."
)

// Result is the outcome of validating one submission.
type Result struct {
	// Values holds the sanitized value of every declared field. After a
	// successful validation empty values carry the field default.
	Values map[string]string
	// Errors maps each invalid field to its first failing rule message.
	Errors map[string]string
	// Message is the pluralized validation message, "" when valid.
	Message string
}

// Valid reports whether every field passed.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Invalid counts the fields that failed.
func (r Result) Invalid() int { return len(r.Errors) }

// Validate sanitizes and checks input against the definition. Every field is
// evaluated so that all invalid fields are reported together.
func Validate(def *Definition, input url.Values) Result {
	rules := def.rules
	if rules == nil {
		rules = validator.Default()
	}

	res := Result{Values: make(map[string]string, len(def.Fields))}
	fields := make([]validator.Field, 0, len(def.Fields))
	for _, f := range def.Fields {
		value := f.chain.Apply(input.Get(f.Name))
		res.Values[f.Name] = value

		vf := validator.Field{Name: f.Name, Value: value, Messages: make(map[string]string, len(f.Rules))}
		for _, r := range f.Rules {
			vf.Rules = append(vf.Rules, r.spec)
			if r.Message != "" {
				vf.Messages[r.Name()] = r.Message
			}
		}
		fields = append(fields, vf)
	}

	if errs := rules.Validate(fields...); !errs.IsEmpty() {
		res.Errors = make(map[string]string)
		for _, name := range errs.Fields() {
			res.Errors[name] = errs.First(name)
		}
		message := def.Messages.Validation
		if message == "" {
			message = DefaultValidationMessage
		}
		res.Message = plural.Format(message, len(res.Errors))
		return res
	}

	for _, f := range def.Fields {
		if res.Values[f.Name] != "" {
			continue
		}
		if f.Default != "" {
			res.Values[f.Name] = f.Default
		} else {
			res.Values[f.Name] = NotProvided
		}
	}
	return res
}

// SuccessMessage returns the configured success message or the default.
func (d *Definition) SuccessMessage() string {
	if d.Messages.Success != "" {
		return d.Messages.Success
	}
	return DefaultSuccessMessage
}
