package forms

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/dmitrymomot/simpleforms/pkg/sanitizer"
	"github.com/dmitrymomot/simpleforms/pkg/validator"
)

// Definition is one parsed form. Fields and emails keep declaration order.
type Definition struct {
	Name     string
	Title    string
	Info     map[string]any
	Messages Messages
	Fields   []Field
	Emails   []Email

	rules *validator.Registry
}

// Messages overrides the default response messages.
type Messages struct {
	Success    string `json:"success"`
	Validation string `json:"validation"`
}

// Field describes one form input.
type Field struct {
	Name      string
	Rules     []RuleSpec
	Sanitize  []string
	Default   string
	TextField bool

	chain sanitizer.Chain
}

// RuleSpec is one entry of a field's rule bag: the full rule string and the
// message shown when it fails.
type RuleSpec struct {
	Rule    string
	Message string

	spec validator.Spec
}

// Name returns the rule without parameters, "min(5)" gives "min".
func (r RuleSpec) Name() string { return validator.RuleName(r.Rule) }

// Args returns the parsed rule parameters.
func (r RuleSpec) Args() []string { return r.spec.Args }

// Email is one notification sent after a valid submission. To, From and
// Subject are template strings rendered against the submitted input.
type Email struct {
	Key      string `json:"-"`
	Template string `json:"template"`
	To       string `json:"to"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	ReplyTo  string `json:"replyTo"`
	CC       string `json:"cc"`
	BCC      string `json:"bcc"`
	Tag      string `json:"tag"`
}

// Field returns the declared field with the given name.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("simpleforms://form.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("simpleforms://form.json")
})

type rawDefinition struct {
	Title    string          `json:"title"`
	Info     map[string]any  `json:"info"`
	Messages Messages        `json:"messages"`
	Fields   json.RawMessage `json:"fields"`
	Emails   json.RawMessage `json:"emails"`
}

type rawField struct {
	Rules     json.RawMessage `json:"rules"`
	Sanitize  string          `json:"sanitize"`
	Default   any             `json:"default"`
	TextField bool            `json:"textField"`
}

// Parse decodes and checks one config.json. Sanitizer chains and rule
// strings are resolved against the given registries; nil selects the
// built-in sets.
func Parse(name string, data []byte, sanitizers *sanitizer.Registry, rules *validator.Registry) (*Definition, error) {
	if sanitizers == nil {
		sanitizers = sanitizer.Default()
	}
	if rules == nil {
		rules = validator.Default()
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, loadError(name, ErrConfigInvalid, err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, loadError(name, ErrConfigIncomplete, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, loadError(name, ErrConfigIncomplete, err)
	}

	var raw rawDefinition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, loadError(name, ErrConfigInvalid, err)
	}

	def := &Definition{
		Name:     name,
		Title:    raw.Title,
		Info:     raw.Info,
		Messages: raw.Messages,
		rules:    rules,
	}

	err = eachMember(raw.Fields, func(key string, value json.RawMessage) error {
		field, err := parseField(key, value, sanitizers, rules)
		if err != nil {
			return err
		}
		def.Fields = append(def.Fields, field)
		return nil
	})
	if err != nil {
		return nil, loadError(name, ErrConfigIncomplete, err)
	}

	err = eachMember(raw.Emails, func(key string, value json.RawMessage) error {
		email := Email{}
		if err := json.Unmarshal(value, &email); err != nil {
			return fmt.Errorf("email %q: %w", key, err)
		}
		email.Key = key
		def.Emails = append(def.Emails, email)
		return nil
	})
	if err != nil {
		return nil, loadError(name, ErrConfigIncomplete, err)
	}

	return def, nil
}

func parseField(name string, data json.RawMessage, sanitizers *sanitizer.Registry, rules *validator.Registry) (Field, error) {
	var raw rawField
	if err := json.Unmarshal(data, &raw); err != nil {
		return Field{}, fmt.Errorf("field %q: %w", name, err)
	}

	field := Field{Name: name, TextField: raw.TextField}
	if raw.Default != nil {
		field.Default = fmt.Sprint(raw.Default)
	}

	if raw.Sanitize != "" {
		chain, err := sanitizers.Resolve(raw.Sanitize)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		field.chain = chain
		for _, s := range strings.Split(raw.Sanitize, "|") {
			if s = strings.TrimSpace(s); s != "" {
				field.Sanitize = append(field.Sanitize, s)
			}
		}
	}

	err := eachMember(raw.Rules, func(rule string, value json.RawMessage) error {
		var message string
		if err := json.Unmarshal(value, &message); err != nil {
			return fmt.Errorf("rule %q: %w", rule, err)
		}
		spec, err := rules.Parse(rule)
		if err != nil {
			return err
		}
		field.Rules = append(field.Rules, RuleSpec{Rule: spec.Raw, Message: message, spec: spec})
		return nil
	})
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", name, err)
	}
	return field, nil
}

var errNotObject = errors.New("expected a JSON object")

// eachMember walks a JSON object in document order. A missing or null
// value is treated as an empty object.
func eachMember(data json.RawMessage, fn func(key string, value json.RawMessage) error) error {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
