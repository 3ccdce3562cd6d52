package validator

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrUnknownRule     = errors.New("unknown validation rule")
	ErrInvalidRuleArgs = errors.New("invalid validation rule arguments")
)

// CheckFunc reports whether value passes. values holds every submitted field
// for rules that compare against another field.
type CheckFunc func(value string, args []string, values map[string]string) bool

// Definition describes one named rule.
type Definition struct {
	Check CheckFunc
	// Message is the default failure text.
	Message string
	MinArgs int
	// MaxArgs < 0 means unlimited.
	MaxArgs int
	// NumericArgs requires every argument to parse as a number.
	NumericArgs bool
	// RawArgs passes everything between the parentheses as one argument.
	RawArgs bool
	// OnEmpty runs the rule even when the value is blank.
	OnEmpty bool
}

// Spec is a parsed rule string. Raw keeps the original text, e.g. "min(5)".
type Spec struct {
	Raw  string
	Name string
	Args []string
}

// Registry maps rule names to definitions.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds or replaces a rule. Intended for startup wiring only.
func (r *Registry) Register(name string, def Definition) {
	if r.defs == nil {
		r.defs = make(map[string]Definition)
	}
	r.defs[name] = def
}

// Names lists registered rules in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.defs))
}

// RuleName strips parameters from a rule string: "min(5)" becomes "min".
func RuleName(raw string) string {
	name, _, _ := strings.Cut(raw, "(")
	return strings.TrimSpace(name)
}

// Parse resolves a rule string against the registry and checks its arguments.
func (r *Registry) Parse(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	spec := Spec{Raw: raw, Name: RuleName(raw)}

	def, ok := r.defs[spec.Name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownRule, raw)
	}

	if open := strings.Index(raw, "("); open >= 0 {
		if !strings.HasSuffix(raw, ")") {
			return Spec{}, fmt.Errorf("%w: %q is missing a closing parenthesis", ErrInvalidRuleArgs, raw)
		}
		inner := raw[open+1 : len(raw)-1]
		switch {
		case def.RawArgs:
			spec.Args = []string{inner}
		case strings.TrimSpace(inner) != "":
			for _, a := range strings.Split(inner, ",") {
				spec.Args = append(spec.Args, strings.TrimSpace(a))
			}
		}
	}

	n := len(spec.Args)
	if n < def.MinArgs || (def.MaxArgs >= 0 && n > def.MaxArgs) {
		return Spec{}, fmt.Errorf("%w: %q takes %s", ErrInvalidRuleArgs, raw, arity(def))
	}
	if def.NumericArgs {
		for _, a := range spec.Args {
			if a == "number" {
				continue
			}
			if _, err := strconv.ParseFloat(a, 64); err != nil {
				return Spec{}, fmt.Errorf("%w: %q expects numeric arguments", ErrInvalidRuleArgs, raw)
			}
		}
	}
	if spec.Name == "regex" {
		if _, err := compilePattern(spec.Args[0]); err != nil {
			return Spec{}, fmt.Errorf("%w: %q: %v", ErrInvalidRuleArgs, raw, err)
		}
	}
	return spec, nil
}

// Field bundles one field's value with its parsed rules and per-rule message
// overrides keyed by bare rule name.
type Field struct {
	Name     string
	Value    string
	Rules    []Spec
	Messages map[string]string
}

// Rules turns a field into Rule values. Blank values only keep rules marked
// OnEmpty.
func (r *Registry) Rules(f Field, values map[string]string) []Rule {
	blank := strings.TrimSpace(f.Value) == ""
	rules := make([]Rule, 0, len(f.Rules))
	for _, spec := range f.Rules {
		def, ok := r.defs[spec.Name]
		if !ok || (blank && !def.OnEmpty) {
			continue
		}
		value, args := f.Value, spec.Args
		message := def.Message
		if custom, ok := f.Messages[spec.Name]; ok && custom != "" {
			message = custom
		}
		rules = append(rules, Rule{
			Check: func() bool { return def.Check(value, args, values) },
			Error: ValidationError{
				Field:   f.Name,
				Rule:    spec.Name,
				Message: expand(message, f.Name, value, args),
			},
		})
	}
	return rules
}

// Validate evaluates every field and returns all failures in field, then rule
// order. The result is empty when everything passes.
func (r *Registry) Validate(fields ...Field) ValidationErrors {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Value
	}
	var rules []Rule
	for _, f := range fields {
		rules = append(rules, r.Rules(f, values)...)
	}
	return ExtractValidationErrors(Apply(rules...))
}

func expand(message, field, value string, args []string) string {
	pairs := []string{"{field}", field, "{value}", value, "{args}", strings.Join(args, ", ")}
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", a)
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

func arity(def Definition) string {
	switch {
	case def.MaxArgs < 0:
		return fmt.Sprintf("at least %d argument(s)", def.MinArgs)
	case def.MinArgs == def.MaxArgs:
		return fmt.Sprintf("exactly %d argument(s)", def.MinArgs)
	default:
		return fmt.Sprintf("%d to %d argument(s)", def.MinArgs, def.MaxArgs)
	}
}
