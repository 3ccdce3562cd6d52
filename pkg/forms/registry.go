package forms

import (
	"context"
	"errors"
	"path"

	"github.com/dmitrymomot/simpleforms/pkg/file"
	"github.com/dmitrymomot/simpleforms/pkg/sanitizer"
	"github.com/dmitrymomot/simpleforms/pkg/validator"
)

// ConfigFile is the definition file expected inside every form directory.
const ConfigFile = "config.json"

// TemplatesDir holds a form's email templates and stylesheets.
const TemplatesDir = "templates"

type options struct {
	sanitizers *sanitizer.Registry
	rules      *validator.Registry
}

// Option configures Load and Cache.
type Option func(*options)

// WithSanitizers replaces the built-in sanitizer registry.
func WithSanitizers(r *sanitizer.Registry) Option {
	return func(o *options) { o.sanitizers = r }
}

// WithRules replaces the built-in validation rule registry.
func WithRules(r *validator.Registry) Option {
	return func(o *options) { o.rules = r }
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sanitizers == nil {
		o.sanitizers = sanitizer.Default()
	}
	if o.rules == nil {
		o.rules = validator.Default()
	}
	return o
}

// Registry holds every loaded form. It is read-only after Load and safe
// for concurrent use.
type Registry struct {
	forms map[string]*Definition
	names []string
}

// Load reads every immediate subdirectory of the storage root as a form.
// The first broken form aborts the whole load.
func Load(ctx context.Context, storage file.Storage, opts ...Option) (*Registry, error) {
	o := newOptions(opts)

	entries, err := storage.List(ctx, "")
	if err != nil {
		if errors.Is(err, file.ErrDirectoryNotFound) {
			return nil, loadError("", ErrFormsDirMissing, err)
		}
		return nil, loadError("", ErrFormsUnreadable, err)
	}

	reg := &Registry{forms: make(map[string]*Definition)}
	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		def, err := loadForm(ctx, storage, entry.Name, o)
		if err != nil {
			return nil, err
		}
		reg.forms[entry.Name] = def
		reg.names = append(reg.names, entry.Name)
	}

	if len(reg.names) == 0 {
		return nil, loadError("", ErrNoForms, nil)
	}
	return reg, nil
}

func loadForm(ctx context.Context, storage file.Storage, name string, o options) (*Definition, error) {
	data, err := storage.Read(ctx, path.Join(name, ConfigFile))
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) || errors.Is(err, file.ErrIsDirectory) {
			return nil, loadError(name, ErrConfigMissing, err)
		}
		return nil, loadError(name, ErrConfigUnreadable, err)
	}
	return Parse(name, data, o.sanitizers, o.rules)
}

// Get returns the form registered under name. Route slugs pass through
// sanitizer.VarName, so a directory such as "contact-us" is also found as
// "contact_us".
func (r *Registry) Get(name string) (*Definition, error) {
	if def, ok := r.forms[name]; ok {
		return def, nil
	}
	for _, n := range r.names {
		if sanitizer.VarName(n) == name {
			return r.forms[n], nil
		}
	}
	return nil, loadError(name, ErrFormNotDefined, nil)
}

// Names lists the loaded forms in directory order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int { return len(r.names) }
