// Package notify renders and sends the emails configured for a form.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"path"

	"github.com/dmitrymomot/simpleforms/pkg/email"
	"github.com/dmitrymomot/simpleforms/pkg/file"
	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/logger"
	"github.com/dmitrymomot/simpleforms/pkg/sanitizer"
	"github.com/dmitrymomot/simpleforms/pkg/strtpl"
)

// Dispatcher sends a form's emails one after another.
type Dispatcher struct {
	storage file.Storage
	sender  email.EmailSender
	logger  *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher reading templates from storage, the same tree the
// form definitions come from.
func New(storage file.Storage, sender email.EmailSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{storage: storage, sender: sender, logger: logger.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component("notify"))
	return d
}

// Dispatch sends every email of def in declaration order using the
// validated values. It stops at the first problem and returns the keys sent
// before it together with a *DispatchError. Each send runs with the email
// key attached to ctx for logging.
func (d *Dispatcher) Dispatch(ctx context.Context, def *forms.Definition, values map[string]string) ([]string, error) {
	dir := path.Join(def.Name, forms.TemplatesDir)
	headerData := strtpl.Data{"input": values}

	var (
		sent        []string
		stylesheets map[string]any
	)
	for _, cfg := range def.Emails {
		msg, err := d.compose(ctx, def, cfg, dir, headerData, values, &stylesheets)
		if err != nil {
			return sent, err
		}

		sendCtx := logger.WithContextAttrs(ctx, logger.EmailKey(cfg.Key))
		if err := d.sender.SendEmail(sendCtx, msg); err != nil {
			d.logger.ErrorContext(sendCtx, "email delivery failed", logger.Error(err))
			return sent, &DispatchError{Key: cfg.Key, Err: ErrDelivery, Cause: err}
		}
		d.logger.InfoContext(sendCtx, "email sent")
		sent = append(sent, cfg.Key)
	}
	return sent, nil
}

func (d *Dispatcher) compose(
	ctx context.Context,
	def *forms.Definition,
	cfg forms.Email,
	dir string,
	headerData strtpl.Data,
	values map[string]string,
	stylesheets *map[string]any,
) (email.SendEmailParams, error) {
	fail := func(err, cause error) (email.SendEmailParams, error) {
		return email.SendEmailParams{}, &DispatchError{Key: cfg.Key, Err: err, Cause: cause}
	}

	if cfg.Template == "" {
		return fail(ErrMissingTemplate, nil)
	}
	base := path.Join(dir, cfg.Template)
	plainPath, htmlPath := base+".txt", base+".html"
	if !d.storage.Exists(ctx, plainPath) {
		return fail(ErrMissingPlainTemplate, nil)
	}
	hasHTML := d.storage.Exists(ctx, htmlPath)

	if cfg.To == "" {
		return fail(ErrMissingTo, nil)
	}
	if cfg.From == "" {
		return fail(ErrMissingFrom, nil)
	}

	subject := def.Name
	if cfg.Subject != "" {
		subject = strtpl.Render(cfg.Subject, headerData)
	}

	msg := email.SendEmailParams{
		From:    strtpl.Render(cfg.From, headerData),
		SendTo:  strtpl.Render(cfg.To, headerData),
		CC:      strtpl.Render(cfg.CC, headerData),
		BCC:     strtpl.Render(cfg.BCC, headerData),
		ReplyTo: strtpl.Render(cfg.ReplyTo, headerData),
		Subject: subject,
		Tag:     cfg.Tag,
	}

	plain, err := d.storage.Read(ctx, plainPath)
	if err != nil {
		return fail(ErrTemplateUnreadable, err)
	}
	msg.BodyText = strtpl.Render(string(plain), bodyData(def, subject, values, false, nil))

	if hasHTML {
		html, err := d.storage.Read(ctx, htmlPath)
		if err != nil {
			return fail(ErrTemplateUnreadable, err)
		}
		if *stylesheets == nil {
			sheets, err := d.stylesheets(ctx, dir)
			if err != nil {
				return fail(ErrTemplateUnreadable, err)
			}
			*stylesheets = sheets
		}
		msg.BodyHTML = strtpl.Render(string(html), bodyData(def, subject, values, true, *stylesheets))
	}
	return msg, nil
}

// bodyData builds the template context: info, title, subject, input and,
// for HTML bodies, stylesheets. HTML input values are escaped.
func bodyData(def *forms.Definition, subject string, values map[string]string, asHTML bool, stylesheets map[string]any) strtpl.Data {
	input := make(map[string]any, len(values))
	for name, v := range values {
		escaped := v
		if asHTML {
			escaped = sanitizer.Entities(v)
		}
		input[name] = escaped
	}
	for _, f := range def.Fields {
		if v, ok := input[f.Name].(string); ok && f.TextField {
			input[f.Name] = newTextValue(v, asHTML)
		}
	}

	data := strtpl.Data{
		"title":   def.Title,
		"subject": subject,
		"input":   input,
	}
	if def.Info != nil {
		data["info"] = def.Info
	}
	if asHTML {
		data["stylesheets"] = stylesheets
	}
	return data
}

// stylesheets inlines every .css file next to the templates, keyed by file
// name without extension.
func (d *Dispatcher) stylesheets(ctx context.Context, dir string) (map[string]any, error) {
	entries, err := d.storage.List(ctx, dir)
	if err != nil {
		if errors.Is(err, file.ErrDirectoryNotFound) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	sheets := make(map[string]any)
	for _, e := range entries {
		if e.IsDir || file.Ext(e.Name) != "css" {
			continue
		}
		css, err := d.storage.Read(ctx, e.Path)
		if err != nil {
			return nil, err
		}
		sheets[file.Base(e.Name)] = StyleBlock(string(css))
	}
	return sheets, nil
}
