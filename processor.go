package simpleforms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/dmitrymomot/simpleforms/handler"
	"github.com/dmitrymomot/simpleforms/pkg/csrf"
	"github.com/dmitrymomot/simpleforms/pkg/flash"
	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/logger"
	"github.com/dmitrymomot/simpleforms/pkg/route"
)

// Registries hands out the current form registry. *forms.Cache implements it.
type Registries interface {
	Registry(ctx context.Context) (*forms.Registry, error)
}

// Dispatcher sends the notification emails of a validated submission.
// *notify.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, def *forms.Definition, values map[string]string) ([]string, error)
}

// Verifier checks the request token. *csrf.Protector implements it.
// Verifiers that also have an IsTokenField(name string) bool method decide
// which posted fields are left out of the flashed old input.
type Verifier interface {
	Verify(r *http.Request) error
}

type tokenFielder interface {
	IsTokenField(name string) bool
}

// Processor runs the submission pipeline.
type Processor struct {
	registries Registries
	dispatcher Dispatcher
	store      flash.Store
	verifier   Verifier
	tokenField func(string) bool
	matcher    *route.Matcher
	fallback   string
	maxMemory  int64
	log        *slog.Logger
}

type Option func(*Processor)

// WithVerifier enables token verification.
func WithVerifier(v Verifier) Option {
	return func(p *Processor) {
		p.verifier = v
		if tf, ok := v.(tokenFielder); ok {
			p.tokenField = tf.IsTokenField
		}
	}
}

// WithPrefix sets the action prefix, DefaultPrefix of package route if empty.
func WithPrefix(prefix string) Option {
	return func(p *Processor) { p.matcher = route.New(prefix) }
}

// WithFallbackURL sets the redirect target for requests without a Referer.
func WithFallbackURL(url string) Option {
	return func(p *Processor) {
		if url != "" {
			p.fallback = url
		}
	}
}

// WithMaxMemory bounds the memory used to parse multipart submissions.
func WithMaxMemory(n int64) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxMemory = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a Processor. A nil store makes every client a JSON client.
func New(registries Registries, dispatcher Dispatcher, store flash.Store, opts ...Option) *Processor {
	p := &Processor{
		registries: registries,
		dispatcher: dispatcher,
		store:      store,
		tokenField: csrf.IsTokenField,
		matcher:    route.New(""),
		fallback:   "/",
		maxMemory:  10 << 20,
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("simpleforms"))
	return p
}

// NewFromConfig creates a Processor using the prefix, fallback and memory
// limits of cfg.
func NewFromConfig(cfg Config, registries Registries, dispatcher Dispatcher, store flash.Store, opts ...Option) *Processor {
	base := []Option{
		WithPrefix(cfg.ActionPrefix),
		WithFallbackURL(cfg.FallbackURL),
		WithMaxMemory(cfg.MaxMemory),
	}
	return New(registries, dispatcher, store, append(base, opts...)...)
}

// Middleware handles form submissions and passes every other request to next.
func (p *Processor) Middleware(next http.Handler) http.Handler {
	serve := handler.Wrap(p.handle, handler.WithLogger(p.log))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := p.matcher.MatchRequest(r); !ok {
			next.ServeHTTP(w, r)
			return
		}
		serve(w, r)
	})
}

// Handler handles form submissions and answers 404 to anything else.
func (p *Processor) Handler() http.Handler {
	return p.Middleware(http.NotFoundHandler())
}

func (p *Processor) handle(w http.ResponseWriter, r *http.Request) handler.Response {
	name, ok := p.matcher.MatchRequest(r)
	if !ok {
		return handler.Text(http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}
	env, sub := p.Process(r, name)
	return Respond(env, sub, p.store, p.fallback)
}

// Process runs the pipeline for form name and returns its only outcome.
func (p *Processor) Process(r *http.Request, name string) (Envelope, *Submission) {
	ctx := logger.WithContextAttrs(r.Context(), logger.Form(name))
	start := time.Now()
	sub := &Submission{Form: name, tokenField: p.tokenField}
	log := p.log

	fail := func(err error) (Envelope, *Submission) {
		env := Failed(err)
		e := classify(err)
		attrs := []any{
			slog.String("kind", e.Kind.String()),
			logger.Status(env.Status),
			logger.Duration(time.Since(start)),
		}
		switch e.Kind {
		case KindValidation:
			log.WarnContext(ctx, "submission invalid", append(attrs, logger.Fields(len(e.Fields)))...)
		case KindSecurity:
			log.WarnContext(ctx, "submission rejected", append(attrs, logger.Error(err))...)
		default:
			log.ErrorContext(ctx, "submission failed", append(attrs, logger.Error(err))...)
		}
		return env, sub
	}

	if err := p.parseForm(r); err != nil {
		return fail(&Error{Kind: KindSecurity, Message: ForgedMessage, Err: err})
	}
	sub.Raw = r.PostForm

	reg, err := p.registries.Registry(ctx)
	if err != nil {
		return fail(err)
	}
	def, err := reg.Get(name)
	if err != nil {
		return fail(err)
	}
	sub.Form = def.Name

	if p.verifier != nil {
		if err := p.verifier.Verify(r); err != nil {
			return fail(err)
		}
	}

	res := forms.Validate(def, r.PostForm)
	sub.Values = res.Values
	if !res.Valid() {
		sub.Errors = res.Errors
		return fail(&Error{Kind: KindValidation, Message: res.Message, Fields: res.Errors})
	}

	sent, err := p.dispatcher.Dispatch(ctx, def, res.Values)
	sub.Sent = sent
	if err != nil {
		return fail(err)
	}

	sub.Successful = true
	env := Succeeded(def.SuccessMessage(), sent)
	log.InfoContext(ctx, "submission processed",
		slog.Int("emails", len(sent)),
		logger.Status(env.Status),
		logger.Duration(time.Since(start)),
	)
	return env, sub
}

func (p *Processor) parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(p.maxMemory); err != nil {
			return fmt.Errorf("parse multipart form: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return nil
}

// Consume reads and clears the flashed response of the previous submission.
func (p *Processor) Consume(w http.ResponseWriter, r *http.Request) (*Flashed, error) {
	if p.store == nil {
		return nil, nil
	}
	return Consume(w, r, p.store)
}

type flashedKey struct{}

// ConsumeFlash consumes the flashed response before next runs and makes it
// available through FlashedFromContext. Apply it to page routes only, so
// asset requests do not swallow the flash.
func (p *Processor) ConsumeFlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		flashed, err := p.Consume(w, r)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.log.WarnContext(r.Context(), "failed to read flashed response", logger.Error(err))
		}
		if flashed != nil {
			r = r.WithContext(context.WithValue(r.Context(), flashedKey{}, flashed))
		}
		next.ServeHTTP(w, r)
	})
}

// FlashedFromContext returns the response consumed by ConsumeFlash, or nil.
func FlashedFromContext(ctx context.Context) *Flashed {
	f, _ := ctx.Value(flashedKey{}).(*Flashed)
	return f
}

// Action returns the submission URL of form name below root.
func (p *Processor) Action(root, name string) string {
	return p.matcher.Action(root, name)
}

// ActionFor returns the submission URL of form name below root using the
// default prefix.
func ActionFor(root, name string) string {
	return route.New("").Action(root, name)
}
