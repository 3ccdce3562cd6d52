package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/simpleforms"
	"github.com/dmitrymomot/simpleforms/handler"
	"github.com/dmitrymomot/simpleforms/pkg/cookie"
	"github.com/dmitrymomot/simpleforms/pkg/csrf"
	"github.com/dmitrymomot/simpleforms/pkg/email"
	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/httpserver"
	"github.com/dmitrymomot/simpleforms/pkg/logger"
	"github.com/dmitrymomot/simpleforms/pkg/notify"
	"github.com/dmitrymomot/simpleforms/pkg/requestid"
	"github.com/dmitrymomot/simpleforms/pkg/route"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve form submission endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, true)
			if err != nil {
				return err
			}
			log := newLogger(cfg, opts.format, cmd.ErrOrStderr())
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	router, cleanup, err := newRouter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

// newRouter wires the processor and its collaborators into an http.Handler.
func newRouter(ctx context.Context, cfg appConfig, log *slog.Logger) (http.Handler, func(), error) {
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("forms storage: %w", err)
	}

	sender, err := email.New(cfg.Mail)
	if err != nil {
		return nil, nil, fmt.Errorf("mail sender: %w", err)
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, nil, fmt.Errorf("cookies: %w", err)
	}

	store, checks, cleanup, err := newFlashStore(ctx, cfg, cookies)
	if err != nil {
		return nil, nil, fmt.Errorf("flash store: %w", err)
	}

	registries := forms.NewCache(storage, cfg.Forms.RegistryTTL)
	if reg, err := registries.Registry(ctx); err != nil {
		log.ErrorContext(ctx, "forms failed to load", logger.Error(err))
	} else {
		log.InfoContext(ctx, "forms loaded", slog.Int("forms", reg.Len()), slog.Any("names", reg.Names()))
	}

	procOpts := []simpleforms.Option{simpleforms.WithLogger(log)}
	var protector *csrf.Protector
	if cfg.CSRF.Secret != "" {
		protector, err = csrf.New(cfg.CSRF, cookies)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("csrf: %w", err)
		}
		procOpts = append(procOpts, simpleforms.WithVerifier(protector))
	} else {
		log.WarnContext(ctx, "CSRF_SECRET not set, request tokens are not verified")
	}

	proc := simpleforms.NewFromConfig(cfg.Forms,
		registries,
		notify.New(storage, sender, notify.WithLogger(log)),
		store,
		procOpts...,
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(proc.Middleware)

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, checks...))

	base := "/" + route.New(cfg.Forms.ActionPrefix).Prefix()
	r.With(proc.ConsumeFlash).Get(base+"/response", handler.Wrap(responseHandler, handler.WithLogger(log)))
	if protector != nil {
		r.Get(base+"/token", handler.Wrap(tokenHandler(protector), handler.WithLogger(log)))
	}

	return r, cleanup, nil
}

// tokenHandler hands a request token to script clients that cannot read it
// from the rendered page.
func tokenHandler(p *csrf.Protector) handler.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) handler.Response {
		tok, err := p.Token(w, r)
		if err != nil {
			return handler.ResponseFunc(func(http.ResponseWriter, *http.Request) error { return err })
		}
		return handler.JSON(tok, handler.WithNoCache())
	}
}

// responseHandler reports the outcome flashed by the last redirected
// submission of the client, once. Later reads get 204.
func responseHandler(_ http.ResponseWriter, r *http.Request) handler.Response {
	flashed := simpleforms.FlashedFromContext(r.Context())
	if flashed == nil {
		return handler.Empty(http.StatusNoContent)
	}
	return handler.JSON(flashed, handler.WithNoCache())
}
