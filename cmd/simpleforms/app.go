package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/simpleforms"
	"github.com/dmitrymomot/simpleforms/pkg/config"
	"github.com/dmitrymomot/simpleforms/pkg/cookie"
	"github.com/dmitrymomot/simpleforms/pkg/csrf"
	"github.com/dmitrymomot/simpleforms/pkg/email"
	"github.com/dmitrymomot/simpleforms/pkg/file"
	"github.com/dmitrymomot/simpleforms/pkg/flash"
	"github.com/dmitrymomot/simpleforms/pkg/httpserver"
	"github.com/dmitrymomot/simpleforms/pkg/logger"
	"github.com/dmitrymomot/simpleforms/pkg/redis"
	"github.com/dmitrymomot/simpleforms/pkg/requestid"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"simpleforms"`

	Forms  simpleforms.Config
	Mail   email.Config
	Cookie cookie.Config
	CSRF   csrf.Config
	Redis  redis.Config
	S3     file.S3Config
	HTTP   httpserver.Config
}

// loadConfig reads the environment. Cached loading is for the long running
// server; one-off commands parse afresh.
func loadConfig(opts *rootOptions, cached bool) (appConfig, error) {
	var cfg appConfig
	var err error
	if cached {
		err = config.Load(&cfg)
	} else {
		err = config.Parse(&cfg)
	}
	if err != nil {
		return appConfig{}, err
	}
	if opts.formsDir != "" {
		cfg.Forms.FormsDir = opts.formsDir
	}
	return cfg, nil
}

func newLogger(cfg appConfig, format string, w io.Writer) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithOutput(w),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if format == "json" {
		opts = append(opts, logger.WithFormat(logger.FormatJSON))
	}
	return logger.New(opts...)
}

func newStorage(ctx context.Context, cfg appConfig) (file.Storage, error) {
	switch cfg.Forms.Storage {
	case simpleforms.StorageS3:
		s, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	case simpleforms.StorageLocal, "":
		s, err := file.NewLocalStorage(cfg.Forms.FormsDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Forms.Storage)
}

// newFlashStore returns the configured store, the readiness checks it adds
// and a function releasing its resources.
func newFlashStore(ctx context.Context, cfg appConfig, cookies *cookie.Manager) (flash.Store, []func(context.Context) error, func(), error) {
	switch cfg.Forms.FlashStore {
	case simpleforms.FlashRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		store := flash.NewRedisStore(client, cookies, flash.WithKeyPrefix(cfg.Redis.KeyPrefix+"flash:"))
		checks := []func(context.Context) error{redis.Healthcheck(client)}
		return store, checks, func() { _ = client.Close() }, nil
	case simpleforms.FlashCookie, "":
		return flash.NewCookieStore(cookies, ""), nil, func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown flash store %q", cfg.Forms.FlashStore)
}
