package redis

import "time"

// Config describes the Redis connection. An empty URL means Redis is not used
// and callers fall back to cookie storage.
type Config struct {
	URL            string        `env:"REDIS_URL" envDefault:""`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"simpleforms:"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool { return c.URL != "" }
