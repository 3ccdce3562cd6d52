package simpleforms

import "time"

// Storage backends for form definitions.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Flash store backends.
const (
	FlashCookie = "cookie"
	FlashRedis  = "redis"
)

// Config holds processor settings.
type Config struct {
	FormsDir     string        `env:"SIMPLEFORMS_FORMS_DIR" envDefault:"./forms"`
	ActionPrefix string        `env:"SIMPLEFORMS_ACTION_PREFIX" envDefault:"module/simple-forms"`
	RegistryTTL  time.Duration `env:"SIMPLEFORMS_REGISTRY_TTL" envDefault:"0s"`
	FlashStore   string        `env:"SIMPLEFORMS_FLASH_STORE" envDefault:"cookie"`
	Storage      string        `env:"SIMPLEFORMS_STORAGE" envDefault:"local"`
	// FallbackURL is the redirect target when a request has no Referer.
	FallbackURL string `env:"SIMPLEFORMS_FALLBACK_URL" envDefault:"/"`
	// MaxMemory bounds multipart form parsing.
	MaxMemory int64 `env:"SIMPLEFORMS_MAX_MEMORY" envDefault:"10485760"`
}
