package csrf

// Config configures a Protector.
type Config struct {
	Secret      string `env:"CSRF_SECRET"`
	CookieName  string `env:"CSRF_COOKIE_NAME" envDefault:"simpleforms_csrf"`
	HeaderName  string `env:"CSRF_HEADER_NAME" envDefault:"X-CSRF-Token"`
	// FieldPrefix starts every token field name. Fields carrying it are never
	// echoed back as old input.
	FieldPrefix string `env:"CSRF_FIELD_PREFIX" envDefault:"TOKEN"`
}
