package email

import (
	"fmt"
	"time"
)

// Drivers selectable through Config.Driver.
const (
	DriverPostmark = "postmark"
	DriverSMTP     = "smtp"
	DriverDev      = "dev"
)

// Config holds email service configuration.
// Only the settings of the selected driver are checked.
type Config struct {
	Driver string `env:"MAIL_DRIVER" envDefault:"dev"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	TrackOpens           bool   `env:"POSTMARK_TRACK_OPENS" envDefault:"false"`

	// DevDir receives the files written by the dev driver.
	DevDir string `env:"MAIL_DEV_DIR" envDefault:"./tmp/emails"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// SMTPConfig configures NewSMTPSender.
type SMTPConfig struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"587"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	StartTLS bool          `env:"STARTTLS" envDefault:"true"`
	SSL      bool          `env:"SSL" envDefault:"false"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// New builds the sender selected by cfg.Driver.
func New(cfg Config) (EmailSender, error) {
	switch cfg.Driver {
	case DriverPostmark:
		return NewPostmarkClient(cfg)
	case DriverSMTP:
		s, err := NewSMTPSender(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverDev, "":
		return NewDevSender(cfg.DevDir), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
