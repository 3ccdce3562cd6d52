package email

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPSender delivers through an SMTP relay. Each call opens its own
// connection.
type SMTPSender struct {
	cfg  SMTPConfig
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
	now  func() time.Time
}

// SMTPOption configures an SMTPSender.
type SMTPOption func(*SMTPSender)

// WithDialer replaces the network dialer, mostly for tests.
func WithDialer(dial func(ctx context.Context, network, addr string) (net.Conn, error)) SMTPOption {
	return func(s *SMTPSender) { s.dial = dial }
}

// NewSMTPSender validates cfg and returns a sender.
func NewSMTPSender(cfg SMTPConfig, opts ...SMTPOption) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: SMTP port must be between 1 and 65535", ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	s := &SMTPSender{cfg: cfg, now: time.Now}
	d := &net.Dialer{Timeout: cfg.Timeout}
	s.dial = d.DialContext
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := s.send(ctx, params); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

func (s *SMTPSender) send(ctx context.Context, params SendEmailParams) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(s.now().Add(s.cfg.Timeout))
	}
	if s.cfg.SSL {
		conn = tls.Client(conn, &tls.Config{ServerName: s.cfg.Host})
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if s.cfg.StartTLS && !s.cfg.SSL {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				return err
			}
		}
	}
	if s.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
				return err
			}
		}
	}

	from, err := mail.ParseAddress(params.From)
	if err != nil {
		return err
	}
	if err := client.Mail(from.Address); err != nil {
		return err
	}
	for _, rcpt := range params.Recipients() {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(buildMessage(params, s.now(), s.cfg.Host))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// buildMessage renders params as an RFC 5322 message. Bcc is never written.
func buildMessage(params SendEmailParams, now time.Time, host string) string {
	var msg strings.Builder
	header := func(name, value string) {
		if value != "" {
			msg.WriteString(name + ": " + value + "\r\n")
		}
	}

	header("From", params.From)
	header("To", params.SendTo)
	header("Cc", params.CC)
	header("Reply-To", params.ReplyTo)
	header("Subject", mime.QEncoding.Encode("utf-8", params.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", "<"+randomBoundary("msg")+"@"+host+">")
	header("X-Tag", params.Tag)
	msg.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case params.BodyHTML != "" && params.BodyText != "":
		alt := randomBoundary("alt")
		msg.WriteString("Content-Type: multipart/alternative; boundary=" + alt + "\r\n\r\n")
		writePart(&msg, alt, "text/plain", params.BodyText)
		writePart(&msg, alt, "text/html", params.BodyHTML)
		msg.WriteString("--" + alt + "--\r\n")
	case params.BodyHTML != "":
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		msg.WriteString(crlf(params.BodyHTML) + "\r\n")
	default:
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		msg.WriteString(crlf(params.BodyText) + "\r\n")
	}
	return msg.String()
}

func writePart(msg *strings.Builder, boundary, contentType, body string) {
	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: " + contentType + "; charset=UTF-8\r\n\r\n")
	msg.WriteString(crlf(body))
	msg.WriteString("\r\n\r\n")
}

// crlf normalizes line endings to CRLF as required on the wire.
func crlf(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func randomBoundary(prefix string) string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + hex.EncodeToString(buf)
}
