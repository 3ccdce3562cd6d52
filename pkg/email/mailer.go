package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
// Address fields accept a comma separated list in RFC 5322 form.
type SendEmailParams struct {
	From     string `json:"from"`
	SendTo   string `json:"send_to"`
	CC       string `json:"cc,omitempty"`
	BCC      string `json:"bcc,omitempty"`
	ReplyTo  string `json:"reply_to,omitempty"`
	Subject  string `json:"subject"`
	BodyText string `json:"body_text"`
	BodyHTML string `json:"body_html,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the params before they reach a transport.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.From) == "" {
		return fmt.Errorf("%w: From is required", ErrInvalidParams)
	}
	if _, err := mail.ParseAddress(p.From); err != nil {
		return fmt.Errorf("%w: From must be a valid email address", ErrInvalidParams)
	}
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	lists := []struct{ name, value string }{
		{"SendTo", p.SendTo}, {"CC", p.CC}, {"BCC", p.BCC}, {"ReplyTo", p.ReplyTo},
	}
	for _, l := range lists {
		if _, err := parseList(l.value); err != nil {
			return fmt.Errorf("%w: %s must contain valid email addresses", ErrInvalidParams, l.name)
		}
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyText) == "" && strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: a text or HTML body is required", ErrInvalidParams)
	}
	return nil
}

// Recipients returns the envelope recipients: To, Cc and Bcc addresses.
func (p SendEmailParams) Recipients() []string {
	var out []string
	for _, list := range []string{p.SendTo, p.CC, p.BCC} {
		addrs, _ := parseList(list)
		for _, a := range addrs {
			out = append(out, a.Address)
		}
	}
	return out
}

func parseList(list string) ([]*mail.Address, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	return mail.ParseAddressList(list)
}
