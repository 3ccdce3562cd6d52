package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/dmitrymomot/simpleforms/pkg/cookie"
)

// DefaultFieldPrefix starts token field names unless Config says otherwise.
const DefaultFieldPrefix = "TOKEN"

const (
	minSecretLength = 32
	seedLength      = 32
	nameLength      = 10
)

// IsTokenField reports whether a form field starts with DefaultFieldPrefix.
// The prefix is matched case-insensitively.
func IsTokenField(name string) bool {
	return hasPrefixFold(name, DefaultFieldPrefix)
}

func hasPrefixFold(name, prefix string) bool {
	return len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
}

// Token is a hidden field to embed in a form.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HiddenInput renders the token as an <input type="hidden"> element.
func (t Token) HiddenInput() template.HTML {
	return template.HTML(fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`,
		html.EscapeString(t.Name), html.EscapeString(t.Value)))
}

// Protector issues and verifies tokens.
type Protector struct {
	key     []byte
	cookies *cookie.Manager
	cookie  string
	header  string
	prefix  string
}

// New creates a Protector. The secret must be at least 32 bytes; the HMAC
// key is derived from it with HKDF.
func New(cfg Config, cookies *cookie.Manager) (*Protector, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if len(cfg.Secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(cfg.Secret), nil, []byte("csrf-token")), key); err != nil {
		return nil, fmt.Errorf("derive csrf key: %w", err)
	}

	p := &Protector{
		key:     key,
		cookies: cookies,
		cookie:  cfg.CookieName,
		header:  cfg.HeaderName,
		prefix:  cfg.FieldPrefix,
	}
	if p.cookie == "" {
		p.cookie = "simpleforms_csrf"
	}
	if p.header == "" {
		p.header = "X-CSRF-Token"
	}
	if p.prefix == "" {
		p.prefix = DefaultFieldPrefix
	}
	return p, nil
}

// IsTokenField reports whether a form field carries a token of p.
func (p *Protector) IsTokenField(name string) bool {
	return hasPrefixFold(name, p.prefix)
}

// Token returns the token for the current client, issuing a seed cookie when
// the request has none.
func (p *Protector) Token(w http.ResponseWriter, r *http.Request) (Token, error) {
	seed, err := p.cookies.GetSigned(r, p.cookie)
	if err != nil || seed == "" {
		buf := make([]byte, seedLength)
		if _, err := rand.Read(buf); err != nil {
			return Token{}, fmt.Errorf("generate csrf seed: %w", err)
		}
		seed = base64.RawURLEncoding.EncodeToString(buf)
		if err := p.cookies.SetSigned(w, p.cookie, seed); err != nil {
			return Token{}, fmt.Errorf("set csrf cookie: %w", err)
		}
	}
	return p.derive(seed), nil
}

// Verify checks the token posted with r. The value is taken from the derived
// form field, or from the header when the field is absent.
func (p *Protector) Verify(r *http.Request) error {
	seed, err := p.cookies.GetSigned(r, p.cookie)
	if err != nil || seed == "" {
		return ErrNoSeed
	}

	want := p.derive(seed)
	got := r.PostFormValue(want.Name)
	if got == "" {
		got = r.Header.Get(p.header)
	}
	if got == "" {
		return ErrMissingToken
	}

	if !hmac.Equal([]byte(got), []byte(want.Value)) {
		return ErrInvalidToken
	}
	return nil
}

func (p *Protector) derive(seed string) Token {
	return Token{
		Name:  p.prefix + hex.EncodeToString(p.mac("name", seed))[:nameLength],
		Value: base64.RawURLEncoding.EncodeToString(p.mac("value", seed)),
	}
}

func (p *Protector) mac(purpose, seed string) []byte {
	h := hmac.New(sha256.New, p.key)
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write([]byte(seed))
	return h.Sum(nil)
}
