package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	keyLength       = 32
	// maxCookieSize is the limit most browsers enforce on name plus value.
	maxCookieSize = 4096
	flashPrefix   = "__flash_"
)

var encoding = base64.RawURLEncoding

type keySet struct {
	sign []byte
	enc  cipher.AEAD
}

// Manager writes and reads cookies with shared default attributes.
type Manager struct {
	keys     []keySet
	defaults Options
}

// New creates a Manager. At least one secret of 32 bytes or more is required;
// the first one signs and encrypts, the rest are only used for reading.
func New(secrets []string, opts ...Option) (*Manager, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([]keySet, 0, len(secrets))
	for _, secret := range secrets {
		if len(secret) < minSecretLength {
			return nil, ErrSecretTooShort
		}
		ks, err := deriveKeys(secret)
		if err != nil {
			return nil, err
		}
		keys = append(keys, ks)
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}.apply(opts)

	return &Manager{keys: keys, defaults: defaults}, nil
}

func deriveKeys(secret string) (keySet, error) {
	sign := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("cookie-sign")), sign); err != nil {
		return keySet{}, fmt.Errorf("derive signing key: %w", err)
	}

	encKey := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("cookie-encrypt")), encKey); err != nil {
		return keySet{}, fmt.Errorf("derive encryption key: %w", err)
	}
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return keySet{}, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return keySet{}, fmt.Errorf("create gcm: %w", err)
	}

	return keySet{sign: sign, enc: gcm}, nil
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	if len(name)+len(value) > maxCookieSize {
		return ErrCookieTooLarge
	}

	o := m.defaults.apply(opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
	return nil
}

// Get reads a plain cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie. Path and domain must match the ones it was set with.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := m.defaults.apply(opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   -1,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
}

// SetSigned writes value with an HMAC-SHA256 signature over name and value.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	encoded := encoding.EncodeToString([]byte(value))
	sig := sign(m.keys[0].sign, name, encoded)
	return m.Set(w, name, encoded+"."+sig, opts...)
}

// GetSigned reads a cookie written by SetSigned, trying every secret.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	encoded, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrInvalidFormat
	}

	for _, ks := range m.keys {
		if hmac.Equal([]byte(sig), []byte(sign(ks.sign, name, encoded))) {
			value, err := encoding.DecodeString(encoded)
			if err != nil {
				return "", ErrInvalidFormat
			}
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func sign(key []byte, name, value string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return encoding.EncodeToString(h.Sum(nil))
}

// SetEncrypted writes value sealed with AES-GCM. The cookie name is
// authenticated as additional data.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	gcm := m.keys[0].enc
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(value), []byte(name))
	return m.Set(w, name, encoding.EncodeToString(sealed), opts...)
}

// GetEncrypted reads a cookie written by SetEncrypted, trying every secret.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	data, err := encoding.DecodeString(raw)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, ks := range m.keys {
		size := ks.enc.NonceSize()
		if len(data) < size {
			return "", ErrInvalidFormat
		}
		plain, err := ks.enc.Open(nil, data[:size], data[size:], []byte(name))
		if err == nil {
			return string(plain), nil
		}
	}
	return "", ErrDecryptionFailed
}

// SetFlash stores value as encrypted JSON until the next GetFlash.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any, opts ...Option) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode flash: %w", err)
	}
	return m.SetEncrypted(w, flashPrefix+key, string(data), opts...)
}

// GetFlash decodes the flash value into dest and deletes the cookie. The
// cookie is deleted even when decoding fails.
func (m *Manager) GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any, opts ...Option) error {
	name := flashPrefix + key

	raw, err := m.GetEncrypted(r, name)
	if err != nil {
		if !errors.Is(err, ErrCookieNotFound) {
			m.Delete(w, name, opts...)
		}
		return err
	}
	m.Delete(w, name, opts...)

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}
