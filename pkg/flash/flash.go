package flash

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/simpleforms/pkg/cookie"
)

// ErrTooLarge is returned by Set when the encoded value does not fit the
// transport. Nothing is written in that case.
var ErrTooLarge = cookie.ErrCookieTooLarge

// Store persists one pending value per client.
type Store interface {
	// Set replaces the pending value.
	Set(w http.ResponseWriter, r *http.Request, value any) error
	// Pop decodes the pending value into dest and clears it. It reports false
	// when nothing was pending.
	Pop(w http.ResponseWriter, r *http.Request, dest any) (bool, error)
}

// DefaultKey names the flash cookie.
const DefaultKey = "simpleforms"

// CookieStore keeps the value in an encrypted cookie.
type CookieStore struct {
	cookies *cookie.Manager
	key     string
}

// NewCookieStore returns a store writing the flash under key. An empty key
// means DefaultKey.
func NewCookieStore(cookies *cookie.Manager, key string) *CookieStore {
	if key == "" {
		key = DefaultKey
	}
	return &CookieStore{cookies: cookies, key: key}
}

func (s *CookieStore) Set(w http.ResponseWriter, _ *http.Request, value any) error {
	return s.cookies.SetFlash(w, s.key, value)
}

func (s *CookieStore) Pop(w http.ResponseWriter, r *http.Request, dest any) (bool, error) {
	err := s.cookies.GetFlash(w, r, s.key, dest)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, cookie.ErrCookieNotFound):
		return false, nil
	default:
		return false, err
	}
}
