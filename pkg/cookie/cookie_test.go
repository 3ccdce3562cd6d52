package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms/pkg/cookie"
)

const (
	secretA = "a-very-long-secret-key-that-is-32-bytes-or-more"
	secretB = "another-long-secret-key-that-is-at-least-32-bytes"
)

func newManager(t *testing.T, secrets ...string) *cookie.Manager {
	t.Helper()
	if len(secrets) == 0 {
		secrets = []string{secretA}
	}
	m, err := cookie.New(secrets)
	require.NoError(t, err)
	return m
}

// roundTrip copies the cookies written to rec into a new request.
func roundTrip(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("no secrets", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New([]string{secretA, "short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.Set(rec, "plain", "value"))

		c := rec.Result().Cookies()[0]
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "plain", "value", cookie.WithMaxAge(60), cookie.WithSecure(true)))

	c := rec.Result().Cookies()[0]
	assert.Equal(t, 60, c.MaxAge)
	assert.True(t, c.Secure)

	got, err := m.Get(roundTrip(rec), "plain")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "plain")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)

	err = m.Set(httptest.NewRecorder(), "big", strings.Repeat("x", 5000))
	assert.ErrorIs(t, err, cookie.ErrCookieTooLarge)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	rec := httptest.NewRecorder()
	m.Delete(rec, "gone")

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "gone", c.Name)
	assert.Equal(t, -1, c.MaxAge)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "sig", "hello; world"))

		got, err := m.GetSigned(roundTrip(rec), "sig")
		require.NoError(t, err)
		assert.Equal(t, "hello; world", got)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "sig", "hello"))

		c := rec.Result().Cookies()[0]
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sig", Value: "d29ybGQ" + c.Value[strings.Index(c.Value, "."):]})

		_, err := m.GetSigned(req, "sig")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("renamed", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "a", "hello"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "b", Value: rec.Result().Cookies()[0].Value})

		_, err := m.GetSigned(req, "b")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sig", Value: "nodot"})

		_, err := m.GetSigned(req, "sig")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "enc", "secret value"))

		c := rec.Result().Cookies()[0]
		assert.NotContains(t, c.Value, "secret")

		got, err := m.GetEncrypted(roundTrip(rec), "enc")
		require.NoError(t, err)
		assert.Equal(t, "secret value", got)
	})

	t.Run("unique ciphertexts", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		first, second := httptest.NewRecorder(), httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(first, "enc", "same"))
		require.NoError(t, m.SetEncrypted(second, "enc", "same"))

		assert.NotEqual(t, first.Result().Cookies()[0].Value, second.Result().Cookies()[0].Value)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, newManager(t, secretA).SetEncrypted(rec, "enc", "v"))

		_, err := newManager(t, secretB).GetEncrypted(roundTrip(rec), "enc")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})

	t.Run("renamed", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "a", "v"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "b", Value: rec.Result().Cookies()[0].Value})

		_, err := m.GetEncrypted(req, "b")
		assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
	})

	t.Run("not base64", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "enc", Value: "!!!"})

		_, err := m.GetEncrypted(req, "enc")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})
}

func TestManager_Rotation(t *testing.T) {
	t.Parallel()

	oldManager := newManager(t, secretA)
	rotated := newManager(t, secretB, secretA)

	rec := httptest.NewRecorder()
	require.NoError(t, oldManager.SetEncrypted(rec, "enc", "kept"))
	require.NoError(t, oldManager.SetSigned(rec, "sig", "kept"))

	req := roundTrip(rec)
	got, err := rotated.GetEncrypted(req, "enc")
	require.NoError(t, err)
	assert.Equal(t, "kept", got)

	got, err = rotated.GetSigned(req, "sig")
	require.NoError(t, err)
	assert.Equal(t, "kept", got)
}

func TestManager_Flash(t *testing.T) {
	t.Parallel()

	type message struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}

	t.Run("read once", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		want := message{Error: "Check the form.", Errors: map[string]string{"email": "Email is required."}}
		require.NoError(t, m.SetFlash(rec, "response", want))

		next := httptest.NewRecorder()
		var got message
		require.NoError(t, m.GetFlash(next, roundTrip(rec), "response", &got))
		assert.Equal(t, want, got)

		deleted := next.Result().Cookies()
		require.Len(t, deleted, 1)
		assert.Equal(t, -1, deleted[0].MaxAge)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		rec := httptest.NewRecorder()
		var got message
		err := m.GetFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil), "response", &got)
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("corrupt is still deleted", func(t *testing.T) {
		t.Parallel()
		m := newManager(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "__flash_response", Value: "AAAA"})

		rec := httptest.NewRecorder()
		var got message
		err := m.GetFlash(rec, req, "response", &got)
		require.Error(t, err)
		require.Len(t, rec.Result().Cookies(), 1)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.Config{
		Secrets:  " " + secretA + " , ," + secretB,
		Path:     "/forms",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	assert.Equal(t, []string{secretA, secretB}, cfg.SecretList())

	m, err := cookie.NewFromConfig(cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "c", "v"))
	c := rec.Result().Cookies()[0]
	assert.Equal(t, "/forms", c.Path)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	_, err = cookie.NewFromConfig(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)
}
