package simpleforms_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms"
	"github.com/dmitrymomot/simpleforms/pkg/cookie"
	"github.com/dmitrymomot/simpleforms/pkg/email"
	"github.com/dmitrymomot/simpleforms/pkg/file"
	"github.com/dmitrymomot/simpleforms/pkg/flash"
	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/notify"
)

const contactConfig = `{
	"title": "Contact us",
	"messages": {"success": "Thanks!"},
	"fields": {
		"name": {"rules": {"required": "Please tell us your name."}, "sanitize": "text"},
		"email": {"rules": {"required": "", "email": ""}},
		"phone": {"default": "none"}
	},
	"emails": {
		"owner": {"template": "owner", "to": "owner@example.com", "from": "{input.email}"}
	}
}`

const cookieSecret = "processor-test-cookie-secret-long-enough"

type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	fail bool
}

func (s *recordingSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp: connection refused")
	}
	s.sent = append(s.sent, params)
	return nil
}

func (s *recordingSender) messages() []email.SendEmailParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.SendEmailParams(nil), s.sent...)
}

type fixture struct {
	root    string
	storage file.Storage
	sender  *recordingSender
	cookies *cookie.Manager
	store   flash.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "contact", "config.json"), contactConfig)
	writeFile(t, filepath.Join(root, "contact", "templates", "owner.txt"), "{input.name} wrote from {input.phone}")

	storage, err := file.NewLocalStorage(root)
	require.NoError(t, err)
	cookies, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)

	return &fixture{
		root:    root,
		storage: storage,
		sender:  &recordingSender{},
		cookies: cookies,
		store:   flash.NewCookieStore(cookies, ""),
	}
}

func (f *fixture) processor(opts ...simpleforms.Option) *simpleforms.Processor {
	return simpleforms.New(
		forms.NewCache(f.storage, 0),
		notify.New(f.storage, f.sender),
		f.store,
		opts...,
	)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func apiPost(target string, form url.Values) *http.Request {
	req := postForm(target, form)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return req
}

// followUp builds a GET carrying the cookies set on rec.
func followUp(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

var validInput = url.Values{
	"name":  {"Ann"},
	"email": {"ann@example.com"},
}

const action = "/module/simple-forms/contact"
