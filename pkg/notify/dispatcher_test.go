package notify_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms/pkg/email"
	"github.com/dmitrymomot/simpleforms/pkg/file"
	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/notify"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockEmailSender) sent() []email.SendEmailParams {
	var out []email.SendEmailParams
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(1).(email.SendEmailParams))
	}
	return out
}

const config = `{
	"title": "Contact us",
	"info": {"site": "Example"},
	"fields": {
		"name": {"rules": {"required": ""}},
		"email": {"rules": {"email": ""}},
		"message": {"textField": true}
	},
	"emails": {
		"owner": {
			"template": "owner",
			"to": "owner@example.com",
			"from": "{input.name} <{input.email}>",
			"replyTo": "{input.email}",
			"tag": "contact"
		},
		"receipt": {
			"template": "receipt",
			"to": "{input.email}",
			"from": "noreply@example.com",
			"subject": "Thanks {input.name}"
		}
	}
}`

func setup(t *testing.T, cfg string, files map[string]string) (file.Storage, *forms.Definition) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, "contact", "templates", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	storage, err := file.NewLocalStorage(root)
	require.NoError(t, err)
	def, err := forms.Parse("contact", []byte(cfg), nil, nil)
	require.NoError(t, err)
	return storage, def
}

var values = map[string]string{
	"name":    "Ann & Co",
	"email":   "ann@example.com",
	"message": "line1\nline2",
}

func TestDispatch_Success(t *testing.T) {
	t.Parallel()
	storage, def := setup(t, config, map[string]string{
		"owner.txt":   "{title} from {input.name}:\n{input.message}\n{info.site}",
		"owner.html":  "{stylesheets.main}<h1>{subject}</h1><p>{input.name}</p><p>{input.message}</p><pre>{input.message.plain}</pre>",
		"main.css":    "/* base */\nbody {\n  color: red;\n}\n",
		"receipt.txt": "Hi {input.name}, we got: {input.message}",
	})

	sender := &MockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	sent, err := notify.New(storage, sender).Dispatch(context.Background(), def, values)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner", "receipt"}, sent)

	msgs := sender.sent()
	require.Len(t, msgs, 2)

	owner := msgs[0]
	assert.Equal(t, "owner@example.com", owner.SendTo)
	assert.Equal(t, "Ann & Co <ann@example.com>", owner.From)
	assert.Equal(t, "ann@example.com", owner.ReplyTo)
	assert.Equal(t, "contact", owner.Subject, "subject defaults to the form name")
	assert.Equal(t, "contact", owner.Tag)
	assert.Equal(t, "Contact us from Ann & Co:\nline1\nline2\nExample", owner.BodyText)
	assert.Equal(t,
		"<style>body{color:red}</style><h1>contact</h1><p>Ann &amp; Co</p><p>line1<br>line2</p><pre>line1\nline2</pre>",
		owner.BodyHTML)

	receipt := msgs[1]
	assert.Equal(t, "ann@example.com", receipt.SendTo)
	assert.Equal(t, "Thanks Ann & Co", receipt.Subject)
	assert.Equal(t, "Hi Ann & Co, we got: line1\nline2", receipt.BodyText)
	assert.Empty(t, receipt.BodyHTML, "html template is optional")
}

func TestDispatch_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   string
		wantErr error
		message string
	}{
		{"missing template", `{"to":"a@example.com","from":"b@example.com"}`, notify.ErrMissingTemplate, "[only] needs a template."},
		{"missing plain template", `{"template":"nope","to":"a@example.com","from":"b@example.com"}`, notify.ErrMissingPlainTemplate, "Plain template for [only] does not exist, but is required."},
		{"template outside the form", `{"template":"../../etc","to":"a@example.com","from":"b@example.com"}`, notify.ErrMissingPlainTemplate, "Plain template for [only] does not exist, but is required."},
		{"missing to", `{"template":"t","from":"b@example.com"}`, notify.ErrMissingTo, "'to' not set for [only]."},
		{"missing from", `{"template":"t","to":"a@example.com"}`, notify.ErrMissingFrom, "'from' not set for [only]."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := `{"title":"x","fields":{"name":{}},"emails":{"only":` + tt.email + `}}`
			storage, def := setup(t, cfg, map[string]string{"t.txt": "hi"})
			sender := &MockEmailSender{}

			sent, err := notify.New(storage, sender).Dispatch(context.Background(), def, values)
			require.Error(t, err)
			assert.Empty(t, sent)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, forms.ErrConfiguration)
			assert.NotErrorIs(t, err, notify.ErrDelivery)
			assert.Equal(t, tt.message, err.Error())
			sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatch_StopsAtSecondEmail(t *testing.T) {
	t.Parallel()
	storage, def := setup(t, config, map[string]string{"owner.txt": "hi"})

	sender := &MockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	sent, err := notify.New(storage, sender).Dispatch(context.Background(), def, values)
	assert.Equal(t, []string{"owner"}, sent)
	assert.ErrorIs(t, err, notify.ErrMissingPlainTemplate)

	var de *notify.DispatchError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "receipt", de.Key)
	sender.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestDispatch_DeliveryFailure(t *testing.T) {
	t.Parallel()
	storage, def := setup(t, config, map[string]string{"owner.txt": "hi", "receipt.txt": "hi"})

	boom := errors.New("smtp down")
	sender := &MockEmailSender{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(boom).Once()

	sent, err := notify.New(storage, sender).Dispatch(context.Background(), def, values)
	assert.Empty(t, sent)
	assert.ErrorIs(t, err, notify.ErrDelivery)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, forms.ErrConfiguration)
	assert.Equal(t, "Could not send [owner].", err.Error())
	sender.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestMinifyCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comments", "/* a */p{color:red}/* multi\nline */", "p{color:red}"},
		{"line comments", "p { color: red; } // trailing\na { margin: 0 }", "p{color:red}a{margin:0 }"},
		{"whitespace", "h1,\n\th2 {\r\n  font-weight: bold;\n}", "h1,h2{font-weight:bold}"},
		{"semicolon before brace", "p {color: red;} ", "p{color:red}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notify.MinifyCSS(tt.in))
		})
	}
	assert.Equal(t, "<style>p{}</style>", notify.StyleBlock("p { }"))
}
