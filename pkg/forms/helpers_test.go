package forms_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms/pkg/file"
)

const contactConfig = `{
	"title": "Contact us",
	"info": {"site": "Example"},
	"messages": {"success": "Thanks!"},
	"fields": {
		"name": {
			"rules": {"required": "Please tell us your name.", "min(2)": ""},
			"sanitize": "text"
		},
		"email": {
			"rules": {"required": "", "email": "That does not look like an email."},
			"sanitize": "email"
		},
		"age": {
			"rules": {"int": ""},
			"sanitize": "int|trim",
			"default": "N/A"
		},
		"message": {
			"sanitize": "textarea",
			"textField": true
		}
	},
	"emails": {
		"owner": {"template": "owner", "to": "owner@example.com", "from": "{input.email}"},
		"receipt": {"template": "receipt", "to": "{input.email}", "from": "noreply@example.com", "subject": "We got it"}
	}
}`

func writeForm(t *testing.T, root, name, config string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if config != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(config), 0o644))
	}
}

func newStorage(t *testing.T, root string) file.Storage {
	t.Helper()
	s, err := file.NewLocalStorage(root)
	require.NoError(t, err)
	return s
}
