package forms_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms/pkg/forms"
	"github.com/dmitrymomot/simpleforms/pkg/sanitizer"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeForm(t, root, "contact-us", contactConfig)
	writeForm(t, root, "booking", `{"title":"Booking","fields":{"date":{}},"emails":{"e":{}}}`)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("ignored"), 0o644))

	reg, err := forms.Load(context.Background(), newStorage(t, root))
	require.NoError(t, err)
	assert.Equal(t, []string{"booking", "contact-us"}, reg.Names())
	assert.Equal(t, 2, reg.Len())

	def, err := reg.Get("contact-us")
	require.NoError(t, err)
	assert.Equal(t, "contact-us", def.Name)
	assert.Equal(t, "Contact us", def.Title)
	assert.Equal(t, map[string]any{"site": "Example"}, def.Info)
	assert.Equal(t, "Thanks!", def.SuccessMessage())

	var fieldNames []string
	for _, f := range def.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	assert.Equal(t, []string{"name", "email", "age", "message"}, fieldNames, "field declaration order is kept")

	name, ok := def.Field("name")
	require.True(t, ok)
	require.Len(t, name.Rules, 2)
	assert.Equal(t, "required", name.Rules[0].Rule)
	assert.Equal(t, "Please tell us your name.", name.Rules[0].Message)
	assert.Equal(t, "min", name.Rules[1].Name())
	assert.Equal(t, []string{"2"}, name.Rules[1].Args())
	assert.Equal(t, []string{"text"}, name.Sanitize)

	age, _ := def.Field("age")
	assert.Equal(t, "N/A", age.Default)
	assert.Equal(t, []string{"int", "trim"}, age.Sanitize)

	msg, _ := def.Field("message")
	assert.True(t, msg.TextField)

	require.Len(t, def.Emails, 2)
	assert.Equal(t, "owner", def.Emails[0].Key)
	assert.Equal(t, "{input.email}", def.Emails[0].From)
	assert.Equal(t, "receipt", def.Emails[1].Key)
	assert.Equal(t, "We got it", def.Emails[1].Subject)

	booking, err := reg.Get("booking")
	require.NoError(t, err)
	assert.Equal(t, "Email(s) sent.", booking.SuccessMessage())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, root string)
		wantErr error
		message string
	}{
		{
			name:    "no forms",
			setup:   func(t *testing.T, root string) {},
			wantErr: forms.ErrNoForms,
			message: "There are no forms to work with.",
		},
		{
			name:    "missing config",
			setup:   func(t *testing.T, root string) { writeForm(t, root, "contact", "") },
			wantErr: forms.ErrConfigMissing,
			message: "[contact] has no config.json file.",
		},
		{
			name:    "invalid json",
			setup:   func(t *testing.T, root string) { writeForm(t, root, "contact", `{"title": "x",`) },
			wantErr: forms.ErrConfigInvalid,
			message: "JSON config for [contact] appears to be invalid. Please check syntax.",
		},
		{
			name: "missing title",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "contact", `{"fields":{"a":{}},"emails":{"e":{}}}`)
			},
			wantErr: forms.ErrConfigIncomplete,
			message: "[contact] config does not meet the minimum requirements.",
		},
		{
			name: "empty fields",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "contact", `{"title":"x","fields":{},"emails":{"e":{}}}`)
			},
			wantErr: forms.ErrConfigIncomplete,
		},
		{
			name: "missing emails",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "contact", `{"title":"x","fields":{"a":{}}}`)
			},
			wantErr: forms.ErrConfigIncomplete,
		},
		{
			name: "empty emails",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "contact", `{"title":"x","fields":{"a":{}},"emails":{}}`)
			},
			wantErr: forms.ErrConfigIncomplete,
		},
		{
			name: "unknown sanitizer",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "contact", `{"title":"x","fields":{"a":{"sanitize":"shout"}},"emails":{"e":{}}}`)
			},
			wantErr: sanitizer.ErrUnknownSanitizer,
		},
		{
			name: "unknown rule",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "contact", `{"title":"x","fields":{"a":{"rules":{"shout":""}}},"emails":{"e":{}}}`)
			},
			wantErr: forms.ErrConfigIncomplete,
		},
		{
			name: "one bad form fails the load",
			setup: func(t *testing.T, root string) {
				writeForm(t, root, "good", `{"title":"x","fields":{"a":{}},"emails":{"e":{}}}`)
				writeForm(t, root, "bad", `nope`)
			},
			wantErr: forms.ErrConfigInvalid,
			message: "JSON config for [bad] appears to be invalid. Please check syntax.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			tt.setup(t, root)

			_, err := forms.Load(context.Background(), newStorage(t, root))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, forms.ErrConfiguration)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := forms.Load(context.Background(), newStorage(t, filepath.Join(t.TempDir(), "nope")))
	assert.ErrorIs(t, err, forms.ErrFormsDirMissing)
	assert.Equal(t, "[forms] directory missing...", err.Error())

	var loadErr *forms.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.NotEmpty(t, loadErr.Detail())
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeForm(t, root, "contact-us", contactConfig)
	reg, err := forms.Load(context.Background(), newStorage(t, root))
	require.NoError(t, err)

	def, err := reg.Get("contact_us")
	require.NoError(t, err, "varName form of the directory resolves")
	assert.Equal(t, "contact-us", def.Name)

	_, err = reg.Get("signup")
	assert.ErrorIs(t, err, forms.ErrFormNotDefined)
	assert.Equal(t, "[signup] has not been defined.", err.Error())

	var loadErr *forms.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "signup", loadErr.Form)
}
