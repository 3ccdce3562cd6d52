package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms/pkg/email"
)

func filesBySuffix(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string)
	for _, e := range entries {
		out[filepath.Ext(e.Name())] = filepath.Join(dir, e.Name())
	}
	return out
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes text html and metadata", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := validParams()
		p.Tag = "Contact Form"
		p.CC = "cc@example.com"

		require.NoError(t, email.NewDevSender(dir).SendEmail(ctx, p))

		files := filesBySuffix(t, dir)
		require.Len(t, files, 3)
		assert.True(t, strings.HasSuffix(files[".json"], "_contact_form.json"))

		text, err := os.ReadFile(files[".txt"])
		require.NoError(t, err)
		assert.Equal(t, "Hello", string(text))

		html, err := os.ReadFile(files[".html"])
		require.NoError(t, err)
		assert.Equal(t, "<p>Hello</p>", string(html))

		raw, err := os.ReadFile(files[".json"])
		require.NoError(t, err)
		var meta map[string]any
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, "owner@example.com", meta["send_to"])
		assert.Equal(t, "Site <noreply@example.com>", meta["from"])
		assert.Equal(t, "cc@example.com", meta["cc"])
		assert.Equal(t, "New submission", meta["subject"])
		assert.NotEmpty(t, meta["timestamp"])
	})

	t.Run("no html file without html body", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := validParams()
		p.BodyHTML = ""

		require.NoError(t, email.NewDevSender(dir).SendEmail(ctx, p))
		files := filesBySuffix(t, dir)
		assert.Len(t, files, 2)
		assert.NotContains(t, files, ".html")
		assert.True(t, strings.HasSuffix(files[".txt"], "_new_submission.txt"), "subject is used without a tag")
	})

	t.Run("repeated sends do not overwrite", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sender := email.NewDevSender(dir)
		require.NoError(t, sender.SendEmail(ctx, validParams()))
		require.NoError(t, sender.SendEmail(ctx, validParams()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 6)
	})

	t.Run("validation error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := validParams()
		p.SendTo = ""
		err := email.NewDevSender(dir).SendEmail(ctx, p)
		assert.ErrorIs(t, err, email.ErrInvalidParams)

		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		t.Parallel()
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		err := email.NewDevSender(filepath.Join(blocker, "emails")).SendEmail(ctx, validParams())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})
}
