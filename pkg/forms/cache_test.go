package forms_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simpleforms/pkg/forms"
)

func TestCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("caches until invalidated", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeForm(t, root, "contact", contactConfig)
		c := forms.NewCache(newStorage(t, root), time.Hour)

		first, err := c.Registry(ctx)
		require.NoError(t, err)

		require.NoError(t, os.RemoveAll(filepath.Join(root, "contact")))
		second, err := c.Registry(ctx)
		require.NoError(t, err)
		assert.Same(t, first, second)

		c.Invalidate()
		_, err = c.Registry(ctx)
		assert.ErrorIs(t, err, forms.ErrNoForms)
	})

	t.Run("zero ttl reloads every time", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeForm(t, root, "contact", contactConfig)
		c := forms.NewCache(newStorage(t, root), 0)

		first, err := c.Registry(ctx)
		require.NoError(t, err)
		second, err := c.Registry(ctx)
		require.NoError(t, err)
		assert.NotSame(t, first, second)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		c := forms.NewCache(newStorage(t, root), time.Hour)

		_, err := c.Registry(ctx)
		assert.ErrorIs(t, err, forms.ErrNoForms)

		writeForm(t, root, "contact", contactConfig)
		reg, err := c.Registry(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, reg.Len())
	})
}
