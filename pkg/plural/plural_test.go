package plural_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/simpleforms/pkg/plural"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	const msg = "{count} {field needs|fields need} attention. Please check, and try again."

	tests := []struct {
		name    string
		message string
		count   int
		want    string
	}{
		{"singular", msg, 1, "1 field needs attention. Please check, and try again."},
		{"plural", msg, 2, "2 fields need attention. Please check, and try again."},
		{"zero is plural in english", msg, 0, "0 fields need attention. Please check, and try again."},
		{"words", "{words} {error|errors}", 3, "three errors"},
		{"words beyond table", "{words}", 42, "42"},
		{"several choices", "{This field|These fields} {is|are} invalid", 1, "This field is invalid"},
		{"empty branch", "{count} item{|s}", 5, "5 items"},
		{"plain message", "Invalid input. Please check, and try again.", 3, "Invalid input. Please check, and try again."},
		{"unrelated braces", "{name} {count}", 2, "{name} 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, plural.Format(tt.message, tt.count))
		})
	}
}

func TestFormatter_Language(t *testing.T) {
	t.Parallel()

	fr := plural.New(language.French)
	assert.False(t, fr.IsPlural(0), "french treats zero as singular")
	assert.True(t, fr.IsPlural(2))
	assert.True(t, plural.IsPlural(0))
	assert.False(t, plural.IsPlural(1))
}

func TestNeedsFormatting(t *testing.T) {
	t.Parallel()
	assert.True(t, plural.NeedsFormatting("{count} errors"))
	assert.True(t, plural.NeedsFormatting("{error|errors}"))
	assert.False(t, plural.NeedsFormatting("2 errors"))
	assert.False(t, plural.NeedsFormatting("{name}"))
}
