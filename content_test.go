package pagefetch_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/pagefetch"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces and tabs", "a  \t b", "a b"},
		{"collapses non-breaking spaces", "a\u00a0\u00a0b", "a b"},
		{"collapses ideographic spaces", "日本\u3000\u3000語", "日本 語"},
		{"collapses em spaces", "a\u2003b", "a b"},
		{"drops spaces around newlines", "a \n b", "a\nb"},
		{"keeps paragraph breaks", "a\n\nb", "a\n\nb"},
		{"collapses many newlines", "a\n\n\n\n\nb", "a\n\nb"},
		{"collapses blank lines with whitespace", "a\n \n \n \nb", "a\n\nb"},
		{"trims", "  \n a \n  ", "a"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagefetch.Sanitize(tt.in))
		})
	}
}

func TestIsValidContent(t *testing.T) {
	t.Parallel()

	t.Run("rejects 99 characters", func(t *testing.T) {
		t.Parallel()
		assert.False(t, pagefetch.IsValidContent(strings.Repeat("a", 99)))
	})

	t.Run("accepts 100 characters", func(t *testing.T) {
		t.Parallel()
		assert.True(t, pagefetch.IsValidContent(strings.Repeat("a", 100)))
	})

	t.Run("rejects long text with an error fingerprint", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("a", 490) + " 404 Error"
		assert.Len(t, text, 500)
		assert.False(t, pagefetch.IsValidContent(text))
	})

	t.Run("rejects punctuation-only text", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("-", 80) + strings.Repeat("a", 49)
		assert.False(t, pagefetch.IsValidContent(text))
	})

	t.Run("counts CJK characters as meaningful", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("中文", 30) + strings.Repeat("。", 50)
		assert.True(t, pagefetch.IsValidContent(text))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		// 60 runes but 180 bytes.
		assert.False(t, pagefetch.IsValidContent(strings.Repeat("中", 60)))
	})

	for _, fp := range pagefetch.ErrorPageFingerprints {
		t.Run("rejects "+fp, func(t *testing.T) {
			t.Parallel()
			text := strings.Repeat("word ", 30) + strings.ToUpper(fp)
			assert.False(t, pagefetch.IsValidContent(text))
		})
	}
}

func TestIsHTMLContentType(t *testing.T) {
	t.Parallel()

	assert.True(t, pagefetch.IsHTMLContentType("text/html"))
	assert.True(t, pagefetch.IsHTMLContentType("Text/HTML; charset=UTF-8"))
	assert.False(t, pagefetch.IsHTMLContentType("application/json"))
	assert.False(t, pagefetch.IsHTMLContentType("application/xhtml+xml"))
}
