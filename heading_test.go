package pagefetch_test

import (
	"testing"

	"github.com/fwojciec/pagefetch"
	"github.com/stretchr/testify/assert"
)

func TestMarkdownHeadings(t *testing.T) {
	t.Parallel()

	t.Run("extracts H1 through H6 in order", func(t *testing.T) {
		t.Parallel()

		markdown := "# H1\n## H2\n### H3\n#### H4\n##### H5\n###### H6\n####### not a heading"

		assert.Equal(t, []string{"H1", "H2", "H3", "H4", "H5", "H6"}, pagefetch.MarkdownHeadings(markdown))
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"Usage", "Usage"}, pagefetch.MarkdownHeadings("# Usage\ntext\n# Usage"))
	})

	t.Run("strips closing hashes but keeps trailing hash in words", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"Two", "C#"}, pagefetch.MarkdownHeadings("## Two ##\n### C#"))
	})

	t.Run("ignores headings in code blocks", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real\n```bash\n# comment\n```\n~~~\n## also code\n~~~\n## After"

		assert.Equal(t, []string{"Real", "After"}, pagefetch.MarkdownHeadings(markdown))
	})

	t.Run("requires a space after the hashes", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, pagefetch.MarkdownHeadings("#hashtag\n#"))
	})
}
