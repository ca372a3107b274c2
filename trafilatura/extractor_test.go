package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/pagekeep"
	"github.com/fwojciec/pagekeep/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements pagekeep.ContentExtractor at compile time.
var _ pagekeep.ContentExtractor = (*trafilatura.Extractor)(nil)

func TestExtractor_ExtractContent(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Blog</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the page and it is long enough to keep.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().ExtractContent(html, "https://example.com/start")

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("extracts main text without navigation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav"><ul><li><a href="/">Home</a></li><li><a href="/about">About</a></li></ul></nav>
<article>
<h1>Release notes</h1>
<p>This release contains important fixes that every user should install today.</p>
<p>The upgrade is backwards compatible and needs no configuration changes.</p>
</article>
<footer>Copyright 2024</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().ExtractContent(html, "https://example.com/releases")

		require.NoError(t, err)
		assert.Contains(t, result.Text, "important fixes")
		assert.NotContains(t, result.Text, "Copyright 2024")
	})

	t.Run("returns error for empty HTML", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().ExtractContent("   ", "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, pagekeep.EINVALID, pagekeep.ErrorCode(err))
	})
}
