// Package readability finds the main content of rendered pages using
// go-readability. It backs up the trafilatura extractor on pages where
// trafilatura finds nothing.
package readability

import (
	nurl "net/url"
	"strings"

	"github.com/fwojciec/pagekeep"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pagekeep.ContentExtractor at compile time.
var _ pagekeep.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name returns the extractor's identifier.
func (e *Extractor) Name() string {
	return "readability"
}

// ExtractContent returns the article text, excerpt and site name.
func (e *Extractor) ExtractContent(rawHTML string, pageURL string) (*pagekeep.ContentResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "empty HTML input")
	}

	var u *nurl.URL
	if parsed, err := nurl.Parse(pageURL); err == nil && parsed.Host != "" {
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	return &pagekeep.ContentResult{
		Title:       article.Title,
		Description: article.Excerpt,
		SiteName:    article.SiteName,
		Text:        article.TextContent,
	}, nil
}
