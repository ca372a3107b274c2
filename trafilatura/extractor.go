// Package trafilatura finds the main content of rendered pages using
// go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/pagekeep"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements pagekeep.ContentExtractor at compile time.
var _ pagekeep.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. It is the preferred source of page body
// text because it strips navigation, footers and comment threads.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name returns the extractor's identifier.
func (e *Extractor) Name() string {
	return "trafilatura"
}

// ExtractContent returns the main text and page metadata.
func (e *Extractor) ExtractContent(rawHTML string, pageURL string) (*pagekeep.ContentResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &pagekeep.ContentResult{
		Title:       result.Metadata.Title,
		Description: result.Metadata.Description,
		SiteName:    result.Metadata.Sitename,
		Text:        result.ContentText,
	}, nil
}
