package goquery

import (
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagekeep"
)

var _ pagekeep.Extractor = (*PageExtractor)(nil)

// BodyMinLen is the length at or below which a body candidate is rejected.
const BodyMinLen = 20

// PageExtractor extracts title, description, site name, main text and
// element counts from any http(s) page. Main text comes from the content
// extractors in order, then from paragraph text.
type PageExtractor struct {
	Content []pagekeep.ContentExtractor

	// Now returns the scrape timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewPageExtractor creates a PageExtractor backed by the given content
// extractors, tried in order.
func NewPageExtractor(content ...pagekeep.ContentExtractor) *PageExtractor {
	return &PageExtractor{Content: content}
}

// Name returns the extractor's identifier.
func (e *PageExtractor) Name() string {
	return string(pagekeep.KindPage)
}

// Supports reports whether url is an absolute http or https URL.
func (e *PageExtractor) Supports(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ScrollPolicy returns a zero policy; pages are read as rendered.
func (e *PageExtractor) ScrollPolicy() pagekeep.ScrollPolicy {
	return pagekeep.ScrollPolicy{}
}

// Extract builds a page record from the snapshot.
func (e *PageExtractor) Extract(snapshot *pagekeep.Snapshot) (*pagekeep.ExtractedRecord, error) {
	doc, err := parse(snapshot)
	if err != nil {
		return nil, err
	}
	if !e.Supports(snapshot.URL) {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "%s is not an http(s) page", snapshot.URL)
	}

	sourceURL, err := pagekeep.CanonicalURL(snapshot.URL, pagekeep.KindPage)
	if err != nil {
		return nil, err
	}

	content := make([]contentResultStrategy, 0, len(e.Content))
	for _, ce := range e.Content {
		content = append(content, contentStrategy(ce, snapshot))
	}

	title := Field{Name: "title", Strategies: []Strategy{
		Attr("meta[property='og:title']", "content"),
		Text("head title"),
		Text("h1"),
		constant(snapshot.Title),
	}}
	title.Strategies = append(title.Strategies, pick(content, func(r *pagekeep.ContentResult) string { return r.Title })...)

	description := Field{Name: "description", Strategies: []Strategy{
		Attr("meta[name='description']", "content"),
		Attr("meta[property='og:description']", "content"),
	}}
	description.Strategies = append(description.Strategies, pick(content, func(r *pagekeep.ContentResult) string { return r.Description })...)

	site := Field{Name: "site", Strategies: []Strategy{
		Attr("meta[property='og:site_name']", "content"),
	}}
	site.Strategies = append(site.Strategies, pick(content, func(r *pagekeep.ContentResult) string { return r.SiteName })...)
	site.Strategies = append(site.Strategies, hostOf(sourceURL))

	body := Field{Name: "body", MinLen: BodyMinLen}
	body.Strategies = append(body.Strategies, pick(content, func(r *pagekeep.ContentResult) string { return r.Text })...)
	body.Strategies = append(body.Strategies, JoinedText("article p, main p"), JoinedText("p"))

	return &pagekeep.ExtractedRecord{
		SourceURL:      sourceURL,
		Kind:           pagekeep.KindPage,
		PrimaryField:   title.Extract(doc),
		SecondaryField: description.Extract(doc),
		TertiaryField:  site.Extract(doc),
		BodyText:       body.Extract(doc),
		Stats:          Stats(doc),
		ScrapedAt:      now(e.Now),
	}, nil
}

// Stats counts headings, images and paragraphs in doc.
func Stats(doc *goquery.Document) *pagekeep.PageStats {
	return &pagekeep.PageStats{
		Headings:   doc.Find("h1, h2, h3, h4, h5, h6").Length(),
		Images:     doc.Find("img").Length(),
		Paragraphs: doc.Find("p").Length(),
	}
}

// contentResultStrategy yields a content extractor's result for one snapshot.
type contentResultStrategy func() (*pagekeep.ContentResult, error)

// contentStrategy runs ce at most once for the snapshot.
func contentStrategy(ce pagekeep.ContentExtractor, snapshot *pagekeep.Snapshot) contentResultStrategy {
	var (
		done   bool
		result *pagekeep.ContentResult
		err    error
	)
	return func() (*pagekeep.ContentResult, error) {
		if !done {
			done = true
			result, err = ce.ExtractContent(snapshot.HTML, snapshot.URL)
		}
		return result, err
	}
}

// pick turns each content extractor into a strategy returning one result field.
func pick(content []contentResultStrategy, field func(*pagekeep.ContentResult) string) []Strategy {
	strategies := make([]Strategy, 0, len(content))
	for _, c := range content {
		strategies = append(strategies, func(*goquery.Document) (string, error) {
			r, err := c()
			if err != nil {
				return "", err
			}
			if r == nil {
				return "", nil
			}
			return field(r), nil
		})
	}
	return strategies
}

func constant(s string) Strategy {
	return func(*goquery.Document) (string, error) {
		return s, nil
	}
}

func hostOf(rawURL string) Strategy {
	return func(*goquery.Document) (string, error) {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", err
		}
		return u.Hostname(), nil
	}
}
