package mock

import "github.com/fwojciec/pagekeep"

var (
	_ pagekeep.Extractor         = (*Extractor)(nil)
	_ pagekeep.ExtractorRegistry = (*ExtractorRegistry)(nil)
	_ pagekeep.ContentExtractor  = (*ContentExtractor)(nil)
)

// Extractor is a mock implementation of pagekeep.Extractor.
type Extractor struct {
	NameFn         func() string
	SupportsFn     func(url string) bool
	ScrollPolicyFn func() pagekeep.ScrollPolicy
	ExtractFn      func(snapshot *pagekeep.Snapshot) (*pagekeep.ExtractedRecord, error)
}

func (e *Extractor) Name() string {
	return e.NameFn()
}

func (e *Extractor) Supports(url string) bool {
	return e.SupportsFn(url)
}

func (e *Extractor) ScrollPolicy() pagekeep.ScrollPolicy {
	return e.ScrollPolicyFn()
}

func (e *Extractor) Extract(snapshot *pagekeep.Snapshot) (*pagekeep.ExtractedRecord, error) {
	return e.ExtractFn(snapshot)
}

// ExtractorRegistry is a mock implementation of pagekeep.ExtractorRegistry.
type ExtractorRegistry struct {
	ForURLFn func(url string) (pagekeep.Extractor, error)
	GetFn    func(name, url string) (pagekeep.Extractor, error)
}

func (r *ExtractorRegistry) ForURL(url string) (pagekeep.Extractor, error) {
	return r.ForURLFn(url)
}

func (r *ExtractorRegistry) Get(name, url string) (pagekeep.Extractor, error) {
	return r.GetFn(name, url)
}

// ContentExtractor is a mock implementation of pagekeep.ContentExtractor.
type ContentExtractor struct {
	NameFn           func() string
	ExtractContentFn func(html string, pageURL string) (*pagekeep.ContentResult, error)
}

func (e *ContentExtractor) Name() string {
	return e.NameFn()
}

func (e *ContentExtractor) ExtractContent(html string, pageURL string) (*pagekeep.ContentResult, error) {
	return e.ExtractContentFn(html, pageURL)
}
