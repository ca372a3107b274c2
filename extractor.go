package pagekeep

// Extractor turns a page snapshot into a record. Extract runs without
// network access and reports missing elements as nil fields.
type Extractor interface {
	// Name returns the extractor's identifier (e.g., "profile", "page").
	Name() string

	// Supports reports whether the extractor handles pages at url.
	Supports(url string) bool

	// ScrollPolicy returns the scrolling the page needs before capture.
	ScrollPolicy() ScrollPolicy

	// Extract builds a record from the snapshot.
	Extract(snapshot *Snapshot) (*ExtractedRecord, error)
}

// ExtractorRegistry selects extractors by page URL.
type ExtractorRegistry interface {
	// ForURL returns the first registered extractor supporting url.
	// Returns ENOTSUPPORTED if none does.
	ForURL(url string) (Extractor, error)

	// Get returns the named extractor if it supports url.
	// Returns ENOTSUPPORTED if the name is unknown or the page does not match.
	Get(name, url string) (Extractor, error)
}

// ContentResult holds main-content data found by a ContentExtractor.
type ContentResult struct {
	Title       string
	Description string
	SiteName    string
	Text        string
}

// ContentExtractor finds the main content of an HTML page, removing
// navigation, footers and other boilerplate.
type ContentExtractor interface {
	// Name returns the extractor's identifier.
	Name() string

	// ExtractContent processes rendered HTML fetched from pageURL.
	ExtractContent(html string, pageURL string) (*ContentResult, error)
}
