package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagekeep"
)

var _ pagekeep.Extractor = (*ProfileExtractor)(nil)

var profileURLPattern = regexp.MustCompile(`^https?://([a-z0-9-]+\.)?linkedin\.com/in/[^/?#]+`)

// AboutMinLen is the length at or below which an about candidate is treated
// as a placeholder.
const AboutMinLen = 20

// DefaultProfileScroll loads the lazily rendered profile sections.
var DefaultProfileScroll = pagekeep.ScrollPolicy{Cycles: 3, Delay: time.Second}

// ProfileExtractor extracts name, headline, location and about text from
// LinkedIn profile pages. Each field tries the signed-in layout first and
// then the public profile layout.
type ProfileExtractor struct {
	FullName Field
	Headline Field
	Location Field
	About    Field

	// Now returns the scrape timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewProfileExtractor creates a ProfileExtractor with the default strategies.
func NewProfileExtractor() *ProfileExtractor {
	return &ProfileExtractor{
		FullName: Field{
			Name: "name",
			Strategies: []Strategy{
				Text("h1.text-heading-xlarge"),
				Text(".pv-text-details__left-panel h1"),
				Text(".top-card-layout__title"),
				Trimmed(Attr("meta[property='og:title']", "content"), "| LinkedIn"),
				profileTitle,
			},
		},
		Headline: Field{
			Name: "headline",
			Strategies: []Strategy{
				Text(".pv-text-details__left-panel div.text-body-medium"),
				Text("div.text-body-medium.break-words"),
				Text(".top-card-layout__headline"),
			},
		},
		Location: Field{
			Name: "location",
			Strategies: []Strategy{
				Text(".pv-text-details__left-panel span.text-body-small.inline"),
				Text("span.text-body-small.inline.t-black--light.break-words"),
				Text(".top-card__subline-item"),
				Text(".profile-info-subheader .not-first-middot span"),
			},
		},
		About: Field{
			Name:   "about",
			MinLen: AboutMinLen,
			Strategies: []Strategy{
				Text("section:has(#about) .inline-show-more-text span[aria-hidden='true']"),
				Text("#about ~ .display-flex span[aria-hidden='true']"),
				Text("section:has(#about) .pv-shared-text-with-see-more span[aria-hidden='true']"),
				Text("section.summary .core-section-container__content p"),
				Text(".pv-about__summary-text"),
			},
		},
	}
}

// profileTitle reads the name from "<title>(3) Jane Doe | LinkedIn</title>".
func profileTitle(doc *goquery.Document) (string, error) {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if i := strings.Index(title, "|"); i >= 0 {
		title = title[:i]
	}
	if strings.HasPrefix(title, "(") {
		if i := strings.Index(title, ")"); i >= 0 {
			title = title[i+1:]
		}
	}
	return title, nil
}

// Name returns the extractor's identifier.
func (e *ProfileExtractor) Name() string {
	return string(pagekeep.KindProfile)
}

// Supports reports whether url is a LinkedIn profile page.
func (e *ProfileExtractor) Supports(url string) bool {
	return profileURLPattern.MatchString(strings.ToLower(url))
}

// ScrollPolicy returns DefaultProfileScroll.
func (e *ProfileExtractor) ScrollPolicy() pagekeep.ScrollPolicy {
	return DefaultProfileScroll
}

// Extract builds a profile record from the snapshot.
func (e *ProfileExtractor) Extract(snapshot *pagekeep.Snapshot) (*pagekeep.ExtractedRecord, error) {
	doc, err := parse(snapshot)
	if err != nil {
		return nil, err
	}
	if !e.Supports(snapshot.URL) {
		return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "%s is not a LinkedIn profile page", snapshot.URL)
	}

	sourceURL, err := pagekeep.CanonicalURL(snapshot.URL, pagekeep.KindProfile)
	if err != nil {
		return nil, err
	}

	return &pagekeep.ExtractedRecord{
		SourceURL:      sourceURL,
		Kind:           pagekeep.KindProfile,
		PrimaryField:   e.FullName.Extract(doc),
		SecondaryField: e.Headline.Extract(doc),
		TertiaryField:  e.Location.Extract(doc),
		BodyText:       e.About.Extract(doc),
		ScrapedAt:      now(e.Now),
	}, nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn().UTC()
	}
	return time.Now().UTC()
}
