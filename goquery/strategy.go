// Package goquery implements pagekeep extractors on top of goquery
// documents parsed from page snapshots.
package goquery

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagekeep"
)

// Strategy locates one candidate value for a field. It returns an empty
// string when nothing matches. Strategies must not keep mutable state, so
// their order can change freely.
type Strategy func(doc *goquery.Document) (string, error)

// Field is an ordered list of strategies for one record field.
type Field struct {
	Name string

	// MinLen rejects candidates whose normalized length is MinLen runes or
	// fewer. Zero accepts any non-empty candidate.
	MinLen int

	Strategies []Strategy
}

// Extract returns the field value found in doc, or nil.
func (f Field) Extract(doc *goquery.Document) *string {
	return FirstAcceptable(doc, f.MinLen, f.Strategies...)
}

// FirstAcceptable evaluates strategies left to right and returns the first
// normalized candidate longer than minLen runes. A strategy that fails or
// panics is skipped. Returns nil when no strategy produces a candidate.
func FirstAcceptable(doc *goquery.Document, minLen int, strategies ...Strategy) *string {
	for _, strategy := range strategies {
		candidate, err := run(strategy, doc)
		if err != nil {
			continue
		}
		v := pagekeep.NormalizeString(candidate)
		if v == nil || utf8.RuneCountInString(*v) <= minLen {
			continue
		}
		return v
	}
	return nil
}

// run calls strategy, converting a panic into an error.
func run(strategy Strategy, doc *goquery.Document) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()
	return strategy(doc)
}

// Text returns the text of the first element matching selector.
func Text(selector string) Strategy {
	return func(doc *goquery.Document) (string, error) {
		return doc.Find(selector).First().Text(), nil
	}
}

// JoinedText returns the text of every element matching selector, joined
// by spaces.
func JoinedText(selector string) Strategy {
	return func(doc *goquery.Document) (string, error) {
		var parts []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, s.Text())
		})
		return strings.Join(parts, " "), nil
	}
}

// Attr returns attribute attr of the first element matching selector.
func Attr(selector, attr string) Strategy {
	return func(doc *goquery.Document) (string, error) {
		v, _ := doc.Find(selector).First().Attr(attr)
		return v, nil
	}
}

// Trimmed wraps a strategy and removes suffix from its result.
func Trimmed(strategy Strategy, suffix string) Strategy {
	return func(doc *goquery.Document) (string, error) {
		s, err := strategy(doc)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(strings.TrimSpace(s), suffix), nil
	}
}

// parse builds a document from a snapshot.
func parse(snapshot *pagekeep.Snapshot) (*goquery.Document, error) {
	if snapshot == nil {
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "snapshot required")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot.HTML))
	if err != nil {
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
