package goquery

import (
	"strings"

	"github.com/fwojciec/pagekeep"
)

var _ pagekeep.ExtractorRegistry = (*Registry)(nil)

// Registry selects extractors by page URL. Extractors are consulted in
// registration order, so more specific extractors must be registered first.
type Registry struct {
	extractors []pagekeep.Extractor
}

// NewRegistry creates a Registry holding extractors in priority order.
func NewRegistry(extractors ...pagekeep.Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// NewDefaultRegistry registers the profile extractor ahead of the generic
// page extractor.
func NewDefaultRegistry(content ...pagekeep.ContentExtractor) *Registry {
	return NewRegistry(NewProfileExtractor(), NewPageExtractor(content...))
}

// ForURL returns the first extractor supporting url.
func (r *Registry) ForURL(url string) (pagekeep.Extractor, error) {
	for _, e := range r.extractors {
		if e.Supports(url) {
			return e, nil
		}
	}
	return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "no extractor supports %q", url)
}

// Get returns the named extractor if it supports url.
func (r *Registry) Get(name, url string) (pagekeep.Extractor, error) {
	for _, e := range r.extractors {
		if e.Name() != name {
			continue
		}
		if !e.Supports(url) {
			return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "%s extractor does not support %q", name, url)
		}
		return e, nil
	}
	return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "unknown extractor %q (available: %s)", name, strings.Join(r.List(), ", "))
}

// List returns the registered extractor names in priority order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		names = append(names, e.Name())
	}
	return names
}
