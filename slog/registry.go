// Package slog decorates pagekeep services with structured logging.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagekeep"
)

// Ensure LoggingRegistry implements pagekeep.ExtractorRegistry.
var _ pagekeep.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry with logging of extractor selection.
type LoggingRegistry struct {
	next   pagekeep.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next pagekeep.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// ForURL logs the extractor chosen for url.
func (r *LoggingRegistry) ForURL(url string) (ext pagekeep.Extractor, err error) {
	defer func(begin time.Time) {
		r.logger.Info("extractor selection",
			"url", url,
			"extractor", extractorName(ext),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ForURL(url)
}

// Get logs the forced extractor lookup.
func (r *LoggingRegistry) Get(name, url string) (ext pagekeep.Extractor, err error) {
	defer func(begin time.Time) {
		r.logger.Info("extractor selection",
			"url", url,
			"requested", name,
			"extractor", extractorName(ext),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Get(name, url)
}

func extractorName(ext pagekeep.Extractor) string {
	if ext == nil {
		return "(none)"
	}
	return ext.Name()
}
