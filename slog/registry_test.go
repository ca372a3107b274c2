package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/pagekeep"
	"github.com/fwojciec/pagekeep/mock"
	pkslog "github.com/fwojciec/pagekeep/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRegistry_ForURL(t *testing.T) {
	t.Parallel()

	t.Run("logs selected extractor with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		profile := &mock.Extractor{NameFn: func() string { return "profile" }}
		inner := &mock.ExtractorRegistry{
			ForURLFn: func(url string) (pagekeep.Extractor, error) {
				return profile, nil
			},
		}

		registry := pkslog.NewLoggingRegistry(inner, logger)
		ext, err := registry.ForURL("https://www.linkedin.com/in/jane/")

		require.NoError(t, err)
		assert.Same(t, profile, ext)
		output := buf.String()
		assert.Contains(t, output, "extractor selection")
		assert.Contains(t, output, "extractor=profile")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs unsupported pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ExtractorRegistry{
			ForURLFn: func(url string) (pagekeep.Extractor, error) {
				return nil, pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "no extractor for %s", url)
			},
		}

		registry := pkslog.NewLoggingRegistry(inner, logger)
		_, err := registry.ForURL("chrome://settings")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "extractor=(none)")
		assert.Contains(t, output, "err=")
	})
}

func TestLoggingRegistry_Get(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	page := &mock.Extractor{NameFn: func() string { return "page" }}
	inner := &mock.ExtractorRegistry{
		GetFn: func(name, url string) (pagekeep.Extractor, error) {
			return page, nil
		},
	}

	registry := pkslog.NewLoggingRegistry(inner, logger)
	ext, err := registry.Get("page", "https://example.com/")

	require.NoError(t, err)
	assert.Same(t, page, ext)
	assert.Contains(t, buf.String(), "requested=page")
}
