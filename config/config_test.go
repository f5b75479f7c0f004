package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultPartitions(t *testing.T) {
	parts := DefaultPartitions()
	require.Len(t, parts, 27)
	require.Equal(t, "NUM", parts[0])
	require.Equal(t, "A", parts[1])
	require.Equal(t, "Z", parts[26])
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filmdex.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  partitions: ["A", "B"]
fetch:
  max_attempts: 5
pipeline:
  concurrency: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden values.
	require.Equal(t, []string{"A", "B"}, cfg.Catalog.Partitions)
	require.Equal(t, 5, cfg.Fetch.MaxAttempts)
	require.Equal(t, 8, cfg.Pipeline.Concurrency)

	// Untouched defaults survive the overlay.
	require.Equal(t, 200, cfg.Catalog.MaxPages)
	require.Equal(t, "movies/?id", cfg.Catalog.LinkMarker)
	require.Equal(t, "filmdex.db", cfg.Store.Path)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
catalog:
  max_pages: 0
`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidMaxPages)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing index url", func(c *Config) { c.Catalog.IndexURL = "" }, ErrMissingIndexURL},
		{"missing placeholders", func(c *Config) { c.Catalog.IndexURL = "http://example.com/index.htm" }, ErrMissingPlaceholders},
		{"missing detail base", func(c *Config) { c.Catalog.DetailBaseURL = "" }, ErrMissingDetailBase},
		{"missing link marker", func(c *Config) { c.Catalog.LinkMarker = "" }, ErrMissingLinkMarker},
		{"no partitions", func(c *Config) { c.Catalog.Partitions = nil }, ErrNoPartitions},
		{"bad max pages", func(c *Config) { c.Catalog.MaxPages = 0 }, ErrInvalidMaxPages},
		{"bad timeout", func(c *Config) { c.Fetch.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"bad attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"bad rate", func(c *Config) { c.Fetch.RequestsPerSecond = 0 }, ErrInvalidRate},
		{"bad concurrency", func(c *Config) { c.Pipeline.Concurrency = 0 }, ErrInvalidConcurrency},
		{"missing store path", func(c *Config) { c.Store.Path = "" }, ErrMissingStorePath},
		{"archive enabled without dir", func(c *Config) { c.Archive.Enabled = true; c.Archive.Dir = "" }, ErrMissingArchiveDir},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestFetchDurations(t *testing.T) {
	f := Default().Fetch
	require.Equal(t, 30*time.Second, f.Timeout())
	require.Equal(t, time.Second, f.RetryWait())
	require.Equal(t, 8*time.Second, f.RetryMaxWait())
}
