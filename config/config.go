// Package config provides configuration management for the filmdex
// crawler. A YAML file overlays the stock Box Office Mojo defaults,
// so an empty file is a valid configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingIndexURL     = errors.New("catalog.index_url is required")
	ErrMissingPlaceholders = errors.New("catalog.index_url must contain {partition} and {page}")
	ErrMissingDetailBase   = errors.New("catalog.detail_base_url is required")
	ErrMissingLinkMarker   = errors.New("catalog.link_marker is required")
	ErrNoPartitions        = errors.New("catalog.partitions must name at least one partition")
	ErrInvalidMaxPages     = errors.New("catalog.max_pages must be at least 1")
	ErrInvalidTimeout      = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidMaxAttempts  = errors.New("fetch.max_attempts must be at least 1")
	ErrInvalidRate         = errors.New("fetch.requests_per_second must be positive")
	ErrInvalidConcurrency  = errors.New("pipeline.concurrency must be at least 1")
	ErrMissingStorePath    = errors.New("store.path is required")
	ErrMissingArchiveDir   = errors.New("archive.dir is required when archive is enabled")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete filmdex configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Store    StoreConfig    `yaml:"store"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CatalogConfig describes the index being crawled.
type CatalogConfig struct {
	// IndexURL is the index page template with {partition} and {page}
	// placeholders.
	IndexURL string `yaml:"index_url"`
	// DetailBaseURL is prepended to stored detail URLs when fetching.
	DetailBaseURL string `yaml:"detail_base_url"`
	// LinkMarker is the substring identifying detail links on index
	// pages.
	LinkMarker string `yaml:"link_marker"`
	// LinkScope optionally restricts link scanning to a CSS selector.
	LinkScope string `yaml:"link_scope"`
	// Partitions are the index partition keys to walk.
	Partitions []string `yaml:"partitions"`
	// MaxPages caps how many pages a single partition may yield.
	MaxPages int `yaml:"max_pages"`
}

// FetchConfig controls the HTTP client.
type FetchConfig struct {
	TimeoutSec        int     `yaml:"timeout_sec"`
	MaxAttempts       int     `yaml:"max_attempts"`
	RetryWaitMs       int     `yaml:"retry_wait_ms"`
	RetryMaxWaitMs    int     `yaml:"retry_max_wait_ms"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	UserAgent         string  `yaml:"user_agent"`
}

// PipelineConfig controls the scrape phase.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// StoreConfig locates the checkpoint database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ArchiveConfig controls Markdown page snapshots.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the stock Box Office Mojo configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			IndexURL:      "http://www.boxofficemojo.com/movies/alphabetical.htm?letter={partition}&page={page}",
			DetailBaseURL: "http://www.boxofficemojo.com",
			LinkMarker:    "movies/?id",
			Partitions:    DefaultPartitions(),
			MaxPages:      200,
		},
		Fetch: FetchConfig{
			TimeoutSec:        30,
			MaxAttempts:       3,
			RetryWaitMs:       1000,
			RetryMaxWaitMs:    8000,
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Pipeline: PipelineConfig{Concurrency: 4},
		Store:    StoreConfig{Path: "filmdex.db"},
		Archive:  ArchiveConfig{Dir: "archive"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// DefaultPartitions lists the stock index partitions: NUM for titles
// starting with a digit, then A through Z.
func DefaultPartitions() []string {
	parts := []string{"NUM"}
	for ch := 'A'; ch <= 'Z'; ch++ {
		parts = append(parts, string(ch))
	}
	return parts
}

// Load reads a YAML file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Catalog.IndexURL == "" {
		return ErrMissingIndexURL
	}
	if !strings.Contains(c.Catalog.IndexURL, "{partition}") ||
		!strings.Contains(c.Catalog.IndexURL, "{page}") {
		return ErrMissingPlaceholders
	}
	if c.Catalog.DetailBaseURL == "" {
		return ErrMissingDetailBase
	}
	if c.Catalog.LinkMarker == "" {
		return ErrMissingLinkMarker
	}
	if len(c.Catalog.Partitions) == 0 {
		return ErrNoPartitions
	}
	if c.Catalog.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.Fetch.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		return ErrInvalidRate
	}

	if c.Pipeline.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Store.Path == "" {
		return ErrMissingStorePath
	}
	if c.Archive.Enabled && c.Archive.Dir == "" {
		return ErrMissingArchiveDir
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}
	return nil
}

// Timeout returns the per-request timeout.
func (f *FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// RetryWait returns the base retry backoff.
func (f *FetchConfig) RetryWait() time.Duration {
	return time.Duration(f.RetryWaitMs) * time.Millisecond
}

// RetryMaxWait returns the retry backoff ceiling.
func (f *FetchConfig) RetryMaxWait() time.Duration {
	return time.Duration(f.RetryMaxWaitMs) * time.Millisecond
}
