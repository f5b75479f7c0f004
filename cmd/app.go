// Package cmd — application wiring shared by the commands.
package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/filmdex/config"
	"github.com/gaurav-prasanna/filmdex/core/archive"
	"github.com/gaurav-prasanna/filmdex/core/extract"
	"github.com/gaurav-prasanna/filmdex/core/fetch"
	"github.com/gaurav-prasanna/filmdex/crawl"
	"github.com/gaurav-prasanna/filmdex/pipeline"
	"github.com/gaurav-prasanna/filmdex/store"
)

// app bundles the wired components a command works with.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	pipeline *pipeline.Pipeline
}

// buildApp wires the store, fetcher, crawler, and pipeline from
// config. Close must be called when the command is done.
func buildApp(refresh, archiveEnabled bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	fetcher := fetch.New(fetch.Options{
		Timeout:           cfg.Fetch.Timeout(),
		MaxAttempts:       cfg.Fetch.MaxAttempts,
		RetryWait:         cfg.Fetch.RetryWait(),
		RetryMaxWait:      cfg.Fetch.RetryMaxWait(),
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
		UserAgent:         cfg.Fetch.UserAgent,
	}, log)

	crawler := crawl.New(fetcher, crawl.Options{
		IndexURL:   cfg.Catalog.IndexURL,
		LinkMarker: cfg.Catalog.LinkMarker,
		LinkScope:  cfg.Catalog.LinkScope,
		MaxPages:   cfg.Catalog.MaxPages,
	}, log)

	var archiver pipeline.Archiver
	if archiveEnabled || cfg.Archive.Enabled {
		a, err := archive.New(cfg.Archive.Dir, log)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("initializing archive: %w", err)
		}
		archiver = a
	}

	pipe := pipeline.New(fetcher, crawler, extract.NewAssembler(log), st, archiver, pipeline.Options{
		DetailBaseURL: cfg.Catalog.DetailBaseURL,
		Partitions:    cfg.Catalog.Partitions,
		Concurrency:   cfg.Pipeline.Concurrency,
		Refresh:       refresh,
	}, log)

	return &app{cfg: cfg, log: log, store: st, pipeline: pipe}, nil
}

// Close releases the store and flushes buffered log entries.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}
