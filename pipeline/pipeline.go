// Package pipeline orchestrates the two run phases: index discovery
// and detail scraping. Every discovered URL ends up with exactly one
// result in the store, a Record or a FailureEntry; per-URL failures
// never abort the run. Both phases resume from the checkpoint store,
// so an interrupted run picks up where it stopped.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/filmdex/core"
	"github.com/gaurav-prasanna/filmdex/core/extract"
	"github.com/gaurav-prasanna/filmdex/crawl"
)

const defaultConcurrency = 4

// Archiver stores a snapshot of a fetched page.
type Archiver interface {
	Snapshot(url string, body []byte) error
}

// Options configure a run.
type Options struct {
	// DetailBaseURL is prepended to stored detail URLs when fetching.
	DetailBaseURL string
	// Partitions are the index partition keys to discover.
	Partitions []string
	// Concurrency bounds the scrape worker pool.
	Concurrency int
	// Refresh forces rediscovery even when a URL set is stored.
	Refresh bool
}

// Pipeline wires the crawler, fetcher, assembler, and store into the
// two-phase run.
type Pipeline struct {
	fetcher  core.Fetcher
	crawler  *crawl.Crawler
	asm      *extract.Assembler
	store    core.Store
	archiver Archiver // nil disables archiving
	opts     Options
	log      *zap.Logger
}

// New creates a Pipeline. archiver may be nil.
func New(fetcher core.Fetcher, crawler *crawl.Crawler, asm *extract.Assembler, st core.Store, archiver Archiver, opts Options, log *zap.Logger) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		fetcher:  fetcher,
		crawler:  crawler,
		asm:      asm,
		store:    st,
		archiver: archiver,
		opts:     opts,
		log:      log,
	}
}

// Run executes discovery then scraping and returns the aggregate
// summary.
func (p *Pipeline) Run(ctx context.Context) (core.RunSummary, error) {
	urls, err := p.Discover(ctx)
	if err != nil {
		return core.RunSummary{}, err
	}
	return p.Scrape(ctx, urls)
}

// Discover returns the detail URL set, reusing a stored set unless
// Refresh is set. Partition failures are persisted alongside the set.
func (p *Pipeline) Discover(ctx context.Context) ([]string, error) {
	if !p.opts.Refresh {
		stored, err := p.store.LoadURLSet(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading stored URL set: %w", err)
		}
		if len(stored) > 0 {
			p.log.Info("reusing stored URL set", zap.Int("urls", len(stored)))
			return stored, nil
		}
	}

	urls, failures, err := p.crawler.DiscoverAll(ctx, p.opts.Partitions)
	if err != nil {
		return nil, err
	}
	for _, fail := range failures {
		if err := p.store.AppendFailure(ctx, fail); err != nil {
			return nil, fmt.Errorf("recording discovery failure: %w", err)
		}
	}
	if err := p.store.SaveURLSet(ctx, urls); err != nil {
		return nil, fmt.Errorf("saving URL set: %w", err)
	}

	p.log.Info("discovery complete",
		zap.Int("urls", len(urls)),
		zap.Int("partition_failures", len(failures)))
	return urls, nil
}

// Scrape fetches and extracts every URL in urls that has no result
// yet. It drains the full set even when individual URLs fail; only
// cancellation and store errors abort the run.
func (p *Pipeline) Scrape(ctx context.Context, urls []string) (core.RunSummary, error) {
	processed, err := p.store.ProcessedURLs(ctx)
	if err != nil {
		return core.RunSummary{}, fmt.Errorf("loading processed URLs: %w", err)
	}

	summary := core.RunSummary{Discovered: len(urls)}
	var pending []string
	for _, u := range urls {
		if processed[u] {
			summary.Skipped++
			continue
		}
		pending = append(pending, u)
	}

	p.log.Info("scrape starting",
		zap.Int("pending", len(pending)),
		zap.Int("skipped", summary.Skipped),
		zap.Int("concurrency", p.opts.Concurrency))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for _, u := range pending {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ok, err := p.processDetail(gctx, u)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.Processed++
			if ok {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	// The schedule loop exits quietly on cancellation; report it.
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	p.log.Info("scrape complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// processDetail turns one detail URL into a stored Record or
// FailureEntry and reports which it was. Cancellation propagates as an
// error so half-done URLs are retried on the next run instead of being
// recorded as failures.
func (p *Pipeline) processDetail(ctx context.Context, detailURL string) (bool, error) {
	body, err := p.fetcher.Fetch(ctx, p.opts.DetailBaseURL+detailURL)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		fail := core.FailureEntry{
			URL:      detailURL,
			Stage:    core.StageFetch,
			Category: core.ClassifyError(err),
			Error:    err.Error(),
		}
		if serr := p.store.AppendFailure(ctx, fail); serr != nil {
			return false, serr
		}
		p.log.Warn("detail fetch failed",
			zap.String("url", detailURL),
			zap.String("category", string(fail.Category)))
		return false, nil
	}

	if p.archiver != nil {
		if aerr := p.archiver.Snapshot(detailURL, body); aerr != nil {
			// Snapshots are best-effort; the record still counts.
			p.log.Warn("archive snapshot failed",
				zap.String("url", detailURL),
				zap.Error(aerr))
		}
	}

	src, err := extract.NewPageSource(body, p.log)
	if err != nil {
		fail := core.FailureEntry{
			URL:      detailURL,
			Stage:    core.StageParse,
			Category: core.CategoryParse,
			Error:    err.Error(),
		}
		if serr := p.store.AppendFailure(ctx, fail); serr != nil {
			return false, serr
		}
		p.log.Warn("detail parse failed", zap.String("url", detailURL))
		return false, nil
	}

	rec := p.asm.Assemble(src, detailURL)
	if err := p.store.AppendRecord(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}
