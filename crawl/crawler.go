// Package crawl discovers detail-page URLs from the catalog's
// paginated index. Each partition is walked page by page until the
// first page that yields no item links; partitions that cannot be
// fully walked surface as failure entries, never as silent truncation.
package crawl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/filmdex/core"
)

// ErrPageCapExceeded reports a partition that kept yielding item links
// past the configured page cap.
var ErrPageCapExceeded = errors.New("page cap exceeded")

const defaultMaxPages = 200

// Options configure the crawler.
type Options struct {
	// IndexURL is the index page template with {partition} and {page}
	// placeholders.
	IndexURL string
	// LinkMarker is the substring identifying item links.
	LinkMarker string
	// LinkScope optionally restricts link scanning to a CSS selector
	// (e.g. "#body"). Empty scans the whole page.
	LinkScope string
	// MaxPages caps how many pages a single partition may yield.
	MaxPages int
}

// Crawler walks index partitions and accumulates detail URLs.
type Crawler struct {
	fetcher core.Fetcher
	opts    Options
	log     *zap.Logger
}

// New creates a Crawler.
func New(fetcher core.Fetcher, opts Options, log *zap.Logger) *Crawler {
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Crawler{fetcher: fetcher, opts: opts, log: log}
}

// DiscoverAll walks every partition and returns the deduplicated
// detail URLs in discovery order, plus a failure entry for each
// partition that could not be fully walked. A failed partition does
// not stop the remaining ones.
func (c *Crawler) DiscoverAll(ctx context.Context, partitions []string) ([]string, []core.FailureEntry, error) {
	set := newURLSet()
	var failures []core.FailureEntry

	for _, partition := range partitions {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if fail := c.walkPartition(ctx, partition, set); fail != nil {
			failures = append(failures, *fail)
			c.log.Warn("partition walk failed",
				zap.String("partition", partition),
				zap.String("category", string(fail.Category)),
				zap.String("error", fail.Error))
		}
	}

	c.log.Info("discovery finished",
		zap.Int("partitions", len(partitions)),
		zap.Int("urls", set.Len()),
		zap.Int("failures", len(failures)))
	return set.All(), failures, nil
}

// walkPartition visits partition pages in order until the first page
// without item links. An empty first page is a valid empty partition.
func (c *Crawler) walkPartition(ctx context.Context, partition string, set *urlSet) *core.FailureEntry {
	for page := 1; ; page++ {
		if page > c.opts.MaxPages {
			err := fmt.Errorf("partition %s: %w after %d pages", partition, ErrPageCapExceeded, c.opts.MaxPages)
			return &core.FailureEntry{
				URL:      c.pageURL(partition, c.opts.MaxPages),
				Stage:    core.StageDiscover,
				Category: core.CategoryParse,
				Error:    err.Error(),
			}
		}

		pageURL := c.pageURL(partition, page)
		body, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			// A failed fetch is not an empty page; the partition is
			// incomplete and says so.
			return &core.FailureEntry{
				URL:      pageURL,
				Stage:    core.StageDiscover,
				Category: core.ClassifyError(err),
				Error:    err.Error(),
			}
		}

		links, err := c.extractItemLinks(body)
		if err != nil {
			return &core.FailureEntry{
				URL:      pageURL,
				Stage:    core.StageDiscover,
				Category: core.CategoryParse,
				Error:    err.Error(),
			}
		}

		if len(links) == 0 {
			return nil
		}

		added := 0
		for _, link := range links {
			if set.Add(NormalizeDetailURL(link)) {
				added++
			}
		}
		c.log.Debug("index page walked",
			zap.String("partition", partition),
			zap.Int("page", page),
			zap.Int("links", len(links)),
			zap.Int("new", added))
	}
}

// pageURL fills the index template for one partition page.
func (c *Crawler) pageURL(partition string, page int) string {
	r := strings.NewReplacer("{partition}", partition, "{page}", strconv.Itoa(page))
	return r.Replace(c.opts.IndexURL)
}

// extractItemLinks returns the href of every anchor matching the item
// link marker, in page order.
func (c *Crawler) extractItemLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing index page: %w", err)
	}

	scope := doc.Selection
	if c.opts.LinkScope != "" {
		scope = doc.Find(c.opts.LinkScope)
	}

	var links []string
	scope.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		if IsItemLink(href, c.opts.LinkMarker) {
			links = append(links, href)
		}
	})
	return links, nil
}
