package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/filmdex/core"
	"github.com/gaurav-prasanna/filmdex/core/extract"
	"github.com/gaurav-prasanna/filmdex/core/fetch"
	"github.com/gaurav-prasanna/filmdex/crawl"
	"github.com/gaurav-prasanna/filmdex/store"
)

const indexPageA1 = `<html><body>
<a href="/about.htm">About</a>
<a href="/movies/?id=a1.htm">Film A1</a>
<a href="/movies/?id=a2.htm">Film A2</a>
<a href="/movies/?id=a3.htm">Film A3</a>
<a href="/movies/?id=a4.htm">Film A4</a>
<a href="/movies/?id=a5.htm">Film A5</a>
</body></html>`

const emptyIndexPage = `<html><body><p>No titles.</p></body></html>`

const detailPageTpl = `<html><head><title>Film %s</title></head><body><table>
<tr><td>Genre: <b>Drama</b></td></tr>
<tr><td>Runtime: <b>2 hr 0 min</b></td></tr>
</table></body></html>`

// catalogServer serves a one-partition catalog: partition A has five
// titles on page one, partition B always fails with a 503. Detail a4
// is missing and a5 serves an unparseable empty body.
func catalogServer(t *testing.T, indexHits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/index.htm", func(w http.ResponseWriter, r *http.Request) {
		indexHits.Add(1)
		q := r.URL.Query()
		switch {
		case q.Get("letter") == "B":
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
		case q.Get("letter") == "A" && q.Get("page") == "1":
			fmt.Fprint(w, indexPageA1)
		default:
			fmt.Fprint(w, emptyIndexPage)
		}
	})
	mux.HandleFunc("/movies/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		switch id {
		case "a4.htm":
			http.NotFound(w, r)
		case "a5.htm":
			// 200 with nothing to parse.
		default:
			name := strings.ToUpper(strings.TrimSuffix(id, ".htm"))
			fmt.Fprintf(w, detailPageTpl, name)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(t *testing.T, srvURL string, st core.Store, opts Options) *Pipeline {
	t.Helper()

	fetcher := fetch.New(fetch.Options{
		Timeout:           5 * time.Second,
		MaxAttempts:       2,
		RetryWait:         10 * time.Millisecond,
		RetryMaxWait:      50 * time.Millisecond,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, zap.NewNop())

	crawler := crawl.New(fetcher, crawl.Options{
		IndexURL:   srvURL + "/index.htm?letter={partition}&page={page}",
		LinkMarker: "movies/?id",
	}, zap.NewNop())

	opts.DetailBaseURL = srvURL
	if len(opts.Partitions) == 0 {
		opts.Partitions = []string{"A", "B"}
	}
	return New(fetcher, crawler, extract.NewAssembler(zap.NewNop()), st, nil, opts, zap.NewNop())
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "filmdex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRunFullCatalog(t *testing.T) {
	var indexHits atomic.Int32
	srv := catalogServer(t, &indexHits)
	st := openTestStore(t)
	p := newTestPipeline(t, srv.URL, st, Options{Concurrency: 3})

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 5, summary.Discovered)
	require.Equal(t, 5, summary.Processed)
	require.Equal(t, 3, summary.Succeeded)
	require.Equal(t, 2, summary.Failed)
	require.Equal(t, 0, summary.Skipped)

	recs, err := st.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		require.Equal(t, fmt.Sprintf("Film A%d", i+1), rec.Title)
		require.Equal(t, fmt.Sprintf("/movies/?id=a%d.htm", i+1), rec.SourceURL)
		require.NotNil(t, rec.Genre)
		require.Equal(t, "Drama", *rec.Genre)
		require.NotNil(t, rec.RuntimeMinutes)
		require.Equal(t, 120, *rec.RuntimeMinutes)
	}

	fails, err := st.Failures(context.Background())
	require.NoError(t, err)
	byURL := make(map[string]core.FailureEntry, len(fails))
	for _, f := range fails {
		byURL[f.URL] = f
	}
	require.Len(t, byURL, 3)

	missing := byURL["/movies/?id=a4.htm"]
	require.Equal(t, core.StageFetch, missing.Stage)
	require.Equal(t, core.CategoryPermanentFetch, missing.Category)

	empty := byURL["/movies/?id=a5.htm"]
	require.Equal(t, core.StageParse, empty.Stage)
	require.Equal(t, core.CategoryParse, empty.Category)

	partition := byURL[srv.URL+"/index.htm?letter=B&page=1"]
	require.Equal(t, core.StageDiscover, partition.Stage)
	require.Equal(t, core.CategoryTransientFetch, partition.Category)
}

func TestRunResumesWithoutRefetching(t *testing.T) {
	var indexHits atomic.Int32
	srv := catalogServer(t, &indexHits)
	st := openTestStore(t)
	p := newTestPipeline(t, srv.URL, st, Options{Concurrency: 2})

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	hitsAfterFirst := indexHits.Load()

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 5, summary.Discovered)
	require.Equal(t, 5, summary.Skipped)
	require.Equal(t, 0, summary.Processed)
	require.Equal(t, 0, summary.Succeeded)
	require.Equal(t, 0, summary.Failed)

	// The stored URL set is reused, so the index was not re-crawled.
	require.Equal(t, hitsAfterFirst, indexHits.Load())

	recs, err := st.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
}

func TestRunRefreshRecrawlsIndex(t *testing.T) {
	var indexHits atomic.Int32
	srv := catalogServer(t, &indexHits)
	st := openTestStore(t)

	_, err := newTestPipeline(t, srv.URL, st, Options{}).Run(context.Background())
	require.NoError(t, err)
	hitsAfterFirst := indexHits.Load()

	summary, err := newTestPipeline(t, srv.URL, st, Options{Refresh: true}).Run(context.Background())
	require.NoError(t, err)

	require.Greater(t, indexHits.Load(), hitsAfterFirst)
	// Rediscovery found the same five titles, all already processed.
	require.Equal(t, 5, summary.Discovered)
	require.Equal(t, 5, summary.Skipped)
	require.Equal(t, 0, summary.Processed)
}

func TestScrapeSkipsPreseededResults(t *testing.T) {
	var indexHits atomic.Int32
	srv := catalogServer(t, &indexHits)
	st := openTestStore(t)
	p := newTestPipeline(t, srv.URL, st, Options{})

	ctx := context.Background()
	require.NoError(t, st.AppendRecord(ctx, core.Record{SourceURL: "/movies/?id=a1.htm", Title: "Seeded"}))
	require.NoError(t, st.AppendFailure(ctx, core.FailureEntry{
		URL: "/movies/?id=a2.htm", Stage: core.StageFetch, Category: core.CategoryTransientFetch, Error: "seeded",
	}))

	summary, err := p.Scrape(ctx, []string{
		"/movies/?id=a1.htm", "/movies/?id=a2.htm", "/movies/?id=a3.htm",
	})
	require.NoError(t, err)

	require.Equal(t, 3, summary.Discovered)
	require.Equal(t, 2, summary.Skipped)
	require.Equal(t, 1, summary.Processed)
	require.Equal(t, 1, summary.Succeeded)

	recs, err := st.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// The seeded record survives untouched.
	require.Equal(t, "Seeded", recs[0].Title)
	require.Equal(t, "Film A3", recs[1].Title)
}

func TestScrapeCancelledContext(t *testing.T) {
	var indexHits atomic.Int32
	srv := catalogServer(t, &indexHits)
	st := openTestStore(t)
	p := newTestPipeline(t, srv.URL, st, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Scrape(ctx, []string{"/movies/?id=a1.htm"})
	require.ErrorIs(t, err, context.Canceled)

	processed, perr := st.ProcessedURLs(context.Background())
	require.NoError(t, perr)
	require.Empty(t, processed)
}

type failingArchiver struct {
	calls atomic.Int32
}

func (f *failingArchiver) Snapshot(string, []byte) error {
	f.calls.Add(1)
	return fmt.Errorf("disk full")
}

func TestArchiveFailureDoesNotFailRecord(t *testing.T) {
	var indexHits atomic.Int32
	srv := catalogServer(t, &indexHits)
	st := openTestStore(t)

	arch := &failingArchiver{}
	fetcher := fetch.New(fetch.Options{
		Timeout:           5 * time.Second,
		MaxAttempts:       1,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, zap.NewNop())
	crawler := crawl.New(fetcher, crawl.Options{
		IndexURL:   srv.URL + "/index.htm?letter={partition}&page={page}",
		LinkMarker: "movies/?id",
	}, zap.NewNop())
	p := New(fetcher, crawler, extract.NewAssembler(zap.NewNop()), st, arch, Options{
		DetailBaseURL: srv.URL,
		Partitions:    []string{"A"},
	}, zap.NewNop())

	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	// Snapshots are attempted for every fetched page but never block
	// the record from being stored.
	require.Equal(t, 3, summary.Succeeded)
	require.Equal(t, int32(4), arch.calls.Load())
}
