// Package core — stage interfaces.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"errors"
	"regexp"
)

// Fetcher retrieves the raw bytes of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// LabeledFieldSource exposes label-anchored lookups over one parsed
// detail page. Implementations are tied to a document shape. Lookups
// that find no matching label report ok=false; absence is an expected
// outcome, not an error.
type LabeledFieldSource interface {
	// Scalar returns the flattened, whitespace-collapsed text of the
	// element adjacent to the first text node matching label.
	Scalar(label *regexp.Regexp) (value string, ok bool)
	// Entities returns the trimmed leaf texts of the element adjacent
	// to the first text node matching label, in document order.
	Entities(label *regexp.Regexp) (values []string, ok bool)
	// Title returns the document title text.
	Title() string
}

// Store persists the discovered URL set and per-URL results so
// interrupted runs can resume. Implementations must keep at most one
// result row per URL regardless of replays.
type Store interface {
	SaveURLSet(ctx context.Context, urls []string) error
	LoadURLSet(ctx context.Context) ([]string, error)
	AppendRecord(ctx context.Context, rec Record) error
	AppendFailure(ctx context.Context, fail FailureEntry) error
	ProcessedURLs(ctx context.Context) (map[string]bool, error)
	Records(ctx context.Context) ([]Record, error)
	Failures(ctx context.Context) ([]FailureEntry, error)
	Close() error
}

// Renderer turns stored results into an export format.
type Renderer interface {
	Render(recs []Record, fails []FailureEntry) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".json", ".pdf").
	Extension() string
}

// CategorizedError is implemented by errors that carry their own
// failure category.
type CategorizedError interface {
	error
	FailureCategory() Category
}

// ClassifyError maps an error to a failure category. Errors that do
// not declare one are parse failures: fetch errors always do, and
// everything else a URL can fail on is document handling.
func ClassifyError(err error) Category {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.FailureCategory()
	}
	return CategoryParse
}
