// Package core defines the shared types and stage interfaces for filmdex.
package core

import "time"

// Stage identifies the phase of the run in which a failure occurred.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageFetch    Stage = "fetch"
	StageParse    Stage = "parse"
)

// Category classifies a failure for reporting. Categories are stable
// strings persisted in the checkpoint store.
type Category string

const (
	// CategoryTransientFetch covers network errors, timeouts, and
	// retryable status codes after the retry budget is spent.
	CategoryTransientFetch Category = "transient_fetch"
	// CategoryPermanentFetch covers definitive rejections (4xx other
	// than 429) that retrying cannot fix.
	CategoryPermanentFetch Category = "permanent_fetch"
	// CategoryParse covers unusable documents and structural problems
	// such as a partition exceeding its page cap.
	CategoryParse Category = "parse"
)

// Record is the assembled output for one detail page. Every field
// except SourceURL and Title is optional; a missing field means the
// page did not carry it in a recognizable form, which is expected.
type Record struct {
	SourceURL string `json:"source_url"`
	Title     string `json:"title"`

	Rating      *string `json:"rating,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Distributor *string `json:"distributor,omitempty"`

	Theaters           *int   `json:"theaters,omitempty"`
	Budget             *int64 `json:"budget,omitempty"`
	DomesticGross      *int64 `json:"domestic_gross,omitempty"`
	InternationalGross *int64 `json:"international_gross,omitempty"`

	AwardNominations int `json:"award_nominations"`
	AwardWins        int `json:"award_wins"`

	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	ClosingDate    *time.Time `json:"closing_date,omitempty"`
	RuntimeMinutes *int       `json:"runtime_minutes,omitempty"`

	Directors []string `json:"directors,omitempty"`
	Writers   []string `json:"writers,omitempty"`
	Actors    []string `json:"actors,omitempty"`
	Producers []string `json:"producers,omitempty"`
}

// FailureEntry records one URL that could not be turned into a Record.
type FailureEntry struct {
	URL      string   `json:"url"`
	Stage    Stage    `json:"stage"`
	Category Category `json:"category"`
	Error    string   `json:"error"`
}

// RunSummary aggregates the outcome of a scrape run.
type RunSummary struct {
	Discovered int `json:"discovered"`
	Processed  int `json:"processed"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}
