// Package render provides dataset exports and the human-readable
// crawl report. This file implements the Markdown report renderer;
// the report layout is shared with the PDF renderer.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gaurav-prasanna/filmdex/core"
)

// topGrossingLimit caps the ranking section of the report.
const topGrossingLimit = 10

// MarkdownRenderer writes the crawl report as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render builds the Markdown report.
func (r *MarkdownRenderer) Render(recs []core.Record, fails []core.FailureEntry) ([]byte, error) {
	return []byte(buildReport(recs, fails, time.Now().UTC())), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// buildReport lays out the report: summary counts, the top grossing
// ranking, and the failure log. The layout stays table-free so the
// PDF renderer can walk it line by line.
func buildReport(recs []core.Record, fails []core.FailureEntry, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Film Catalog Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("January 2, 2006"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Records: %d\n", len(recs))
	fmt.Fprintf(&b, "- Failures: %d\n", len(fails))
	b.WriteString("\n")

	if top := topGrossing(recs); len(top) > 0 {
		b.WriteString("## Top Grossing (Domestic)\n\n")
		for i, rec := range top {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, rec.Title, money(*rec.DomesticGross))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Failures\n\n")
	if len(fails) == 0 {
		b.WriteString("None.\n")
		return b.String()
	}
	for _, f := range fails {
		fmt.Fprintf(&b, "- %s [%s/%s]: %s\n", f.URL, f.Stage, f.Category, f.Error)
	}
	return b.String()
}

// topGrossing ranks records with a known domestic gross, highest
// first, ties broken by title.
func topGrossing(recs []core.Record) []core.Record {
	var ranked []core.Record
	for _, rec := range recs {
		if rec.DomesticGross != nil {
			ranked = append(ranked, rec)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if *ranked[i].DomesticGross != *ranked[j].DomesticGross {
			return *ranked[i].DomesticGross > *ranked[j].DomesticGross
		}
		return ranked[i].Title < ranked[j].Title
	})
	if len(ranked) > topGrossingLimit {
		ranked = ranked[:topGrossingLimit]
	}
	return ranked
}

func money(v int64) string {
	return "$" + humanize.Comma(v)
}
