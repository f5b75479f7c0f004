// Package render — CSV renderer.
// Flattens records into one row per film for spreadsheet use. Person
// lists are joined with "; " and dates use ISO 8601.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gaurav-prasanna/filmdex/core"
)

// csvHeader names the exported columns.
var csvHeader = []string{
	"source_url", "title", "rating", "genre", "distributor",
	"theaters", "budget", "domestic_gross", "international_gross",
	"award_nominations", "award_wins",
	"release_date", "closing_date", "runtime_minutes",
	"directors", "writers", "actors", "producers",
}

// CSVRenderer produces the CSV dataset export. Failures are omitted;
// the JSON export carries them.
type CSVRenderer struct{}

// NewCSVRenderer creates a CSVRenderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render writes the header and one row per record.
func (r *CSVRenderer) Render(recs []core.Record, _ []core.FailureEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, rec := range recs {
		row := []string{
			rec.SourceURL,
			rec.Title,
			strCell(rec.Rating),
			strCell(rec.Genre),
			strCell(rec.Distributor),
			intCell(rec.Theaters),
			int64Cell(rec.Budget),
			int64Cell(rec.DomesticGross),
			int64Cell(rec.InternationalGross),
			strconv.Itoa(rec.AwardNominations),
			strconv.Itoa(rec.AwardWins),
			dateCell(rec.ReleaseDate),
			dateCell(rec.ClosingDate),
			intCell(rec.RuntimeMinutes),
			strings.Join(rec.Directors, "; "),
			strings.Join(rec.Writers, "; "),
			strings.Join(rec.Actors, "; "),
			strings.Join(rec.Producers, "; "),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing CSV row for %s: %w", rec.SourceURL, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for CSV output.
func (r *CSVRenderer) Extension() string {
	return ".csv"
}

// Missing values render as empty cells.

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func int64Cell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func dateCell(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}
