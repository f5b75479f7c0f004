// Package render — JSON renderer.
// Serializes the complete dataset (records plus the failure log) into
// a versionless envelope for machine consumption.
package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/filmdex/core"
)

// Dataset is the JSON export envelope.
type Dataset struct {
	GeneratedAt  time.Time           `json:"generated_at"`
	RecordCount  int                 `json:"record_count"`
	FailureCount int                 `json:"failure_count"`
	Records      []core.Record       `json:"records"`
	Failures     []core.FailureEntry `json:"failures"`
}

// JSONRenderer produces the JSON dataset export.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the dataset envelope.
func (r *JSONRenderer) Render(recs []core.Record, fails []core.FailureEntry) ([]byte, error) {
	// Empty slices marshal as [] rather than null.
	if recs == nil {
		recs = []core.Record{}
	}
	if fails == nil {
		fails = []core.FailureEntry{}
	}

	ds := Dataset{
		GeneratedAt:  time.Now().UTC(),
		RecordCount:  len(recs),
		FailureCount: len(fails),
		Records:      recs,
		Failures:     fails,
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
