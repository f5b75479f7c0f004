// Package output handles file naming and writing for snapshots and
// exports. Snapshot filenames come from the catalog id when the URL
// carries one (e.g. /movies/?id=titanic.htm → titanic.md); other URLs
// flatten to host_path names.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data under a filename derived from rawURL.
func (w *Writer) Write(rawURL string, data []byte, ext string) (string, error) {
	return w.WriteNamed(Name(rawURL), data, ext)
}

// WriteNamed stores data under an explicit base name.
func (w *Writer) WriteNamed(name string, data []byte, ext string) (string, error) {
	p := filepath.Join(w.OutputDir, name+ext)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", p, err)
	}
	return p, nil
}

// Name converts a URL into a flat filename. The id query parameter
// wins when present; otherwise the host and path segments are joined.
// Example: /movies/?id=titanic.htm → titanic
// Example: https://example.com/docs/intro → example_com_docs_intro
func Name(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		// Fallback: sanitize the raw string.
		return sanitize(rawURL)
	}

	if id := parsed.Query().Get("id"); id != "" {
		return sanitize(strings.TrimSuffix(id, path.Ext(id)))
	}

	var parts []string
	if parsed.Host != "" {
		parts = append(parts, sanitize(parsed.Host))
	}
	trimmed := strings.Trim(parsed.Path, "/")
	if trimmed != "" {
		for _, seg := range strings.Split(trimmed, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	if len(parts) == 0 {
		return "index"
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
