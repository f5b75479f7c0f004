// Package archive persists Markdown snapshots of fetched detail pages.
// A snapshot keeps the page re-readable offline: noise elements are
// stripped, the main content container is isolated, and the remainder
// is converted to Markdown before writing.
package archive

import (
	"bytes"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/filmdex/core/output"
)

// noiseSelectors are HTML elements removed before conversion.
// They carry no catalog data.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"img", "picture", "figure", "figcaption",
	"iframe", "video", "audio",
	"svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// Archiver writes one Markdown file per snapshotted page.
type Archiver struct {
	writer *output.Writer
	log    *zap.Logger
}

// New creates an Archiver writing into dir.
func New(dir string, log *zap.Logger) (*Archiver, error) {
	w, err := output.New(dir)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{writer: w, log: log}, nil
}

// Snapshot converts body to Markdown and writes it under a filename
// derived from rawURL.
func (a *Archiver) Snapshot(rawURL string, body []byte) error {
	markdown, err := toMarkdown(body)
	if err != nil {
		return fmt.Errorf("snapshotting %s: %w", rawURL, err)
	}
	path, err := a.writer.Write(rawURL, []byte(markdown), ".md")
	if err != nil {
		return err
	}
	a.log.Debug("snapshot written",
		zap.String("url", rawURL),
		zap.String("path", path))
	return nil
}

// toMarkdown strips noise from the page and converts the best content
// container (<main>, <article>, or <body>) to Markdown.
func toMarkdown(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	// Remove noise elements first (operates on the whole document).
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	html, err := goquery.OuterHtml(content)
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
