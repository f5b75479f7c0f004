// Package render — PDF renderer.
// Converts the Markdown report into a styled PDF using gofpdf.
// Handles headings (variable font sizes), paragraphs, and lists.
package render

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/filmdex/core"
)

// PDFRenderer renders the crawl report as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render builds the report and converts it into PDF bytes.
func (r *PDFRenderer) Render(recs []core.Record, fails []core.FailureEntry) ([]byte, error) {
	report := buildReport(recs, fails, time.Now().UTC())

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	for _, line := range strings.Split(report, "\n") {
		// Skip empty lines (add spacing instead).
		if strings.TrimSpace(line) == "" {
			pdf.Ln(3)
			continue
		}

		// Headings.
		if strings.HasPrefix(line, "#") {
			level := 0
			for _, ch := range line {
				if ch == '#' {
					level++
				} else {
					break
				}
			}
			text := strings.TrimSpace(strings.TrimLeft(line, "# "))
			renderHeading(pdf, text, level)
			continue
		}

		// List items.
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			pdf.SetFont("Helvetica", "", 10)
			text := "• " + strings.TrimSpace(trimmed[2:])
			text = cleanInlineMarkdown(text)
			pdf.MultiCell(0, 5, text, "", "L", false)
			continue
		}

		// Numbered list items.
		if matched, _ := regexp.MatchString(`^\d+\.\s`, trimmed); matched {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, cleanInlineMarkdown(trimmed), "", "L", false)
			continue
		}

		// Regular paragraph text.
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, cleanInlineMarkdown(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, cleanInlineMarkdown(text), "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	// Remove bold markers.
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	// Remove italic markers (but not inside words like don't).
	re := regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	text = re.ReplaceAllString(text, " $1 ")
	// Remove inline code markers.
	text = regexp.MustCompile("`([^`]+)`").ReplaceAllString(text, "$1")
	// Remove link syntax, keep text.
	text = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`).ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
