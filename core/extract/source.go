// Package extract turns fetched detail pages into Records.
// PageSource implements the label-anchored locator for the catalog's
// markup: a field's value lives in the element adjacent to the text
// node carrying its label.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// PageSource is the LabeledFieldSource implementation for catalog
// detail pages.
type PageSource struct {
	doc  *goquery.Document
	root *html.Node
	log  *zap.Logger
}

// NewPageSource parses data into a PageSource. Unparseable or empty
// input is a parse failure.
func NewPageSource(data []byte, log *zap.Logger) (*PageSource, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PageSource{doc: doc, root: doc.Get(0), log: log}, nil
}

// Title returns the text of the document's <title> element.
func (s *PageSource) Title() string {
	return strings.TrimSpace(s.doc.Find("title").First().Text())
}

// Scalar returns the flattened text of the value element for label.
func (s *PageSource) Scalar(label *regexp.Regexp) (string, bool) {
	node := s.valueNode(label)
	if node == nil {
		return "", false
	}
	text := flattenText(node)
	if text == "" {
		return "", false
	}
	return text, true
}

// Entities returns the leaf texts of the value element for label.
func (s *PageSource) Entities(label *regexp.Regexp) ([]string, bool) {
	node := s.valueNode(label)
	if node == nil {
		return nil, false
	}
	texts := leafTexts(node)
	if len(texts) == 0 {
		return nil, false
	}
	return texts, true
}

// valueNode locates the element holding the value for label: the
// anchor text node's next sibling element, or, when the anchor is the
// last node of its container, the next element in document order.
func (s *PageSource) valueNode(label *regexp.Regexp) *html.Node {
	anchor := findAnchor(s.root, label)
	if anchor == nil {
		return nil
	}
	if sib := nextSiblingElement(anchor); sib != nil {
		return sib
	}
	next := nextElement(anchor)
	if next != nil {
		s.log.Debug("label value taken from document-order fallback",
			zap.String("label", label.String()))
	}
	return next
}

// findAnchor returns the first text node in document order whose text
// matches label. Script and style text is not field data.
func findAnchor(n *html.Node, label *regexp.Regexp) *html.Node {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return nil
	}
	if n.Type == html.TextNode && label.MatchString(n.Data) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAnchor(c, label); found != nil {
			return found
		}
	}
	return nil
}

// nextSiblingElement returns the first element among n's following
// siblings, skipping interleaved text nodes.
func nextSiblingElement(n *html.Node) *html.Node {
	for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode {
			return sib
		}
	}
	return nil
}

// nextElement returns the first element after n in document order.
func nextElement(n *html.Node) *html.Node {
	for cur := successor(n); cur != nil; cur = successor(cur) {
		if cur.Type == html.ElementNode {
			return cur
		}
	}
	return nil
}

// successor returns the node that follows n in a depth-first walk.
func successor(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.NextSibling != nil {
			return cur.NextSibling
		}
	}
	return nil
}

// flattenText concatenates all text under n with whitespace collapsed.
func flattenText(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// leafTexts returns every non-empty text node under n, trimmed, in
// document order.
func leafTexts(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			if t := strings.TrimSpace(cur.Data); t != "" {
				out = append(out, t)
			}
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
