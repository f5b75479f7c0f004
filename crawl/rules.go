// Package crawl — URL rules.
// Detail URLs are stored in a canonical host-relative form so the same
// item discovered through different pages deduplicates to one entry.
package crawl

import (
	"net/url"
	"strings"
)

// IsItemLink reports whether href points at an item detail page.
func IsItemLink(href, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(href, marker)
}

// NormalizeDetailURL reduces a detail link to its canonical form for
// deduplication: scheme, host, and fragment dropped, trailing slash
// trimmed, leading slash guaranteed.
func NormalizeDetailURL(raw string) string {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	parsed.Scheme = ""
	parsed.Host = ""
	parsed.User = nil
	parsed.Fragment = ""

	// Keep the directory slash when a query follows it; only bare
	// trailing slashes are variance.
	if parsed.Path != "/" && parsed.RawQuery == "" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	s := parsed.String()
	if s != "" && !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}
