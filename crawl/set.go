// Package crawl — insertion-ordered URL set.
// Deduplicates detail URLs across pages and partitions while keeping
// discovery order stable.
package crawl

// urlSet is an insertion-ordered set of normalized detail URLs.
type urlSet struct {
	items []string
	seen  map[string]bool
}

// newURLSet creates an empty urlSet.
func newURLSet() *urlSet {
	return &urlSet{
		seen: make(map[string]bool),
	}
}

// Add inserts url if it hasn't been seen before and reports whether it
// was new.
func (s *urlSet) Add(url string) bool {
	if s.seen[url] {
		return false
	}
	s.seen[url] = true
	s.items = append(s.items, url)
	return true
}

// Len returns the number of unique URLs seen.
func (s *urlSet) Len() int {
	return len(s.items)
}

// All returns the URLs in insertion order.
func (s *urlSet) All() []string {
	return s.items
}
