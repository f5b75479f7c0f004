// Package normalize converts raw page text into typed record values.
// Every function is total: malformed input yields the zero value and
// ok=false (or 0 for the award counts), never a panic or an error.
// The raw values come from label-anchored extraction and are prose
// written for people, so each normalizer tolerates decoration like
// currency symbols, thousands separators, and unit suffixes.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Title returns the text before the first "(", trimmed. Catalog titles
// carry a parenthesized year suffix ("Foo Bar (2001)").
func Title(raw string) string {
	head, _, _ := strings.Cut(raw, "(")
	return strings.TrimSpace(head)
}

// Date parses a natural-language date ("December 19, 1997").
func Date(raw string) (time.Time, bool) {
	t, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Money parses a currency amount with optional "$" and thousands
// separators ("$1,234,567") into whole currency units.
func Money(raw string) (int64, bool) {
	s := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// magnitudes scale the "$X thousand/million/billion" budget format.
var magnitudes = map[string]float64{
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
}

// ScaledMoney parses amounts written with a magnitude word, e.g.
// "$12.5 million" → 12500000. Amounts without a magnitude word are
// not recognized.
func ScaledMoney(raw string) (int64, bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) < 2 {
		return 0, false
	}
	num := strings.ReplaceAll(strings.TrimPrefix(fields[0], "$"), ",", "")
	val, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	scale, ok := magnitudes[strings.ToLower(strings.TrimRight(fields[1], ".,"))]
	if !ok {
		return 0, false
	}
	return int64(val * scale), true
}

var (
	nominatedRe = regexp.MustCompile(`(?i)\bnominated\s+for\s+(\S+)`)
	wonRe       = regexp.MustCompile(`(?i)\bwon\s+(\S+)`)
)

// AwardCounts reads nomination and win counts out of award prose like
// "Nominated for 3 Oscars.\nWon 1, including Best Picture." The count
// token may be digits or a number word. A clause that is missing or
// carries no recognizable count yields 0 for that side.
func AwardCounts(raw string) (nominations, wins int) {
	return countAfter(nominatedRe, raw), countAfter(wonRe, raw)
}

func countAfter(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	tok := strings.ToLower(strings.Trim(m[1], ".,;:!"))
	n, ok := wordToNumber(tok)
	if !ok {
		return 0
	}
	return n
}

// numberWords covers the spelled-out counts that award prose uses.
var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90,
}

func wordToNumber(tok string) (int, bool) {
	if n, err := strconv.Atoi(tok); err == nil {
		return n, true
	}
	n, ok := numberWords[tok]
	return n, ok
}

// Theaters parses a theater count, taking the leading token of prose
// like "3,452 theaters".
func Theaters(raw string) (int, bool) {
	fields := strings.Fields(strings.ReplaceAll(raw, ",", ""))
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Runtime converts "<H> hr <M> min" prose into total minutes.
func Runtime(raw string) (int, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return 0, false
	}
	hrs, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, false
	}
	return hrs*60 + mins, true
}

// People cleans a list of names from a credits block: entries are
// trimmed, decorative "*" markers dropped, and parenthesized entries
// (role annotations, "(more)" links) skipped. nil means no usable
// names remained.
func People(raw []string) []string {
	var out []string
	for _, entry := range raw {
		name := strings.TrimSpace(entry)
		if name == "" || strings.Contains(name, "(") {
			continue
		}
		name = strings.TrimSpace(strings.Trim(name, "*"))
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
