package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Highlight markers wrapped around matched terms inside snippets.
const (
	highlightOpen  = "<mark>"
	highlightClose = "</mark>"
)

// BuildSnippet extracts a window of content anchored on the earliest term
// match and wraps every in-window occurrence of every term in highlight
// markers. Matching is case-insensitive and highlights never overlap.
// The returned count is the number of highlighted occurrences.
func BuildSnippet(content string, terms []string, window int) (string, int) {
	anchor := earliestMatch(content, terms)
	if anchor == -1 {
		if len(content) > window {
			return content[:alignRune(content, window)] + "...", 0
		}
		return content, 0
	}

	start := anchor - window/2
	if start < 0 {
		start = 0
	}
	start = alignRune(content, start)
	end := start + window
	if end > len(content) {
		end = len(content)
	}
	end = alignRune(content, end)

	snippet, count := highlight(content[start:end], terms)

	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet = snippet + "..."
	}

	return snippet, count
}

// TermFrequency counts case-insensitive occurrences of all terms in text.
func TermFrequency(text string, terms []string) int {
	lower := strings.ToLower(text)
	total := 0
	for _, term := range terms {
		total += strings.Count(lower, term)
	}
	return total
}

// earliestMatch returns the byte offset of the first occurrence of any
// term, or -1 when none match.
func earliestMatch(content string, terms []string) int {
	lower := strings.ToLower(content)
	first := -1
	for _, term := range terms {
		if pos := strings.Index(lower, term); pos != -1 && (first == -1 || pos < first) {
			first = pos
		}
	}
	return first
}

// alignRune moves a byte offset back to the nearest rune boundary so window
// slices never cut a multibyte character in half.
func alignRune(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

type span struct {
	start, end int
}

// highlight wraps every non-overlapping term occurrence in markers and
// returns the rewritten text with the occurrence count.
func highlight(text string, terms []string) (string, int) {
	lower := strings.ToLower(text)

	var spans []span
	for _, term := range terms {
		for from := 0; ; {
			pos := strings.Index(lower[from:], term)
			if pos == -1 {
				break
			}
			start := from + pos
			spans = append(spans, span{start, start + len(term)})
			from = start + len(term)
		}
	}

	if len(spans) == 0 {
		return text, 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	// Drop spans overlapping an earlier accepted one.
	kept := spans[:1]
	for _, s := range spans[1:] {
		if s.start >= kept[len(kept)-1].end {
			kept = append(kept, s)
		}
	}

	var b strings.Builder
	prev := 0
	for _, s := range kept {
		b.WriteString(text[prev:s.start])
		b.WriteString(highlightOpen)
		b.WriteString(text[s.start:s.end])
		b.WriteString(highlightClose)
		prev = s.end
	}
	b.WriteString(text[prev:])

	return b.String(), len(kept)
}
