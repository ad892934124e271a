package search

import (
	"strings"
	"unicode"
)

// minTokenLength drops single-character tokens that match too broadly.
const minTokenLength = 2

var stopWords = map[string]struct{}{
	"and": {},
	"or":  {},
	"the": {},
	"a":   {},
	"an":  {},
}

// Tokenize splits a raw query into lowercase search terms: punctuation is
// stripped, whitespace separates tokens, and short tokens and stop words
// are dropped. An empty result is valid and means the query has nothing
// searchable.
func Tokenize(raw string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, raw)

	var terms []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < minTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}
