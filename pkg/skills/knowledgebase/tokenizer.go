package knowledgebase

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and splits it on non-alphanumeric
// boundaries. Hyphens between alphanumeric runes are kept, so
// "server-side" stays one token; digits are allowed inside tokens
// ("python3"). Tokens shorter than two runes are dropped. Stop words
// are not filtered here; callers combine Tokenize with IsStopWord.
func Tokenize(text string) []string {
	runes := []rune(strings.ToLower(text))

	var tokens []string
	var current []rune
	flush := func() {
		if len(current) >= 2 {
			tokens = append(tokens, string(current))
		}
		current = current[:0]
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current = append(current, r)
		case r == '-' && len(current) > 0 && i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])):
			// internal hyphen, part of the token
			current = append(current, r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// IndexTerms tokenizes text and drops stop words, returning the
// per-term occurrence counts and the distinct terms in
// first-occurrence order. The order drives keyword tie-breaking.
func IndexTerms(text string) (counts map[string]int, order []string) {
	counts = make(map[string]int)
	for _, term := range Tokenize(text) {
		if IsStopWord(term) {
			continue
		}
		if _, seen := counts[term]; !seen {
			order = append(order, term)
		}
		counts[term]++
	}
	return counts, order
}

// QueryTerms tokenizes a query the same way documents are indexed and
// de-duplicates terms, preserving first-occurrence order.
func QueryTerms(query string) []string {
	_, order := IndexTerms(query)
	return order
}
