package knowledgebase

import (
	"math"
	"sort"
	"unicode/utf8"
)

const (
	// MaxResults caps how many documents a search returns.
	MaxResults = 10
	// keywordBonus is added per query term that is also one of the
	// document's cached keywords, rewarding locally salient terms.
	keywordBonus = 0.5
	// previewLength bounds the content preview in runes.
	previewLength = 100
)

// ScoredDocument pairs a document with its relevance for one query.
type ScoredDocument struct {
	Document *Document
	Score    float64
}

// Search scores every document against the given query terms and
// returns the ranked matches, capped at MaxResults. terms must
// already be tokenized, stop-word filtered and de-duplicated (see
// QueryTerms).
//
// Per document the score is the sum over matching terms of
// tf * log(N/df) plus keywordBonus when the term is one of the
// document's keywords. Documents matching no term are excluded.
// Ranking is by descending score; exact ties keep insertion order.
// truncated reports whether matches beyond MaxResults were cut off.
func (s *Store) Search(terms []string) (results []ScoredDocument, truncated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.keys)
	if n == 0 {
		return nil, false
	}

	// Document frequency per query term, derived by scanning the
	// corpus. Fine at the corpus sizes this store holds; an inverted
	// index would trade memory for the same observable results.
	df := make(map[string]int, len(terms))
	for _, term := range terms {
		for _, key := range s.keys {
			if s.docs[key].TermCounts[term] > 0 {
				df[term]++
			}
		}
	}

	for _, key := range s.keys {
		doc := s.docs[key]

		score := 0.0
		matched := 0
		for _, term := range terms {
			tf := doc.TermCounts[term]
			if tf == 0 {
				continue
			}
			matched++
			score += float64(tf) * math.Log(float64(n)/float64(df[term]))
			if containsTerm(doc.Keywords, term) {
				score += keywordBonus
			}
		}

		if matched == 0 {
			continue
		}
		results = append(results, ScoredDocument{Document: doc, Score: score})
	}

	// Insertion-order iteration plus a stable sort keeps exact score
	// ties deterministic: earlier documents sort first.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > MaxResults {
		results = results[:MaxResults]
		truncated = true
	}
	return results, truncated
}

func containsTerm(terms []string, term string) bool {
	for _, t := range terms {
		if t == term {
			return true
		}
	}
	return false
}

// Preview truncates content to previewLength runes for display,
// appending an ellipsis when content was cut.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLength]) + "..."
}
