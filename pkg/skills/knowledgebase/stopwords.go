package knowledgebase

// stopWords is the fixed set of common English words excluded from
// indexing and querying. Applied identically to documents and queries.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"do": true, "does": true, "did": true, "have": true, "has": true,
	"had": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "can": true,
	"shall": true, "and": true, "or": true, "but": true, "not": true,
	"no": true, "if": true, "then": true, "than": true, "so": true,
	"as": true, "at": true, "by": true, "for": true, "from": true,
	"in": true, "into": true, "of": true, "on": true, "to": true,
	"with": true, "about": true, "up": true, "out": true, "it": true,
	"its": true, "this": true, "that": true, "these": true,
	"those": true, "what": true, "which": true, "who": true,
	"whom": true, "how": true, "when": true, "where": true,
	"why": true, "i": true, "me": true, "my": true, "you": true,
	"your": true, "we": true, "our": true, "us": true, "he": true,
	"him": true, "his": true, "she": true, "her": true, "they": true,
	"them": true, "their": true,
}

// IsStopWord reports whether term is excluded from indexing. Terms
// are expected to be lower-cased already, as Tokenize produces them.
func IsStopWord(term string) bool {
	return stopWords[term]
}
