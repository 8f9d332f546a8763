package knowledgebase

import (
	"sort"
	"sync"
	"time"
)

// MaxKeywords caps the number of keywords cached per document.
const MaxKeywords = 20

// Document is one entry in the corpus. TermCounts and Keywords are
// built once when the document is added and treated as immutable
// afterwards; a re-add with the same key replaces the whole record.
type Document struct {
	Key        string
	Content    string
	TermCounts map[string]int
	Keywords   []string
	AddedAt    time.Time
}

// TokenCount returns the number of distinct non-stop-word terms.
func (d *Document) TokenCount() int {
	return len(d.TermCounts)
}

// Store is an in-memory, insertion-ordered corpus. A single mutex
// guards every operation so a concurrent search can never observe a
// half-written document. The store lives for the process lifetime;
// there is no persistence.
type Store struct {
	mu   sync.Mutex
	docs map[string]*Document
	keys []string // insertion order; an update keeps the original slot
	now  func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string]*Document),
		now:  time.Now,
	}
}

// Add inserts the document under key, or fully replaces content, term
// counts and keywords when the key already exists. On update the
// original AddedAt and insertion slot are kept. It returns the stored
// document and whether an existing one was replaced.
func (s *Store) Add(key, content string) (*Document, bool) {
	counts, order := IndexTerms(content)

	doc := &Document{
		Key:        key,
		Content:    content,
		TermCounts: counts,
		Keywords:   extractKeywords(counts, order),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.docs[key]; ok {
		doc.AddedAt = existing.AddedAt
		s.docs[key] = doc
		return doc, true
	}

	doc.AddedAt = s.now()
	s.docs[key] = doc
	s.keys = append(s.keys, key)
	return doc, false
}

// Get returns the document stored under key.
func (s *Store) Get(key string) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	return doc, ok
}

// List returns all documents in insertion order.
func (s *Store) List() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]*Document, 0, len(s.keys))
	for _, key := range s.keys {
		docs = append(docs, s.docs[key])
	}
	return docs
}

// Delete removes the document under key and returns the new store
// size. No tombstone is kept: re-adding the key later creates a new
// logical document at the end of the insertion order.
func (s *Store) Delete(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[key]; !ok {
		return len(s.keys), false
	}

	delete(s.docs, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return len(s.keys), true
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// extractKeywords ranks terms by descending frequency, ties broken by
// first occurrence in the token stream, capped at MaxKeywords. This
// runs once at add time; queries read the cached result.
func extractKeywords(counts map[string]int, order []string) []string {
	keywords := make([]string, len(order))
	copy(keywords, order)

	sort.SliceStable(keywords, func(i, j int) bool {
		return counts[keywords[i]] > counts[keywords[j]]
	})

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}
