package knowledgebase

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddAndGet(t *testing.T) {
	store := NewStore()

	doc, isUpdate := store.Add("go", "Go is a compiled language for systems programming")
	assert.False(t, isUpdate)
	assert.Equal(t, "go", doc.Key)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get("go")
	require.True(t, ok)
	assert.Equal(t, "Go is a compiled language for systems programming", got.Content)
	assert.Equal(t, 5, got.TokenCount()) // go, compiled, language, systems, programming
}

func TestStore_AddReplacesInPlace(t *testing.T) {
	store := NewStore()

	first, isUpdate := store.Add("doc", "original content here")
	require.False(t, isUpdate)
	firstAddedAt := first.AddedAt

	second, isUpdate := store.Add("doc", "replacement text entirely")
	assert.True(t, isUpdate)
	assert.Equal(t, 1, store.Len())

	// AddedAt is creation time and survives the update.
	assert.Equal(t, firstAddedAt, second.AddedAt)

	got, ok := store.Get("doc")
	require.True(t, ok)
	assert.Equal(t, "replacement text entirely", got.Content)
	assert.NotContains(t, got.TermCounts, "original")
}

func TestStore_AddedAtSetOnCreation(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	doc, _ := store.Add("doc", "some content")
	assert.Equal(t, fixed, doc.AddedAt)
}

func TestStore_DeleteRemovesKey(t *testing.T) {
	store := NewStore()
	store.Add("one", "first document text")
	store.Add("two", "second document text")

	remaining, ok := store.Delete("one")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	_, found := store.Get("one")
	assert.False(t, found)
}

func TestStore_DeleteMissingKey(t *testing.T) {
	store := NewStore()
	store.Add("present", "some text")

	remaining, ok := store.Delete("absent")
	assert.False(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestStore_DeleteDoesNotTouchOtherDocuments(t *testing.T) {
	store := NewStore()
	store.Add("keep", "golang concurrency channels goroutines")
	store.Add("drop", "unrelated cooking recipes")

	kept, ok := store.Get("keep")
	require.True(t, ok)
	keywordsBefore := kept.Keywords
	countsBefore := kept.TermCounts

	_, ok = store.Delete("drop")
	require.True(t, ok)

	kept, ok = store.Get("keep")
	require.True(t, ok)
	assert.Equal(t, keywordsBefore, kept.Keywords)
	assert.Equal(t, countsBefore, kept.TermCounts)
}

func TestStore_ListInsertionOrder(t *testing.T) {
	store := NewStore()
	store.Add("c", "gamma text")
	store.Add("a", "alpha text")
	store.Add("b", "beta text")

	docs := store.List()
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].Key)
	assert.Equal(t, "a", docs[1].Key)
	assert.Equal(t, "b", docs[2].Key)
}

func TestStore_UpdateKeepsInsertionSlot(t *testing.T) {
	store := NewStore()
	store.Add("first", "some text")
	store.Add("second", "more text")
	store.Add("first", "updated text")

	docs := store.List()
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].Key)
	assert.Equal(t, "second", docs[1].Key)
}

func TestStore_DeleteAndReAddMovesToEnd(t *testing.T) {
	store := NewStore()
	store.Add("first", "some text")
	store.Add("second", "more text")

	_, ok := store.Delete("first")
	require.True(t, ok)
	store.Add("first", "fresh text")

	docs := store.List()
	require.Len(t, docs, 2)
	assert.Equal(t, "second", docs[0].Key)
	assert.Equal(t, "first", docs[1].Key)
}

func TestExtractKeywords_FrequencyOrder(t *testing.T) {
	counts, order := IndexTerms("python python python java java rust")

	assert.Equal(t, []string{"python", "java", "rust"}, extractKeywords(counts, order))
}

func TestExtractKeywords_TieBreakByFirstOccurrence(t *testing.T) {
	counts, order := IndexTerms("zebra apple zebra apple mango")

	// zebra and apple tie at 2; zebra was seen first.
	assert.Equal(t, []string{"zebra", "apple", "mango"}, extractKeywords(counts, order))
}

func TestExtractKeywords_CappedAtTwenty(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "term%02d ", i)
	}
	counts, order := IndexTerms(sb.String())

	keywords := extractKeywords(counts, order)
	assert.Len(t, keywords, MaxKeywords)
}

func TestStore_StopWordOnlyContent(t *testing.T) {
	store := NewStore()

	doc, _ := store.Add("x", "the is a an")
	assert.Equal(t, 0, doc.TokenCount())
	assert.Empty(t, doc.Keywords)
}
