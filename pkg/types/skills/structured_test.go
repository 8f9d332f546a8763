package skills

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_IsError(t *testing.T) {
	assert.False(t, Result{Result: "ok"}.IsError())
	assert.True(t, Result{Error: "boom"}.IsError())
	assert.True(t, Result{Code: "NOT_FOUND"}.IsError())
}

func TestResult_String(t *testing.T) {
	out := Result{Result: "all good"}.String()
	assert.Contains(t, out, "<result>")
	assert.Contains(t, out, "all good")
	assert.NotContains(t, out, "<error>")

	out = Result{Error: "missing document", Code: "NOT_FOUND"}.String()
	assert.Contains(t, out, "<error>")
	assert.Contains(t, out, "NOT_FOUND: missing document")
}

func TestErrorf(t *testing.T) {
	result := Errorf("INVALID_KEY", "key %q is bad", "x")
	assert.True(t, result.IsError())
	assert.Equal(t, "INVALID_KEY", result.Code)
	assert.Equal(t, `key "x" is bad`, result.Error)
}

func TestResult_Structured(t *testing.T) {
	meta := KnowledgeBaseDeleteMetadata{Action: "delete", Key: "doc", RemainingEntries: 2}
	structured := Result{Result: "deleted", Metadata: meta}.Structured("knowledge_base")

	assert.Equal(t, "knowledge_base", structured.SkillName)
	assert.True(t, structured.Success)
	assert.Equal(t, "deleted", structured.Result)
	assert.Equal(t, meta, structured.Metadata)
	assert.False(t, structured.Timestamp.IsZero())

	failed := Errorf("NOT_FOUND", "no such key").Structured("knowledge_base")
	assert.False(t, failed.Success)
	assert.Equal(t, "NOT_FOUND", failed.Error)
	assert.Equal(t, "no such key", failed.Message)
}

func TestStructuredResult_JSONRoundTrip(t *testing.T) {
	original := StructuredResult{
		SkillName: "knowledge_base",
		Success:   true,
		Result:    "Found 1 matching document(s)",
		Metadata: KnowledgeBaseSearchMetadata{
			Action:        "search",
			Query:         "rust memory",
			QueryTokens:   []string{"rust", "memory"},
			ResultCount:   1,
			ReturnedCount: 1,
			Results: []KnowledgeBaseResult{
				{Key: "rust", Score: 1.25, ContentPreview: "rust memory safety", Keywords: []string{"rust", "memory", "safety"}},
			},
		},
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"metadataType":"knowledge_base_search"`)

	var decoded StructuredResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original.SkillName, decoded.SkillName)
	assert.Equal(t, original.Result, decoded.Result)

	meta, ok := decoded.Metadata.(KnowledgeBaseSearchMetadata)
	require.True(t, ok)
	assert.Equal(t, original.Metadata, meta)
}

func TestStructuredResult_UnknownMetadataTypeDropped(t *testing.T) {
	payload := `{
		"skillName": "mystery",
		"success": true,
		"result": "ok",
		"metadataType": "never_registered",
		"metadata": {"field": 1},
		"timestamp": "2026-08-01T12:00:00Z"
	}`

	var decoded StructuredResult
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, "mystery", decoded.SkillName)
	assert.Nil(t, decoded.Metadata)
}

func TestStructuredResult_NoMetadata(t *testing.T) {
	original := StructuredResult{
		SkillName: "knowledge_base",
		Success:   false,
		Error:     "INVALID_QUERY",
		Message:   "query is required",
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "metadataType")

	var decoded StructuredResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestMetadataRegistryCoversAllSkillTypes(t *testing.T) {
	for _, meta := range []Metadata{
		KnowledgeBaseAddMetadata{},
		KnowledgeBaseSearchMetadata{},
		KnowledgeBaseListMetadata{},
		KnowledgeBaseDeleteMetadata{},
		NotesMetadata{},
		QuoteMetadata{},
		RSSMetadata{},
	} {
		_, ok := metadataTypeRegistry[meta.SkillType()]
		assert.True(t, ok, "missing registry entry for %s", meta.SkillType())
	}
}

func TestCodedError(t *testing.T) {
	err := NewCodedError("INVALID_KEY", "key %q is empty", "")
	assert.Equal(t, "INVALID_KEY", err.Code)
	assert.Equal(t, `INVALID_KEY: key "" is empty`, err.Error())
}
