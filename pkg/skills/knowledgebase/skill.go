// Package knowledgebase implements the knowledge-base skill: an
// in-memory corpus of short text documents with TF-IDF ranked
// free-text search, stop-word filtering and per-document keyword
// extraction. Four actions are exposed through the skill envelope:
// add, search, list and delete.
package knowledgebase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// Machine-readable error codes returned in the result envelope.
const (
	CodeInvalidAction    = "INVALID_ACTION"
	CodeInvalidKey       = "INVALID_KEY"
	CodeInvalidContent   = "INVALID_CONTENT"
	CodeInvalidQuery     = "INVALID_QUERY"
	CodeEmptyQueryTokens = "EMPTY_QUERY_TOKENS"
	CodeNotFound         = "NOT_FOUND"
)

// Skill is the knowledge-base skill handler. It owns an explicit
// Store instance; compose one skill per session or tenant as needed.
type Skill struct {
	store *Store
}

// Input is the parameter envelope shared by all four actions.
type Input struct {
	Action  string `json:"action" jsonschema:"description=Operation to perform: one of add search list delete (case-sensitive)"`
	Key     string `json:"key,omitempty" jsonschema:"description=Document key; required for add and delete"`
	Content string `json:"content,omitempty" jsonschema:"description=Document content; required for add"`
	Query   string `json:"query,omitempty" jsonschema:"description=Free-text query; required for search"`
}

// NewSkill creates a knowledge-base skill with a fresh empty store.
func NewSkill() *Skill {
	return NewSkillWithStore(NewStore())
}

// NewSkillWithStore creates a skill over an existing store, letting
// the composer share or scope the corpus explicitly.
func NewSkillWithStore(store *Store) *Skill {
	return &Skill{store: store}
}

// Store exposes the underlying corpus to the composer.
func (s *Skill) Store() *Store {
	return s.store
}

// Name returns the skill name.
func (s *Skill) Name() string {
	return "knowledge_base"
}

// Description returns the skill description for the host catalog.
func (s *Skill) Description() string {
	return `Store short text documents and search them with relevance-ranked free-text queries.

Actions:
- "add": store or replace a document. Requires "key" and "content". Re-adding an existing key replaces the document in place.
- "search": rank documents against a free-text query using TF-IDF scoring with a bonus for keyword matches. Requires "query". Returns at most 10 results.
- "list": list every stored document with its keywords and token count.
- "delete": remove a document. Requires "key".

Action names are case-sensitive. The corpus is in-memory only and is discarded when the process exits.`
}

// GenerateSchema generates the JSON schema for the skill input.
func (s *Skill) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Input
	return reflector.Reflect(v)
}

// ValidateInput checks the parameters without touching the store.
func (s *Skill) ValidateInput(_ skilltypes.Env, parameters string) error {
	input, result := parseInput(parameters)
	if result != nil {
		return skilltypes.NewCodedError(result.Code, "%s", result.Error)
	}
	if result := validateAction(input); result != nil {
		return skilltypes.NewCodedError(result.Code, "%s", result.Error)
	}
	return nil
}

// TracingKVs returns span attributes for one invocation.
func (s *Skill) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}

	kvs := []attribute.KeyValue{attribute.String("knowledge_base.action", input.Action)}
	if input.Key != "" {
		kvs = append(kvs, attribute.String("knowledge_base.key", input.Key))
	}
	if input.Query != "" {
		kvs = append(kvs, attribute.String("knowledge_base.query", input.Query))
	}
	return kvs, nil
}

// Execute dispatches the action. Every failure is returned inside the
// envelope with a machine-readable code; nothing propagates as a Go
// error or panic. The action check runs before any parameter
// validation or store access.
func (s *Skill) Execute(_ context.Context, _ skilltypes.Env, parameters string) skilltypes.Result {
	input, failed := parseInput(parameters)
	if failed != nil {
		return *failed
	}

	switch input.Action {
	case "add":
		return s.executeAdd(input)
	case "search":
		return s.executeSearch(input)
	case "list":
		return s.executeList()
	case "delete":
		return s.executeDelete(input)
	default:
		return skilltypes.Errorf(CodeInvalidAction,
			"unrecognized action %q: expected one of add, search, list, delete", input.Action)
	}
}

// parseInput decodes the parameter envelope. A type mismatch on key,
// content or query maps to that field's error code so a non-string
// value fails the same way a missing one does; the action check still
// wins when the action itself is unrecognized.
func parseInput(parameters string) (Input, *skilltypes.Result) {
	var input Input
	err := json.Unmarshal([]byte(parameters), &input)
	if err == nil {
		return input, nil
	}

	code := CodeInvalidAction
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && isKnownAction(input.Action) {
		switch typeErr.Field {
		case "key":
			code = CodeInvalidKey
		case "content":
			code = CodeInvalidContent
		case "query":
			code = CodeInvalidQuery
		}
	}
	failed := skilltypes.Errorf(code, "invalid parameters: %v", err)
	return input, &failed
}

func isKnownAction(action string) bool {
	switch action {
	case "add", "search", "list", "delete":
		return true
	}
	return false
}

// validateAction mirrors the per-action checks Execute applies, so
// ValidateInput can reject bad input before dispatch.
func validateAction(input Input) *skilltypes.Result {
	var failed skilltypes.Result
	switch input.Action {
	case "add":
		if strings.TrimSpace(input.Key) == "" {
			failed = skilltypes.Errorf(CodeInvalidKey, "key is required and must be a non-empty string")
		} else if strings.TrimSpace(input.Content) == "" {
			failed = skilltypes.Errorf(CodeInvalidContent, "content is required and must be a non-empty string")
		}
	case "search":
		if strings.TrimSpace(input.Query) == "" {
			failed = skilltypes.Errorf(CodeInvalidQuery, "query is required and must be a non-empty string")
		}
	case "list":
	case "delete":
		if strings.TrimSpace(input.Key) == "" {
			failed = skilltypes.Errorf(CodeInvalidKey, "key is required and must be a non-empty string")
		}
	default:
		failed = skilltypes.Errorf(CodeInvalidAction,
			"unrecognized action %q: expected one of add, search, list, delete", input.Action)
	}
	if failed.IsError() {
		return &failed
	}
	return nil
}

func (s *Skill) executeAdd(input Input) skilltypes.Result {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return skilltypes.Errorf(CodeInvalidKey, "key is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.Content) == "" {
		return skilltypes.Errorf(CodeInvalidContent, "content is required and must be a non-empty string")
	}

	doc, isUpdate := s.store.Add(key, input.Content)

	verb := "Added"
	if isUpdate {
		verb = "Updated"
	}
	summary := fmt.Sprintf("%s %q in the knowledge base: %d distinct terms indexed.", verb, key, doc.TokenCount())
	if len(doc.Keywords) > 0 {
		summary += fmt.Sprintf(" Keywords: %s.", strings.Join(doc.Keywords, ", "))
	}

	return skilltypes.Result{
		Result: summary,
		Metadata: skilltypes.KnowledgeBaseAddMetadata{
			Action:       "add",
			Key:          key,
			IsUpdate:     isUpdate,
			Keywords:     doc.Keywords,
			KeywordCount: len(doc.Keywords),
			TokenCount:   doc.TokenCount(),
		},
	}
}

func (s *Skill) executeSearch(input Input) skilltypes.Result {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return skilltypes.Errorf(CodeInvalidQuery, "query is required and must be a non-empty string")
	}

	terms := QueryTerms(query)
	if len(terms) == 0 {
		return skilltypes.Errorf(CodeEmptyQueryTokens,
			"query %q contains only stop words or terms shorter than two characters", query)
	}

	// Empty corpus is a distinct, successful outcome: the caller
	// should hear "nothing is stored", not "no matches".
	if s.store.Len() == 0 {
		return skilltypes.Result{
			Result: "The knowledge base is empty. Add documents before searching.",
			Metadata: skilltypes.KnowledgeBaseSearchMetadata{
				Action:      "search",
				Query:       query,
				QueryTokens: terms,
				Results:     []skilltypes.KnowledgeBaseResult{},
			},
		}
	}

	scored, truncated := s.store.Search(terms)

	results := make([]skilltypes.KnowledgeBaseResult, 0, len(scored))
	for _, hit := range scored {
		results = append(results, skilltypes.KnowledgeBaseResult{
			Key:            hit.Document.Key,
			Score:          hit.Score,
			ContentPreview: Preview(hit.Document.Content),
			Keywords:       hit.Document.Keywords,
		})
	}

	var sb strings.Builder
	if len(results) == 0 {
		fmt.Fprintf(&sb, "No documents matched %q.", query)
	} else {
		fmt.Fprintf(&sb, "Found %d matching document(s) for %q:\n", len(results), query)
		for i, r := range results {
			fmt.Fprintf(&sb, "%d. %s (score %.3f): %s\n", i+1, r.Key, r.Score, r.ContentPreview)
		}
		if truncated {
			sb.WriteString("Additional matches were truncated.")
		}
	}

	return skilltypes.Result{
		Result: strings.TrimRight(sb.String(), "\n"),
		Metadata: skilltypes.KnowledgeBaseSearchMetadata{
			Action:        "search",
			Query:         query,
			QueryTokens:   terms,
			ResultCount:   len(results),
			ReturnedCount: len(results),
			Truncated:     truncated,
			Results:       results,
		},
	}
}

func (s *Skill) executeList() skilltypes.Result {
	docs := s.store.List()

	if len(docs) == 0 {
		return skilltypes.Result{
			Result: "The knowledge base is empty.",
			Metadata: skilltypes.KnowledgeBaseListMetadata{
				Action:  "list",
				Entries: []skilltypes.KnowledgeBaseEntry{},
			},
		}
	}

	entries := make([]skilltypes.KnowledgeBaseEntry, 0, len(docs))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Knowledge base entries (%d):\n", len(docs))
	for _, doc := range docs {
		entries = append(entries, skilltypes.KnowledgeBaseEntry{
			Key:            doc.Key,
			ContentPreview: Preview(doc.Content),
			Keywords:       doc.Keywords,
			TokenCount:     doc.TokenCount(),
			AddedAt:        doc.AddedAt,
		})
		fmt.Fprintf(&sb, "- %s (%d terms): %s\n", doc.Key, doc.TokenCount(), Preview(doc.Content))
	}

	return skilltypes.Result{
		Result: strings.TrimRight(sb.String(), "\n"),
		Metadata: skilltypes.KnowledgeBaseListMetadata{
			Action:     "list",
			EntryCount: len(entries),
			Entries:    entries,
		},
	}
}

func (s *Skill) executeDelete(input Input) skilltypes.Result {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return skilltypes.Errorf(CodeInvalidKey, "key is required and must be a non-empty string")
	}

	remaining, ok := s.store.Delete(key)
	if !ok {
		return skilltypes.Errorf(CodeNotFound, "no document with key %q", key)
	}

	return skilltypes.Result{
		Result: fmt.Sprintf("Deleted %q from the knowledge base. %d entries remaining.", key, remaining),
		Metadata: skilltypes.KnowledgeBaseDeleteMetadata{
			Action:           "delete",
			Key:              key,
			RemainingEntries: remaining,
		},
	}
}
