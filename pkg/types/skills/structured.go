package skills

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// StructuredResult is the wire form of a skill invocation outcome:
// the human-readable result string plus typed metadata that callers
// (CLI, HTTP API) can consume without re-parsing prose.
type StructuredResult struct {
	SkillName string    `json:"skillName"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`   // machine-readable code
	Message   string    `json:"message,omitempty"` // human-readable detail
	Result    string    `json:"result,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata is the marker interface for skill-specific metadata.
type Metadata interface {
	SkillType() string
}

// rawStructuredResult carries the metadata type tag for JSON round-trips.
type rawStructuredResult struct {
	SkillName    string          `json:"skillName"`
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	Message      string          `json:"message,omitempty"`
	Result       string          `json:"result,omitempty"`
	MetadataType string          `json:"metadataType,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Structured converts a Result into its wire form.
func (r Result) Structured(skillName string) StructuredResult {
	return StructuredResult{
		SkillName: skillName,
		Success:   !r.IsError(),
		Error:     r.Code,
		Message:   r.Error,
		Result:    r.Result,
		Metadata:  r.Metadata,
		Timestamp: time.Now(),
	}
}

// metadataTypeRegistry maps metadata type tags to their Go types so
// UnmarshalJSON can reconstruct the concrete metadata value.
var metadataTypeRegistry = map[string]reflect.Type{
	"knowledge_base_add":    reflect.TypeOf(KnowledgeBaseAddMetadata{}),
	"knowledge_base_search": reflect.TypeOf(KnowledgeBaseSearchMetadata{}),
	"knowledge_base_list":   reflect.TypeOf(KnowledgeBaseListMetadata{}),
	"knowledge_base_delete": reflect.TypeOf(KnowledgeBaseDeleteMetadata{}),
	"notes":                 reflect.TypeOf(NotesMetadata{}),
	"stock_quote":           reflect.TypeOf(QuoteMetadata{}),
	"rss_headlines":         reflect.TypeOf(RSSMetadata{}),
}

// MarshalJSON tags the metadata with its type identifier.
func (s StructuredResult) MarshalJSON() ([]byte, error) {
	raw := rawStructuredResult{
		SkillName: s.SkillName,
		Success:   s.Success,
		Error:     s.Error,
		Message:   s.Message,
		Result:    s.Result,
		Timestamp: s.Timestamp,
	}

	if s.Metadata != nil {
		raw.MetadataType = s.Metadata.SkillType()
		metadataBytes, err := json.Marshal(s.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal metadata")
		}
		raw.Metadata = metadataBytes
	}

	return json.Marshal(raw)
}

// UnmarshalJSON reconstructs the typed metadata from its type tag.
// Unknown metadata types are dropped rather than failing the decode.
func (s *StructuredResult) UnmarshalJSON(data []byte) error {
	var raw rawStructuredResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.SkillName = raw.SkillName
	s.Success = raw.Success
	s.Error = raw.Error
	s.Message = raw.Message
	s.Result = raw.Result
	s.Timestamp = raw.Timestamp

	if raw.MetadataType != "" && len(raw.Metadata) > 0 {
		metadataType, exists := metadataTypeRegistry[raw.MetadataType]
		if !exists {
			return nil
		}

		metadataPtr := reflect.New(metadataType)
		if err := json.Unmarshal(raw.Metadata, metadataPtr.Interface()); err != nil {
			return errors.Wrapf(err, "failed to unmarshal metadata of type %s", raw.MetadataType)
		}
		s.Metadata = metadataPtr.Elem().Interface().(Metadata)
	}

	return nil
}
