// Package notes implements a thin CRUD skill for short notes backed
// by the shared SQLite database. It is a representative API-wrapping
// skill: validate a few string parameters, forward to the injected
// store, reformat the rows as text.
package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/parakeetlabs/skillet/pkg/db"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// Error codes returned in the result envelope.
const (
	CodeInvalidAction  = "INVALID_ACTION"
	CodeInvalidTitle   = "INVALID_TITLE"
	CodeInvalidContent = "INVALID_CONTENT"
	CodeInvalidID      = "INVALID_ID"
	CodeNotFound       = "NOT_FOUND"
	CodeStorage        = "STORAGE_ERROR"
)

// Migrations is the schema for the notes table, applied at startup by
// the composer that opens the shared database.
var Migrations = []db.Migration{
	{
		Version: 1,
		Name:    "create_notes",
		SQL: `CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	},
}

// note mirrors one row of the notes table.
type note struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// Skill is the notes skill handler.
type Skill struct{}

// Input is the parameter envelope shared by all notes actions.
type Input struct {
	Action  string `json:"action" jsonschema:"description=Operation to perform: one of add get list delete"`
	ID      string `json:"id,omitempty" jsonschema:"description=Note id; required for get and delete"`
	Title   string `json:"title,omitempty" jsonschema:"description=Note title; required for add"`
	Content string `json:"content,omitempty" jsonschema:"description=Note content; required for add"`
}

// NewSkill creates the notes skill.
func NewSkill() *Skill {
	return &Skill{}
}

// Name returns the skill name.
func (s *Skill) Name() string {
	return "notes"
}

// Description returns the skill description for the host catalog.
func (s *Skill) Description() string {
	return `Create, read, list and delete short notes stored in the local database.

Actions:
- "add": store a note. Requires "title" and "content".
- "get": fetch a note by "id".
- "list": list all notes, newest first.
- "delete": remove a note by "id".`
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

// ValidateInput checks the parameters without touching the database.
func (s *Skill) ValidateInput(_ skilltypes.Env, parameters string) error {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}

	switch input.Action {
	case "add":
		if strings.TrimSpace(input.Title) == "" {
			return errors.New("title is required")
		}
		if strings.TrimSpace(input.Content) == "" {
			return errors.New("content is required")
		}
	case "get", "delete":
		if strings.TrimSpace(input.ID) == "" {
			return errors.New("id is required")
		}
	case "list":
	default:
		return errors.Errorf("unrecognized action %q", input.Action)
	}
	return nil
}

// TracingKVs returns span attributes for one invocation.
func (s *Skill) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}
	return []attribute.KeyValue{
		attribute.String("notes.action", input.Action),
	}, nil
}

// Execute dispatches the action against the injected database.
func (s *Skill) Execute(ctx context.Context, env skilltypes.Env, parameters string) skilltypes.Result {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return skilltypes.Errorf(CodeInvalidAction, "invalid parameters: %v", err)
	}

	database := env.DB()
	if database == nil {
		return skilltypes.Errorf(CodeStorage, "notes storage is not configured")
	}

	switch input.Action {
	case "add":
		return s.executeAdd(ctx, database, input)
	case "get":
		return s.executeGet(ctx, database, input)
	case "list":
		return s.executeList(ctx, database)
	case "delete":
		return s.executeDelete(ctx, database, input)
	default:
		return skilltypes.Errorf(CodeInvalidAction,
			"unrecognized action %q: expected one of add, get, list, delete", input.Action)
	}
}

func (s *Skill) executeAdd(ctx context.Context, database *sqlx.DB, input Input) skilltypes.Result {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return skilltypes.Errorf(CodeInvalidTitle, "title is required and must be a non-empty string")
	}
	if strings.TrimSpace(input.Content) == "" {
		return skilltypes.Errorf(CodeInvalidContent, "content is required and must be a non-empty string")
	}

	id := uuid.NewString()
	_, err := database.ExecContext(ctx,
		"INSERT INTO notes (id, title, content, created_at) VALUES (?, ?, ?, ?)",
		id, title, input.Content, time.Now().UTC())
	if err != nil {
		return skilltypes.Errorf(CodeStorage, "failed to store note: %v", err)
	}

	return skilltypes.Result{
		Result:   fmt.Sprintf("Saved note %q with id %s.", title, id),
		Metadata: skilltypes.NotesMetadata{Action: "add", ID: id, Title: title},
	}
}

func (s *Skill) executeGet(ctx context.Context, database *sqlx.DB, input Input) skilltypes.Result {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return skilltypes.Errorf(CodeInvalidID, "id is required and must be a non-empty string")
	}

	var n note
	err := database.GetContext(ctx, &n,
		"SELECT id, title, content, created_at FROM notes WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return skilltypes.Errorf(CodeNotFound, "no note with id %q", id)
	}
	if err != nil {
		return skilltypes.Errorf(CodeStorage, "failed to read note: %v", err)
	}

	return skilltypes.Result{
		Result:   fmt.Sprintf("%s\n\n%s", n.Title, n.Content),
		Metadata: skilltypes.NotesMetadata{Action: "get", ID: n.ID, Title: n.Title},
	}
}

func (s *Skill) executeList(ctx context.Context, database *sqlx.DB) skilltypes.Result {
	var all []note
	err := database.SelectContext(ctx, &all,
		"SELECT id, title, content, created_at FROM notes ORDER BY created_at DESC")
	if err != nil {
		return skilltypes.Errorf(CodeStorage, "failed to list notes: %v", err)
	}

	if len(all) == 0 {
		return skilltypes.Result{
			Result:   "No notes stored.",
			Metadata: skilltypes.NotesMetadata{Action: "list"},
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Notes (%d):\n", len(all))
	for _, n := range all {
		fmt.Fprintf(&sb, "- %s (%s)\n", n.Title, n.ID)
	}

	return skilltypes.Result{
		Result:   strings.TrimRight(sb.String(), "\n"),
		Metadata: skilltypes.NotesMetadata{Action: "list", NoteCount: len(all)},
	}
}

func (s *Skill) executeDelete(ctx context.Context, database *sqlx.DB, input Input) skilltypes.Result {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return skilltypes.Errorf(CodeInvalidID, "id is required and must be a non-empty string")
	}

	res, err := database.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return skilltypes.Errorf(CodeStorage, "failed to delete note: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return skilltypes.Errorf(CodeStorage, "failed to delete note: %v", err)
	}
	if affected == 0 {
		return skilltypes.Errorf(CodeNotFound, "no note with id %q", id)
	}

	return skilltypes.Result{
		Result:   fmt.Sprintf("Deleted note %s.", id),
		Metadata: skilltypes.NotesMetadata{Action: "delete", ID: id},
	}
}
