package notes

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parakeetlabs/skillet/pkg/db"
	"github.com/parakeetlabs/skillet/pkg/gateway"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

type testEnv struct {
	db *sqlx.DB
}

func (e *testEnv) Gateway() gateway.Client { return nil }
func (e *testEnv) DB() *sqlx.DB            { return e.db }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.TODO()

	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(ctx, database, Migrations))
	return &testEnv{db: database}
}

func executeJSON(t *testing.T, env *testEnv, input Input) skilltypes.Result {
	t.Helper()
	params, err := json.Marshal(input)
	require.NoError(t, err)
	return NewSkill().Execute(context.TODO(), env, string(params))
}

func addNote(t *testing.T, env *testEnv, title, content string) string {
	t.Helper()
	result := executeJSON(t, env, Input{Action: "add", Title: title, Content: content})
	require.False(t, result.IsError())
	meta, ok := result.Metadata.(skilltypes.NotesMetadata)
	require.True(t, ok)
	require.NotEmpty(t, meta.ID)
	return meta.ID
}

func TestSkill_Name(t *testing.T) {
	assert.Equal(t, "notes", NewSkill().Name())
}

func TestSkill_ValidateInput(t *testing.T) {
	skill := NewSkill()

	assert.NoError(t, skill.ValidateInput(nil, `{"action":"add","title":"t","content":"c"}`))
	assert.NoError(t, skill.ValidateInput(nil, `{"action":"list"}`))
	assert.Error(t, skill.ValidateInput(nil, `{"action":"add","title":"t"}`))
	assert.Error(t, skill.ValidateInput(nil, `{"action":"get"}`))
	assert.Error(t, skill.ValidateInput(nil, `{"action":"bogus"}`))
	assert.Error(t, skill.ValidateInput(nil, "not json"))
}

func TestExecute_AddAndGet(t *testing.T) {
	env := newTestEnv(t)

	id := addNote(t, env, "Shopping", "milk and eggs")

	result := executeJSON(t, env, Input{Action: "get", ID: id})
	require.False(t, result.IsError())
	assert.Contains(t, result.Result, "Shopping")
	assert.Contains(t, result.Result, "milk and eggs")

	meta, ok := result.Metadata.(skilltypes.NotesMetadata)
	require.True(t, ok)
	assert.Equal(t, id, meta.ID)
	assert.Equal(t, "Shopping", meta.Title)
}

func TestExecute_List(t *testing.T) {
	env := newTestEnv(t)

	result := executeJSON(t, env, Input{Action: "list"})
	require.False(t, result.IsError())
	assert.Equal(t, "No notes stored.", result.Result)

	addNote(t, env, "First", "one")
	addNote(t, env, "Second", "two")

	result = executeJSON(t, env, Input{Action: "list"})
	require.False(t, result.IsError())
	assert.Contains(t, result.Result, "Notes (2):")

	meta, ok := result.Metadata.(skilltypes.NotesMetadata)
	require.True(t, ok)
	assert.Equal(t, 2, meta.NoteCount)
}

func TestExecute_Delete(t *testing.T) {
	env := newTestEnv(t)
	id := addNote(t, env, "Doomed", "gone soon")

	result := executeJSON(t, env, Input{Action: "delete", ID: id})
	require.False(t, result.IsError())

	result = executeJSON(t, env, Input{Action: "get", ID: id})
	assert.Equal(t, CodeNotFound, result.Code)

	result = executeJSON(t, env, Input{Action: "delete", ID: id})
	assert.Equal(t, CodeNotFound, result.Code)
}

func TestExecute_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		in   Input
		code string
	}{
		{"missing title", Input{Action: "add", Content: "c"}, CodeInvalidTitle},
		{"missing content", Input{Action: "add", Title: "t"}, CodeInvalidContent},
		{"get without id", Input{Action: "get"}, CodeInvalidID},
		{"delete without id", Input{Action: "delete"}, CodeInvalidID},
		{"unknown action", Input{Action: "rename"}, CodeInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := executeJSON(t, env, tt.in)
			assert.Equal(t, tt.code, result.Code)
		})
	}
}

func TestExecute_NoDatabase(t *testing.T) {
	result := NewSkill().Execute(context.TODO(), &testEnv{}, `{"action":"list"}`)
	assert.Equal(t, CodeStorage, result.Code)
}
