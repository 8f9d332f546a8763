package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parakeetlabs/skillet/pkg/gateway"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

type testEnv struct {
	gateway gateway.Client
}

func (e *testEnv) Gateway() gateway.Client { return e.gateway }
func (e *testEnv) DB() *sqlx.DB            { return nil }

func envWithServer(t *testing.T, handler http.HandlerFunc) (*testEnv, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gateway.New(gateway.Config{Timeout: 2 * time.Second, Attempts: 1})
	require.NoError(t, err)
	return &testEnv{gateway: client}, server
}

func TestSkill_Name(t *testing.T) {
	assert.Equal(t, "stock_quote", NewSkill().Name())
}

func TestSkill_ValidateInput(t *testing.T) {
	skill := NewSkill()

	assert.NoError(t, skill.ValidateInput(nil, `{"symbol":"AAPL"}`))
	assert.Error(t, skill.ValidateInput(nil, `{"symbol":""}`))
	assert.Error(t, skill.ValidateInput(nil, `{}`))
	assert.Error(t, skill.ValidateInput(nil, "not json"))
}

func TestExecute_Success(t *testing.T) {
	env, server := envWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"c": 198.5, "h": 201.0, "l": 196.2, "o": 197.0, "pc": 195.8}`))
	})

	skill := NewSkillWithBaseURL(server.URL)
	result := skill.Execute(context.TODO(), env, `{"symbol":"aapl"}`)
	require.False(t, result.IsError())
	assert.Contains(t, result.Result, "AAPL: 198.50")

	meta, ok := result.Metadata.(skilltypes.QuoteMetadata)
	require.True(t, ok)
	assert.Equal(t, "AAPL", meta.Symbol)
	assert.Equal(t, 198.5, meta.Current)
	assert.Equal(t, 195.8, meta.PreviousClose)
}

func TestExecute_EmptySymbol(t *testing.T) {
	skill := NewSkill()
	result := skill.Execute(context.TODO(), &testEnv{}, `{"symbol":"  "}`)
	assert.Equal(t, CodeInvalidSymbol, result.Code)
}

func TestExecute_NoGateway(t *testing.T) {
	skill := NewSkill()
	result := skill.Execute(context.TODO(), &testEnv{}, `{"symbol":"AAPL"}`)
	assert.Equal(t, CodeGateway, result.Code)
}

func TestExecute_ProviderFailure(t *testing.T) {
	env, server := envWithServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	skill := NewSkillWithBaseURL(server.URL)
	result := skill.Execute(context.TODO(), env, `{"symbol":"AAPL"}`)
	assert.Equal(t, CodeGateway, result.Code)
	assert.Contains(t, result.Error, "AAPL")
}
