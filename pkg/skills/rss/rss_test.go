package rss

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

const rssBody = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <item><title>First story</title><link>https://example.com/1</link><pubDate>Mon, 17 Aug 2026 10:00:00 GMT</pubDate></item>
    <item><title>Second story</title><link>https://example.com/2</link><pubDate>Mon, 17 Aug 2026 09:00:00 GMT</pubDate></item>
    <item><title>Third story</title><link>https://example.com/3</link><pubDate>Mon, 17 Aug 2026 08:00:00 GMT</pubDate></item>
  </channel>
</rss>`

const atomBody = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Atom</title>
  <entry><title>Atom entry</title><link href="https://example.com/a"/><updated>2026-08-17T10:00:00Z</updated></entry>
</feed>`

type testEnv struct {
	gateway gateway.Client
}

func (e *testEnv) Gateway() gateway.Client { return e.gateway }
func (e *testEnv) DB() *sqlx.DB            { return nil }

func envServing(t *testing.T, body string) (*testEnv, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := gateway.New(gateway.Config{Timeout: 2 * time.Second, Attempts: 1})
	require.NoError(t, err)
	return &testEnv{gateway: client}, server
}

func TestSkill_Name(t *testing.T) {
	assert.Equal(t, "rss_headlines", NewSkill().Name())
}

func TestSkill_ValidateInput(t *testing.T) {
	skill := NewSkill()

	assert.NoError(t, skill.ValidateInput(nil, `{"url":"https://example.com/feed"}`))
	assert.NoError(t, skill.ValidateInput(nil, `{"url":"http://example.com/feed","limit":5}`))
	assert.Error(t, skill.ValidateInput(nil, `{}`))
	assert.Error(t, skill.ValidateInput(nil, `{"url":"ftp://example.com/feed"}`))
	assert.Error(t, skill.ValidateInput(nil, `{"url":"https://example.com","limit":26}`))
	assert.Error(t, skill.ValidateInput(nil, "not json"))
}

func TestExecute_RSSFeed(t *testing.T) {
	env, server := envServing(t, rssBody)

	result := NewSkill().Execute(context.TODO(), env, `{"url":"`+server.URL+`"}`)
	require.False(t, result.IsError())
	assert.Contains(t, result.Result, "Example News")
	assert.Contains(t, result.Result, "1. First story")

	meta, ok := result.Metadata.(skilltypes.RSSMetadata)
	require.True(t, ok)
	assert.Equal(t, "Example News", meta.FeedTitle)
	require.Len(t, meta.Headlines, 3)
	assert.Equal(t, "First story", meta.Headlines[0].Title)
	assert.Equal(t, "https://example.com/1", meta.Headlines[0].Link)
}

func TestExecute_AtomFeed(t *testing.T) {
	env, server := envServing(t, atomBody)

	result := NewSkill().Execute(context.TODO(), env, `{"url":"`+server.URL+`"}`)
	require.False(t, result.IsError())

	meta, ok := result.Metadata.(skilltypes.RSSMetadata)
	require.True(t, ok)
	assert.Equal(t, "Example Atom", meta.FeedTitle)
	require.Len(t, meta.Headlines, 1)
	assert.Equal(t, "Atom entry", meta.Headlines[0].Title)
	assert.Equal(t, "https://example.com/a", meta.Headlines[0].Link)
}

func TestExecute_LimitCapsHeadlines(t *testing.T) {
	env, server := envServing(t, rssBody)

	result := NewSkill().Execute(context.TODO(), env, `{"url":"`+server.URL+`","limit":2}`)
	require.False(t, result.IsError())

	meta, ok := result.Metadata.(skilltypes.RSSMetadata)
	require.True(t, ok)
	assert.Len(t, meta.Headlines, 2)
}

func TestExecute_InvalidURL(t *testing.T) {
	result := NewSkill().Execute(context.TODO(), &testEnv{}, `{"url":"ftp://example.com"}`)
	assert.Equal(t, CodeInvalidURL, result.Code)
}

func TestExecute_InvalidLimit(t *testing.T) {
	result := NewSkill().Execute(context.TODO(), &testEnv{}, `{"url":"https://example.com","limit":100}`)
	assert.Equal(t, CodeInvalidLimit, result.Code)
}

func TestExecute_NoGateway(t *testing.T) {
	result := NewSkill().Execute(context.TODO(), &testEnv{}, `{"url":"https://example.com"}`)
	assert.Equal(t, CodeGateway, result.Code)
}

func TestExecute_UnparseableBody(t *testing.T) {
	env, server := envServing(t, "this is not a feed")

	result := NewSkill().Execute(context.TODO(), env, `{"url":"`+server.URL+`"}`)
	assert.Equal(t, CodeParse, result.Code)
}

func TestParseFeed(t *testing.T) {
	title, headlines, err := parseFeed([]byte(rssBody))
	require.NoError(t, err)
	assert.Equal(t, "Example News", title)
	assert.Len(t, headlines, 3)

	title, headlines, err = parseFeed([]byte(atomBody))
	require.NoError(t, err)
	assert.Equal(t, "Example Atom", title)
	assert.Len(t, headlines, 1)

	_, _, err = parseFeed([]byte("<rss/>"))
	assert.Error(t, err)
}
