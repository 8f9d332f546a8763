// Package rss implements a thin feed-headline skill: fetch a feed
// through the injected gateway, parse RSS 2.0 or Atom, return the top
// headlines as text.
package rss

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// Error codes returned in the result envelope.
const (
	CodeInvalidURL   = "INVALID_URL"
	CodeInvalidLimit = "INVALID_LIMIT"
	CodeGateway      = "GATEWAY_ERROR"
	CodeParse        = "PARSE_ERROR"
)

const (
	defaultLimit = 10
	maxLimit     = 25
)

// Skill is the RSS headlines skill handler.
type Skill struct{}

// Input is the skill's parameter envelope.
type Input struct {
	URL   string `json:"url" jsonschema:"description=Feed URL to fetch (RSS 2.0 or Atom)"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of headlines to return (default 10, max 25)"`
}

// rssFeed covers the RSS 2.0 shape.
type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// atomFeed covers the Atom shape.
type atomFeed struct {
	Title   string `xml:"title"`
	Entries []struct {
		Title string `xml:"title"`
		Link  struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Updated string `xml:"updated"`
	} `xml:"entry"`
}

// NewSkill creates the RSS skill.
func NewSkill() *Skill {
	return &Skill{}
}

// Name returns the skill name.
func (s *Skill) Name() string {
	return "rss_headlines"
}

// Description returns the skill description for the host catalog.
func (s *Skill) Description() string {
	return `Fetch the latest headlines from an RSS 2.0 or Atom feed. Requires "url"; optional "limit" caps the number of headlines (default 10).`
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

// ValidateInput checks the parameters without fetching anything.
func (s *Skill) ValidateInput(_ skilltypes.Env, parameters string) error {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if err := validateURL(input.URL); err != nil {
		return err
	}
	if input.Limit < 0 || input.Limit > maxLimit {
		return errors.Errorf("limit must be between 0 and %d", maxLimit)
	}
	return nil
}

func validateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "invalid url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.Errorf("url scheme must be http or https, got %q", parsed.Scheme)
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
		attribute.String("rss.url", input.URL),
		attribute.Int("rss.limit", input.Limit),
	}, nil
}

// Execute fetches and parses the feed through the injected gateway.
func (s *Skill) Execute(ctx context.Context, env skilltypes.Env, parameters string) skilltypes.Result {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return skilltypes.Errorf(CodeInvalidURL, "invalid parameters: %v", err)
	}

	if err := validateURL(input.URL); err != nil {
		return skilltypes.Errorf(CodeInvalidURL, "%v", err)
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 0 || limit > maxLimit {
		return skilltypes.Errorf(CodeInvalidLimit, "limit must be between 0 and %d", maxLimit)
	}

	client := env.Gateway()
	if client == nil {
		return skilltypes.Errorf(CodeGateway, "gateway client is not configured")
	}

	body, err := client.Get(ctx, input.URL, nil)
	if err != nil {
		return skilltypes.Errorf(CodeGateway, "feed fetch failed: %v", err)
	}

	feedTitle, headlines, err := parseFeed(body)
	if err != nil {
		return skilltypes.Errorf(CodeParse, "failed to parse feed: %v", err)
	}
	if len(headlines) > limit {
		headlines = headlines[:limit]
	}

	var sb strings.Builder
	if feedTitle != "" {
		fmt.Fprintf(&sb, "%s\n", feedTitle)
	}
	if len(headlines) == 0 {
		sb.WriteString("The feed has no entries.")
	}
	for i, h := range headlines {
		fmt.Fprintf(&sb, "%d. %s", i+1, h.Title)
		if h.Link != "" {
			fmt.Fprintf(&sb, " (%s)", h.Link)
		}
		sb.WriteString("\n")
	}

	return skilltypes.Result{
		Result: strings.TrimRight(sb.String(), "\n"),
		Metadata: skilltypes.RSSMetadata{
			FeedURL:   input.URL,
			FeedTitle: feedTitle,
			Headlines: headlines,
		},
	}
}

// parseFeed tries RSS 2.0 first, then Atom.
func parseFeed(body []byte) (string, []skilltypes.RSSHeadline, error) {
	var rss rssFeed
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		headlines := make([]skilltypes.RSSHeadline, 0, len(rss.Channel.Items))
		for _, item := range rss.Channel.Items {
			headlines = append(headlines, skilltypes.RSSHeadline{
				Title:     strings.TrimSpace(item.Title),
				Link:      strings.TrimSpace(item.Link),
				Published: strings.TrimSpace(item.PubDate),
			})
		}
		return strings.TrimSpace(rss.Channel.Title), headlines, nil
	}

	var atom atomFeed
	if err := xml.Unmarshal(body, &atom); err == nil && len(atom.Entries) > 0 {
		headlines := make([]skilltypes.RSSHeadline, 0, len(atom.Entries))
		for _, entry := range atom.Entries {
			headlines = append(headlines, skilltypes.RSSHeadline{
				Title:     strings.TrimSpace(entry.Title),
				Link:      strings.TrimSpace(entry.Link.Href),
				Published: strings.TrimSpace(entry.Updated),
			})
		}
		return strings.TrimSpace(atom.Title), headlines, nil
	}

	return "", nil, errors.New("document is neither RSS 2.0 nor Atom, or has no entries")
}
