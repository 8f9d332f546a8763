package skills

import "time"

// Knowledge base metadata, one type per action.

type KnowledgeBaseAddMetadata struct {
	Action       string   `json:"action"`
	Key          string   `json:"key"`
	IsUpdate     bool     `json:"isUpdate"`
	Keywords     []string `json:"keywords"`
	KeywordCount int      `json:"keywordCount"`
	TokenCount   int      `json:"tokenCount"`
}

func (m KnowledgeBaseAddMetadata) SkillType() string { return "knowledge_base_add" }

type KnowledgeBaseSearchMetadata struct {
	Action        string                `json:"action"`
	Query         string                `json:"query"`
	QueryTokens   []string              `json:"queryTokens"`
	ResultCount   int                   `json:"resultCount"`
	ReturnedCount int                   `json:"returnedCount"`
	Truncated     bool                  `json:"truncated"`
	Results       []KnowledgeBaseResult `json:"results"`
}

func (m KnowledgeBaseSearchMetadata) SkillType() string { return "knowledge_base_search" }

// KnowledgeBaseResult is a single ranked search hit.
type KnowledgeBaseResult struct {
	Key            string   `json:"key"`
	Score          float64  `json:"score"`
	ContentPreview string   `json:"contentPreview"`
	Keywords       []string `json:"keywords"`
}

type KnowledgeBaseListMetadata struct {
	Action     string               `json:"action"`
	EntryCount int                  `json:"entryCount"`
	Entries    []KnowledgeBaseEntry `json:"entries"`
}

func (m KnowledgeBaseListMetadata) SkillType() string { return "knowledge_base_list" }

// KnowledgeBaseEntry is a stored document as reported by list.
type KnowledgeBaseEntry struct {
	Key            string    `json:"key"`
	ContentPreview string    `json:"contentPreview"`
	Keywords       []string  `json:"keywords"`
	TokenCount     int       `json:"tokenCount"`
	AddedAt        time.Time `json:"addedAt"`
}

type KnowledgeBaseDeleteMetadata struct {
	Action           string `json:"action"`
	Key              string `json:"key"`
	RemainingEntries int    `json:"remainingEntries"`
}

func (m KnowledgeBaseDeleteMetadata) SkillType() string { return "knowledge_base_delete" }

// NotesMetadata covers every notes action; unused fields stay empty.
type NotesMetadata struct {
	Action    string `json:"action"`
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	NoteCount int    `json:"noteCount,omitempty"`
}

func (m NotesMetadata) SkillType() string { return "notes" }

// QuoteMetadata carries the fields of a stock quote lookup.
type QuoteMetadata struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
}

func (m QuoteMetadata) SkillType() string { return "stock_quote" }

// RSSMetadata carries the parsed headlines of a feed fetch.
type RSSMetadata struct {
	FeedURL   string        `json:"feedUrl"`
	FeedTitle string        `json:"feedTitle,omitempty"`
	Headlines []RSSHeadline `json:"headlines"`
}

// RSSHeadline is a single feed item.
type RSSHeadline struct {
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	Published string `json:"published,omitempty"`
}

func (m RSSMetadata) SkillType() string { return "rss_headlines" }
