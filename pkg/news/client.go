package news

import (
	"encoding/json"
	"time"
)

// Article is one candidate record as fetched from a provider, dates
// already parsed. Raw keeps the provider's original result object.
type Article struct {
	ArticleID   string
	Title       string
	Link        string
	Description string
	Content     string
	PubDate     time.Time
	Creator     []string
	Language    string
	Country     []string
	Category    []string
	ContentType string
	SourceID    string
	SourceName  string
	ImageURL    string
	Raw         json.RawMessage
}

type Client interface {
	Fetch() ([]Article, error)
	Name() string
}
