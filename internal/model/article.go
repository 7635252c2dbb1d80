package model

import (
	"encoding/json"
	"time"
)

// Article is the stored form of a feed record. ArticleID is the
// provider-assigned identifier and the only uniqueness key; re-ingesting
// an id overwrites every field. Raw carries the provider's result object
// verbatim and is never interpreted past storage.
type Article struct {
	ArticleID   string
	Title       string
	Link        string
	Description string
	Content     string
	PubDate     time.Time // zero when the provider's date failed to parse
	Creator     []string
	Language    string
	Country     []string
	Category    []string
	ContentType string
	SourceID    string
	SourceName  string
	ImageURL    string
	Raw         json.RawMessage
	FetchedAt   time.Time
}
