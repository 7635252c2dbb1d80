package handler

import (
	"encoding/json"
	"time"

	"github.com/HasinIshrakK/news-mania-server/internal/model"
)

type ArticleResponse struct {
	ArticleID   string          `json:"article_id"`
	Title       string          `json:"title"`
	Link        string          `json:"link"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	PubDate     string          `json:"pubDate,omitempty"`
	Creator     []string        `json:"creator"`
	Language    string          `json:"language"`
	Country     []string        `json:"country"`
	Category    []string        `json:"category"`
	ContentType string          `json:"content_type"`
	SourceID    string          `json:"source_id"`
	SourceName  string          `json:"source_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

type NewsResponse struct {
	Results []ArticleResponse `json:"results"`
	Total   int               `json:"total"`
}

func toArticleResponse(a model.Article) ArticleResponse {
	var pubDate string
	if !a.PubDate.IsZero() {
		pubDate = a.PubDate.Format(time.RFC3339)
	}

	return ArticleResponse{
		ArticleID:   a.ArticleID,
		Title:       a.Title,
		Link:        a.Link,
		Description: a.Description,
		Content:     a.Content,
		PubDate:     pubDate,
		Creator:     a.Creator,
		Language:    a.Language,
		Country:     a.Country,
		Category:    a.Category,
		ContentType: a.ContentType,
		SourceID:    a.SourceID,
		SourceName:  a.SourceName,
		ImageURL:    a.ImageURL,
		Raw:         a.Raw,
	}
}
