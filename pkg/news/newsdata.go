package news

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	newsdataBaseURL    = "https://newsdata.io/api/1/latest"
	newsdataTimeLayout = "2006-01-02 15:04:05"
)

type NewsdataClient struct {
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
}

func NewNewsdataClient(apiKey, language string) *NewsdataClient {
	return &NewsdataClient{
		apiKey:     apiKey,
		language:   language,
		baseURL:    newsdataBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *NewsdataClient) Name() string {
	return "newsdata"
}

// Fetch performs one call to the feed and returns the parsed result
// list. A record with an unparseable pubDate is kept with the zero
// time rather than dropped.
func (c *NewsdataClient) Fetch() ([]Article, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}

	resp, err := c.httpClient.Get(c.baseURL + "?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("newsdata fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsdata fetch: unexpected status %s", resp.Status)
	}

	var raw newsdataResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("newsdata decode: %w", err)
	}

	if raw.Status != "" && raw.Status != "success" {
		return nil, fmt.Errorf("newsdata fetch: response status %q", raw.Status)
	}

	articles := make([]Article, 0, len(raw.Results))
	for _, rawItem := range raw.Results {
		var item newsdataResult
		if err := json.Unmarshal(rawItem, &item); err != nil {
			return nil, fmt.Errorf("newsdata decode result: %w", err)
		}

		pubDate, err := time.Parse(newsdataTimeLayout, item.PubDate)
		if err != nil {
			pubDate = time.Time{}
		}

		articles = append(articles, Article{
			ArticleID:   item.ArticleID,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			PubDate:     pubDate,
			Creator:     item.Creator,
			Language:    item.Language,
			Country:     item.Country,
			Category:    item.Category,
			ContentType: item.ContentType,
			SourceID:    item.SourceID,
			SourceName:  item.SourceName,
			ImageURL:    item.ImageURL,
			Raw:         rawItem,
		})
	}

	return articles, nil
}

type newsdataResponse struct {
	Status       string            `json:"status"`
	TotalResults int               `json:"totalResults"`
	Results      []json.RawMessage `json:"results"`
}

type newsdataResult struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	PubDate     string   `json:"pubDate"`
	Creator     []string `json:"creator"`
	Language    string   `json:"language"`
	Country     []string `json:"country"`
	Category    []string `json:"category"`
	ContentType string   `json:"content_type"`
	SourceID    string   `json:"source_id"`
	SourceName  string   `json:"source_name"`
	ImageURL    string   `json:"image_url"`
}
