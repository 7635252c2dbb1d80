package news

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

type RSSClient struct {
	url    string
	parser *gofeed.Parser
}

func NewRSSClient(url string) *RSSClient {
	return &RSSClient{url: url, parser: gofeed.NewParser()}
}

func (c *RSSClient) Name() string {
	return "rss:" + c.url
}

func (c *RSSClient) Fetch() ([]Article, error) {
	feed, err := c.parser.ParseURL(c.url)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", c.url, err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := item.GUID
		if id == "" {
			id = generateExternalID(item.Link)
		}

		var pubDate time.Time
		if item.PublishedParsed != nil {
			pubDate = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pubDate = *item.UpdatedParsed
		}

		var creators []string
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				creators = append(creators, a.Name)
			}
		}

		var imageURL string
		if item.Image != nil {
			imageURL = item.Image.URL
		}

		raw, err := json.Marshal(item)
		if err != nil {
			raw = nil
		}

		articles = append(articles, Article{
			ArticleID:   id,
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			PubDate:     pubDate,
			Creator:     creators,
			Category:    item.Categories,
			SourceName:  feed.Title,
			ImageURL:    imageURL,
			Raw:         raw,
		})
	}

	return articles, nil
}

func generateExternalID(link string) string {
	sum := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", sum)[:16]
}
