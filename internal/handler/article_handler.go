package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HasinIshrakK/news-mania-server/internal/filter"
	"github.com/HasinIshrakK/news-mania-server/internal/ingest"
	"github.com/HasinIshrakK/news-mania-server/internal/model"
)

type ArticleStore interface {
	Query(p filter.Predicate) ([]model.Article, error)
	Count() (int, error)
}

type CycleStatus interface {
	Last(ctx context.Context) (ingest.Summary, error)
}

type ArticleHandler struct {
	repository ArticleStore
	status     CycleStatus
}

func NewArticleHandler(repository ArticleStore, status CycleStatus) *ArticleHandler {
	return &ArticleHandler{repository: repository, status: status}
}

// GetNews serves the filtered article query. A malformed filter is the
// caller's fault (400); a store failure is ours (500). No pagination:
// every matching record is returned, most recent pubDate first.
func (h *ArticleHandler) GetNews(c *gin.Context) {
	params := filter.Params{
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		Author:      c.Query("author"),
		Language:    c.Query("language"),
		Country:     c.Query("country"),
		Category:    c.Query("category"),
		ContentType: c.Query("contentType"),
	}

	pred, err := filter.Build(params)
	if err != nil {
		slog.Warn("invalid news query", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	articles, err := h.repository.Query(pred)
	if err != nil {
		slog.Error("error querying articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		results = append(results, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, NewsResponse{
		Results: results,
		Total:   len(results),
	})
}

func (h *ArticleHandler) GetIngestStatus(c *gin.Context) {
	if h.status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No ingestion status recorded"})
		return
	}

	summary, err := h.status.Last(c.Request.Context())
	if errors.Is(err, ingest.ErrNoStatus) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No ingestion status recorded"})
		return
	}
	if err != nil {
		slog.Error("error fetching ingestion status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status store error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ArticleHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.Count()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func (h *ArticleHandler) GetRoot(c *gin.Context) {
	c.String(http.StatusOK, "Server running")
}
