// Package ingest runs the fetch-and-upsert pipeline: one-off cycles and
// the schedule that triggers them.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/HasinIshrakK/news-mania-server/internal/model"
	"github.com/HasinIshrakK/news-mania-server/pkg/news"
)

// ErrStoreNotReady is returned when a cycle is triggered before the
// article store has been initialized.
var ErrStoreNotReady = errors.New("ingest: article store not ready")

// ErrAllSourcesFailed is the cycle-level failure: no configured source
// produced a batch, so no upserts were attempted.
var ErrAllSourcesFailed = errors.New("ingest: all sources failed to fetch")

type Store interface {
	Upsert(a *model.Article) error
}

type SourceResult struct {
	Source     string `json:"source"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
	FetchError string `json:"fetch_error,omitempty"`
}

// Summary describes one completed ingestion cycle. Processed counts
// successful upserts; Failed counts per-record failures, which do not
// make the cycle itself a failure.
type Summary struct {
	CycleID    string         `json:"cycle_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Processed  int            `json:"processed"`
	Failed     int            `json:"failed"`
	Sources    []SourceResult `json:"sources"`
}

type Ingestor struct {
	store   Store
	sources []news.Client
	status  *StatusRecorder
}

func NewIngestor(store Store, sources []news.Client, status *StatusRecorder) *Ingestor {
	return &Ingestor{store: store, sources: sources, status: status}
}

// RunCycle performs one full fetch-then-upsert pass. A source whose
// fetch fails contributes nothing but does not stop the other sources;
// a record whose upsert fails is logged and skipped. The summary is
// emitted regardless of record failures.
func (i *Ingestor) RunCycle(ctx context.Context) (Summary, error) {
	if i == nil || i.store == nil {
		return Summary{}, ErrStoreNotReady
	}

	summary := Summary{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now(),
	}

	fetchFailures := 0
	for _, client := range i.sources {
		source := client.Name()
		res := SourceResult{Source: source}

		candidates, err := client.Fetch()
		if err != nil {
			slog.Error("error fetching articles", "cycle_id", summary.CycleID, "source", source, "error", err)
			res.FetchError = err.Error()
			fetchFailures++
			summary.Sources = append(summary.Sources, res)
			continue
		}

		for _, c := range candidates {
			article := model.Article{
				ArticleID:   c.ArticleID,
				Title:       c.Title,
				Link:        c.Link,
				Description: c.Description,
				Content:     c.Content,
				PubDate:     c.PubDate,
				Creator:     c.Creator,
				Language:    c.Language,
				Country:     c.Country,
				Category:    c.Category,
				ContentType: c.ContentType,
				SourceID:    c.SourceID,
				SourceName:  c.SourceName,
				ImageURL:    c.ImageURL,
				Raw:         c.Raw,
			}

			if err := i.store.Upsert(&article); err != nil {
				slog.Error("error saving article", "cycle_id", summary.CycleID, "source", source, "article_id", c.ArticleID, "error", err)
				res.Failed++
				continue
			}
			res.Processed++
		}

		summary.Sources = append(summary.Sources, res)
		summary.Processed += res.Processed
		summary.Failed += res.Failed
	}

	summary.FinishedAt = time.Now()

	i.status.Record(ctx, summary)

	if len(i.sources) > 0 && fetchFailures == len(i.sources) {
		return summary, ErrAllSourcesFailed
	}

	slog.Info("ingestion cycle complete",
		"cycle_id", summary.CycleID,
		"processed", summary.Processed,
		"failed", summary.Failed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String())

	return summary, nil
}
