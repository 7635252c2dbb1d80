package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/HasinIshrakK/news-mania-server/internal/model"
	"github.com/HasinIshrakK/news-mania-server/pkg/news"
)

type fakeStore struct {
	upserts []model.Article
	failOn  map[string]error
}

func (f *fakeStore) Upsert(a *model.Article) error {
	if err := f.failOn[a.ArticleID]; err != nil {
		return err
	}
	f.upserts = append(f.upserts, *a)
	return nil
}

type fakeSource struct {
	name     string
	articles []news.Article
	err      error
}

func (f *fakeSource) Fetch() ([]news.Article, error) { return f.articles, f.err }
func (f *fakeSource) Name() string                   { return f.name }

func TestRunCycle_StoreNotReady(t *testing.T) {
	ing := NewIngestor(nil, []news.Client{&fakeSource{name: "test"}}, nil)

	_, err := ing.RunCycle(context.Background())

	assert.Equal(t, ErrStoreNotReady, err)
}

func TestRunCycle_EmptyFeed(t *testing.T) {
	store := &fakeStore{}
	ing := NewIngestor(store, []news.Client{&fakeSource{name: "empty"}}, nil)

	summary, err := ing.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, len(store.upserts))
	assert.NotEqual(t, "", summary.CycleID)
}

func TestRunCycle_UpsertsAllCandidates(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{
		name: "test",
		articles: []news.Article{
			{ArticleID: "a", Title: "A", PubDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
			{ArticleID: "b", Title: "B"},
		},
	}
	ing := NewIngestor(store, []news.Client{src}, nil)

	summary, err := ing.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, len(store.upserts))
	assert.Equal(t, "a", store.upserts[0].ArticleID)
	assert.Equal(t, "A", store.upserts[0].Title)

	// an unparsed date passes through as the zero time, not dropped
	assert.Equal(t, true, store.upserts[1].PubDate.IsZero())
}

func TestRunCycle_PartialFailure(t *testing.T) {
	store := &fakeStore{failOn: map[string]error{"b": errors.New("constraint violation")}}
	src := &fakeSource{
		name: "test",
		articles: []news.Article{
			{ArticleID: "a"}, {ArticleID: "b"}, {ArticleID: "c"},
		},
	}
	ing := NewIngestor(store, []news.Client{src}, nil)

	summary, err := ing.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, len(store.upserts))
	assert.Equal(t, "c", store.upserts[1].ArticleID)
}

func TestRunCycle_TotalFetchFailure(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{name: "down", err: errors.New("connection refused")}
	ing := NewIngestor(store, []news.Client{src}, nil)

	summary, err := ing.RunCycle(context.Background())

	assert.Equal(t, ErrAllSourcesFailed, err)
	assert.Equal(t, 0, len(store.upserts))
	assert.Equal(t, 1, len(summary.Sources))
	assert.NotEqual(t, "", summary.Sources[0].FetchError)
}

func TestRunCycle_OneSourceDownOthersContinue(t *testing.T) {
	store := &fakeStore{}
	down := &fakeSource{name: "down", err: errors.New("connection refused")}
	up := &fakeSource{name: "up", articles: []news.Article{{ArticleID: "a"}}}
	ing := NewIngestor(store, []news.Client{down, up}, nil)

	summary, err := ing.RunCycle(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, len(store.upserts))
	assert.Equal(t, 2, len(summary.Sources))
}

func TestRunCycle_DuplicateIDsLastWins(t *testing.T) {
	store := &fakeStore{}
	src := &fakeSource{
		name: "test",
		articles: []news.Article{
			{ArticleID: "a", Title: "first"},
			{ArticleID: "a", Title: "second"},
		},
	}
	ing := NewIngestor(store, []news.Client{src}, nil)

	summary, err := ing.RunCycle(context.Background())

	// both upserts reach the store in batch order; the store's
	// overwrite semantics leave the second one standing
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, len(store.upserts))
	assert.Equal(t, "second", store.upserts[1].Title)
}
