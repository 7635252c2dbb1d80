package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/HasinIshrakK/news-mania-server/db"
	"github.com/HasinIshrakK/news-mania-server/internal/ingest"
	"github.com/HasinIshrakK/news-mania-server/internal/repository"
	"github.com/HasinIshrakK/news-mania-server/pkg/news"
)

// One-shot ingestion cycle, for running the fetch outside the API
// process (cron jobs, backfills, local debugging).
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	conn, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	repo := repository.NewArticleRepository(conn)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatalf("error ensuring article schema: %v", err)
	}

	var status *ingest.StatusRecorder
	if os.Getenv("REDIS_URL") != "" {
		rdb, err := db.ConnectRedis()
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer rdb.Close()
		status = ingest.NewStatusRecorder(rdb)
	}

	sources := newsSources()
	if len(sources) == 0 {
		slog.Error("no news sources configured")
		return
	}

	ingestor := ingest.NewIngestor(repo, sources, status)

	summary, err := ingestor.RunCycle(context.Background())
	if err != nil {
		slog.Error("ingestion cycle failed", "error", err)
		os.Exit(1)
	}

	slog.Info("fetch complete", "cycle_id", summary.CycleID, "processed", summary.Processed, "failed", summary.Failed)
}

func newsSources() []news.Client {
	var sources []news.Client

	if key := os.Getenv("NEWSDATA_API_KEY"); key != "" {
		language := os.Getenv("NEWS_LANGUAGE")
		if language == "" {
			language = "en"
		}
		sources = append(sources, news.NewNewsdataClient(key, language))
	}

	for _, u := range strings.Split(os.Getenv("RSS_FEEDS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			sources = append(sources, news.NewRSSClient(u))
		}
	}

	return sources
}
