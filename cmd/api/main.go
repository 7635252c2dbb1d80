package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/HasinIshrakK/news-mania-server/db"
	"github.com/HasinIshrakK/news-mania-server/internal/handler"
	"github.com/HasinIshrakK/news-mania-server/internal/ingest"
	"github.com/HasinIshrakK/news-mania-server/internal/repository"
	"github.com/HasinIshrakK/news-mania-server/pkg/news"
)

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
		slog.Warn("no news sources configured, ingestion disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(sources) > 0 {
		ingestor := ingest.NewIngestor(repo, sources, status)
		scheduler := ingest.NewScheduler(ingestor, fetchInterval())
		go scheduler.Start(ctx)
	}

	articleHandler := handler.NewArticleHandler(repo, status)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/", articleHandler.GetRoot)
	r.GET("/news", articleHandler.GetNews)
	r.GET("/ingest/status", articleHandler.GetIngestStatus)
	r.GET("/health", articleHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
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

func fetchInterval() time.Duration {
	const defaultInterval = 6 * time.Hour

	raw := os.Getenv("FETCH_INTERVAL")
	if raw == "" {
		return defaultInterval
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid FETCH_INTERVAL, using default", "value", raw, "default", defaultInterval.String())
		return defaultInterval
	}

	return d
}
