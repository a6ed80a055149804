package main

import (
	"context"
	"log"

	"github.com/okanehq/moneta/internal/config"
	"github.com/okanehq/moneta/internal/content"
	"github.com/okanehq/moneta/internal/database"
	"github.com/okanehq/moneta/internal/delivery"
	"github.com/okanehq/moneta/internal/events"
	"github.com/okanehq/moneta/internal/feeds"
	"github.com/okanehq/moneta/internal/line"
	"github.com/okanehq/moneta/internal/summarize"
	"github.com/okanehq/moneta/internal/worker"
)

// Standalone worker mode: processes step:run and digest:run tasks without
// serving HTTP. Pair with the scheduler or the server's cron endpoints.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	contentStore, err := content.Load(cfg.ContentDir)
	if err != nil {
		log.Fatalf("failed to load content config: %v", err)
	}

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	store := database.NewStore(db)
	lineClient := line.NewClient(cfg.LineChannelAccessToken)

	var summarizer summarize.Summarizer
	if cfg.SummarizerStub {
		summarizer = summarize.StubSummarizer{}
	} else {
		summarizer, err = summarize.NewGeminiSummarizer(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("failed to init summarizer: %v", err)
		}
	}

	publisher, err := events.NewPublisher(cfg.RedisURL)
	if err != nil {
		logger.Warn("Delivery event publishing disabled", "error", err.Error())
		publisher = nil
	} else {
		defer publisher.Close()
	}

	orch := delivery.NewOrchestrator(
		store,
		lineClient,
		lineClient,
		feeds.NewRSSFetcher(),
		summarizer,
		contentStore,
		publisher,
		logger,
	)

	if err := worker.Run(cfg, orch); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}
