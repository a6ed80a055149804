package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/okanehq/moneta/internal/auth"
	"github.com/okanehq/moneta/internal/config"
	"github.com/okanehq/moneta/internal/content"
	"github.com/okanehq/moneta/internal/database"
	"github.com/okanehq/moneta/internal/delivery"
	"github.com/okanehq/moneta/internal/diagnosis"
	"github.com/okanehq/moneta/internal/events"
	"github.com/okanehq/moneta/internal/feeds"
	"github.com/okanehq/moneta/internal/health"
	"github.com/okanehq/moneta/internal/line"
	"github.com/okanehq/moneta/internal/linebot"
	"github.com/okanehq/moneta/internal/summarize"
	"github.com/okanehq/moneta/internal/worker"
)

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

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			log.Printf("Warning: failed to seed dev data: %v", err)
		}
	}

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		log.Fatalf("failed to init task client: %v", err)
	}
	defer worker.CloseClient()

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

	// Embedded worker + scheduler: one process serves HTTP and processes
	// batches in development and small deployments. cmd/worker runs the
	// worker standalone instead.
	stopWorker, err := worker.Start(cfg, orch)
	if err != nil {
		log.Fatalf("failed to start worker: %v", err)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer stopScheduler()

	router, err := buildRouter(cfg, db, contentStore, store, lineClient, logger)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("Server shutdown failed", "error", err.Error())
	}
}

func buildRouter(
	cfg *config.Config,
	db *gorm.DB,
	contentStore *content.Store,
	store *database.Store,
	lineClient *line.Client,
	logger *slog.Logger,
) (*gin.Engine, error) {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", gin.WrapF(health.Handler))

	submitHandler, err := diagnosis.SubmitHandler(db, contentStore.Diagnosis)
	if err != nil {
		return nil, err
	}
	router.POST("/api/diagnosis", submitHandler)

	webhookHandler := linebot.NewHandler(store, lineClient, contentStore, cfg.LineChannelSecret, logger)
	router.POST("/api/line/webhook", webhookHandler.Webhook)

	// Cron endpoints enqueue the batch tasks; the worker executes them
	// under the per-campaign run lock.
	cron := router.Group("/api/cron", auth.RequireCronSecret(cfg.CronSecret))
	cron.POST("/step", func(c *gin.Context) {
		var payload worker.StepPayload
		_ = c.ShouldBindJSON(&payload)

		if err := worker.EnqueueRunStep(payload); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue step batch"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"enqueued": worker.TaskRunStep, "dryRun": payload.DryRun})
	})
	cron.POST("/digest", func(c *gin.Context) {
		var payload worker.DigestPayload
		_ = c.ShouldBindJSON(&payload)

		if err := worker.EnqueueRunDigest(payload); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue digest run"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"enqueued": worker.TaskRunDigest, "dryRun": payload.DryRun})
	})

	return router, nil
}
