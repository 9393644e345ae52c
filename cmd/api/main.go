package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"digitalbrain/internal/ai"
	"digitalbrain/internal/config"
	"digitalbrain/internal/export"
	"digitalbrain/internal/http"
	"digitalbrain/internal/notify"
	"digitalbrain/internal/scheduler"
	"digitalbrain/internal/search"
	"digitalbrain/internal/service"
	"digitalbrain/internal/storage"
	"digitalbrain/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	entryRepo := storage.NewEntryRepo(db)
	reminderRepo := storage.NewReminderRepo(db)
	summaryRepo := storage.NewSummaryRepo(db)

	aiClient := ai.NewClient(cfg.AIServiceURL, cfg.AITimeout)
	exporter := export.NewMarkdownExporter(cfg.ExportDir)

	ctx := context.Background()

	// Semantic search is optional: with no Qdrant configured the
	// search endpoint falls back to substring matching.
	var index service.Indexer
	if cfg.QdrantURL != "" {
		vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		embedder := ai.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.VectorSize)
		index = search.NewSemanticIndex(embedder, vectorStore, cfg.QdrantCollection)
		slog.Info("Semantic index ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)
	}

	notes := service.NewNoteService(service.Deps{
		Entries:          entryRepo,
		Reminders:        reminderRepo,
		Summaries:        summaryRepo,
		AI:               aiClient,
		Exporter:         exporter,
		Index:            index,
		CommandVerbs:     cfg.CommandVerbs,
		SummaryThreshold: cfg.SummaryThreshold,
	})

	var notifier notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.NotifyEmail)
	} else {
		notifier = notify.NewLogNotifier()
		slog.Warn("SMTP not configured, reminders will only be logged")
	}

	sched := scheduler.New(reminderRepo, entryRepo, notifier, scheduler.WithInterval(cfg.ReminderPollInterval))
	sched.Start(ctx)
	defer sched.Stop()

	router := http.NewRouter(&http.Deps{
		Notes: notes,
		DB:    db,
	})

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{Addr: addr, Handler: router}

	go func() {
		slog.Info("Starting API server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
