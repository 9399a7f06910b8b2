package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clearnote-ai/clearnoteai/internal/api/handlers"
	"github.com/clearnote-ai/clearnoteai/internal/chunking"
	"github.com/clearnote-ai/clearnoteai/internal/config"
	"github.com/clearnote-ai/clearnoteai/internal/jobs"
	"github.com/clearnote-ai/clearnoteai/internal/openai"
	"github.com/clearnote-ai/clearnoteai/internal/repository"
	"github.com/clearnote-ai/clearnoteai/internal/server"
	"github.com/clearnote-ai/clearnoteai/internal/service"
	"github.com/clearnote-ai/clearnoteai/internal/storage"
	"github.com/clearnote-ai/clearnoteai/internal/summarize"
	"github.com/clearnote-ai/clearnoteai/internal/telemetry"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	openaisdk "github.com/sashabaranov/go-openai"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the clearnote API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	docRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)

	var sources service.SourceStore
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		sources = s3Client
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("CLEARNOTE_OPENAI_API_KEY (or OPENAI_API_KEY) is required")
	}
	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      openaisdk.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	chunker, err := newChunker(cfg)
	if err != nil {
		return err
	}

	summarizer := summarize.NewSummarizerWithConfig(embeddingClient, summarize.Config{
		MaxSentences:       cfg.SummaryMaxSentences,
		DiversityThreshold: cfg.SummaryDiversityThreshold,
		MinSentenceLength:  cfg.SummaryMinSentenceLen,
	})

	docSvc := service.NewDocumentServiceWithSources(docRepo, chunkRepo, chunker, embeddingClient, sources)
	searchSvc := service.NewSearchServiceWithConfig(chunkRepo, embeddingClient, summarizer, service.SearchConfig{
		TopK:           cfg.SearchTopK,
		ScoreThreshold: cfg.SearchScoreThreshold,
	})

	indexProcessor := jobs.NewIndexWorkerWithRetries(docRepo, docSvc, cfg.WorkerMaxRetries)
	indexWorker := jobs.NewWorker(indexProcessor, time.Duration(cfg.WorkerPollSeconds)*time.Second)
	go indexWorker.Start(ctx)
	log.Println("index worker started")

	routerCfg := server.RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(docSvc),
		QueryHandler:    handlers.NewQueryHandler(searchSvc),
		HealthHandler:   handlers.NewHealthHandler(docSvc, cfg.EmbeddingModel),
		MaxBodyBytes:    cfg.MaxBodyMB * 1024 * 1024,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	indexWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func newChunker(cfg *config.Config) (service.Chunker, error) {
	chunkCfg := chunking.Config{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
	}

	switch cfg.ChunkStrategy {
	case "fixed":
		return chunking.NewFixedWindowChunker(chunkCfg)
	case "semantic", "":
		return chunking.NewOverlapChunker(chunkCfg)
	default:
		return nil, fmt.Errorf("unknown chunk strategy %q (expected 'semantic' or 'fixed')", cfg.ChunkStrategy)
	}
}

func runMigrations(databaseURL string) error {
	// golang-migrate needs a database/sql connection
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case err == migrate.ErrNilVersion:
		log.Println("migrations: no migrations applied")
	case err != nil:
		return fmt.Errorf("failed to get migration version: %w", err)
	case dirty:
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	default:
		log.Printf("migrations: database at version %d", version)
	}

	return nil
}
