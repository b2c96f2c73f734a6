package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/api/handlers"
	"github.com/westeros-labs/lawsearch/internal/config"
	"github.com/westeros-labs/lawsearch/internal/database"
	"github.com/westeros-labs/lawsearch/internal/docs"
	"github.com/westeros-labs/lawsearch/internal/health"
	"github.com/westeros-labs/lawsearch/internal/index"
	"github.com/westeros-labs/lawsearch/internal/models"
	"github.com/westeros-labs/lawsearch/internal/repository"
	"github.com/westeros-labs/lawsearch/pkg/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting lawsearch API service...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Query history is optional: without a reachable database the service
	// still answers queries, it just keeps no history.
	var dbManager *database.Manager
	var queryRepo models.QueryRecordRepository

	if cfg.Database.URL != "" {
		dbManager, err = database.NewManager(&database.Config{
			DatabaseURL: cfg.Database.URL,
			LogLevel:    os.Getenv("LOG_LEVEL"),
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Query history disabled: database unavailable")
			dbManager = nil
		} else {
			defer dbManager.Close()
			if err := dbManager.Migrate(); err != nil {
				logger.WithError(err).Fatal("Failed to run database migrations")
			}
			queryRepo = repository.NewQueryRecordRepository(dbManager.DB)
		}
	} else {
		logger.Info("No database configured, query history disabled")
	}

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey)
	engine := index.NewEngine(openaiClient, openaiClient, cfg.OpenAI.ChatModel, cfg.Index.TopK, logger)

	// Build the index before serving. Any failure here leaves the service
	// running but not ready: /query answers with its 503 detail until the
	// process is restarted with the problem fixed.
	buildIndex(cfg, engine, logger)

	queryHandler := handlers.NewQueryHandler(engine, queryRepo, logger)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(dbManager, engine.Ready, logger))

	router := gin.Default()
	// Allow CORS during local development so browser frontends can call this
	// API directly. Restrict origins in production.
	router.Use(cors.Default())

	router.GET("/query", queryHandler.HandleQuery)
	router.GET("/health", healthHandler.HandleHealth)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	logger.WithField("port", cfg.Server.Port).Info("API service listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
}

func buildIndex(cfg *config.Config, engine *index.Engine, logger *logrus.Logger) {
	logger.Info("--- STARTUP: building law index ---")

	if err := cfg.ValidateOpenAI(); err != nil {
		logger.WithError(err).Error("FATAL ERROR (config): cannot build index without an OpenAI key")
		return
	}

	docService := docs.NewService(cfg.Docs.Path, logger)
	sections, err := docService.LoadSections()
	if err != nil {
		logger.WithError(err).Error("FATAL ERROR (corpus): failed to load laws")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := engine.Load(ctx, sections); err != nil {
		logger.WithError(err).Error("FATAL ERROR (indexing): failed to build index")
		return
	}

	logger.Info("--- STARTUP: complete, index ready ---")
}
