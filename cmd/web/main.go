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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/config"
	"github.com/westeros-labs/lawsearch/internal/queryapi"
	"github.com/westeros-labs/lawsearch/internal/web"
	"github.com/westeros-labs/lawsearch/pkg/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting lawsearch web frontend...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	client := queryapi.NewClient(cfg.API.BaseURL, logger)
	handler := web.NewHandler(client, logger)

	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())
	router.GET("/", handler.HandleIndex)

	server := &http.Server{
		Addr:    ":" + cfg.Web.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":     cfg.Web.Port,
		"api_base": client.BaseURL(),
	}).Info("Web frontend listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down web frontend...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
}
