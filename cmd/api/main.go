package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gstledger/internal/client/woocommerce"
	"gstledger/internal/config"
	"gstledger/internal/handlers"
	"gstledger/internal/logger"
	"gstledger/internal/resolver"
	"gstledger/internal/server"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v\n", err)
	}

	logger.InitLogger()
	defer func() { _ = logger.Sync() }()

	// Configuration problems must surface before any network call
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	mapping, err := resolver.Load(cfg.MappingPath)
	if err != nil {
		logger.Fatal("failed to load item mapping table", zap.Error(err))
	}
	if mapping.Len() > 0 {
		logger.Info("item mapping table loaded",
			zap.String("path", cfg.MappingPath),
			zap.Int("entries", mapping.Len()))
	} else {
		logger.Info("no item mapping table configured, item names pass through unchanged")
	}

	client := woocommerce.NewClient(cfg.APIURL, cfg.ConsumerKey, cfg.ConsumerSecret,
		woocommerce.WithPageSize(cfg.PageSize),
		woocommerce.WithTimeout(cfg.HTTPTimeout),
	)

	exportHandler := handlers.NewExportHandler(client, mapping, cfg)

	router := gin.Default()
	server.InitializeRoutes(router, exportHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
