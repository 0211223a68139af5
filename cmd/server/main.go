// @title SDS Poster API
// @version 1.0
// @description Extracts trilingual (ja/en/vi) hazard summaries from safety data sheets.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sdsposter/internal/config"
	"sdsposter/internal/handler"
	"sdsposter/internal/parser"
	_ "sdsposter/internal/parser/claude"
	_ "sdsposter/internal/parser/gemini"
	_ "sdsposter/internal/parser/openai"
	"sdsposter/internal/repository/postgres"
	"sdsposter/internal/router"
	"sdsposter/internal/service"
	"sdsposter/internal/session"
	s3storage "sdsposter/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Log.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	overrideRepo := postgres.NewPictogramOverrideRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction backend
	extractor, err := parser.NewExtractor(&cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction backend: %w", err)
	}
	if cfg.Parser.APIKey == "" {
		log.Printf("No server API key configured; clients must send %s", "X-Extraction-Key")
	}
	log.Printf("Extraction backend: %s", cfg.Parser.Provider)

	// Initialize services
	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.CleanupInterval)
	pictogramSvc := service.NewPictogramService(overrideRepo, s3Client, &cfg.S3, &cfg.Upload)
	extractionSvc := service.NewExtractionService(
		extractor, sessions, pictogramSvc, &cfg.Parser, &cfg.Extraction, &cfg.Upload,
	)

	// Initialize handlers
	extractionH := handler.NewExtractionHandler(extractionSvc)
	pictogramH := handler.NewPictogramHandler(pictogramSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, extractionH, pictogramH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
