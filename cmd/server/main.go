package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"mathtutor-backend/internal/config"
	"mathtutor-backend/internal/handlers"
	"mathtutor-backend/internal/logging"
	"mathtutor-backend/internal/metrics"
	"mathtutor-backend/internal/router"
	"mathtutor-backend/internal/services"
)

func main() {
	log := logging.GetLogger()
	log.Info("🚀 Starting 吳老師 tutor backend...")

	if err := run(log); err != nil {
		log.Fatalf("✗ %v", err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run(log *logrus.Logger) error {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.IsProduction())
	log.Info("✓ Configuration loaded")

	// ──── Step 2: Initialize Model Client ────
	var client handlers.ModelClient
	if cfg.APIKey() == "" {
		log.Warnf("✗ No API key for provider %q; tutor requests will fail until it is set", cfg.ModelProvider)
	} else {
		switch cfg.ModelProvider {
		case config.ProviderOpenAI:
			client = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		default:
			gemini, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return fmt.Errorf("Gemini client initialization failed: %w", err)
			}
			defer gemini.Close()
			client = gemini
		}
		log.Infof("✓ %s client initialized (model %s)", cfg.ModelProvider, cfg.Model())
	}

	// ──── Step 3: Metrics ────
	if cfg.MetricsEnabled {
		metrics.Register()
		log.Info("✓ Metrics registered")
	}

	// ──── Step 4: Start HTTP Server ────
	tutorHandler := handlers.NewTutorHandler(cfg, client, log)
	r := router.New(tutorHandler, log, router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")
		shutdownServer(server, 30*time.Second, log)
	}()

	log.Infof("✓ Tutor backend ready on http://localhost:%s", cfg.Port)
	log.Infof("  API:    http://localhost:%s/api/v1/tutor", cfg.Port)
	log.Infof("  Legacy: http://localhost:%s%s", cfg.Port, router.LegacyTutorPath)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	<-shutdownDone
	return nil
}

func shutdownServer(server *http.Server, timeout time.Duration, log *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		return err
	}
	return nil
}
