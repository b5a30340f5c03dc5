package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelsmith/reelsmith/internal/api"
	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/db"
	"github.com/reelsmith/reelsmith/internal/engine"
	"github.com/reelsmith/reelsmith/internal/queue"
	"github.com/reelsmith/reelsmith/internal/services"
	"github.com/reelsmith/reelsmith/internal/store"
	"github.com/reelsmith/reelsmith/internal/worker"
)

func main() {
	log.Println("Starting Reelsmith API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Connected to database")

	// Connect to Redis queue
	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()
	log.Println("Connected to Redis queue")

	// Initialize media store
	st, err := store.New(cfg.MediaRoot)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}
	log.Printf("Media store at %s", cfg.MediaRoot)

	// Create API handler
	handler := api.NewHandler(database, q, st)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	// Start HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start worker if enabled
	var workerCtx context.Context
	var workerCancel context.CancelFunc
	if cfg.WorkerEnabled {
		log.Println("Worker enabled, starting background processing...")

		// Initialize services
		scriptSvc, err := services.NewScriptService(context.Background(), cfg.GeminiKey)
		if err != nil {
			log.Fatalf("Failed to initialize script service: %v", err)
		}

		footageSvc := services.NewPexelsService(cfg.PexelsKey)
		if footageSvc.Enabled() {
			log.Println("Stock footage provider: Pexels")
		} else {
			log.Println("No PEXELS_API_KEY set — all clips will be generated placeholders")
		}

		ttsSvc := services.NewOpenAITTSService(cfg.OpenAIKey, cfg.TTSVoice)
		log.Printf("TTS provider: OpenAI (voice: %s)", cfg.TTSVoice)

		eng := engine.New(cfg.TempDir)

		// Create worker
		w := worker.New(database, q, st, scriptSvc, footageSvc, ttsSvc, eng)

		// Start worker in background
		workerCtx, workerCancel = context.WithCancel(context.Background())
		go w.Start(workerCtx, cfg.MaxConcurrentJobs)
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Shutdown worker
	if workerCancel != nil {
		workerCancel()
	}

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
