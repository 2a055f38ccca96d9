package main

import (
	"ChemoOrder/cache"
	"ChemoOrder/config"
	"ChemoOrder/database"
	"ChemoOrder/jobs"
	"ChemoOrder/realtime"
	"ChemoOrder/routes"
	"ChemoOrder/services"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	// Load configuration from config package
	config, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the database
	_, err = database.InitDB(context.Background(), config.DBURL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Initialize Redis
	if err := database.InitializeRedis(); err != nil {
		log.Fatalf("failed to initialize Redis client: %v", err)
	}

	// Initialize the cache utility
	cacheInstance, err := cache.NewCache()
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}

	// Catalogs may have been reseeded; drop any cached copies.
	if err := cacheInstance.DeleteAll(context.Background(), "*_cache"); err != nil {
		log.Printf("failed to invalidate catalog caches: %v", err)
	}

	// The realtime hub is shared by the WebSocket handler and the services
	// that publish events.
	hub := realtime.NewHub()

	handler := routes.SetupRoutes(cacheInstance, config, database.DB, hub)

	// Daily sweep of expired shared images.
	scheduler, err := jobs.StartCleanupScheduler(services.NewShareService(config.GetPublicDir()))
	if err != nil {
		log.Fatalf("failed to start cleanup scheduler: %v", err)
	}

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":8930",
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Println("Starting server on :8930")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listenAndServe(): %v", err)
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	// Create a context with a timeout for shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Println("Shutting down server...")
	scheduler.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %+v", err)
	}

	wg.Wait() // Wait for all goroutines to finish before exiting
	log.Println("Server exited gracefully")
}

// loadConfig loads configuration from environment variables.
func loadConfig() (*config.AppConfig, error) {
	// Get the database URL
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	// Get the Redis URL
	redisAddress := os.Getenv("REDIS_URL")
	if redisAddress == "" {
		return nil, errors.New("missing REDIS_URL environment variable")
	}

	// Fail fast instead of at the first token operation.
	if len(os.Getenv("SYMMETRIC_KEY")) != 32 {
		return nil, errors.New("SYMMETRIC_KEY must be set and 32 bytes long")
	}

	// Root of served files; uploads and shared images live under it.
	publicDir := os.Getenv("PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "public"
	}

	// Optional externally visible base URL for building share links behind a
	// reverse proxy.
	publicBase := os.Getenv("PUBLIC_BASE_URL")

	return &config.AppConfig{
		DBURL:        dbURL,
		RedisAddress: redisAddress,
		PublicDir:    publicDir,
		PublicBase:   publicBase,
	}, nil
}
