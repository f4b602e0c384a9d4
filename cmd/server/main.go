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

	"campus_media/internal/api"
	"campus_media/internal/app/service"
	"campus_media/internal/common/security"
	"campus_media/internal/domain/repository"
	"campus_media/internal/platform/config"
	"campus_media/internal/platform/database"
	"campus_media/internal/platform/lock"
	"campus_media/internal/platform/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	fmt.Println("Configuration loaded.")

	ctx := context.Background()

	// 2. Initialize Storage
	var principalRepo repository.PrincipalRepository
	var mediaRepo repository.MediaRepository
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		principalRepo = repository.NewMemoryPrincipalRepository()
		mediaRepo = repository.NewMemoryMediaRepository()
		fmt.Println("Using in-memory store.")
	case config.StoreBackendPostgres:
		db, err := database.Connect(ctx, cfg.DBConnStr)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close(db)
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		principalRepo = repository.NewPgPrincipalRepository(db)
		mediaRepo = repository.NewPgMediaRepository(db)
		fmt.Println("Database connected.")
	default:
		log.Fatalf("Unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	// 3. Initialize Signup Lock
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rdb, err := lock.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, "campus_media:signup:", cfg.SignupLockTTL)
		fmt.Println("Redis connected.")
	}

	// 4. Initialize Security
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	m := metrics.New()

	// 5. Initialize Services
	authService := service.NewAuthService(principalRepo, hasher, tokens, locker, m).WithLockWait(cfg.SignupLockWait)
	mediaService := service.NewMediaService(mediaRepo, m)

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, authService, mediaService, tokens, m)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
