package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/momotired/servo-msg-demo/internal/auth"
	"github.com/momotired/servo-msg-demo/internal/config"
	dbpkg "github.com/momotired/servo-msg-demo/internal/db"
	httpserver "github.com/momotired/servo-msg-demo/internal/http"
	"github.com/momotired/servo-msg-demo/internal/http/handler"
	"github.com/momotired/servo-msg-demo/internal/repository/postgres"
	"github.com/momotired/servo-msg-demo/internal/service"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.Admin.Secret == "" {
		cfg.Admin.Secret = uuid.NewString()
		log.Printf("ADMIN_SECRET not set, generated admin secret: %s", cfg.Admin.Secret)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	deps := service.Dependencies{}
	if redisClient != nil {
		deps.Redis = redisClient
	}

	database, err := bootstrapStorage(ctx, cfg)
	if err == nil {
		defer database.Close()
		deps.Repo = postgres.NewMessageRepository(database)
	}

	messageService := service.NewMessageService(deps, service.MessageServiceOptions{
		CacheTTL: cfg.Redis.CacheTTL,
	})

	// A schema failure does not kill the process: the server comes up
	// and every storage-backed request reports storage not ready.
	if err != nil {
		log.Printf("storage init failed, serving in degraded mode: %v", err)
		messageService.SetState(service.StateFailed)
	} else {
		messageService.SetState(service.StateReady)
	}

	gate := auth.NewGate(cfg.Admin.Secret)
	httpLogger := log.New(os.Stdout, "http ", log.LstdFlags)
	messageHandler := handler.NewMessageHandler(messageService, httpLogger)
	adminHandler := handler.NewAdminHandler(messageService, httpLogger)
	router := httpserver.NewRouter(messageHandler, adminHandler, gate, cfg.Admin.Header, messageService)

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

// bootstrapStorage runs the startup sequence in strict order: ensure the
// database exists, open the pool, apply migrations. Nothing serves traffic
// against the schema until all three steps have completed.
func bootstrapStorage(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if err := dbpkg.EnsureDatabase(ctx, cfg.Postgres); err != nil {
		return nil, err
	}

	database, err := dbpkg.Connect(cfg.Postgres)
	if err != nil {
		return nil, err
	}

	if err := dbpkg.RunMigrations(ctx, database); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}
