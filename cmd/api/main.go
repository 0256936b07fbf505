package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/app"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/config"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/media"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/payments"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/session"
	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	redisStore, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisStore.Close()

	var photos *media.Store
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		photos, err = media.NewStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MediaBaseURL, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("object storage connection failed: %v", err)
		}
		if err := photos.EnsureBucket(ctx); err != nil {
			log.Fatalf("object storage bucket check failed: %v", err)
		}
	} else {
		log.Printf("MINIO_ENDPOINT not set, photo uploads disabled")
	}

	var provider payments.Provider
	if strings.TrimSpace(cfg.PaymentsBaseURL) != "" {
		provider = payments.NewClient(cfg.PaymentsBaseURL, cfg.PaymentsAPIKey)
	} else {
		log.Printf("PAYMENTS_BASE_URL not set, checkout disabled")
	}

	service := app.New(cfg, dataStore, redisStore, provider, photos)
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: bootstrap error (will retry on next restart): %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Snagged API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
