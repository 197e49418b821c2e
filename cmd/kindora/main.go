package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/database"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/logging"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/server"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	var dbStore storage.Storage
	if cfg.DatabasePath != "" {
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()
		dbStore = storage.NewDB(db)
	} else {
		logger.Info("no database path configured, running demo-only")
	}

	store := storage.NewRouter(dbStore, storage.NewMemory(), nil)

	srv, err := server.New(context.Background(), store, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	// Background maintenance: expired sessions and stale rate-limit buckets.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupDone:
				return
			case <-ticker.C:
				if n, err := store.DeleteExpiredSessions(); err != nil {
					logger.Error("session cleanup failed", "error", err)
				} else if n > 0 {
					logger.Info("expired sessions removed", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("kindora listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
