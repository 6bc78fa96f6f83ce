// joblens-aggregator-service
//
// Aggregates job postings from multiple external providers, normalises
// them into one canonical model, upserts them into PostgreSQL and serves
// them through a filterable, paginated REST API.
//
// Ingestion runs on a recurring cron schedule (default hourly) and on
// demand via POST /api/sync.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"joblens/aggregator-service/internal/api"
	"joblens/aggregator-service/internal/config"
	"joblens/aggregator-service/internal/db"
	"joblens/aggregator-service/internal/ingest"
	"joblens/aggregator-service/internal/scheduler"
	"joblens/aggregator-service/internal/source"
	"joblens/aggregator-service/internal/store"

	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[aggregator] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[aggregator] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[aggregator] PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("[aggregator] Migrate: %v", err)
	}
	log.Println("[aggregator] PostgreSQL connected ✓")

	// ── Redis (optional event bus) ───────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[aggregator] Connecting to Redis…")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[aggregator] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[aggregator] Redis connected ✓")
	} else {
		log.Println("[aggregator] REDIS_URL not set — sync events disabled")
	}

	// ── Wiring ───────────────────────────────────────────────────────────────
	st := store.New(pool)
	syncer := ingest.New(st, rdb,
		source.NewProvider1(cfg.Provider1URL),
		source.NewProvider2(cfg.Provider2URL),
	)

	sched := scheduler.New(syncer, cfg.SyncIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[aggregator] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := api.NewHandler(st, syncer)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[aggregator] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[aggregator] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[aggregator] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[aggregator] Shutdown error: %v", err)
	}
	log.Println("[aggregator] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "aggregator-service",
		"version": version,
	})
}
