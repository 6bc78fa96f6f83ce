// Package ingest runs the fan-out/fan-in synchronization cycle: fetch and
// normalise every configured source concurrently, combine the results and
// hand them to the store in one batch.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"joblens/aggregator-service/internal/model"
	"joblens/aggregator-service/internal/source"
)

// SyncedChannel is the redis pub/sub channel sync events are published on.
const SyncedChannel = "EVENT_JOBS_SYNCED"

// JobStore persists a batch of canonical jobs.
type JobStore interface {
	UpsertBatch(ctx context.Context, jobs []model.Job) error
}

// Syncer owns one ingestion run across all registered sources.
type Syncer struct {
	sources []source.Source
	store   JobStore
	rdb     *redis.Client // nil when no event bus is configured
}

// New returns a Syncer wired with its store, an optional redis client and
// the sources in registration order.
func New(store JobStore, rdb *redis.Client, sources ...source.Source) *Syncer {
	return &Syncer{sources: sources, store: store, rdb: rdb}
}

// Run executes one synchronization cycle. Each source is fetched in its
// own goroutine and is independently fault-isolated: a failing source
// contributes an empty result and never blocks or aborts the others.
// Combined results keep source registration order. A store failure fails
// the run; retrying is the caller's concern.
func (s *Syncer) Run(ctx context.Context) error {
	slog.Info("starting job synchronization", "sources", len(s.sources))

	results := make([][]model.Job, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()
			defer func() {
				// A panicking source must not take down the run.
				if r := recover(); r != nil {
					slog.Error("source panicked", "source", src.Name(), "panic", r)
				}
			}()

			jobs, err := src.Fetch(ctx)
			if err != nil {
				slog.Error("source fetch failed", "source", src.Name(), "err", err)
				return
			}
			slog.Info("fetched jobs", "source", src.Name(), "count", len(jobs))
			results[i] = jobs
		}(i, src)
	}
	wg.Wait()

	var all []model.Job
	counts := make(map[string]int, len(s.sources))
	for i, jobs := range results {
		counts[s.sources[i].Name()] = len(jobs)
		all = append(all, jobs...)
	}

	if err := s.store.UpsertBatch(ctx, all); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	slog.Info("job synchronization complete", "total", len(all))
	s.publishSynced(ctx, len(all), counts)
	return nil
}

// publishSynced emits a sync-completed event for downstream consumers.
// Non-fatal: a missing or unreachable event bus never fails the run.
func (s *Syncer) publishSynced(ctx context.Context, total int, counts map[string]int) {
	if s.rdb == nil {
		return
	}

	event, _ := json.Marshal(map[string]any{
		"type":    SyncedChannel,
		"total":   total,
		"sources": counts,
	})
	if err := s.rdb.Publish(ctx, SyncedChannel, event).Err(); err != nil {
		slog.Warn("publish EVENT_JOBS_SYNCED failed", "err", err)
	}
}
