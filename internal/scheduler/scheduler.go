// Package scheduler wires up the cron job that periodically triggers a
// synchronization run.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"joblens/aggregator-service/internal/ingest"
)

// Scheduler wraps robfig/cron and manages the recurring sync loop.
type Scheduler struct {
	cron   *cron.Cron
	syncer *ingest.Syncer
	spec   string // cron spec, e.g. "@every 1h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(syncer *ingest.Syncer, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		syncer: syncer,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the sync job and starts the scheduler. The first run
// happens on the first tick — startup does not trigger a sync, the manual
// endpoint covers populate-now needs.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.syncer.Run(ctx); err != nil {
			log.Printf("[scheduler] Sync run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}
