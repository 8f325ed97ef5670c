package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReconcileScheduler runs reconciliation on a cron schedule
type ReconcileScheduler struct {
	reconciler *ReconcileService
	cron       *cron.Cron
	timeout    time.Duration
}

// NewReconcileScheduler parses schedule (standard five-field cron or
// descriptors such as "@hourly") and registers the sweep.
func NewReconcileScheduler(reconciler *ReconcileService, schedule string, timeout time.Duration) (*ReconcileScheduler, error) {
	s := &ReconcileScheduler{
		reconciler: reconciler,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout:    timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *ReconcileScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.reconciler.ReconcilePublishedArticles(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "scheduler").Msg("Scheduled reconciliation failed")
		return
	}
	log.Info().
		Str("component", "scheduler").
		Int("deleted", result.DeletedCount).
		Int("unverifiable", result.Unverifiable).
		Msg("Scheduled reconciliation complete")
}

// Start begins running the schedule in the background
func (s *ReconcileScheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Reconcile scheduler started")
}

// Stop stops the schedule and waits for a running sweep to finish
func (s *ReconcileScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Reconcile scheduler stopped")
}
