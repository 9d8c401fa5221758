package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davidkaruri/billify-api/internal/application/service"
)

// Scheduler periodically runs the recurring invoice generation job. Runs
// never overlap: a tick that arrives while a run is still in flight is
// skipped rather than queued.
type Scheduler struct {
	recurring *service.RecurringService
	logger    *logrus.Logger
	interval  time.Duration

	mu      sync.Mutex
	running bool
}

// New creates a scheduler. interval is how often due templates are checked;
// generation itself is idempotent per day, so a short interval only costs
// queries.
func New(recurring *service.RecurringService, logger *logrus.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		recurring: recurring,
		logger:    logger,
		interval:  interval,
	}
}

// Start runs the scheduler loop until ctx is cancelled. One run fires
// immediately on startup to catch anything that came due while the
// process was down.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.WithField("interval", s.interval.String()).Info("Recurring invoice scheduler started")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Recurring invoice scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single generation pass unless one is already running
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Skipping recurring invoice run: previous run still in progress")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := time.Now()
	generated, err := s.recurring.GenerateDueInvoices(ctx, started)
	if err != nil {
		s.logger.WithError(err).Error("Recurring invoice run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"generated": generated,
		"duration":  time.Since(started).String(),
	}).Info("Recurring invoice run finished")
}
