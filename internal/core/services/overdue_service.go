package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds a scheduled sweep
const sweepTimeout = 30 * time.Second

// OverdueService relabels ISSUED loans as OVERDUE once their due date has passed.
// It runs on demand (ListOverdue) and on a cron schedule.
type OverdueService struct {
	store    *repositories.Store
	notifier Notifier
	schedule string
	now      Clock
	cron     *cron.Cron
}

// NewOverdueService creates a new overdue service
func NewOverdueService(store *repositories.Store, notifier Notifier, cfg LendingConfig) *OverdueService {
	cfg = cfg.withDefaults()
	return &OverdueService{
		store:    store,
		notifier: notifier,
		schedule: cfg.OverdueSweepCron,
		now:      cfg.Clock,
	}
}

// Sweep relabels every ISSUED loan due before today and returns how many changed.
// Running it again on the same day changes nothing.
func (s *OverdueService) Sweep(ctx context.Context) (int64, error) {
	today := domain.DateOf(s.now())

	changed, err := s.store.Loans.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("mark overdue loans: %w", err)
	}

	if changed > 0 {
		log.Printf("⏰ %d loan(s) marked OVERDUE as of %s", changed, domain.FormatDate(today))
		if s.notifier != nil {
			s.notifier.NotifyLoansOverdue(ctx, changed, today)
		}
	}

	return changed, nil
}

// Start runs one sweep and then schedules the periodic sweep
func (s *OverdueService) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.runSweep); err != nil {
		return fmt.Errorf("invalid overdue sweep schedule %q: %w", s.schedule, err)
	}

	s.runSweep()

	s.cron = c
	s.cron.Start()
	log.Printf("🚀 OverdueService started [schedule: %s]", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *OverdueService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Println("🛑 OverdueService stopped")
}

func (s *OverdueService) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.Sweep(ctx); err != nil {
		log.Printf("❌ Overdue sweep error: %v", err)
	}
}
