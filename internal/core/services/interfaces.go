package services

import (
	"context"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"
)

// Note: NotificationService (NATS) implementation is in notification_service.go

// Notifier receives lending events after they have been committed.
// Implementations must not block the caller for long and never fail it.
type Notifier interface {
	NotifyLoanIssued(ctx context.Context, loan *models.Loan)
	NotifyLoanReturned(ctx context.Context, loan *models.Loan)
	NotifyLoansOverdue(ctx context.Context, count int64, asOf time.Time)
}

// Clock returns the current time
type Clock func() time.Time

// LendingConfig configures the lending and overdue services
type LendingConfig struct {
	LoanPeriodDays   int
	FinePerDay       float64
	OverdueSweepCron string
	Clock            Clock
}

// DefaultOverdueSweepCron runs the sweep shortly after midnight
const DefaultOverdueSweepCron = "5 0 * * *"

// withDefaults fills zero values
func (c LendingConfig) withDefaults() LendingConfig {
	if c.LoanPeriodDays <= 0 {
		c.LoanPeriodDays = domain.DefaultLoanPeriodDays
	}
	if c.FinePerDay <= 0 {
		c.FinePerDay = domain.DefaultFinePerDay
	}
	if c.OverdueSweepCron == "" {
		c.OverdueSweepCron = DefaultOverdueSweepCron
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}
