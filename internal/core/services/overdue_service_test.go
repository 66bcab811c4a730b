package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"
)

func Test_OverdueService_Sweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "0306406152", 2)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	f.clock.Advance(14)
	changed, err := f.overdue.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed, "a loan is not overdue on its due date")

	f.clock.Advance(1)
	changed, err = f.overdue.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = f.overdue.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	reloaded, err := f.lending.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusOverdue, reloaded.Status)
	assert.Equal(t, []int64{1}, f.notifier.overdue)
}

func Test_OverdueService_Start_SweepsImmediately(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "0306406152", 1)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)
	f.clock.Advance(20)

	require.NoError(t, f.overdue.Start())
	f.overdue.Stop()

	reloaded, err := f.lending.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusOverdue, reloaded.Status)
}

func Test_OverdueService_Start_InvalidSchedule(t *testing.T) {
	f := newFixture(t)
	svc := services.NewOverdueService(f.store, nil, services.LendingConfig{
		OverdueSweepCron: "every day",
		Clock:            f.clock.Now,
	})

	assert.Error(t, svc.Start())
	svc.Stop()
}

func Test_NotificationService_DisabledWithoutURL(t *testing.T) {
	svc, err := services.NewNotificationService("", "")
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())

	// Events are dropped without a connection
	svc.NotifyLoansOverdue(context.Background(), 3, time.Now())
	svc.Close()
}
