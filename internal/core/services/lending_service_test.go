package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-lending/internal/core/domain"
)

func Test_LendingService_Issue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "978-0-13-419044-0", 2)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusIssued, loan.Status)
	assert.Equal(t, "2024-01-01", domain.FormatDate(loan.IssueDate))
	assert.Equal(t, "2024-01-15", domain.FormatDate(loan.DueDate))
	assert.Nil(t, loan.ReturnDate)
	assert.Zero(t, loan.Fine)
	require.NotNil(t, loan.Book)
	require.NotNil(t, loan.Member)
	assert.Equal(t, member.Name, loan.Member.Name)

	assert.Equal(t, 1, f.availableCopies(t, book.ID))
	assert.Equal(t, []uint{loan.ID}, f.notifier.issued)
}

func Test_LendingService_Issue_Unavailable_LeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 1)
	first := f.givenMember(t, "first@example.com", "0800000001")
	second := f.givenMember(t, "second@example.com", "0800000002")

	_, err := f.lending.Issue(ctx, book.ID, first.ID)
	require.NoError(t, err)

	_, err = f.lending.Issue(ctx, book.ID, second.ID)
	assert.ErrorIs(t, err, domain.ErrBookUnavailable)

	assert.Equal(t, 0, f.availableCopies(t, book.ID))
	loans, err := f.lending.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Len(t, f.notifier.issued, 1)
}

func Test_LendingService_Issue_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 1)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	_, err := f.lending.Issue(ctx, 999, member.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.lending.Issue(ctx, book.ID, 999)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)

	assert.Equal(t, 1, f.availableCopies(t, book.ID))
}

func Test_LendingService_Return_OnTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 1)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	f.clock.Advance(14) // due date itself is not late
	returned, err := f.lending.Return(ctx, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, "2024-01-15", domain.FormatDate(*returned.ReturnDate))
	assert.Zero(t, returned.Fine)
	assert.Equal(t, 1, f.availableCopies(t, book.ID))
	assert.Equal(t, []uint{loan.ID}, f.notifier.returned)
}

func Test_LendingService_Return_Late_ChargesFine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 1)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	f.clock.Advance(31) // 2024-02-01, 17 days after the due date
	returned, err := f.lending.Return(ctx, loan.ID)
	require.NoError(t, err)

	assert.Equal(t, 85.0, returned.Fine)
	assert.Equal(t, "2024-02-01", domain.FormatDate(*returned.ReturnDate))
}

func Test_LendingService_Return_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 2)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)
	_, err = f.lending.Return(ctx, loan.ID)
	require.NoError(t, err)

	_, err = f.lending.Return(ctx, loan.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReturned)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assert.Equal(t, 2, f.availableCopies(t, book.ID))
}

func Test_LendingService_Return_UnknownLoan(t *testing.T) {
	f := newFixture(t)

	_, err := f.lending.Return(context.Background(), 42)

	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func Test_LendingService_ListOverdue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 2)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	late, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	f.clock.Advance(10)
	recent, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	f.clock.Advance(10) // 2024-01-21
	overdue, err := f.lending.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)
	assert.Equal(t, domain.LoanStatusOverdue, overdue[0].Status)

	again, err := f.lending.ListOverdue(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 1)
	assert.Equal(t, []int64{1}, f.notifier.overdue)

	active, err := f.lending.ListActiveByMember(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, recent.ID, active[0].ID)

	returned, err := f.lending.Return(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusReturned, returned.Status)
	assert.Equal(t, 30.0, returned.Fine)
}

func Test_LendingService_ListByStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 2)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	first, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)
	_, err = f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)
	_, err = f.lending.Return(ctx, first.ID)
	require.NoError(t, err)

	issued, err := f.lending.ListByStatus(ctx, "ISSUED")
	require.NoError(t, err)
	assert.Len(t, issued, 1)

	returned, err := f.lending.ListByStatus(ctx, "RETURNED")
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, first.ID, returned[0].ID)

	_, err = f.lending.ListByStatus(ctx, "LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	all, err := f.lending.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	page, total, err := f.lending.List(ctx, 0, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(2), total)
}

func Test_LendingService_ConcurrentIssue_NeverOverLends(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 3)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.lending.Issue(ctx, book.ID, member.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	for _, err := range failures {
		assert.True(t, errors.Is(err, domain.ErrBookUnavailable) || errors.Is(err, domain.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 0, f.availableCopies(t, book.ID))

	open, err := f.store.Loans.CountOpenByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), open)
}

func Test_LendingService_CopiesBalanceOpenLoans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "9780132350884", 4)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	var ids []uint
	for i := 0; i < 3; i++ {
		loan, err := f.lending.Issue(ctx, book.ID, member.ID)
		require.NoError(t, err)
		ids = append(ids, loan.ID)
	}
	f.clock.Advance(20)
	_, err := f.lending.ListOverdue(ctx)
	require.NoError(t, err)
	_, err = f.lending.Return(ctx, ids[1])
	require.NoError(t, err)

	open, err := f.store.Loans.CountOpenByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, f.availableCopies(t, book.ID)+int(open))
}
