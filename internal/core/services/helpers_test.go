package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(year int, month time.Month, day int) *fakeClock {
	return &fakeClock{now: time.Date(year, month, day, 10, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, days)
}

type recordingNotifier struct {
	mu       sync.Mutex
	issued   []uint
	returned []uint
	overdue  []int64
}

func (n *recordingNotifier) NotifyLoanIssued(ctx context.Context, loan *models.Loan) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.issued = append(n.issued, loan.ID)
}

func (n *recordingNotifier) NotifyLoanReturned(ctx context.Context, loan *models.Loan) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.returned = append(n.returned, loan.ID)
}

func (n *recordingNotifier) NotifyLoansOverdue(ctx context.Context, count int64, asOf time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.overdue = append(n.overdue, count)
}

type fixture struct {
	store    *repositories.Store
	clock    *fakeClock
	notifier *recordingNotifier
	lending  *services.LendingService
	overdue  *services.OverdueService
	books    *services.BookService
	members  *services.MemberService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))

	f := &fixture{
		store:    repositories.NewStore(db),
		clock:    newFakeClock(2024, time.January, 1),
		notifier: &recordingNotifier{},
	}

	cfg := services.LendingConfig{Clock: f.clock.Now}
	f.overdue = services.NewOverdueService(f.store, f.notifier, cfg)
	f.lending = services.NewLendingService(f.store, f.overdue, f.notifier, cfg)
	f.books = services.NewBookService(f.store)
	f.members = services.NewMemberService(f.store, f.clock.Now)
	return f
}

func (f *fixture) givenBook(t *testing.T, isbn string, copies int) *models.Book {
	t.Helper()
	book, err := f.books.Create(context.Background(), &services.BookInput{
		Title:       "Title " + isbn,
		Author:      "Author",
		ISBN:        isbn,
		TotalCopies: copies,
	})
	require.NoError(t, err)
	return book
}

func (f *fixture) givenMember(t *testing.T, email, phone string) *models.Member {
	t.Helper()
	member, err := f.members.Create(context.Background(), &services.MemberInput{
		Name:           "Reader " + phone,
		Email:          email,
		Phone:          phone,
		MembershipType: string(domain.MembershipStandard),
	})
	require.NoError(t, err)
	return member
}

func (f *fixture) availableCopies(t *testing.T, bookID uint) int {
	t.Helper()
	book, err := f.store.Books.GetByID(context.Background(), bookID)
	require.NoError(t, err)
	return book.AvailableCopies
}
