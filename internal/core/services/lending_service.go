package services

import (
	"context"
	"errors"
	"log"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// LendingService handles the issue/return lifecycle of loans
type LendingService struct {
	store          *repositories.Store
	overdue        *OverdueService
	notifier       Notifier
	fines          domain.FinePolicy
	loanPeriodDays int
	now            Clock
}

// NewLendingService creates a new lending service
func NewLendingService(
	store *repositories.Store,
	overdue *OverdueService,
	notifier Notifier,
	cfg LendingConfig,
) *LendingService {
	cfg = cfg.withDefaults()
	return &LendingService{
		store:          store,
		overdue:        overdue,
		notifier:       notifier,
		fines:          domain.NewFinePolicy(cfg.FinePerDay),
		loanPeriodDays: cfg.LoanPeriodDays,
		now:            cfg.Clock,
	}
}

// Issue lends one copy of a book to a member.
// The availability decrement and the loan row are committed together.
func (s *LendingService) Issue(ctx context.Context, bookID, memberID uint) (*models.Loan, error) {
	today := domain.DateOf(s.now())
	loan := &models.Loan{
		BookID:    bookID,
		MemberID:  memberID,
		IssueDate: today,
		DueDate:   today.AddDate(0, 0, s.loanPeriodDays),
		Status:    domain.LoanStatusIssued,
		Fine:      0,
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		book, err := tx.Books.GetByID(ctx, bookID)
		if err != nil {
			return notFound(err, domain.ErrBookNotFound)
		}

		if _, err := tx.Members.GetByID(ctx, memberID); err != nil {
			return notFound(err, domain.ErrMemberNotFound)
		}

		if book.AvailableCopies <= 0 {
			return domain.ErrBookUnavailable
		}

		// Another issue may have taken the last copy since the read above
		ok, err := tx.Books.DecrementAvailable(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		return tx.Loans.Create(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	issued, err := s.GetByID(ctx, loan.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("📚 Loan #%d issued: book #%d to member #%d, due %s",
		issued.ID, bookID, memberID, domain.FormatDate(issued.DueDate))

	if s.notifier != nil {
		s.notifier.NotifyLoanIssued(ctx, issued)
	}

	return issued, nil
}

// Return closes an ISSUED or OVERDUE loan, computes its fine and puts the copy back
func (s *LendingService) Return(ctx context.Context, loanID uint) (*models.Loan, error) {
	today := domain.DateOf(s.now())

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		loan, err := tx.Loans.GetByID(ctx, loanID)
		if err != nil {
			return notFound(err, domain.ErrLoanNotFound)
		}

		if !loan.Status.IsOpen() {
			return domain.ErrAlreadyReturned
		}

		fine := s.fines.Fine(loan.DueDate, today)

		ok, err := tx.Loans.MarkReturned(ctx, loan.ID, today, fine)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyReturned
		}

		ok, err = tx.Books.IncrementAvailable(ctx, loan.BookID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	returned, err := s.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if returned.Fine > 0 {
		log.Printf("💰 Loan #%d returned %d day(s) late, fine %.2f",
			returned.ID, domain.DaysLate(returned.DueDate, today), returned.Fine)
	} else {
		log.Printf("📗 Loan #%d returned on time", returned.ID)
	}

	if s.notifier != nil {
		s.notifier.NotifyLoanReturned(ctx, returned)
	}

	return returned, nil
}

// GetByID gets a loan by ID
func (s *LendingService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.store.Loans.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrLoanNotFound)
	}
	return loan, nil
}

// ListAll lists every loan
func (s *LendingService) ListAll(ctx context.Context) ([]*models.Loan, error) {
	return s.store.Loans.ListAll(ctx)
}

// List lists loans with pagination
func (s *LendingService) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	return s.store.Loans.List(ctx, offset, limit)
}

// ListByMember lists all loans of a member
func (s *LendingService) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return s.store.Loans.ListByMember(ctx, memberID)
}

// ListByBook lists all loans of a book
func (s *LendingService) ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	return s.store.Loans.ListByBook(ctx, bookID)
}

// ListByStatus lists loans whose status matches exactly
func (s *LendingService) ListByStatus(ctx context.Context, status string) ([]*models.Loan, error) {
	parsed, err := domain.ParseLoanStatus(status)
	if err != nil {
		return nil, err
	}
	return s.store.Loans.ListByStatus(ctx, parsed)
}

// ListActiveByMember lists ISSUED loans of a member. OVERDUE loans are not active here.
func (s *LendingService) ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return s.store.Loans.ListActiveByMember(ctx, memberID)
}

// ListActiveByBook lists ISSUED loans of a book
func (s *LendingService) ListActiveByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	return s.store.Loans.ListActiveByBook(ctx, bookID)
}

// ListOverdue relabels ISSUED loans past their due date and returns all OVERDUE loans
func (s *LendingService) ListOverdue(ctx context.Context) ([]*models.Loan, error) {
	if _, err := s.overdue.Sweep(ctx); err != nil {
		return nil, err
	}
	return s.store.Loans.ListByStatus(ctx, domain.LoanStatusOverdue)
}

// notFound maps gorm's missing-record error to a domain error
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
