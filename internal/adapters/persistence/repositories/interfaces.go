package repositories

import (
	"context"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"
)

// BookRepository defines book repository interface.
// DecrementAvailable and IncrementAvailable form the copy availability
// ledger: each is a single conditional update and reports false when the
// guard did not match.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	UpdateDetails(ctx context.Context, book *models.Book, copiesDelta int) (bool, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
	Search(ctx context.Context, title, author string) ([]*models.Book, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]*models.Book, error)
	ListAvailable(ctx context.Context) ([]*models.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	DecrementAvailable(ctx context.Context, id uint) (bool, error)
	IncrementAvailable(ctx context.Context, id uint) (bool, error)
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	SearchByName(ctx context.Context, name string) ([]*models.Member, error)
	ListByType(ctx context.Context, membershipType domain.MembershipType) ([]*models.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error)
	ListAll(ctx context.Context) ([]*models.Loan, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error)
	ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*models.Loan, error)
	ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListActiveByBook(ctx context.Context, bookID uint) ([]*models.Loan, error)
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
	CountOpenByMember(ctx context.Context, memberID uint) (int64, error)
	MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine float64) (bool, error)
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	DeleteByBook(ctx context.Context, bookID uint) error
	DeleteByMember(ctx context.Context, memberID uint) error
}
