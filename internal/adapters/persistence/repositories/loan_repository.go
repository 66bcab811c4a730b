package repositories

import (
	"context"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

var openStatuses = []string{
	string(domain.LoanStatusIssued),
	string(domain.LoanStatusOverdue),
}

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// withRelations preloads the book and member of each loan
func (r *loanRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Book").
		Preload("Member")
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Omit("Book", "Member").Create(loan).Error
}

// GetByID gets a loan by ID with relations
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.withRelations(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// List lists loans with pagination, newest first
func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withRelations(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ListAll lists every loan
func (r *loanRepository) ListAll(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.withRelations(ctx).Order("id ASC").Find(&loans).Error
	return loans, err
}

// ListByMember lists all loans of a member
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.withRelations(ctx).
		Where("member_id = ?", memberID).
		Order("id ASC").
		Find(&loans).Error
	return loans, err
}

// ListByBook lists all loans of a book
func (r *loanRepository) ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.withRelations(ctx).
		Where("book_id = ?", bookID).
		Order("id ASC").
		Find(&loans).Error
	return loans, err
}

// ListByStatus lists loans with exactly the given status
func (r *loanRepository) ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.withRelations(ctx).
		Where("status = ?", string(status)).
		Order("id ASC").
		Find(&loans).Error
	return loans, err
}

// ListActiveByMember lists ISSUED loans of a member. OVERDUE loans are not included.
func (r *loanRepository) ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.withRelations(ctx).
		Where("member_id = ? AND status = ?", memberID, string(domain.LoanStatusIssued)).
		Order("id ASC").
		Find(&loans).Error
	return loans, err
}

// ListActiveByBook lists ISSUED loans of a book. OVERDUE loans are not included.
func (r *loanRepository) ListActiveByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.withRelations(ctx).
		Where("book_id = ? AND status = ?", bookID, string(domain.LoanStatusIssued)).
		Order("id ASC").
		Find(&loans).Error
	return loans, err
}

// CountOpenByBook counts ISSUED and OVERDUE loans of a book
func (r *loanRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("book_id = ? AND status IN ?", bookID, openStatuses).
		Count(&count).Error
	return count, err
}

// CountOpenByMember counts ISSUED and OVERDUE loans of a member
func (r *loanRepository) CountOpenByMember(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND status IN ?", memberID, openStatuses).
		Count(&count).Error
	return count, err
}

// MarkReturned closes an open loan. Reports false when the loan is not open anymore.
func (r *loanRepository) MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine float64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND status IN ?", id, openStatuses).
		Updates(map[string]interface{}{
			"status":      string(domain.LoanStatusReturned),
			"return_date": returnDate,
			"fine":        fine,
		})
	return result.RowsAffected == 1, result.Error
}

// MarkOverdue relabels ISSUED loans due before today as OVERDUE
func (r *loanRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("status = ? AND due_date < ?", string(domain.LoanStatusIssued), today).
		Updates(map[string]interface{}{
			"status": string(domain.LoanStatusOverdue),
		})
	return result.RowsAffected, result.Error
}

// DeleteByBook deletes the loan history of a book
func (r *loanRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&models.Loan{}).Error
}

// DeleteByMember deletes the loan history of a member
func (r *loanRepository) DeleteByMember(ctx context.Context, memberID uint) error {
	return r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&models.Loan{}).Error
}
