package repositories

import (
	"context"
	"strings"

	"library-lending/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN gets a book by ISBN
func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateDetails writes the descriptive fields of book and shifts both copy
// counters by copiesDelta. The row is only touched when the shifted
// available count stays non-negative, so copies on loan are never dropped.
func (r *bookRepository) UpdateDetails(ctx context.Context, book *models.Book, copiesDelta int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND available_copies + ? >= 0", book.ID, copiesDelta).
		Updates(map[string]interface{}{
			"title":            book.Title,
			"author":           book.Author,
			"isbn":             book.ISBN,
			"publisher":        book.Publisher,
			"published_year":   book.PublishedYear,
			"category":         book.Category,
			"total_copies":     gorm.Expr("total_copies + ?", copiesDelta),
			"available_copies": gorm.Expr("available_copies + ?", copiesDelta),
		})
	return result.RowsAffected == 1, result.Error
}

// Delete hard deletes a book
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, id).Error
}

// List lists books with pagination
func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// Search finds books whose title and author contain the given fragments (case insensitive).
// Empty fragments are ignored.
func (r *bookRepository) Search(ctx context.Context, title, author string) ([]*models.Book, error) {
	var books []*models.Book
	query := r.db.WithContext(ctx).Model(&models.Book{})
	if title != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(title))
	}
	if author != "" {
		query = query.Where("LOWER(author) LIKE ?", likePattern(author))
	}
	err := query.Order("title ASC").Find(&books).Error
	return books, err
}

// SearchByKeyword matches keyword against title, author, isbn, publisher and category
func (r *bookRepository) SearchByKeyword(ctx context.Context, keyword string) ([]*models.Book, error) {
	var books []*models.Book
	pattern := likePattern(keyword)
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(isbn) LIKE ? OR LOWER(publisher) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern, pattern, pattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// ListAvailable lists books with at least one available copy
func (r *bookRepository) ListAvailable(ctx context.Context) ([]*models.Book, error) {
	var books []*models.Book
	err := r.db.WithContext(ctx).
		Where("available_copies > 0").
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// ExistsByISBN checks if isbn exists
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Where("isbn = ?", isbn).Count(&count).Error
	return count > 0, err
}

// DecrementAvailable takes one copy out of circulation if any is available
func (r *bookRepository) DecrementAvailable(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND available_copies > 0", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	return result.RowsAffected == 1, result.Error
}

// IncrementAvailable puts one copy back unless all copies are already available
func (r *bookRepository) IncrementAvailable(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND available_copies < total_copies", id).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
	return result.RowsAffected == 1, result.Error
}

// likePattern builds a lower-case contains pattern
func likePattern(fragment string) string {
	return "%" + strings.ToLower(strings.TrimSpace(fragment)) + "%"
}
