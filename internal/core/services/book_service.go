package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"
)

var isbnPattern = regexp.MustCompile(`^[0-9-]+$`)

// BookService handles catalog business logic
type BookService struct {
	store *repositories.Store
}

// NewBookService creates a new book service
func NewBookService(store *repositories.Store) *BookService {
	return &BookService{store: store}
}

// BookInput represents create/update book input
type BookInput struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Publisher       string `json:"publisher"`
	PublishedYear   *int   `json:"published_year"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies *int   `json:"available_copies"`
	Category        string `json:"category"`
}

// ListBooksOutput represents a page of books
type ListBooksOutput struct {
	Books []*models.Book
	Total int64
}

func (in *BookInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.Category = strings.TrimSpace(in.Category)
}

func (in *BookInput) validate() error {
	switch {
	case len(in.Title) < 1 || len(in.Title) > 200:
		return fmt.Errorf("%w: title must be between 1 and 200 characters", domain.ErrInvalidInput)
	case len(in.Author) < 1 || len(in.Author) > 100:
		return fmt.Errorf("%w: author must be between 1 and 100 characters", domain.ErrInvalidInput)
	case !validISBN(in.ISBN):
		return fmt.Errorf("%w: isbn must contain 10 or 13 digits", domain.ErrInvalidInput)
	case len(in.Publisher) > 100:
		return fmt.Errorf("%w: publisher must not exceed 100 characters", domain.ErrInvalidInput)
	case in.PublishedYear != nil && (*in.PublishedYear < 1000 || *in.PublishedYear > 2100):
		return fmt.Errorf("%w: published year must be between 1000 and 2100", domain.ErrInvalidInput)
	case len(in.Category) > 50:
		return fmt.Errorf("%w: category must not exceed 50 characters", domain.ErrInvalidInput)
	case in.TotalCopies < 1:
		return fmt.Errorf("%w: total copies must be at least 1", domain.ErrInvalidInput)
	}
	return nil
}

// validISBN accepts ISBN-10 or ISBN-13 written with optional hyphens
func validISBN(isbn string) bool {
	if !isbnPattern.MatchString(isbn) {
		return false
	}
	digits := len(strings.ReplaceAll(isbn, "-", ""))
	return digits == 10 || digits == 13
}

// Create adds a book to the catalog. Available copies default to total copies.
func (s *BookService) Create(ctx context.Context, input *BookInput) (*models.Book, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	available := input.TotalCopies
	if input.AvailableCopies != nil {
		available = *input.AvailableCopies
	}
	if available < 0 || available > input.TotalCopies {
		return nil, fmt.Errorf("%w: available copies must be between 0 and total copies", domain.ErrInvalidInput)
	}

	exists, err := s.store.Books.ExistsByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateISBN
	}

	book := &models.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		Publisher:       input.Publisher,
		PublishedYear:   input.PublishedYear,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: available,
		Category:        input.Category,
	}
	if err := s.store.Books.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Printf("📘 Book #%d created [%s]", book.ID, book.ISBN)
	return book, nil
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.store.Books.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrBookNotFound)
	}
	return book, nil
}

// GetByISBN gets a book by ISBN
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	book, err := s.store.Books.GetByISBN(ctx, strings.TrimSpace(isbn))
	if err != nil {
		return nil, notFound(err, domain.ErrBookNotFound)
	}
	return book, nil
}

// List lists books with pagination
func (s *BookService) List(ctx context.Context, offset, limit int) (*ListBooksOutput, error) {
	books, total, err := s.store.Books.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Books: books, Total: total}, nil
}

// Update rewrites a book's details. Changing total copies shifts available
// copies by the same amount so the copies on loan stay untouched.
func (s *BookService) Update(ctx context.Context, id uint, input *BookInput) (*models.Book, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		book, err := tx.Books.GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrBookNotFound)
		}

		if input.ISBN != book.ISBN {
			exists, err := tx.Books.ExistsByISBN(ctx, input.ISBN)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateISBN
			}
		}

		if input.TotalCopies < book.OnLoan() {
			return fmt.Errorf("%w: total copies cannot be less than the %d copies on loan",
				domain.ErrInvalidInput, book.OnLoan())
		}

		delta := input.TotalCopies - book.TotalCopies
		book.Title = input.Title
		book.Author = input.Author
		book.ISBN = input.ISBN
		book.Publisher = input.Publisher
		book.PublishedYear = input.PublishedYear
		book.Category = input.Category

		ok, err := tx.Books.UpdateDetails(ctx, book, delta)
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

	return s.GetByID(ctx, id)
}

// Delete removes a book and its closed loan history.
// Books with ISSUED or OVERDUE loans are refused.
func (s *BookService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Books.GetByID(ctx, id); err != nil {
			return notFound(err, domain.ErrBookNotFound)
		}

		open, err := tx.Loans.CountOpenByBook(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrActiveLoans
		}

		if err := tx.Loans.DeleteByBook(ctx, id); err != nil {
			return err
		}
		return tx.Books.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Book #%d deleted", id)
	return nil
}

// Search finds books by title and/or author fragments
func (s *BookService) Search(ctx context.Context, title, author string) ([]*models.Book, error) {
	return s.store.Books.Search(ctx, strings.TrimSpace(title), strings.TrimSpace(author))
}

// SearchByKeyword finds books matching keyword in any descriptive field
func (s *BookService) SearchByKeyword(ctx context.Context, keyword string) ([]*models.Book, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", domain.ErrInvalidInput)
	}
	return s.store.Books.SearchByKeyword(ctx, keyword)
}

// ListAvailable lists books with at least one copy on the shelf
func (s *BookService) ListAvailable(ctx context.Context) ([]*models.Book, error) {
	return s.store.Books.ListAvailable(ctx)
}
