package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle
type Store struct {
	db      *gorm.DB
	Books   BookRepository
	Members MemberRepository
	Loans   LoanRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		Books:   NewBookRepository(db),
		Members: NewMemberRepository(db),
		Loans:   NewLoanRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// Inside fn only the tx store may be used.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
