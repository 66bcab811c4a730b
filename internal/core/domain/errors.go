package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrConflict       = errors.New("concurrent update conflict, please retry")
)

// Catalog and membership errors
var (
	ErrBookNotFound   = fmt.Errorf("book not found: %w", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("member not found: %w", ErrNotFound)
	ErrDuplicateISBN  = fmt.Errorf("book with this isbn already exists: %w", ErrDuplicateEntry)
	ErrDuplicateEmail = fmt.Errorf("member with this email already exists: %w", ErrDuplicateEntry)
	ErrDuplicatePhone = fmt.Errorf("member with this phone already exists: %w", ErrDuplicateEntry)
	ErrActiveLoans    = errors.New("cannot delete while loans are outstanding")
)

// Lending errors
var (
	ErrLoanNotFound    = fmt.Errorf("loan not found: %w", ErrNotFound)
	ErrBookUnavailable = errors.New("book is not available for issuing")
	ErrInvalidState    = errors.New("invalid loan state")
	ErrAlreadyReturned = fmt.Errorf("book has already been returned: %w", ErrInvalidState)
)
