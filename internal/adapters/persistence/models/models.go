package models

import (
	"fmt"
	"time"

	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Catalog
// ============================================================

// Book represents books table
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null;index" json:"title"`
	Author          string    `gorm:"size:100;not null;index" json:"author"`
	ISBN            string    `gorm:"column:isbn;size:20;uniqueIndex;not null" json:"isbn"`
	Publisher       string    `gorm:"size:100" json:"publisher"`
	PublishedYear   *int      `json:"published_year"`
	TotalCopies     int       `gorm:"not null" json:"total_copies"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
	Category        string    `gorm:"size:50;index" json:"category"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BeforeSave keeps 0 <= available_copies <= total_copies on every create/save
func (b *Book) BeforeSave(tx *gorm.DB) error {
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return fmt.Errorf("%w: available copies must be between 0 and total copies", domain.ErrInvalidInput)
	}
	return nil
}

// OnLoan returns the number of copies currently lent out
func (b *Book) OnLoan() int {
	return b.TotalCopies - b.AvailableCopies
}

// ============================================================
// Membership
// ============================================================

// Member represents members table
type Member struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	Name           string                `gorm:"size:100;not null;index" json:"name"`
	Email          string                `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone          string                `gorm:"size:10;uniqueIndex;not null" json:"phone"`
	MembershipDate time.Time             `gorm:"type:date;not null" json:"membership_date"`
	MembershipType domain.MembershipType `gorm:"size:20;not null;index" json:"membership_type"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse DTO
type MemberResponse struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone"`
	MembershipDate string                `json:"membership_date"`
	MembershipType domain.MembershipType `json:"membership_type"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		MembershipDate: domain.FormatDate(m.MembershipDate),
		MembershipType: m.MembershipType,
	}
}

// MembersToResponse converts a member list
func MembersToResponse(members []*Member) []*MemberResponse {
	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.ToResponse()
	}
	return out
}

// ============================================================
// Lending
// ============================================================

// Loan represents loans table.
// Rows are only created by the lending service's issue operation.
type Loan struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	BookID     uint              `gorm:"not null;index" json:"book_id"`
	MemberID   uint              `gorm:"not null;index" json:"member_id"`
	IssueDate  time.Time         `gorm:"type:date;not null" json:"issue_date"`
	DueDate    time.Time         `gorm:"type:date;not null;index" json:"due_date"`
	ReturnDate *time.Time        `gorm:"type:date" json:"return_date"`
	Status     domain.LoanStatus `gorm:"size:20;not null;index" json:"status"`
	Fine       float64           `gorm:"type:decimal(10,2);not null;default:0" json:"fine"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Book   *Book   `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"book,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID         uint              `json:"id"`
	BookID     uint              `json:"book_id"`
	BookTitle  string            `json:"book_title,omitempty"`
	MemberID   uint              `json:"member_id"`
	MemberName string            `json:"member_name,omitempty"`
	IssueDate  string            `json:"issue_date"`
	DueDate    string            `json:"due_date"`
	ReturnDate *string           `json:"return_date"`
	Status     domain.LoanStatus `json:"status"`
	Fine       float64           `json:"fine"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:        l.ID,
		BookID:    l.BookID,
		MemberID:  l.MemberID,
		IssueDate: domain.FormatDate(l.IssueDate),
		DueDate:   domain.FormatDate(l.DueDate),
		Status:    l.Status,
		Fine:      l.Fine,
	}

	if l.ReturnDate != nil {
		returned := domain.FormatDate(*l.ReturnDate)
		resp.ReturnDate = &returned
	}
	if l.Book != nil {
		resp.BookTitle = l.Book.Title
	}
	if l.Member != nil {
		resp.MemberName = l.Member.Name
	}

	return resp
}

// LoansToResponse converts a loan list
func LoansToResponse(loans []*Loan) []*LoanResponse {
	out := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		out[i] = l.ToResponse()
	}
	return out
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Book{},
		&Member{},
		&Loan{},
	)
}
