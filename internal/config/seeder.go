package config

import (
	"log"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedBooks(); err != nil {
		log.Printf("⚠️ Book seeder skipped: %v", err)
	}

	if err := s.seedMembers(); err != nil {
		log.Printf("⚠️ Member seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedBooks seeds a small catalog when the books table is empty.
// This is for development only.
func (s *Seeder) seedBooks() error {
	var count int64
	if err := s.db.Model(&models.Book{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	year := func(y int) *int { return &y }
	books := []*models.Book{
		{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", ISBN: "978-0134190440", Publisher: "Addison-Wesley", PublishedYear: year(2015), TotalCopies: 3, AvailableCopies: 3, Category: "Programming"},
		{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "978-0132350884", Publisher: "Prentice Hall", PublishedYear: year(2008), TotalCopies: 2, AvailableCopies: 2, Category: "Programming"},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", ISBN: "978-1449373320", Publisher: "O'Reilly Media", PublishedYear: year(2017), TotalCopies: 1, AvailableCopies: 1, Category: "Databases"},
	}

	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d books", len(books))
	return nil
}

// seedMembers seeds sample members when the members table is empty
func (s *Seeder) seedMembers() error {
	var count int64
	if err := s.db.Model(&models.Member{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	today := domain.DateOf(time.Now())
	members := []*models.Member{
		{Name: "Somchai Jaidee", Email: "somchai@example.com", Phone: "0812345678", MembershipDate: today, MembershipType: domain.MembershipStandard},
		{Name: "Malee Srisuk", Email: "malee@example.com", Phone: "0898765432", MembershipDate: today, MembershipType: domain.MembershipStudent},
	}

	if err := s.db.Create(&members).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d members", len(members))
	return nil
}
