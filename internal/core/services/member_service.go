package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// MemberService handles membership business logic
type MemberService struct {
	store *repositories.Store
	now   Clock
}

// NewMemberService creates a new member service
func NewMemberService(store *repositories.Store, clock Clock) *MemberService {
	if clock == nil {
		clock = time.Now
	}
	return &MemberService{store: store, now: clock}
}

// MemberInput represents create/update member input.
// MembershipDate is YYYY-MM-DD and defaults to today.
type MemberInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	MembershipDate string `json:"membership_date"`
	MembershipType string `json:"membership_type"`
}

// ListMembersOutput represents a page of members
type ListMembersOutput struct {
	Members []*models.Member
	Total   int64
}

// toMember validates input and builds the member fields it describes
func (s *MemberService) toMember(input *MemberInput) (*models.Member, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)

	if len(name) < 2 || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be between 2 and 100 characters", domain.ErrInvalidInput)
	}
	if len(email) > 100 || !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email should be valid", domain.ErrInvalidInput)
	}
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone number must be 10 digits", domain.ErrInvalidInput)
	}

	membershipType, err := domain.ParseMembershipType(input.MembershipType)
	if err != nil {
		return nil, err
	}

	membershipDate := domain.DateOf(s.now())
	if date := strings.TrimSpace(input.MembershipDate); date != "" {
		if membershipDate, err = domain.ParseDate(date); err != nil {
			return nil, err
		}
	}

	return &models.Member{
		Name:           name,
		Email:          email,
		Phone:          phone,
		MembershipDate: membershipDate,
		MembershipType: membershipType,
	}, nil
}

// Create registers a new member
func (s *MemberService) Create(ctx context.Context, input *MemberInput) (*models.Member, error) {
	member, err := s.toMember(input)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, s.store, member.Email, member.Phone); err != nil {
		return nil, err
	}

	if err := s.store.Members.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("👤 Member #%d registered [%s]", member.ID, member.MembershipType)
	return member, nil
}

// checkUnique rejects an email or phone already used by another member.
// Empty values are skipped.
func (s *MemberService) checkUnique(ctx context.Context, store *repositories.Store, email, phone string) error {
	if email != "" {
		exists, err := store.Members.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateEmail
		}
	}
	if phone != "" {
		exists, err := store.Members.ExistsByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicatePhone
		}
	}
	return nil
}

// GetByID gets a member by ID
func (s *MemberService) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.store.Members.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

// GetByEmail gets a member by email
func (s *MemberService) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	member, err := s.store.Members.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return member, nil
}

// List lists members with pagination
func (s *MemberService) List(ctx context.Context, offset, limit int) (*ListMembersOutput, error) {
	members, total, err := s.store.Members.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListMembersOutput{Members: members, Total: total}, nil
}

// Update rewrites a member. Uniqueness is only checked for values that change.
func (s *MemberService) Update(ctx context.Context, id uint, input *MemberInput) (*models.Member, error) {
	changes, err := s.toMember(input)
	if err != nil {
		return nil, err
	}

	var updated *models.Member
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		member, err := tx.Members.GetByID(ctx, id)
		if err != nil {
			return notFound(err, domain.ErrMemberNotFound)
		}

		email, phone := "", ""
		if changes.Email != member.Email {
			email = changes.Email
		}
		if changes.Phone != member.Phone {
			phone = changes.Phone
		}
		if err := s.checkUnique(ctx, tx, email, phone); err != nil {
			return err
		}

		member.Name = changes.Name
		member.Email = changes.Email
		member.Phone = changes.Phone
		member.MembershipType = changes.MembershipType
		if strings.TrimSpace(input.MembershipDate) != "" {
			member.MembershipDate = changes.MembershipDate
		}

		if err := tx.Members.Update(ctx, member); err != nil {
			return err
		}
		updated = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a member and their closed loan history.
// Members holding ISSUED or OVERDUE loans are refused.
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Members.GetByID(ctx, id); err != nil {
			return notFound(err, domain.ErrMemberNotFound)
		}

		open, err := tx.Loans.CountOpenByMember(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrActiveLoans
		}

		if err := tx.Loans.DeleteByMember(ctx, id); err != nil {
			return err
		}
		return tx.Members.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Member #%d deleted", id)
	return nil
}

// SearchByName finds members whose name contains name (case insensitive)
func (s *MemberService) SearchByName(ctx context.Context, name string) ([]*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return s.store.Members.SearchByName(ctx, name)
}

// ListByType lists members of a membership type
func (s *MemberService) ListByType(ctx context.Context, membershipType string) ([]*models.Member, error) {
	mt, err := domain.ParseMembershipType(strings.ToUpper(membershipType))
	if err != nil {
		return nil, err
	}
	return s.store.Members.ListByType(ctx, mt)
}
