package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"
)

func intPtr(v int) *int { return &v }

func Test_BookService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	book, err := f.books.Create(ctx, &services.BookInput{
		Title:         "  The Go Programming Language ",
		Author:        "Alan Donovan",
		ISBN:          "978-0134190440",
		PublishedYear: intPtr(2015),
		TotalCopies:   3,
		Category:      "Programming",
	})
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", book.Title)
	assert.Equal(t, 3, book.AvailableCopies)

	_, err = f.books.Create(ctx, &services.BookInput{
		Title: "Copy", Author: "Someone", ISBN: "978-0134190440", TotalCopies: 1,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateISBN)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	found, err := f.books.GetByISBN(ctx, "978-0134190440")
	require.NoError(t, err)
	assert.Equal(t, book.ID, found.ID)
}

func Test_BookService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input services.BookInput
	}{
		{"missing title", services.BookInput{Author: "A", ISBN: "0306406152", TotalCopies: 1}},
		{"missing author", services.BookInput{Title: "T", ISBN: "0306406152", TotalCopies: 1}},
		{"isbn with letters", services.BookInput{Title: "T", Author: "A", ISBN: "03064O6152", TotalCopies: 1}},
		{"isbn wrong length", services.BookInput{Title: "T", Author: "A", ISBN: "12345", TotalCopies: 1}},
		{"year out of range", services.BookInput{Title: "T", Author: "A", ISBN: "0306406152", TotalCopies: 1, PublishedYear: intPtr(999)}},
		{"no copies", services.BookInput{Title: "T", Author: "A", ISBN: "0306406152", TotalCopies: 0}},
		{"available above total", services.BookInput{Title: "T", Author: "A", ISBN: "0306406152", TotalCopies: 1, AvailableCopies: intPtr(2)}},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.books.Create(context.Background(), &input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func Test_BookService_Update_KeepsCopiesOnLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "0306406152", 3)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	_, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)
	_, err = f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	updated, err := f.books.Update(ctx, book.ID, &services.BookInput{
		Title: "New Title", Author: "Author", ISBN: "0306406152", TotalCopies: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, 5, updated.TotalCopies)
	assert.Equal(t, 3, updated.AvailableCopies)

	_, err = f.books.Update(ctx, book.ID, &services.BookInput{
		Title: "New Title", Author: "Author", ISBN: "0306406152", TotalCopies: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.books.Update(ctx, 999, &services.BookInput{
		Title: "New Title", Author: "Author", ISBN: "0306406152", TotalCopies: 1,
	})
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func Test_BookService_Delete_RefusedWithOpenLoans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "0306406152", 1)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.books.Delete(ctx, book.ID), domain.ErrActiveLoans)

	_, err = f.lending.Return(ctx, loan.ID)
	require.NoError(t, err)
	require.NoError(t, f.books.Delete(ctx, book.ID))

	_, err = f.books.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
	history, err := f.lending.ListByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func Test_BookService_Search(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.givenBook(t, "0306406152", 1)

	found, err := f.books.Search(ctx, "title", "")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.books.SearchByKeyword(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := f.books.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func Test_MemberService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	member, err := f.members.Create(ctx, &services.MemberInput{
		Name:           "Somchai Jaidee",
		Email:          "Somchai@Example.com",
		Phone:          "0812345678",
		MembershipType: "PREMIUM",
	})
	require.NoError(t, err)
	assert.Equal(t, "somchai@example.com", member.Email)
	assert.Equal(t, "2024-01-01", domain.FormatDate(member.MembershipDate))
	assert.Equal(t, domain.MembershipPremium, member.MembershipType)

	_, err = f.members.Create(ctx, &services.MemberInput{
		Name: "Other", Email: "somchai@example.com", Phone: "0899999999", MembershipType: "STANDARD",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = f.members.Create(ctx, &services.MemberInput{
		Name: "Other", Email: "other@example.com", Phone: "0812345678", MembershipType: "STANDARD",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePhone)

	found, err := f.members.GetByEmail(ctx, "SOMCHAI@example.com")
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)
}

func Test_MemberService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input services.MemberInput
	}{
		{"short name", services.MemberInput{Name: "A", Email: "a@example.com", Phone: "0812345678", MembershipType: "STANDARD"}},
		{"bad email", services.MemberInput{Name: "Alice", Email: "not-an-email", Phone: "0812345678", MembershipType: "STANDARD"}},
		{"short phone", services.MemberInput{Name: "Alice", Email: "a@example.com", Phone: "081234", MembershipType: "STANDARD"}},
		{"unknown type", services.MemberInput{Name: "Alice", Email: "a@example.com", Phone: "0812345678", MembershipType: "GOLD"}},
		{"bad date", services.MemberInput{Name: "Alice", Email: "a@example.com", Phone: "0812345678", MembershipType: "STUDENT", MembershipDate: "01/02/2024"}},
	}

	f := newFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.members.Create(context.Background(), &input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func Test_MemberService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.givenMember(t, "first@example.com", "0800000001")
	f.givenMember(t, "second@example.com", "0800000002")

	updated, err := f.members.Update(ctx, member.ID, &services.MemberInput{
		Name: "Renamed Reader", Email: "first@example.com", Phone: "0800000001", MembershipType: "STUDENT",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Reader", updated.Name)
	assert.Equal(t, domain.MembershipStudent, updated.MembershipType)
	assert.Equal(t, "2024-01-01", domain.FormatDate(updated.MembershipDate))

	_, err = f.members.Update(ctx, member.ID, &services.MemberInput{
		Name: "Renamed Reader", Email: "second@example.com", Phone: "0800000001", MembershipType: "STUDENT",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	students, err := f.members.ListByType(ctx, "student")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, member.ID, students[0].ID)

	byName, err := f.members.SearchByName(ctx, "RENAMED")
	require.NoError(t, err)
	assert.Len(t, byName, 1)
}

func Test_MemberService_Delete_RefusedWithOpenLoans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	book := f.givenBook(t, "0306406152", 1)
	member := f.givenMember(t, "reader@example.com", "0812345678")

	loan, err := f.lending.Issue(ctx, book.ID, member.ID)
	require.NoError(t, err)
	f.clock.Advance(30)
	_, err = f.lending.ListOverdue(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, f.members.Delete(ctx, member.ID), domain.ErrActiveLoans)

	_, err = f.lending.Return(ctx, loan.ID)
	require.NoError(t, err)
	require.NoError(t, f.members.Delete(ctx, member.ID))

	_, err = f.members.GetByID(ctx, member.ID)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	assert.ErrorIs(t, f.members.Delete(ctx, member.ID), domain.ErrMemberNotFound)
}
