package domain

import (
	"fmt"
	"strings"
	"time"
)

// Lending defaults
const (
	DefaultLoanPeriodDays = 14
	DefaultFinePerDay     = 5.0
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusIssued   LoanStatus = "ISSUED"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
	LoanStatusReturned LoanStatus = "RETURNED"
)

// IsValid reports whether s is a known loan status
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusIssued, LoanStatusOverdue, LoanStatusReturned:
		return true
	}
	return false
}

// IsOpen reports whether the loan still holds a book copy
func (s LoanStatus) IsOpen() bool {
	return s == LoanStatusIssued || s == LoanStatusOverdue
}

// ParseLoanStatus parses an exact (upper-case) status value
func ParseLoanStatus(value string) (LoanStatus, error) {
	status := LoanStatus(strings.TrimSpace(value))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: status must be ISSUED, OVERDUE, or RETURNED", ErrInvalidInput)
	}
	return status, nil
}

// MembershipType represents a member's class
type MembershipType string

const (
	MembershipStandard MembershipType = "STANDARD"
	MembershipPremium  MembershipType = "PREMIUM"
	MembershipStudent  MembershipType = "STUDENT"
)

// IsValid reports whether t is a known membership type
func (t MembershipType) IsValid() bool {
	switch t {
	case MembershipStandard, MembershipPremium, MembershipStudent:
		return true
	}
	return false
}

// ParseMembershipType parses a membership type value
func ParseMembershipType(value string) (MembershipType, error) {
	mt := MembershipType(strings.TrimSpace(value))
	if !mt.IsValid() {
		return "", fmt.Errorf("%w: membership type must be STANDARD, PREMIUM, or STUDENT", ErrInvalidInput)
	}
	return mt, nil
}

// DateOf returns the calendar date of t as UTC midnight.
// The date is taken in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}

// FormatDate formats t as a calendar date
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}
