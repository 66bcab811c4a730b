package domain

import (
	"math"
	"time"
)

// FinePolicy computes overdue fines at a flat rate per late day
type FinePolicy struct {
	PerDay float64
}

// DefaultFinePolicy charges DefaultFinePerDay
var DefaultFinePolicy = FinePolicy{PerDay: DefaultFinePerDay}

// NewFinePolicy creates a fine policy. Non-positive rates fall back to the default.
func NewFinePolicy(perDay float64) FinePolicy {
	if perDay <= 0 || math.IsNaN(perDay) {
		return DefaultFinePolicy
	}
	return FinePolicy{PerDay: perDay}
}

// Fine returns the fine for a loan due on due and returned on returned
func (p FinePolicy) Fine(due, returned time.Time) float64 {
	return float64(DaysLate(due, returned)) * p.PerDay
}

// CalculateFine applies DefaultFinePolicy
func CalculateFine(due, returned time.Time) float64 {
	return DefaultFinePolicy.Fine(due, returned)
}

// DaysLate counts whole calendar days from due (exclusive) to at (inclusive).
// Returns 0 when at is on or before due.
func DaysLate(due, at time.Time) int {
	days := int(DateOf(at).Sub(DateOf(due)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
