package calculator

import (
	"fmt"

	"github.com/mmynk/lendingledger/internal/models"
)

// DefaultFinePerDay is the overdue rate applied when none is configured.
const DefaultFinePerDay int64 = 1

// Fine is the computed overdue charge for one return.
type Fine struct {
	DaysLate int64
	Amount   int64
}

// OnTime reports whether the return was not overdue.
func (f Fine) OnTime() bool {
	return f.DaysLate == 0
}

// FinePolicy computes overdue fines at a fixed rate per calendar day.
type FinePolicy struct {
	PerDay int64
}

// NewFinePolicy returns a policy charging perDay units for each day late.
func NewFinePolicy(perDay int64) (FinePolicy, error) {
	if perDay < 0 {
		return FinePolicy{}, fmt.Errorf("fine rate cannot be negative: %d", perDay)
	}
	return FinePolicy{PerDay: perDay}, nil
}

// CalculateFine computes the fine for a book due on dueDate and returned on returnDate.
// Returns on or before the due date are free:
// fine = max(0, returnDate - dueDate) in whole days × rate.
func (p FinePolicy) CalculateFine(dueDate, returnDate models.Date) Fine {
	if !returnDate.After(dueDate) {
		return Fine{}
	}
	days := returnDate.DaysSince(dueDate)
	return Fine{DaysLate: days, Amount: days * p.PerDay}
}
