package budget

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var (
	ErrNotFound           = errors.New("budget not found")
	ErrInvalidLimit       = errors.New("budget limit must be greater than zero with at most two decimal places")
	ErrCategoryNotAllowed = errors.New("budget category is not an expense category")
)

// Budget is a monthly spending cap for one expense category.
type Budget struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Category    string
	LimitAmount decimal.Decimal
	CreatedAt   time.Time
}

// State is a presentation hint derived from the spent percentage.
type State string

const (
	StateOK        State = "ok"
	StateNearLimit State = "near_limit"
	StateOverLimit State = "over_limit"
)

var (
	nearLimit = decimal.NewFromInt(80)
	hundred   = decimal.NewFromInt(100)
)

type Status struct {
	Budget     *Budget
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	State      State
}

// MonthRange returns the first and last day of the calendar month containing asOf.
func MonthRange(asOf time.Time) (time.Time, time.Time) {
	start := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// Track compares expense spending in the month of asOf against each budget.
// Remaining never goes below zero and Percentage is capped at 100.
func Track(budgets []*Budget, txs []*transaction.Transaction, asOf time.Time) []Status {
	start, end := MonthRange(asOf)

	spent := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense || tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}

		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}

	statuses := make([]Status, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, evaluate(b, spent[b.Category]))
	}

	return statuses
}

func evaluate(b *Budget, spent decimal.Decimal) Status {
	remaining := b.LimitAmount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	// The state compares exact amounts. The displayed percentage is truncated so
	// it never reads 100 or 80 before the limit or the warning line is reached.
	state := StateOK

	switch {
	case spent.GreaterThanOrEqual(b.LimitAmount):
		state = StateOverLimit
	case spent.Mul(hundred).GreaterThanOrEqual(b.LimitAmount.Mul(nearLimit)):
		state = StateNearLimit
	}

	pct := decimal.Zero
	if b.LimitAmount.IsPositive() {
		pct = spent.Mul(hundred).Div(b.LimitAmount).Truncate(2)
	}

	if pct.GreaterThan(hundred) {
		pct = hundred
	}

	return Status{
		Budget:     b,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: pct,
		State:      state,
	}
}
