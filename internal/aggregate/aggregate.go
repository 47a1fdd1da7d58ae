// Package aggregate computes dashboard figures from a user's transactions and
// goals: totals, per-category expense rollups, goal progress and compound
// interest projections. It performs no I/O.
package aggregate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrUnknownType    = errors.New("unknown transaction type")
	ErrInvalidTarget  = errors.New("target amount must be greater than zero")
	ErrNegativeRate   = errors.New("interest rate cannot be negative")
)

// ValidationError reports malformed input to the engine.
type ValidationError struct {
	Field string
	Index int // Position in the input collection, -1 for single values
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}

	return fmt.Sprintf("%s[%d]: %v", e.Field, e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type Totals struct {
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Invested decimal.Decimal
	Balance  decimal.Decimal
}

type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// Breakdown holds expense sums per category in first-seen order.
type Breakdown []CategoryTotal

func (b Breakdown) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(b))
	for _, c := range b {
		m[c.Category] = c.Amount
	}

	return m
}

// SortedByAmount returns a copy ordered by descending amount. Ties keep first-seen order.
func (b Breakdown) SortedByAmount() Breakdown {
	out := slices.Clone(b)
	slices.SortStableFunc(out, func(x, y CategoryTotal) int {
		return y.Amount.Cmp(x.Amount)
	})

	return out
}

// SortedByName returns a copy ordered alphabetically by category.
func (b Breakdown) SortedByName() Breakdown {
	out := slices.Clone(b)
	slices.SortStableFunc(out, func(x, y CategoryTotal) int {
		return strings.Compare(x.Category, y.Category)
	})

	return out
}

type Summary struct {
	Totals    Totals
	Breakdown Breakdown
}

// Compute sums income and expense transactions and the current amount of every goal.
// Balance is income minus expense minus invested. Goal movements (deposit,
// withdrawal, yield) are already reflected in goal balances and are not counted again.
func Compute(txs []*transaction.Transaction, goals []*goal.Goal) (Summary, error) {
	var s Summary

	index := make(map[string]int)

	for i, tx := range txs {
		if tx.Amount.IsNegative() {
			return Summary{}, &ValidationError{Field: "transactions", Index: i, Err: ErrNegativeAmount}
		}

		switch tx.Type {
		case transaction.TypeIncome:
			s.Totals.Income = s.Totals.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			s.Totals.Expense = s.Totals.Expense.Add(tx.Amount)

			pos, ok := index[tx.Category]
			if !ok {
				pos = len(s.Breakdown)
				index[tx.Category] = pos
				s.Breakdown = append(s.Breakdown, CategoryTotal{Category: tx.Category})
			}

			s.Breakdown[pos].Amount = s.Breakdown[pos].Amount.Add(tx.Amount)
		case transaction.TypeDeposit, transaction.TypeWithdrawal, transaction.TypeYield:
		default:
			return Summary{}, &ValidationError{
				Field: "transactions",
				Index: i,
				Err:   fmt.Errorf("%w: %q", ErrUnknownType, tx.Type),
			}
		}
	}

	for i, g := range goals {
		if g.CurrentAmount.IsNegative() {
			return Summary{}, &ValidationError{Field: "goals", Index: i, Err: ErrNegativeAmount}
		}

		s.Totals.Invested = s.Totals.Invested.Add(g.CurrentAmount)
	}

	s.Totals.Balance = s.Totals.Income.Sub(s.Totals.Expense).Sub(s.Totals.Invested)

	return s, nil
}
