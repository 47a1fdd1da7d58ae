package aggregate_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(typ transaction.Type, amount, category string) *transaction.Transaction {
	return &transaction.Transaction{Type: typ, Amount: dec(amount), Category: category}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	type args struct {
		txs   []*transaction.Transaction
		goals []*goal.Goal
	}

	type testCase struct {
		name          string
		args          args
		wantTotals    aggregate.Totals
		wantBreakdown map[string]string
	}

	tests := []testCase{
		{
			name: "IncomeAndFoodExpensesNoGoals",
			args: args{
				txs: []*transaction.Transaction{
					tx(transaction.TypeIncome, "500", "salary"),
					tx(transaction.TypeExpense, "200", "food"),
					tx(transaction.TypeExpense, "100", "food"),
				},
			},
			wantTotals: aggregate.Totals{
				Income:   dec("500"),
				Expense:  dec("300"),
				Invested: decimal.Zero,
				Balance:  dec("200"),
			},
			wantBreakdown: map[string]string{"food": "300"},
		},
		{
			name: "GoalsCountAsInvested",
			args: args{
				txs: []*transaction.Transaction{
					tx(transaction.TypeIncome, "1000.10", "salary"),
					tx(transaction.TypeExpense, "0.20", "transport"),
					tx(transaction.TypeDeposit, "250", ""),
				},
				goals: []*goal.Goal{
					{CurrentAmount: dec("250"), TargetAmount: dec("1000")},
					{CurrentAmount: dec("0.30"), TargetAmount: dec("10")},
				},
			},
			wantTotals: aggregate.Totals{
				Income:   dec("1000.10"),
				Expense:  dec("0.20"),
				Invested: dec("250.30"),
				Balance:  dec("749.60"),
			},
			wantBreakdown: map[string]string{"transport": "0.20"},
		},
		{
			name:       "Empty",
			args:       args{},
			wantTotals: aggregate.Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aggregate.Compute(tt.args.txs, tt.args.goals)
			require.NoError(t, err)

			assert.True(t, tt.wantTotals.Income.Equal(got.Totals.Income), "income %s", got.Totals.Income)
			assert.True(t, tt.wantTotals.Expense.Equal(got.Totals.Expense), "expense %s", got.Totals.Expense)
			assert.True(t, tt.wantTotals.Invested.Equal(got.Totals.Invested), "invested %s", got.Totals.Invested)
			assert.True(t, tt.wantTotals.Balance.Equal(got.Totals.Balance), "balance %s", got.Totals.Balance)

			balance := got.Totals.Income.Sub(got.Totals.Expense).Sub(got.Totals.Invested)
			assert.True(t, balance.Equal(got.Totals.Balance))

			m := got.Breakdown.Map()
			require.Len(t, m, len(tt.wantBreakdown))

			for category, amount := range tt.wantBreakdown {
				assert.True(t, dec(amount).Equal(m[category]), "%s = %s", category, m[category])
			}
		})
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	_, err := aggregate.Compute([]*transaction.Transaction{
		tx(transaction.TypeExpense, "10", "food"),
		tx(transaction.TypeExpense, "-1", "food"),
	}, nil)

	var verr *aggregate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.ErrorIs(t, err, aggregate.ErrNegativeAmount)

	_, err = aggregate.Compute([]*transaction.Transaction{tx("refund", "10", "")}, nil)
	assert.ErrorIs(t, err, aggregate.ErrUnknownType)
}

func TestBreakdown_Sorting(t *testing.T) {
	summary, err := aggregate.Compute([]*transaction.Transaction{
		tx(transaction.TypeExpense, "50", "transport"),
		tx(transaction.TypeExpense, "80", "food"),
		tx(transaction.TypeExpense, "50", "leisure"),
		tx(transaction.TypeExpense, "30", "food"),
	}, nil)
	require.NoError(t, err)

	names := func(b aggregate.Breakdown) []string {
		out := make([]string, len(b))
		for i, c := range b {
			out[i] = c.Category
		}

		return out
	}

	assert.Equal(t, []string{"transport", "food", "leisure"}, names(summary.Breakdown))
	assert.Equal(t, []string{"food", "transport", "leisure"}, names(summary.Breakdown.SortedByAmount()))
	assert.Equal(t, []string{"food", "leisure", "transport"}, names(summary.Breakdown.SortedByName()))
}

func TestProgressPercent(t *testing.T) {
	type testCase struct {
		name    string
		current string
		target  string
		want    int
		wantErr error
	}

	tests := []testCase{
		{name: "Quarter", current: "250", target: "1000", want: 25},
		{name: "AfterDeposit", current: "350", target: "1000", want: 35},
		{name: "Rounded", current: "1", target: "3", want: 33},
		{name: "RoundedUp", current: "2", target: "3", want: 67},
		{name: "OverTarget", current: "1500", target: "1000", want: 100},
		{name: "Zero", current: "0", target: "1000", want: 0},
		{name: "ZeroTarget", current: "10", target: "0", wantErr: aggregate.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aggregate.ProgressPercent(&goal.Goal{
				CurrentAmount: dec(tt.current),
				TargetAmount:  dec(tt.target),
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectedValue(t *testing.T) {
	g := &goal.Goal{
		TargetAmount:  dec("20000"),
		CurrentAmount: dec("10000"),
		InterestRate:  dec("10"),
		Deadline:      date(2026, 1, 1),
	}

	t.Run("PastDeadline", func(t *testing.T) {
		got, err := aggregate.ProjectedValue(g, date(2026, 6, 1))
		require.NoError(t, err)
		assert.True(t, got.Equal(g.CurrentAmount))

		yield, err := aggregate.EstimatedYield(g, date(2026, 6, 1))
		require.NoError(t, err)
		assert.True(t, yield.IsZero())
	})

	t.Run("AtDeadline", func(t *testing.T) {
		got, err := aggregate.ProjectedValue(g, g.Deadline)
		require.NoError(t, err)
		assert.True(t, got.Equal(g.CurrentAmount))
	})

	t.Run("OneYearOut", func(t *testing.T) {
		// 2025-01-01 .. 2026-01-01 is 365 days, slightly under one 365.25-day year.
		got, err := aggregate.ProjectedValue(g, date(2025, 1, 1))
		require.NoError(t, err)
		assert.Equal(t, "10999.28", got.StringFixed(2))
	})

	t.Run("ZeroRate", func(t *testing.T) {
		flat := *g
		flat.InterestRate = decimal.Zero

		got, err := aggregate.ProjectedValue(&flat, date(2020, 1, 1))
		require.NoError(t, err)
		assert.True(t, got.Equal(flat.CurrentAmount))
	})

	t.Run("NegativeRate", func(t *testing.T) {
		bad := *g
		bad.InterestRate = dec("-1")

		_, err := aggregate.ProjectedValue(&bad, date(2025, 1, 1))
		assert.ErrorIs(t, err, aggregate.ErrNegativeRate)
	})
}

func TestYearsBetween(t *testing.T) {
	assert.Zero(t, aggregate.YearsBetween(date(2025, 1, 2), date(2025, 1, 1)))
	assert.InDelta(t, 4.0, aggregate.YearsBetween(date(2024, 1, 1), date(2028, 1, 1)), 1e-9)

	far := aggregate.YearsBetween(date(2025, 1, 1), date(2400, 1, 1))
	farther := aggregate.YearsBetween(date(2025, 1, 1), date(2600, 1, 1))
	assert.InDelta(t, 375.0, far, 0.05)
	assert.InDelta(t, 575.0, farther, 0.05)
	assert.Greater(t, farther, far)
}

func TestProject_SortsByDeadline(t *testing.T) {
	a := &goal.Goal{Title: "a", TargetAmount: dec("100"), CurrentAmount: dec("10"), Deadline: date(2027, 1, 1)}
	b := &goal.Goal{Title: "b", TargetAmount: dec("100"), CurrentAmount: dec("50"), Deadline: date(2026, 1, 1)}
	c := &goal.Goal{Title: "c", TargetAmount: dec("100"), CurrentAmount: dec("200"), Deadline: date(2027, 1, 1)}

	views, err := aggregate.Project([]*goal.Goal{a, b, c}, date(2025, 1, 1))
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "b", views[0].Goal.Title)
	assert.Equal(t, "a", views[1].Goal.Title)
	assert.Equal(t, "c", views[2].Goal.Title)
	assert.Equal(t, 50, views[0].Progress)
	assert.Equal(t, 100, views[2].Progress)
}
