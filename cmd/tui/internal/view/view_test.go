package view

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vault/internal/budget"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/importer/statement"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/plan"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var (
	userID = uuid.MustParse("9a1d7c52-0f3e-4b8a-a6d2-5e7b1c9f3d08")
	today  = time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "Dot", input: "1234.56", want: "1234.56"},
		{name: "Comma", input: "89,90", want: "89.9"},
		{name: "Grouped", input: "R$ 1.234,56", want: "1234.56"},
		{name: "Integer", input: " 300 ", want: "300"},
		{name: "Garbage", input: "abc", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	assert.Error(t, validateAmount("0"))
	assert.Error(t, validateAmount("-5"))
	assert.NoError(t, validateAmount("0,01"))
	assert.Error(t, validateAmount("10,005"))
}

func TestRangeFor(t *testing.T) {
	now := time.Date(2025, 3, 18, 15, 4, 0, 0, time.UTC)

	type testCase struct {
		tf    Timeframe
		start time.Time
		end   time.Time
	}

	tests := []testCase{
		{tf: TimeframeThisMonth, start: day(2025, 3, 1), end: day(2025, 3, 18)},
		{tf: TimeframeLastMonth, start: day(2025, 2, 1), end: day(2025, 2, 28)},
		{tf: TimeframeLast90Days, start: day(2024, 12, 19), end: day(2025, 3, 18)},
		{tf: TimeframeThisYear, start: day(2025, 1, 1), end: day(2025, 3, 18)},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			r := RangeFor(tt.tf, now)
			assert.True(t, tt.start.Equal(r.Start), "start %s", r.Start)
			assert.True(t, tt.end.Equal(r.End), "end %s", r.End)
		})
	}

	assert.True(t, RangeFor(TimeframeAll, now).All())
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: day(2025, 3, 1), End: day(2025, 3, 31)}

	assert.True(t, r.Contains(day(2025, 3, 1)))
	assert.True(t, r.Contains(time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(day(2025, 4, 1)))
	assert.False(t, r.Contains(day(2025, 2, 28)))
	assert.True(t, DateRange{}.Contains(day(1999, 1, 1)))
}

func TestParseCustomRange(t *testing.T) {
	r, err := parseCustomRange("2025-01-10", "2025-01-20")
	require.NoError(t, err)
	assert.True(t, day(2025, 1, 10).Equal(r.Start))

	_, err = parseCustomRange("2025-01-20", "2025-01-10")
	assert.Error(t, err)

	_, err = parseCustomRange("10/01/2025", "2025-01-20")
	assert.Error(t, err)
}

func TestWriteCmd(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus string
		wantErr    bool
	}

	tests := []testCase{
		{name: "Success", wantStatus: "Saved."},
		{
			name:       "Stale",
			err:        fmt.Errorf("%w: %w", ledger.ErrStale, errors.New("timeout")),
			wantStatus: "Saved. (data may be outdated, press r to reload)",
		},
		{name: "Failed", err: goal.ErrInsufficientFunds, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := writeCmd("Saved.", func(context.Context) error { return tt.err })()

			done, ok := msg.(writeDoneMsg)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, done.status)

			if tt.wantErr {
				assert.ErrorIs(t, done.err, tt.err)
				return
			}

			assert.NoError(t, done.err)
		})
	}
}

type mocks struct {
	goals   *ledger.MockGoalStore
	txs     *ledger.MockTransactionStore
	plans   *ledger.MockPlanStore
	budgets *ledger.MockBudgetStore
}

func loadedLedger(t *testing.T, goals []*goal.Goal, txs []*transaction.Transaction, plans []*plan.Plan) (*ledger.Ledger, mocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := mocks{
		goals:   ledger.NewMockGoalStore(ctrl),
		txs:     ledger.NewMockTransactionStore(ctrl),
		plans:   ledger.NewMockPlanStore(ctrl),
		budgets: ledger.NewMockBudgetStore(ctrl),
	}

	m.goals.EXPECT().List(gomock.Any(), userID).Return(goals, nil)
	m.txs.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(txs, nil)
	m.plans.EXPECT().List(gomock.Any(), userID).Return(plans, nil)
	m.budgets.EXPECT().Status(gomock.Any(), userID, today).Return([]budget.Status{}, nil)

	l := ledger.New(userID, m.goals, m.txs, m.plans, m.budgets).
		WithClock(func() time.Time { return today })
	require.NoError(t, l.Refresh(context.Background()))

	return l, m
}

func TestChatContext(t *testing.T) {
	trip := &goal.Goal{
		ID:            uuid.New(),
		Title:         "Viagem",
		TargetAmount:  dec("8000"),
		CurrentAmount: dec("500"),
		Deadline:      day(2026, 1, 1),
		Category:      goal.CategoryTravel,
	}

	l, _ := loadedLedger(t, []*goal.Goal{trip}, []*transaction.Transaction{
		{Type: transaction.TypeIncome, Amount: dec("3000"), Category: "salary"},
		{Type: transaction.TypeExpense, Amount: dec("1200"), Category: "housing"},
	}, nil)

	got := chatContext(l.Snapshot())

	assert.Equal(t, "1300", got.Balance.String())
	assert.Equal(t, "3000", got.Income.String())
	assert.Equal(t, "1200", got.Expense.String())
	require.Len(t, got.Goals, 1)
	assert.Equal(t, "Viagem", got.Goals[0].Title)
	assert.Equal(t, "2026-01-01", got.Goals[0].Deadline)
}

func TestGoalsModel_IgnoresKeysWhileSaving(t *testing.T) {
	g := &goal.Goal{ID: uuid.New(), Title: "Carro", TargetAmount: dec("40000"), CurrentAmount: dec("1000"), Deadline: day(2027, 6, 1)}
	l, _ := loadedLedger(t, []*goal.Goal{g}, nil, nil)

	m := NewGoalsModel(l, nil)
	m.busy = true

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Nil(t, cmd)
	assert.Equal(t, goalsStateBrowse, next.(GoalsModel).state)

	next, _ = next.Update(writeDoneMsg{status: "Deposit saved."})
	gm := next.(GoalsModel)
	assert.False(t, gm.busy)
	assert.Equal(t, "Deposit saved.", gm.status)
	assert.Len(t, gm.goals, 1)
}

func TestGoalsModel_OpensDepositForm(t *testing.T) {
	g := &goal.Goal{ID: uuid.New(), Title: "Carro", TargetAmount: dec("40000"), CurrentAmount: dec("1000"), Deadline: day(2027, 6, 1)}
	l, _ := loadedLedger(t, []*goal.Goal{g}, nil, nil)

	next, _ := NewGoalsModel(l, nil).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})

	gm := next.(GoalsModel)
	assert.Equal(t, goalsStateForm, gm.state)
	assert.Equal(t, goalActionDeposit, gm.action)
	assert.Equal(t, g.ID, gm.target.ID)
	assert.Equal(t, "Deposit into Carro", gm.formTitle())
}

func TestPlansModel_OrphanedPlanCannotToggle(t *testing.T) {
	orphaned := &plan.Plan{
		ID:            uuid.New(),
		GoalID:        uuid.New(),
		Amount:        dec("100"),
		Frequency:     plan.FrequencyWeekly,
		NextExecution: day(2025, 3, 20),
		Active:        true,
		Orphaned:      true,
	}
	l, _ := loadedLedger(t, nil, nil, []*plan.Plan{orphaned})

	m := NewPlansModel(l)
	require.Len(t, m.plans, 1)
	assert.Equal(t, "orphaned", planStatus(orphaned))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.Nil(t, cmd)
	assert.False(t, next.(PlansModel).busy)
	assert.Contains(t, next.(PlansModel).status, "Delete the plan instead")
}

func TestPlansModel_Toggle(t *testing.T) {
	p := &plan.Plan{ID: uuid.New(), GoalID: uuid.New(), Amount: dec("50"), Frequency: plan.FrequencyDaily, Active: true}
	l, m := loadedLedger(t, nil, nil, []*plan.Plan{p})

	model := NewPlansModel(l)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	require.NotNil(t, cmd)
	assert.True(t, next.(PlansModel).busy)

	paused := *p
	paused.Active = false

	m.plans.EXPECT().Toggle(gomock.Any(), userID, p.ID, false).Return(&paused, nil)
	m.goals.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
	m.txs.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, nil)
	m.plans.EXPECT().List(gomock.Any(), userID).Return([]*plan.Plan{&paused}, nil)
	m.budgets.EXPECT().Status(gomock.Any(), userID, today).Return(nil, nil)

	done := cmd().(writeDoneMsg)
	assert.Equal(t, "Plan paused.", done.status)

	next, _ = next.Update(done)
	assert.Equal(t, "paused", planStatus(next.(PlansModel).plans[0]))
}

func TestTransactionsModel_FiltersByRange(t *testing.T) {
	l, _ := loadedLedger(t, nil, []*transaction.Transaction{
		{ID: uuid.New(), Type: transaction.TypeExpense, Amount: dec("10"), Category: "food", Date: day(2025, 3, 2)},
		{ID: uuid.New(), Type: transaction.TypeExpense, Amount: dec("20"), Category: "food", Date: day(2025, 2, 27)},
	}, nil)

	m := NewTransactionsModel(l, nil, nil, nil)

	next, _ := m.Update(TimeframeSelectedMsg{Range: DateRange{Start: day(2025, 3, 1), End: day(2025, 3, 31)}})
	tm := next.(TransactionsModel)

	assert.Equal(t, txStateList, tm.state)
	assert.Len(t, tm.list.Items(), 1)
}

func TestKeptParams(t *testing.T) {
	fresh := transaction.CreateParams{RawDescription: "PADARIA"}
	conflicts := []transaction.Conflict{
		{Incoming: transaction.CreateParams{RawDescription: "NETFLIX"}},
		{Incoming: transaction.CreateParams{RawDescription: "UBER"}},
	}

	got := keptParams([]transaction.CreateParams{fresh}, conflicts, map[int]bool{1: true, 0: false})

	require.Len(t, got, 2)
	assert.Equal(t, "PADARIA", got[0].RawDescription)
	assert.Equal(t, "UBER", got[1].RawDescription)
}

func TestImportModel_Results(t *testing.T) {
	l, _ := loadedLedger(t, nil, nil, nil)
	m := NewImportModel(l, nil, nil)

	updated, cmd := m.Update(importResultMsg{err: fmt.Errorf("parsing statement: %w", statement.ErrUnknownFormat)})
	got := updated.(ImportModel)
	assert.Nil(t, cmd)
	assert.Equal(t, importStateResult, got.state)
	assert.Contains(t, got.View(), "unrecognized statement")

	updated, _ = got.Update(tea.KeyMsg{Type: tea.KeyEsc})
	got = updated.(ImportModel)
	assert.Equal(t, importStateFilePick, got.state)
	assert.NoError(t, got.err)

	updated, _ = got.Update(importResultMsg{result: &transaction.ImportResult{
		New:       []transaction.CreateParams{{RawDescription: "PADARIA"}},
		Conflicts: []transaction.Conflict{{Incoming: transaction.CreateParams{RawDescription: "NETFLIX"}, Existing: &transaction.Transaction{}}},
	}})
	got = updated.(ImportModel)
	require.Equal(t, importStateConflicts, got.state)

	updated, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	got = updated.(ImportModel)
	assert.Len(t, keptParams(got.newParams, got.conflicts, got.selected), 2)
}
