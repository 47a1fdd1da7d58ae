package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vault/internal/budget"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/plan"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var (
	userID = uuid.MustParse("5f1c2a77-8e0b-4b1e-9d5a-3c6f0e2b7a19")
	today  = time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type mocks struct {
	goals   *ledger.MockGoalStore
	txs     *ledger.MockTransactionStore
	plans   *ledger.MockPlanStore
	budgets *ledger.MockBudgetStore
}

func setup(t *testing.T) (*ledger.Ledger, mocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := mocks{
		goals:   ledger.NewMockGoalStore(ctrl),
		txs:     ledger.NewMockTransactionStore(ctrl),
		plans:   ledger.NewMockPlanStore(ctrl),
		budgets: ledger.NewMockBudgetStore(ctrl),
	}

	l := ledger.New(userID, m.goals, m.txs, m.plans, m.budgets).
		WithClock(func() time.Time { return today })

	return l, m
}

func (m mocks) expectLoad(goals []*goal.Goal, txs []*transaction.Transaction) {
	m.goals.EXPECT().List(gomock.Any(), userID).Return(goals, nil)
	m.txs.EXPECT().List(gomock.Any(), userID, transaction.ListFilter{}).Return(txs, nil)
	m.plans.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
	m.budgets.EXPECT().Status(gomock.Any(), userID, today).Return([]budget.Status{}, nil)
}

func TestLedger_Refresh(t *testing.T) {
	l, m := setup(t)

	assert.Empty(t, l.Snapshot().Goals)
	assert.True(t, l.Snapshot().Balance().IsZero())

	reserve := &goal.Goal{ID: uuid.New(), Title: "Reserva", TargetAmount: dec("1000"), CurrentAmount: dec("300")}
	m.expectLoad(
		[]*goal.Goal{reserve},
		[]*transaction.Transaction{
			{Type: transaction.TypeIncome, Amount: dec("2000"), Category: "salary"},
			{Type: transaction.TypeExpense, Amount: dec("450.50"), Category: "food"},
		},
	)

	require.NoError(t, l.Refresh(context.Background()))

	snap := l.Snapshot()
	assert.Len(t, snap.Goals, 1)
	assert.Equal(t, reserve, snap.Goal(reserve.ID))
	assert.Nil(t, snap.Goal(uuid.New()))
	assert.True(t, today.Equal(snap.AsOf))
	assert.Equal(t, "1249.5", snap.Balance().String())
}

func TestLedger_Refresh_FailureKeepsSnapshot(t *testing.T) {
	l, m := setup(t)

	m.expectLoad([]*goal.Goal{{ID: uuid.New(), TargetAmount: dec("10")}}, nil)
	require.NoError(t, l.Refresh(context.Background()))

	before := l.Snapshot()

	m.goals.EXPECT().List(gomock.Any(), userID).Return([]*goal.Goal{}, nil)
	m.txs.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, errors.New("timeout"))

	err := l.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, before, l.Snapshot())
	assert.Len(t, l.Snapshot().Goals, 1)
}

func TestLedger_Deposit(t *testing.T) {
	reserve := &goal.Goal{ID: uuid.New(), Title: "Reserva", TargetAmount: dec("1000"), CurrentAmount: dec("250")}

	type testCase struct {
		name      string
		setupMock func(m mocks)
		wantErr   error
		wantStale bool
		wantGoals int
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m mocks) {
				m.goals.EXPECT().Deposit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p goal.MoveParams) (*goal.Goal, *transaction.Transaction, error) {
						assert.Equal(t, userID, p.UserID)

						updated := *reserve
						updated.CurrentAmount = updated.CurrentAmount.Add(p.Amount)

						return &updated, &transaction.Transaction{}, nil
					})
				m.expectLoad([]*goal.Goal{reserve}, nil)
			},
			wantGoals: 1,
		},
		{
			name: "WriteFails",
			setupMock: func(m mocks) {
				m.goals.EXPECT().Deposit(gomock.Any(), gomock.Any()).Return(nil, nil, goal.ErrNotFound)
			},
			wantErr: goal.ErrNotFound,
		},
		{
			name: "ReloadFails",
			setupMock: func(m mocks) {
				m.goals.EXPECT().Deposit(gomock.Any(), gomock.Any()).Return(reserve, &transaction.Transaction{}, nil)
				m.goals.EXPECT().List(gomock.Any(), userID).Return(nil, errors.New("connection reset"))
			},
			wantStale: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, m := setup(t)
			tt.setupMock(m)

			before := l.Snapshot()

			got, err := l.Deposit(context.Background(), goal.MoveParams{GoalID: reserve.ID, Amount: dec("100")})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Same(t, before, l.Snapshot())
			case tt.wantStale:
				assert.ErrorIs(t, err, ledger.ErrStale)
				assert.NotNil(t, got)
				assert.Same(t, before, l.Snapshot())
			default:
				require.NoError(t, err)
				assert.Equal(t, "350", got.CurrentAmount.String())
				assert.Len(t, l.Snapshot().Goals, tt.wantGoals)
			}
		})
	}
}

func TestLedger_CreateTransaction_SetsUser(t *testing.T) {
	l, m := setup(t)

	m.txs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p transaction.CreateParams) (*transaction.Transaction, error) {
			assert.Equal(t, userID, p.UserID)
			return &transaction.Transaction{ID: uuid.New(), UserID: p.UserID, Amount: p.Amount}, nil
		})
	m.expectLoad(nil, nil)

	got, err := l.CreateTransaction(context.Background(), transaction.CreateParams{
		UserID: uuid.New(),
		Amount: dec("12.90"),
		Type:   transaction.TypeExpense,
	})
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
}

func TestLedger_Plans(t *testing.T) {
	l, m := setup(t)
	planID := uuid.New()

	m.plans.EXPECT().Toggle(gomock.Any(), userID, planID, false).Return(&plan.Plan{ID: planID}, nil)
	m.expectLoad(nil, nil)
	require.NoError(t, l.TogglePlan(context.Background(), planID, false))

	m.plans.EXPECT().Delete(gomock.Any(), userID, planID).Return(plan.ErrNotFound)
	assert.ErrorIs(t, l.DeletePlan(context.Background(), planID), plan.ErrNotFound)
}
