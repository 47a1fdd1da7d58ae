package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/budget"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/plan"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

// ErrStale means a write succeeded but the snapshot could not be reloaded.
var ErrStale = errors.New("ledger snapshot is stale")

//go:generate mockgen -source=ledger.go -destination=ledger_mock.go -package=ledger
type GoalStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error)
	Create(ctx context.Context, params goal.CreateParams) (*goal.Goal, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Deposit(ctx context.Context, params goal.MoveParams) (*goal.Goal, *transaction.Transaction, error)
	Withdraw(ctx context.Context, params goal.MoveParams) (*goal.Goal, *transaction.Transaction, error)
}

type TransactionStore interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type PlanStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]*plan.Plan, error)
	Create(ctx context.Context, params plan.CreateParams) (*plan.Plan, error)
	Toggle(ctx context.Context, userID, id uuid.UUID, active bool) (*plan.Plan, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type BudgetStore interface {
	Status(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]budget.Status, error)
}

// Snapshot is an immutable view of one user's data. Refresh replaces it wholesale.
type Snapshot struct {
	Goals        []*goal.Goal
	Transactions []*transaction.Transaction
	Plans        []*plan.Plan
	Budgets      []budget.Status
	AsOf         time.Time
}

// Summary derives totals and the expense breakdown from the snapshot.
func (s *Snapshot) Summary() (aggregate.Summary, error) {
	return aggregate.Compute(s.Transactions, s.Goals)
}

// Balance is the free balance, zero when the snapshot holds malformed data.
func (s *Snapshot) Balance() decimal.Decimal {
	summary, err := s.Summary()
	if err != nil {
		return decimal.Zero
	}

	return summary.Totals.Balance
}

func (s *Snapshot) Goal(id uuid.UUID) *goal.Goal {
	for _, g := range s.Goals {
		if g.ID == id {
			return g
		}
	}

	return nil
}

// Ledger is the client-side store for one user. Every write goes through it
// and is followed by a full reload. A failed write leaves the snapshot as is.
type Ledger struct {
	userID       uuid.UUID
	goals        GoalStore
	transactions TransactionStore
	plans        PlanStore
	budgets      BudgetStore
	today        func() time.Time

	mu   sync.RWMutex
	snap *Snapshot
}

func New(userID uuid.UUID, goals GoalStore, transactions TransactionStore, plans PlanStore, budgets BudgetStore) *Ledger {
	return &Ledger{
		userID:       userID,
		goals:        goals,
		transactions: transactions,
		plans:        plans,
		budgets:      budgets,
		today:        goal.Today,
		snap:         &Snapshot{},
	}
}

// WithClock overrides the source of the current date.
func (l *Ledger) WithClock(today func() time.Time) *Ledger {
	l.today = today
	return l
}

func (l *Ledger) UserID() uuid.UUID {
	return l.userID
}

// Snapshot returns the current view. Callers must not modify it.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.snap
}

// Refresh reloads everything. On error the previous snapshot is kept.
func (l *Ledger) Refresh(ctx context.Context) error {
	today := l.today()

	goals, err := l.goals.List(ctx, l.userID)
	if err != nil {
		return fmt.Errorf("loading goals: %w", err)
	}

	txs, err := l.transactions.List(ctx, l.userID, transaction.ListFilter{})
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	plans, err := l.plans.List(ctx, l.userID)
	if err != nil {
		return fmt.Errorf("loading plans: %w", err)
	}

	budgets, err := l.budgets.Status(ctx, l.userID, today)
	if err != nil {
		return fmt.Errorf("loading budgets: %w", err)
	}

	snap := &Snapshot{
		Goals:        goals,
		Transactions: txs,
		Plans:        plans,
		Budgets:      budgets,
		AsOf:         today,
	}

	l.mu.Lock()
	l.snap = snap
	l.mu.Unlock()

	return nil
}

func (l *Ledger) afterWrite(ctx context.Context) error {
	if err := l.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStale, err)
	}

	return nil
}

func (l *Ledger) CreateGoal(ctx context.Context, params goal.CreateParams) (*goal.Goal, error) {
	params.UserID = l.userID

	g, err := l.goals.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	return g, l.afterWrite(ctx)
}

func (l *Ledger) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	if err := l.goals.Delete(ctx, l.userID, id); err != nil {
		return err
	}

	return l.afterWrite(ctx)
}

func (l *Ledger) Deposit(ctx context.Context, params goal.MoveParams) (*goal.Goal, error) {
	params.UserID = l.userID

	g, _, err := l.goals.Deposit(ctx, params)
	if err != nil {
		return nil, err
	}

	return g, l.afterWrite(ctx)
}

func (l *Ledger) Withdraw(ctx context.Context, params goal.MoveParams) (*goal.Goal, error) {
	params.UserID = l.userID

	g, _, err := l.goals.Withdraw(ctx, params)
	if err != nil {
		return nil, err
	}

	return g, l.afterWrite(ctx)
}

func (l *Ledger) CreateTransaction(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	params.UserID = l.userID

	tx, err := l.transactions.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	return tx, l.afterWrite(ctx)
}

func (l *Ledger) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := l.transactions.Delete(ctx, l.userID, id); err != nil {
		return err
	}

	return l.afterWrite(ctx)
}

func (l *Ledger) CreatePlan(ctx context.Context, params plan.CreateParams) (*plan.Plan, error) {
	params.UserID = l.userID

	p, err := l.plans.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	return p, l.afterWrite(ctx)
}

func (l *Ledger) TogglePlan(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := l.plans.Toggle(ctx, l.userID, id, active); err != nil {
		return err
	}

	return l.afterWrite(ctx)
}

func (l *Ledger) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := l.plans.Delete(ctx, l.userID, id); err != nil {
		return err
	}

	return l.afterWrite(ctx)
}
