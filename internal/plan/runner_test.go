package plan_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vault/internal/events"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/plan"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type claimKey struct {
	planID uuid.UUID
	date   string
}

// memoryRepo keeps plans, goal balances and claimed occurrences in memory.
// Writes inside an execution are staged and applied on Commit.
type memoryRepo struct {
	plan.Repository

	mu       sync.Mutex
	plans    []*plan.Plan
	balances map[uuid.UUID]decimal.Decimal
	claims   map[claimKey]bool
	deposits []*transaction.Transaction
	failGoal uuid.UUID
}

func newMemoryRepo(plans ...*plan.Plan) *memoryRepo {
	r := &memoryRepo{
		plans:    plans,
		balances: make(map[uuid.UUID]decimal.Decimal),
		claims:   make(map[claimKey]bool),
	}

	for _, p := range plans {
		r.balances[p.GoalID] = decimal.Zero
	}

	return r
}

func (r *memoryRepo) ListDue(_ context.Context, today time.Time) ([]*plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*plan.Plan

	for _, p := range r.plans {
		if p.Active && !p.NextExecution.After(today) {
			cp := *p
			due = append(due, &cp)
		}
	}

	return due, nil
}

func (r *memoryRepo) BeginExecution(context.Context) (plan.ExecutionTx, error) {
	return &memoryTx{repo: r}, nil
}

func (r *memoryRepo) stored(id uuid.UUID) *plan.Plan {
	for _, p := range r.plans {
		if p.ID == id {
			return p
		}
	}

	return nil
}

type memoryTx struct {
	repo     *memoryRepo
	claim    *claimKey
	movement *goal.Movement
	advance  map[uuid.UUID]time.Time
}

func (tx *memoryTx) Claim(_ context.Context, planID uuid.UUID, scheduledFor time.Time) (bool, error) {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	k := claimKey{planID: planID, date: scheduledFor.Format(time.DateOnly)}
	if tx.repo.claims[k] {
		return false, nil
	}

	tx.claim = &k

	return true, nil
}

func (tx *memoryTx) ApplyMovement(_ context.Context, m *goal.Movement) (*goal.Goal, error) {
	if m.GoalID == tx.repo.failGoal {
		return nil, goal.ErrNotFound
	}

	tx.movement = m
	m.Transaction.ID = uuid.New()

	return &goal.Goal{ID: m.GoalID}, nil
}

func (tx *memoryTx) Advance(_ context.Context, planID uuid.UUID, next time.Time) error {
	tx.advance = map[uuid.UUID]time.Time{planID: next}
	return nil
}

func (tx *memoryTx) Commit() error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	if tx.claim != nil {
		tx.repo.claims[*tx.claim] = true
	}

	if tx.movement != nil {
		tx.repo.balances[tx.movement.GoalID] = tx.repo.balances[tx.movement.GoalID].Add(tx.movement.Delta)
		tx.repo.deposits = append(tx.repo.deposits, tx.movement.Transaction)
	}

	for id, next := range tx.advance {
		tx.repo.stored(id).NextExecution = next
	}

	return nil
}

func (tx *memoryTx) Rollback() error { return nil }

func newPlan(freq plan.Frequency, next time.Time, amount int64) *plan.Plan {
	return &plan.Plan{
		ID:            uuid.New(),
		UserID:        userID,
		GoalID:        uuid.New(),
		Amount:        decimal.NewFromInt(amount),
		Frequency:     freq,
		NextExecution: next,
		Active:        true,
	}
}

func TestRunner_RunDue_ExecutesAndAdvances(t *testing.T) {
	p := newPlan(plan.FrequencyWeekly, day(2024, 3, 4), 150)
	p.GoalCategory = goal.CategoryTravel
	repo := newMemoryRepo(p)
	recorder := &events.Recorder{}

	runner := plan.NewRunner(repo, recorder)

	n, err := runner.RunDue(context.Background(), day(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, "150", repo.balances[p.GoalID].String())
	assert.True(t, day(2024, 3, 11).Equal(p.NextExecution))

	require.Len(t, repo.deposits, 1)
	d := repo.deposits[0]
	assert.Equal(t, transaction.TypeDeposit, d.Type)
	assert.Equal(t, transaction.MethodAutomatic, d.Method)
	assert.Equal(t, string(goal.CategoryTravel), d.Category)
	assert.True(t, day(2024, 3, 4).Equal(d.Date))

	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.TypePlanExecuted, recorder.Events[0].Type)
}

func TestRunner_RunDue_CatchesUpMissedOccurrences(t *testing.T) {
	p := newPlan(plan.FrequencyDaily, day(2024, 3, 1), 10)
	repo := newMemoryRepo(p)

	n, err := plan.NewRunner(repo, nil).RunDue(context.Background(), day(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "40", repo.balances[p.GoalID].String())
	assert.True(t, day(2024, 3, 5).Equal(p.NextExecution))

	dates := make([]string, len(repo.deposits))
	for i, d := range repo.deposits {
		dates[i] = d.Date.Format(time.DateOnly)
	}

	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"}, dates)
}

func TestRunner_RunDue_IsIdempotent(t *testing.T) {
	p := newPlan(plan.FrequencyMonthly, day(2024, 1, 31), 500)
	repo := newMemoryRepo(p)
	runner := plan.NewRunner(repo, nil)

	for range 3 {
		_, err := runner.RunDue(context.Background(), day(2024, 2, 10))
		require.NoError(t, err)
	}

	assert.Len(t, repo.deposits, 1)
	assert.Equal(t, "500", repo.balances[p.GoalID].String())
}

func TestRunner_RunDue_ConcurrentRunsDepositOnce(t *testing.T) {
	p := newPlan(plan.FrequencyDaily, day(2024, 6, 1), 25)
	repo := newMemoryRepo(p)
	runner := plan.NewRunner(repo, nil)

	// Simulates another runner that already committed the same occurrence
	// while this one still holds the stale NextExecution.
	repo.claims[claimKey{planID: p.ID, date: "2024-06-01"}] = true

	n, err := runner.RunDue(context.Background(), day(2024, 6, 1))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, repo.deposits)
}

func TestRunner_RunDue_SkipsOrphaned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	today := day(2024, 4, 1)
	orphaned := newPlan(plan.FrequencyDaily, today, 10)
	orphaned.Orphaned = true

	repo := plan.NewMockRepository(ctrl)
	repo.EXPECT().ListDue(gomock.Any(), today).Return([]*plan.Plan{orphaned}, nil)

	n, err := plan.NewRunner(repo, nil).RunDue(context.Background(), today)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunner_RunDue_FailureDoesNotStopOthers(t *testing.T) {
	broken := newPlan(plan.FrequencyDaily, day(2024, 4, 1), 10)
	healthy := newPlan(plan.FrequencyDaily, day(2024, 4, 1), 20)

	repo := newMemoryRepo(broken, healthy)
	repo.failGoal = broken.GoalID

	n, err := plan.NewRunner(repo, nil).RunDue(context.Background(), day(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, repo.balances[broken.GoalID].IsZero())
	assert.Equal(t, "20", repo.balances[healthy.GoalID].String())
	assert.True(t, day(2024, 4, 1).Equal(broken.NextExecution))
}

func TestRunner_RunDue_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := plan.NewMockRepository(ctrl)
	repo.EXPECT().ListDue(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := plan.NewRunner(repo, nil).RunDue(context.Background(), day(2024, 4, 1))
	assert.Error(t, err)
}

func TestRunner_Schedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := plan.NewRunner(plan.NewMockRepository(ctrl), nil)
	c := cron.New()

	id, err := runner.Schedule(context.Background(), c, "@every 1h")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = runner.Schedule(context.Background(), c, "not a spec")
	assert.Error(t, err)
}
