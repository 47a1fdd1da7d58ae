package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=plan
type Repository interface {
	CreatePlan(ctx context.Context, p *Plan) error
	GetPlan(ctx context.Context, userID, id uuid.UUID) (*Plan, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]*Plan, error)
	SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error
	DeletePlan(ctx context.Context, userID, id uuid.UUID) error

	// ListDue returns active plans of every user with NextExecution on or before today.
	ListDue(ctx context.Context, today time.Time) ([]*Plan, error)
	BeginExecution(ctx context.Context) (ExecutionTx, error)
}

// ExecutionTx runs one scheduled occurrence of a plan atomically.
type ExecutionTx interface {
	// Claim records (planID, scheduledFor) and reports false if it was already recorded.
	Claim(ctx context.Context, planID uuid.UUID, scheduledFor time.Time) (bool, error)
	ApplyMovement(ctx context.Context, m *goal.Movement) (*goal.Goal, error)
	Advance(ctx context.Context, planID uuid.UUID, next time.Time) error
	Commit() error
	Rollback() error
}

type GoalFinder interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*goal.Goal, error)
}

type Service struct {
	repo  Repository
	goals GoalFinder
	today func() time.Time
}

func NewService(repo Repository, goals GoalFinder) *Service {
	return &Service{repo: repo, goals: goals, today: goal.Today}
}

// WithClock overrides the source of the current date.
func (s *Service) WithClock(today func() time.Time) *Service {
	s.today = today
	return s
}

type CreateParams struct {
	UserID    uuid.UUID
	GoalID    uuid.UUID
	Amount    decimal.Decimal
	Frequency Frequency
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Plan, error) {
	if !transaction.ValidAmount(params.Amount) {
		return nil, ErrInvalidAmount
	}

	if _, err := ParseFrequency(string(params.Frequency)); err != nil {
		return nil, err
	}

	if _, err := s.goals.Get(ctx, params.UserID, params.GoalID); err != nil {
		return nil, fmt.Errorf("plan goal: %w", err)
	}

	next, err := NextExecution(s.today(), params.Frequency)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		UserID:        params.UserID,
		GoalID:        params.GoalID,
		Amount:        params.Amount,
		Frequency:     params.Frequency,
		NextExecution: next,
		Active:        true,
	}
	if err := s.repo.CreatePlan(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// List returns every plan of the user, orphaned ones included.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Plan, error) {
	return s.repo.ListPlans(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Plan, error) {
	return s.repo.GetPlan(ctx, userID, id)
}

// Toggle sets the active flag. NextExecution is left untouched.
func (s *Service) Toggle(ctx context.Context, userID, id uuid.UUID, active bool) (*Plan, error) {
	if err := s.repo.SetActive(ctx, userID, id, active); err != nil {
		return nil, err
	}

	return s.repo.GetPlan(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeletePlan(ctx, userID, id)
}

// Schedule previews the next n execution dates of a plan.
func (s *Service) Schedule(ctx context.Context, userID, id uuid.UUID, n int) ([]time.Time, error) {
	p, err := s.repo.GetPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return Upcoming(p, n)
}
