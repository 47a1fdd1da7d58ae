package goal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/events"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, userID, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*Goal, error)
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) error

	// ApplyMovement adds m.Delta to the goal balance and records m.Transaction
	// in one database transaction. It returns ErrInsufficientFunds when the
	// balance would drop below zero.
	ApplyMovement(ctx context.Context, m *Movement) (*Goal, error)
}

// Movement is a signed change to a goal balance together with the transaction that records it.
type Movement struct {
	UserID      uuid.UUID
	GoalID      uuid.UUID
	Delta       decimal.Decimal
	Transaction *transaction.Transaction
}

type Service struct {
	repo   Repository
	events events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Service{repo: repo, events: publisher}
}

type CreateParams struct {
	UserID       uuid.UUID
	Title        string
	Description  string
	TargetAmount decimal.Decimal
	InterestRate decimal.Decimal
	Deadline     time.Time
	Category     Category
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}

	if !transaction.ValidAmount(p.TargetAmount) {
		return ErrInvalidTarget
	}

	if p.InterestRate.IsNegative() {
		return ErrInvalidRate
	}

	if p.Deadline.IsZero() {
		return ErrMissingDeadline
	}

	if _, err := ParseCategory(string(p.Category)); err != nil {
		return err
	}

	return nil
}

type UpdateParams struct {
	Title        *string
	Description  *string
	TargetAmount *decimal.Decimal
	InterestRate *decimal.Decimal
	Deadline     *time.Time
	Category     *Category
}

type MoveParams struct {
	UserID      uuid.UUID
	GoalID      uuid.UUID
	Amount      decimal.Decimal
	Method      transaction.Method
	Description string
	Date        time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	g := &Goal{
		UserID:        params.UserID,
		Title:         strings.TrimSpace(params.Title),
		Description:   params.Description,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: decimal.Zero,
		InterestRate:  params.InterestRate,
		Deadline:      params.Deadline,
		Category:      params.Category,
	}
	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

// Update edits goal metadata. The current amount is never changed here.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, ErrMissingTitle
		}

		g.Title = title
	}

	if params.Description != nil {
		g.Description = *params.Description
	}

	if params.TargetAmount != nil {
		if !transaction.ValidAmount(*params.TargetAmount) {
			return nil, ErrInvalidTarget
		}

		g.TargetAmount = *params.TargetAmount
	}

	if params.InterestRate != nil {
		if params.InterestRate.IsNegative() {
			return nil, ErrInvalidRate
		}

		g.InterestRate = *params.InterestRate
	}

	if params.Deadline != nil {
		if params.Deadline.IsZero() {
			return nil, ErrMissingDeadline
		}

		g.Deadline = *params.Deadline
	}

	if params.Category != nil {
		c, err := ParseCategory(string(*params.Category))
		if err != nil {
			return nil, err
		}

		g.Category = c
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// Delete removes the goal. Plans pointing at it are kept and reported as orphaned.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, userID, id)
}

func (s *Service) Deposit(ctx context.Context, params MoveParams) (*Goal, *transaction.Transaction, error) {
	return s.move(ctx, transaction.TypeDeposit, params)
}

func (s *Service) Withdraw(ctx context.Context, params MoveParams) (*Goal, *transaction.Transaction, error) {
	return s.move(ctx, transaction.TypeWithdrawal, params)
}

func (s *Service) Yield(ctx context.Context, params MoveParams) (*Goal, *transaction.Transaction, error) {
	return s.move(ctx, transaction.TypeYield, params)
}

var movementEvents = map[transaction.Type]events.Type{
	transaction.TypeDeposit:    events.TypeGoalDeposit,
	transaction.TypeWithdrawal: events.TypeGoalWithdrawal,
	transaction.TypeYield:      events.TypeGoalYield,
}

var movementLabels = map[transaction.Type]string{
	transaction.TypeDeposit:    "Depósito",
	transaction.TypeWithdrawal: "Resgate",
	transaction.TypeYield:      "Rendimento",
}

func (s *Service) move(ctx context.Context, typ transaction.Type, params MoveParams) (*Goal, *transaction.Transaction, error) {
	if !transaction.ValidAmount(params.Amount) {
		return nil, nil, ErrInvalidAmount
	}

	if params.Method == "" {
		params.Method = transaction.MethodManual
	}

	if _, err := transaction.ParseMethod(string(params.Method)); err != nil {
		return nil, nil, err
	}

	g, err := s.repo.GetGoal(ctx, params.UserID, params.GoalID)
	if err != nil {
		return nil, nil, err
	}

	if typ == transaction.TypeWithdrawal && params.Amount.GreaterThan(g.CurrentAmount) {
		return nil, nil, ErrInsufficientFunds
	}

	date := params.Date
	if date.IsZero() {
		date = Today()
	}

	description := params.Description
	if description == "" {
		description = movementLabels[typ] + ": " + g.Title
	}

	delta := params.Amount
	if typ == transaction.TypeWithdrawal {
		delta = delta.Neg()
	}

	goalID := g.ID
	tx := &transaction.Transaction{
		UserID:      params.UserID,
		GoalID:      &goalID,
		Amount:      params.Amount,
		Type:        typ,
		Category:    string(g.Category),
		Description: description,
		Method:      params.Method,
		Date:        date,
	}

	updated, err := s.repo.ApplyMovement(ctx, &Movement{
		UserID:      params.UserID,
		GoalID:      g.ID,
		Delta:       delta,
		Transaction: tx,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("applying %s: %w", typ, err)
	}

	s.publish(ctx, movementEvents[typ], updated, tx)

	return updated, tx, nil
}

type movementPayload struct {
	GoalID        uuid.UUID       `json:"goal_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
}

// publish is best effort: the movement is already committed.
func (s *Service) publish(ctx context.Context, typ events.Type, g *Goal, tx *transaction.Transaction) {
	e, err := events.New(typ, g.UserID, movementPayload{
		GoalID:        g.ID,
		TransactionID: tx.ID,
		Amount:        tx.Amount,
		Balance:       g.CurrentAmount,
	})
	if err == nil {
		err = s.events.Publish(ctx, e)
	}

	if err != nil {
		slog.Warn("failed to publish goal event", "type", typ, "goal_id", g.ID, "error", err)
	}
}

// Today is the current UTC date at midnight.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
