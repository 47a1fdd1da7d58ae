package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	// UpsertBudget creates the budget or replaces the limit of the existing one for the category.
	UpsertBudget(ctx context.Context, b *Budget) error
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	DeleteBudget(ctx context.Context, userID, id uuid.UUID) error
}

type CategoryChecker interface {
	Allowed(ctx context.Context, userID uuid.UUID, kind, name string) (bool, error)
}

type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	repo         Repository
	categories   CategoryChecker
	transactions TransactionLister
}

func NewService(repo Repository, categories CategoryChecker, transactions TransactionLister) *Service {
	return &Service{repo: repo, categories: categories, transactions: transactions}
}

type CreateParams struct {
	UserID      uuid.UUID
	Category    string
	LimitAmount decimal.Decimal
}

// Create sets the limit for a category. A second budget for the same category replaces the first.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if !transaction.ValidAmount(params.LimitAmount) {
		return nil, ErrInvalidLimit
	}

	category := transaction.NormalizeCategory(params.Category)

	ok, err := s.categories.Allowed(ctx, params.UserID, string(transaction.TypeExpense), category)
	if err != nil {
		return nil, fmt.Errorf("checking category: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotAllowed, category)
	}

	b := &Budget{
		UserID:      params.UserID,
		Category:    category,
		LimitAmount: params.LimitAmount,
	}
	if err := s.repo.UpsertBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}

// Status tracks every budget of the user against expenses in the month of asOf.
func (s *Service) Status(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]Status, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(budgets) == 0 {
		return []Status{}, nil
	}

	start, end := MonthRange(asOf)
	expense := transaction.TypeExpense

	txs, err := s.transactions.List(ctx, userID, transaction.ListFilter{
		Type:      &expense,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	return Track(budgets, txs, asOf), nil
}
