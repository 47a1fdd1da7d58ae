package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

// FallbackName is shown when neither a name nor an email is known.
const FallbackName = "Usuário"

// Profile is the signed-in user as the clients display it.
// TotalBalance is derived from the ledger on every read and never stored.
type Profile struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	AvatarURL    string
	TotalBalance decimal.Decimal
}

// FullName joins first and last name, falling back to the email and then to FallbackName.
func FullName(first, last, email string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name != "" {
		return name
	}

	if email = strings.TrimSpace(email); email != "" {
		return email
	}

	return FallbackName
}

func FromClaims(c *auth.Claims) (*Profile, error) {
	id, err := c.UserID()
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:        id,
		Email:     c.Email,
		FullName:  FullName(c.FirstName, c.LastName, c.Email),
		AvatarURL: c.AvatarURL,
	}, nil
}

// WithBalance returns a copy carrying the balance of summary.
func (p Profile) WithBalance(s aggregate.Summary) Profile {
	p.TotalBalance = s.Totals.Balance
	return p
}

type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type GoalLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error)
}

type Service struct {
	transactions TransactionLister
	goals        GoalLister
}

func NewService(transactions TransactionLister, goals GoalLister) *Service {
	return &Service{transactions: transactions, goals: goals}
}

// Get builds the profile for the claims with its balance recomputed from the ledger.
func (s *Service) Get(ctx context.Context, c *auth.Claims) (*Profile, error) {
	p, err := FromClaims(c)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.List(ctx, p.ID, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	goals, err := s.goals.List(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	summary, err := aggregate.Compute(txs, goals)
	if err != nil {
		return nil, fmt.Errorf("computing balance: %w", err)
	}

	out := p.WithBalance(summary)

	return &out, nil
}
