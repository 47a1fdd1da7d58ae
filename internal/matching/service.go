package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var ErrMissingPattern = errors.New("pattern is required")

// Rule maps a fragment of a bank's raw description to the description and
// category the user prefers for it.
type Rule struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Pattern     string
	Description string
	Category    string
}

// Match is the rule selected for a raw description.
type Match struct {
	Description string
	Category    string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the rule with the longest pattern contained in raw, or nil.
	FindMatch(ctx context.Context, userID uuid.UUID, raw string) (*Match, error)
	CreateRule(ctx context.Context, r *Rule) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up a learned rule for the raw description.
// Returns nil when nothing matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, raw string) (*Match, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	return s.repo.FindMatch(ctx, userID, raw)
}

type LearnParams struct {
	Pattern     string
	Description string
	Category    string
}

// Learn remembers a rule. Either the description or the category may be empty.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, params LearnParams) (*Rule, error) {
	pattern := strings.TrimSpace(params.Pattern)
	if pattern == "" {
		return nil, ErrMissingPattern
	}

	r := &Rule{
		UserID:      userID,
		Pattern:     pattern,
		Description: strings.TrimSpace(params.Description),
		Category:    transaction.NormalizeCategory(params.Category),
	}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}
