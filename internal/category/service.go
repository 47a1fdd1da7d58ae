package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
	Exists(ctx context.Context, userID uuid.UUID, kind Kind, name string) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, kind Kind, name string) (*Category, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	name = Normalize(name)
	if name == "" {
		return nil, ErrMissingName
	}

	if IsDefault(kind, name) {
		return nil, ErrDuplicate
	}

	c := &Category{UserID: userID, Name: name, Kind: kind}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// List returns the built-in categories followed by the user's own.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	custom, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*Category

	for _, kind := range []Kind{KindExpense, KindIncome} {
		for _, name := range defaults[kind] {
			out = append(out, &Category{Name: name, Kind: kind, Builtin: true})
		}
	}

	return append(out, custom...), nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrBuiltin
	}

	return s.repo.DeleteCategory(ctx, userID, id)
}

// Allowed reports whether name is a built-in or user category of the given kind.
// Kinds other than income and expense have no category list and are never allowed.
func (s *Service) Allowed(ctx context.Context, userID uuid.UUID, kind, name string) (bool, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return false, nil
	}

	name = Normalize(name)
	if name == "" {
		return false, nil
	}

	if IsDefault(k, name) {
		return true, nil
	}

	ok, err := s.repo.Exists(ctx, userID, k, name)
	if err != nil {
		return false, fmt.Errorf("looking up category: %w", err)
	}

	return ok, nil
}
