package category

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the transaction type a category applies to.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindIncome, KindExpense:
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

var (
	ErrNotFound    = errors.New("category not found")
	ErrInvalidKind = errors.New("category type must be income or expense")
	ErrMissingName = errors.New("category name is required")
	ErrBuiltin     = errors.New("built-in categories cannot be changed")
	ErrDuplicate   = errors.New("category already exists")
)

var defaults = map[Kind][]string{
	KindExpense: {"food", "transport", "housing", "health", "education", "leisure", "shopping", "subscriptions", "other"},
	KindIncome:  {"salary", "freelance", "investments", "gifts", "other"},
}

// Defaults returns the built-in category names for kind.
func Defaults(kind Kind) []string {
	return slices.Clone(defaults[kind])
}

func IsDefault(kind Kind, name string) bool {
	return slices.Contains(defaults[kind], Normalize(name))
}

// Category is a user-defined category. Built-in ones have a zero ID.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Kind      Kind
	Builtin   bool
	CreatedAt time.Time
}

// DisplayName is Name in title case, e.g. "home office" -> "Home Office".
func (c Category) DisplayName() string {
	return DisplayName(c.Name)
}

func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

func DisplayName(name string) string {
	return titleCaser.String(name)
}
