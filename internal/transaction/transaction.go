package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the kind of money movement.
type Type string

const (
	TypeIncome     Type = "income"
	TypeExpense    Type = "expense"
	TypeDeposit    Type = "deposit"
	TypeWithdrawal Type = "withdrawal"
	TypeYield      Type = "yield"
)

// IsGoalMovement reports whether transactions of this type adjust a goal balance.
func (t Type) IsGoalMovement() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeYield:
		return true
	}

	return false
}

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeIncome, TypeExpense, TypeDeposit, TypeWithdrawal, TypeYield:
		return t, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Method is how the money moved.
type Method string

const (
	MethodPix       Method = "pix"
	MethodAutomatic Method = "automatic"
	MethodManual    Method = "manual"
	MethodCard      Method = "card"
	MethodTransfer  Method = "transfer"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodPix, MethodAutomatic, MethodManual, MethodCard, MethodTransfer:
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

// ValidAmount reports whether d is a positive amount in whole cents.
// Amounts are stored with two decimal places and are never rounded on write.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Truncate(2))
}

// DefaultCategory is used when an imported row carries no usable category.
const DefaultCategory = "other"

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero with at most two decimal places")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidMethod      = errors.New("invalid transaction method")
	ErrInvalidDate        = errors.New("transaction date is required")
	ErrTypeChange         = errors.New("transaction type cannot be changed")
	ErrGoalMovement       = errors.New("goal movements are managed through their goal")
	ErrCategoryNotAllowed = errors.New("category is not in the user's category list")
)

// Transaction represents a dated money movement owned by a user.
type Transaction struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	GoalID         *uuid.UUID
	Amount         decimal.Decimal // Always positive, sign implied by Type
	Type           Type
	Category       string
	Description    string
	RawDescription string
	Method         Method
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
