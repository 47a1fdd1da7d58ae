package goal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the closed set of goal themes.
type Category string

const (
	CategoryTravel    Category = "travel"
	CategoryCar       Category = "car"
	CategoryHome      Category = "home"
	CategoryEducation Category = "education"
	CategoryEmergency Category = "emergency"
	CategoryLeisure   Category = "leisure"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryTravel, CategoryCar, CategoryHome, CategoryEducation, CategoryEmergency, CategoryLeisure:
		return c, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

var (
	ErrNotFound          = errors.New("goal not found")
	ErrMissingTitle      = errors.New("goal title is required")
	ErrInvalidTarget     = errors.New("target amount must be greater than zero with at most two decimal places")
	ErrInvalidRate       = errors.New("interest rate cannot be negative")
	ErrMissingDeadline   = errors.New("goal deadline is required")
	ErrInvalidCategory   = errors.New("invalid goal category")
	ErrInvalidAmount     = errors.New("amount must be greater than zero with at most two decimal places")
	ErrInsufficientFunds = errors.New("withdrawal exceeds the goal balance")
)

// Goal is a savings target with a deadline and an annual interest assumption.
type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Description   string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal // Changed only through deposits, withdrawals and yields
	InterestRate  decimal.Decimal // Annual percentage
	Deadline      time.Time
	Category      Category
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
