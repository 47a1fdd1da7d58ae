package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"

	"github.com/MrJamesThe3rd/vault/internal/goal"
)

// Frequency is how often a plan contributes to its goal.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
}

// Days is the fixed offset between executions. Monthly is 30 days, not a calendar month.
func (f Frequency) Days() (int, error) {
	switch f {
	case FrequencyDaily:
		return 1, nil
	case FrequencyWeekly:
		return 7, nil
	case FrequencyMonthly:
		return 30, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, f)
}

var (
	ErrNotFound         = errors.New("plan not found")
	ErrInvalidFrequency = errors.New("invalid plan frequency")
	ErrInvalidAmount    = errors.New("plan amount must be greater than zero with at most two decimal places")
	ErrOrphaned         = errors.New("plan goal no longer exists")
)

// Plan is a recurring contribution into one goal.
type Plan struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	GoalID        uuid.UUID
	Amount        decimal.Decimal
	Frequency     Frequency
	NextExecution time.Time
	Active        bool
	CreatedAt     time.Time
	Orphaned      bool          // Derived: the goal was deleted
	GoalCategory  goal.Category // Derived: empty when orphaned
}

// Executable reports whether the plan should run on day today.
func (p *Plan) Executable(today time.Time) bool {
	return p.Active && !p.Orphaned && !p.NextExecution.After(today)
}

// NextExecution adds the frequency offset to from using exact day arithmetic.
func NextExecution(from time.Time, f Frequency) (time.Time, error) {
	days, err := f.Days()
	if err != nil {
		return time.Time{}, err
	}

	return from.AddDate(0, 0, days), nil
}

// Upcoming lists the next n execution dates starting at p.NextExecution.
func Upcoming(p *Plan, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, nil
	}

	days, err := p.Frequency.Days()
	if err != nil {
		return nil, err
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: days,
		Count:    n,
		Dtstart:  p.NextExecution,
	})
	if err != nil {
		return nil, fmt.Errorf("building schedule: %w", err)
	}

	return rule.All(), nil
}
