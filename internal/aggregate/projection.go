package aggregate

import (
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/goal"
)

const (
	daysPerYear   = 365.25
	secondsPerDay = 24 * 60 * 60
)

var hundred = decimal.NewFromInt(100)

func validateGoal(g *goal.Goal) error {
	if !g.TargetAmount.IsPositive() {
		return &ValidationError{Field: "target_amount", Index: -1, Err: ErrInvalidTarget}
	}

	if g.CurrentAmount.IsNegative() {
		return &ValidationError{Field: "current_amount", Index: -1, Err: ErrNegativeAmount}
	}

	if g.InterestRate.IsNegative() {
		return &ValidationError{Field: "interest_rate", Index: -1, Err: ErrNegativeRate}
	}

	return nil
}

// ProgressPercent is current/target as a whole percentage, capped at 100.
func ProgressPercent(g *goal.Goal) (int, error) {
	if err := validateGoal(g); err != nil {
		return 0, err
	}

	pct := g.CurrentAmount.Mul(hundred).Div(g.TargetAmount).Round(0)
	if pct.GreaterThan(hundred) {
		return 100, nil
	}

	return int(pct.IntPart()), nil
}

// YearsBetween is the span from asOf to deadline in 365.25-day years. A deadline
// in the past yields 0. Unix seconds are used rather than a time.Duration,
// which caps out near 292 years.
func YearsBetween(asOf, deadline time.Time) float64 {
	secs := deadline.Unix() - asOf.Unix()
	if secs <= 0 {
		return 0
	}

	return float64(secs) / secondsPerDay / daysPerYear
}

// ProjectedValue compounds the current amount annually at the goal rate until
// the deadline, rounded to cents. After the deadline it is the current amount.
func ProjectedValue(g *goal.Goal, asOf time.Time) (decimal.Decimal, error) {
	if err := validateGoal(g); err != nil {
		return decimal.Zero, err
	}

	years := YearsBetween(asOf, g.Deadline)
	if years == 0 || g.InterestRate.IsZero() {
		return g.CurrentAmount, nil
	}

	rate, _ := g.InterestRate.Div(hundred).Float64()
	factor := math.Pow(1+rate, years)

	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return decimal.Zero, &ValidationError{Field: "interest_rate", Index: -1, Err: ErrNegativeRate}
	}

	return g.CurrentAmount.Mul(decimal.NewFromFloat(factor)).Round(2), nil
}

// EstimatedYield is ProjectedValue minus the current amount.
func EstimatedYield(g *goal.Goal, asOf time.Time) (decimal.Decimal, error) {
	projected, err := ProjectedValue(g, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	return projected.Sub(g.CurrentAmount), nil
}

// SortByDeadline returns goals ordered by nearest deadline. Ties keep input order.
func SortByDeadline(goals []*goal.Goal) []*goal.Goal {
	out := slices.Clone(goals)
	slices.SortStableFunc(out, func(a, b *goal.Goal) int {
		return a.Deadline.Compare(b.Deadline)
	})

	return out
}

type GoalView struct {
	Goal           *goal.Goal
	Progress       int
	Projected      decimal.Decimal
	EstimatedYield decimal.Decimal
}

// Project builds the dashboard view of every goal, nearest deadline first.
func Project(goals []*goal.Goal, asOf time.Time) ([]GoalView, error) {
	sorted := SortByDeadline(goals)
	views := make([]GoalView, 0, len(sorted))

	for _, g := range sorted {
		progress, err := ProgressPercent(g)
		if err != nil {
			return nil, err
		}

		projected, err := ProjectedValue(g, asOf)
		if err != nil {
			return nil, err
		}

		views = append(views, GoalView{
			Goal:           g,
			Progress:       progress,
			Projected:      projected,
			EstimatedYield: projected.Sub(g.CurrentAmount),
		})
	}

	return views, nil
}
