package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/events"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

// Runner executes due plans. Each scheduled occurrence runs in its own database
// transaction keyed by (plan id, scheduled date), so repeated or concurrent
// runs never deposit twice for the same occurrence.
type Runner struct {
	repo   Repository
	events events.Publisher
	today  func() time.Time
}

func NewRunner(repo Repository, publisher events.Publisher) *Runner {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Runner{repo: repo, events: publisher, today: goal.Today}
}

// RunDue executes every active plan whose next execution is on or before today,
// once per missed occurrence. Orphaned plans are skipped. A failing plan is
// logged and does not stop the others. It returns the number of deposits made.
func (r *Runner) RunDue(ctx context.Context, today time.Time) (int, error) {
	plans, err := r.repo.ListDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("listing due plans: %w", err)
	}

	executed := 0

	for _, p := range plans {
		if p.Orphaned {
			slog.Warn("skipping orphaned plan", "plan_id", p.ID, "goal_id", p.GoalID)
			continue
		}

		n, err := r.catchUp(ctx, p, today)
		executed += n

		if err != nil {
			slog.Error("failed to execute plan", "plan_id", p.ID, "error", err)
		}
	}

	slog.Info("plan run complete", "due", len(plans), "executed", executed, "date", today.Format(time.DateOnly))

	return executed, nil
}

func (r *Runner) catchUp(ctx context.Context, p *Plan, today time.Time) (int, error) {
	count := 0

	for p.Executable(today) {
		next, err := NextExecution(p.NextExecution, p.Frequency)
		if err != nil {
			return count, err
		}

		done, err := r.executeOnce(ctx, p, p.NextExecution, next)
		if err != nil {
			return count, err
		}

		if !done {
			slog.Info("plan occurrence already executed", "plan_id", p.ID, "scheduled_for", p.NextExecution.Format(time.DateOnly))
			return count, nil
		}

		p.NextExecution = next
		count++
	}

	return count, nil
}

type executedPayload struct {
	PlanID        uuid.UUID       `json:"plan_id"`
	GoalID        uuid.UUID       `json:"goal_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	ScheduledFor  string          `json:"scheduled_for"`
	NextExecution string          `json:"next_execution"`
}

func (r *Runner) executeOnce(ctx context.Context, p *Plan, scheduledFor, next time.Time) (bool, error) {
	etx, err := r.repo.BeginExecution(ctx)
	if err != nil {
		return false, fmt.Errorf("begin execution: %w", err)
	}
	defer etx.Rollback()

	claimed, err := etx.Claim(ctx, p.ID, scheduledFor)
	if err != nil {
		return false, fmt.Errorf("claiming occurrence: %w", err)
	}

	if !claimed {
		return false, nil
	}

	goalID := p.GoalID
	tx := &transaction.Transaction{
		UserID:      p.UserID,
		GoalID:      &goalID,
		Amount:      p.Amount,
		Type:        transaction.TypeDeposit,
		Category:    string(p.GoalCategory),
		Description: "Plano automático",
		Method:      transaction.MethodAutomatic,
		Date:        scheduledFor,
	}

	if _, err := etx.ApplyMovement(ctx, &goal.Movement{
		UserID:      p.UserID,
		GoalID:      p.GoalID,
		Delta:       p.Amount,
		Transaction: tx,
	}); err != nil {
		return false, fmt.Errorf("depositing: %w", err)
	}

	if err := etx.Advance(ctx, p.ID, next); err != nil {
		return false, fmt.Errorf("advancing plan: %w", err)
	}

	if err := etx.Commit(); err != nil {
		return false, fmt.Errorf("committing execution: %w", err)
	}

	e, err := events.New(events.TypePlanExecuted, p.UserID, executedPayload{
		PlanID:        p.ID,
		GoalID:        p.GoalID,
		TransactionID: tx.ID,
		Amount:        p.Amount,
		ScheduledFor:  scheduledFor.Format(time.DateOnly),
		NextExecution: next.Format(time.DateOnly),
	})
	if err == nil {
		err = r.events.Publish(ctx, e)
	}

	if err != nil {
		slog.Warn("failed to publish plan event", "plan_id", p.ID, "error", err)
	}

	return true, nil
}

// Schedule registers RunDue on c using a standard cron spec or descriptor such as "@every 1h".
func (r *Runner) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		if _, err := r.RunDue(ctx, r.today()); err != nil {
			slog.Error("scheduled plan run failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("scheduling plan runner %q: %w", spec, err)
	}

	return id, nil
}
