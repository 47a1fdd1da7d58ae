package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/goal"
	goalstore "github.com/MrJamesThe3rd/vault/internal/goal/store"
	"github.com/MrJamesThe3rd/vault/internal/plan"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, goal_id, amount, frequency, next_execution, active, created_at, orphaned, goal_category
func scanPlan(s scanner) (*plan.Plan, error) {
	var p plan.Plan

	var frequency, category string

	if err := s.Scan(
		&p.ID, &p.UserID, &p.GoalID, &p.Amount, &frequency, &p.NextExecution, &p.Active, &p.CreatedAt, &p.Orphaned,
		&category,
	); err != nil {
		return nil, err
	}

	p.Frequency = plan.Frequency(frequency)
	p.GoalCategory = goal.Category(category)

	return &p, nil
}

const selectPlan = `
	SELECT p.id, p.user_id, p.goal_id, p.amount, p.frequency, p.next_execution, p.active, p.created_at,
		g.id IS NULL AS orphaned, COALESCE(g.category, '')
	FROM automatic_plans p
	LEFT JOIN goals g ON g.id = p.goal_id AND g.user_id = p.user_id
`

func (s *Store) CreatePlan(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO automatic_plans (user_id, goal_id, amount, frequency, next_execution, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.UserID,
		p.GoalID,
		p.Amount,
		p.Frequency,
		p.NextExecution,
		p.Active,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating plan: %w", err)
	}

	return nil
}

func (s *Store) GetPlan(ctx context.Context, userID, id uuid.UUID) (*plan.Plan, error) {
	p, err := scanPlan(s.db.QueryRowContext(ctx, selectPlan+` WHERE p.id = $1 AND p.user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, plan.ErrNotFound
		}

		return nil, fmt.Errorf("getting plan: %w", err)
	}

	return p, nil
}

func (s *Store) ListPlans(ctx context.Context, userID uuid.UUID) ([]*plan.Plan, error) {
	return s.list(ctx, selectPlan+` WHERE p.user_id = $1 ORDER BY p.next_execution ASC, p.created_at ASC`, userID)
}

func (s *Store) ListDue(ctx context.Context, today time.Time) ([]*plan.Plan, error) {
	return s.list(ctx, selectPlan+` WHERE p.active AND p.next_execution <= $1 ORDER BY p.next_execution ASC`, today)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*plan.Plan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.Plan

	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}

		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}

	return plans, nil
}

func (s *Store) SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE automatic_plans SET active = $1 WHERE id = $2 AND user_id = $3`, active, id, userID)
	if err != nil {
		return fmt.Errorf("toggling plan: %w", err)
	}

	return expectOne(res)
}

func (s *Store) DeletePlan(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM automatic_plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return plan.ErrNotFound
	}

	return nil
}

type executionTx struct {
	tx *sql.Tx
}

func (s *Store) BeginExecution(ctx context.Context) (plan.ExecutionTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning execution tx: %w", err)
	}

	return &executionTx{tx: dbTx}, nil
}

func (e *executionTx) Commit() error   { return e.tx.Commit() }
func (e *executionTx) Rollback() error { return e.tx.Rollback() }

// Claim inserts the dedup row. A concurrent runner holding the same key blocks
// here until the first one commits, then sees the conflict.
func (e *executionTx) Claim(ctx context.Context, planID uuid.UUID, scheduledFor time.Time) (bool, error) {
	query := `
		INSERT INTO plan_executions (plan_id, scheduled_for, executed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (plan_id, scheduled_for) DO NOTHING
	`

	res, err := e.tx.ExecContext(ctx, query, planID, scheduledFor)
	if err != nil {
		return false, fmt.Errorf("claiming plan execution: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return n == 1, nil
}

func (e *executionTx) ApplyMovement(ctx context.Context, m *goal.Movement) (*goal.Goal, error) {
	return goalstore.ApplyMovementTx(ctx, e.tx, m)
}

func (e *executionTx) Advance(ctx context.Context, planID uuid.UUID, next time.Time) error {
	res, err := e.tx.ExecContext(ctx, `UPDATE automatic_plans SET next_execution = $1 WHERE id = $2`, next, planID)
	if err != nil {
		return fmt.Errorf("advancing plan: %w", err)
	}

	return expectOne(res)
}
