package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/goal"
	txstore "github.com/MrJamesThe3rd/vault/internal/transaction/store"
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

// Expected column order: id, user_id, title, description, target_amount, current_amount,
// interest_rate, deadline, category, created_at, updated_at
func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	var category string

	var description sql.NullString

	if err := s.Scan(
		&g.ID, &g.UserID, &g.Title, &description, &g.TargetAmount, &g.CurrentAmount,
		&g.InterestRate, &g.Deadline, &category, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	g.Description = description.String
	g.Category = goal.Category(category)

	return &g, nil
}

const selectGoalColumns = `
	id, user_id, title, description, target_amount, current_amount,
	interest_rate, deadline, category, created_at, updated_at
`

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (user_id, title, description, target_amount, current_amount, interest_rate, deadline, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.UserID,
		g.Title,
		g.Description,
		g.TargetAmount,
		g.CurrentAmount,
		g.InterestRate,
		g.Deadline,
		g.Category,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal rows: %w", err)
	}

	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET title = $1, description = $2, target_amount = $3, interest_rate = $4,
			deadline = $5, category = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		g.Title,
		g.Description,
		g.TargetAmount,
		g.InterestRate,
		g.Deadline,
		g.Category,
		g.ID,
		g.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	return expectOne(res)
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return goal.ErrNotFound
	}

	return nil
}

func (s *Store) ApplyMovement(ctx context.Context, m *goal.Movement) (*goal.Goal, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning movement tx: %w", err)
	}
	defer dbTx.Rollback()

	g, err := ApplyMovementTx(ctx, dbTx, m)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing movement: %w", err)
	}

	return g, nil
}

// ApplyMovementTx performs the balance update and transaction insert on an
// open database transaction. The plan runner uses it to keep an execution and
// its dedup record in the same commit.
func ApplyMovementTx(ctx context.Context, dbTx *sql.Tx, m *goal.Movement) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND current_amount + $1 >= 0
		RETURNING ` + selectGoalColumns

	g, err := scanGoal(dbTx.QueryRowContext(ctx, query, m.Delta, m.GoalID, m.UserID))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("updating goal balance: %w", err)
		}

		var exists bool

		existsQuery := `SELECT EXISTS (SELECT 1 FROM goals WHERE id = $1 AND user_id = $2)`
		if err := dbTx.QueryRowContext(ctx, existsQuery, m.GoalID, m.UserID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("checking goal: %w", err)
		}

		if exists {
			return nil, goal.ErrInsufficientFunds
		}

		return nil, goal.ErrNotFound
	}

	tx := m.Transaction
	if tx.Category == "" {
		tx.Category = string(g.Category)
	}

	if err := dbTx.QueryRowContext(ctx, txstore.InsertQuery, txstore.InsertArgs(tx)...).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, fmt.Errorf("recording movement: %w", err)
	}

	return g, nil
}
