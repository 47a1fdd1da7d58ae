package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, raw string) (*matching.Match, error) {
	query := `
		SELECT preferred_description, category
		FROM description_mappings
		WHERE user_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var m matching.Match

	err := s.db.QueryRowContext(ctx, query, userID, raw).Scan(&m.Description, &m.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &m, nil
}

func (s *Store) CreateRule(ctx context.Context, r *matching.Rule) error {
	query := `
		INSERT INTO description_mappings (id, user_id, raw_pattern, preferred_description, category, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	r.ID = uuid.New()

	_, err := s.db.ExecContext(ctx, query, r.ID, r.UserID, r.Pattern, r.Description, r.Category)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
