package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/importer/statement"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type Service struct {
	parser    Parser
	suggester Suggester
}

// NewService uses the statement parser when parser is nil. suggester may be nil.
func NewService(parser Parser, suggester Suggester) *Service {
	if parser == nil {
		parser = statement.NewParser()
	}

	return &Service{parser: parser, suggester: suggester}
}

// Import parses a statement file into params owned by userID, applying the
// user's learned rules to description and category. Rows without a rule keep
// the raw description and the default category.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, r io.Reader) ([]transaction.CreateParams, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing statement: %w", err)
	}

	for i := range params {
		params[i].UserID = userID
		params[i].Category = transaction.DefaultCategory

		if s.suggester == nil {
			continue
		}

		match, err := s.suggester.Suggest(ctx, userID, params[i].RawDescription)
		if err != nil {
			slog.Warn("failed to suggest rule", "raw_description", params[i].RawDescription, "error", err)
			continue
		}

		if match == nil {
			continue
		}

		if match.Description != "" {
			params[i].Description = match.Description
		}

		if match.Category != "" {
			params[i].Category = match.Category
		}
	}

	return params, nil
}
