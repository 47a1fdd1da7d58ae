package importer

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/matching"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

//go:generate mockgen -source=importer.go -destination=importer_mock.go -package=importer
type Parser interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}

type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID, raw string) (*matching.Match, error)
}
